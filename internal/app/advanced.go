package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chriscorrea/astrelium/internal/extract"
	"github.com/chriscorrea/astrelium/internal/history"
	"github.com/chriscorrea/astrelium/internal/materialize"
	"github.com/chriscorrea/astrelium/internal/template"
	"github.com/chriscorrea/astrelium/internal/workspace"
)

// advancedCommand is a canned request recognised before classification
type advancedCommand struct {
	Name     string
	Triggers []string // lowercase substrings; any one selects the command

	// NeedsFile names the verb of "Please open a file to <verb>." when
	// the command works on the active file
	NeedsFile string
	FailVerb  string // "Error <FailVerb>: ..." when the file cannot be read

	Template    string
	Backup      bool // copy the active file to <file>.backup after generation
	CreateFiles bool // write any files found in the reply

	vars func(ctx context.Context, s *Session, lower string) map[string]string
}

// advancedCommands is checked in order; the first trigger hit wins
var advancedCommands = []advancedCommand{
	{
		Name:      "review",
		Triggers:  []string{"review code", "code review"},
		NeedsFile: "review",
		FailVerb:  "reviewing code",
		Template:  template.Review,
	},
	{
		Name:     "architecture",
		Triggers: []string{"suggest architecture", "architectural improvements"},
		Template: template.Architecture,
		vars:     analysisVars,
	},
	{
		Name:        "tests",
		Triggers:    []string{"generate tests", "create tests"},
		NeedsFile:   "generate tests for",
		FailVerb:    "generating tests",
		Template:    template.Tests,
		CreateFiles: true,
	},
	{
		Name:        "optimize",
		Triggers:    []string{"optimize code", "optimize this"},
		NeedsFile:   "optimize",
		FailVerb:    "optimizing code",
		Template:    template.Optimize,
		Backup:      true,
		CreateFiles: true,
	},
	{
		Name:      "explain",
		Triggers:  []string{"explain code", "explain this"},
		NeedsFile: "explain",
		FailVerb:  "explaining code",
		Template:  template.Explain,
	},
	{
		Name:        "documentation",
		Triggers:    []string{"generate documentation", "create docs"},
		Template:    template.Documentation,
		CreateFiles: true,
		vars:        analysisVars,
	},
	{
		Name:        "refactor",
		Triggers:    []string{"refactor"},
		NeedsFile:   "refactor",
		FailVerb:    "refactoring code",
		Template:    template.Refactor,
		Backup:      true,
		CreateFiles: true,
		vars: func(_ context.Context, _ *Session, lower string) map[string]string {
			return map[string]string{"pattern": refactorPattern(lower)}
		},
	},
	{
		Name:     "security",
		Triggers: []string{"security audit", "check security"},
		Template: template.Security,
		vars:     analysisVars,
	},
	{
		Name:     "migration",
		Triggers: []string{"migrate", "migration plan"},
		Template: template.Migration,
		vars: func(ctx context.Context, s *Session, lower string) map[string]string {
			vars := analysisVars(ctx, s, lower)
			vars["from"] = "current project"
			if snap := s.Snapshot(); snap != nil && snap.ProjectType != "" {
				vars["from"] = snap.ProjectType
			}
			vars["to"] = migrationTarget(lower)
			return vars
		},
	},
	{
		Name:     "performance",
		Triggers: []string{"analyze performance", "performance analysis"},
		Template: template.Performance,
		vars: func(ctx context.Context, s *Session, lower string) map[string]string {
			snap := s.analysis(ctx)
			var entries []string
			if snap != nil {
				entries = snap.EntryPoints
			}
			if len(entries) > 3 {
				entries = entries[:3]
			}
			return map[string]string{
				"project_type": projectType(snap),
				"files":        s.fileSections(entries),
			}
		},
	},
	{
		Name:        "apidocs",
		Triggers:    []string{"api documentation", "api docs"},
		Template:    template.APIDocs,
		CreateFiles: true,
		vars: func(ctx context.Context, s *Session, lower string) map[string]string {
			return map[string]string{
				"project_type": projectType(s.analysis(ctx)),
				"files":        s.fileSections(apiFileNames),
			}
		},
	},
}

// apiFileNames are probed at the workspace root; directories are skipped
var apiFileNames = []string{"app.js", "server.js", "main.py", "app.py", "routes", "controllers", "api"}

var refactorPatterns = []struct{ keyword, name string }{
	{"mvc", "MVC"},
	{"singleton", "Singleton"},
	{"factory", "Factory"},
	{"observer", "Observer"},
}

var migrationTargets = []struct{ keyword, name string }{
	{"to react", "React"},
	{"to vue", "Vue.js"},
	{"to angular", "Angular"},
	{"to python", "Python"},
	{"to node", "Node.js"},
}

// matchAdvanced finds the command triggered by text, if any
func matchAdvanced(text string) (advancedCommand, bool) {
	lower := strings.ToLower(text)
	for _, cmd := range advancedCommands {
		for _, trigger := range cmd.Triggers {
			if strings.Contains(lower, trigger) {
				return cmd, true
			}
		}
	}
	return advancedCommand{}, false
}

// refactorPattern picks the requested pattern; later keywords take precedence
func refactorPattern(lower string) string {
	pattern := "clean code principles"
	for _, p := range refactorPatterns {
		if strings.Contains(lower, p.keyword) {
			pattern = p.name
		}
	}
	return pattern
}

func migrationTarget(lower string) string {
	target := "target technology"
	for _, m := range migrationTargets {
		if strings.Contains(lower, m.keyword) {
			target = m.name
		}
	}
	return target
}

// runAdvanced answers a canned command. The reply goes to history as an
// assistant message; generation failures become system messages.
func (s *Session) runAdvanced(ctx context.Context, t *turn, cmd advancedCommand, text string, out *Outcome) {
	reply, err := s.advancedReply(ctx, cmd, text)
	if err != nil {
		msg := fmt.Sprintf("Error generating response: %v", err)
		s.history.Add(history.RoleSystem, msg)
		t.emit(Event{Kind: EventError, Text: msg})
		out.Err = err
		return
	}

	out.Reply = reply
	s.history.Add(history.RoleAssistant, reply)
	t.emit(Event{Kind: EventResponse, Text: reply})
}

func (s *Session) advancedReply(ctx context.Context, cmd advancedCommand, text string) (string, error) {
	lower := strings.ToLower(text)

	vars := map[string]string{}
	if cmd.vars != nil {
		vars = cmd.vars(ctx, s, lower)
	}

	var active, original string
	if cmd.NeedsFile != "" {
		active = s.activeFile()
		if active == "" {
			return fmt.Sprintf("Please open a file to %s.", cmd.NeedsFile), nil
		}
		data, err := os.ReadFile(active)
		if err != nil {
			return fmt.Sprintf("Error %s: %v", cmd.FailVerb, err), nil
		}
		original = string(data)
		vars["code"] = original
	}

	s.debug("Running advanced command", "command", cmd.Name, "file", active)

	reply, err := s.generate(ctx, template.Render(cmd.Template, vars), s.advancedOptions)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		reply = NoResponseText
	}

	backedUp := false
	if cmd.CreateFiles {
		// a rewrite of the active file goes through the editor's backup path
		report := s.createFilesQuietly(reply, cmd.Backup)
		for _, e := range report.Entries {
			if e.BackupPath != "" {
				backedUp = true
			}
		}
	}

	if cmd.Backup && active != "" && !backedUp {
		backup := active + s.materializer.BackupSuffix
		if err := os.WriteFile(backup, []byte(original), 0o644); err != nil {
			s.warn("Failed to write backup", "path", backup, "error", err)
		} else {
			s.debug("Backed up active file", "path", backup)
		}
	}
	return reply, nil
}

// createFilesQuietly writes the files found in reply without reporting them
func (s *Session) createFilesQuietly(reply string, modification bool) materialize.Report {
	result := extract.Extract(reply)
	if !result.HasFiles() {
		return materialize.Report{}
	}

	m := *s.materializer
	m.OpenFirst = false
	report := m.Apply(result.Files, modification)
	s.debug("Created files from advanced reply", "written", len(report.Written()), "failed", report.Failed())
	return report
}

// analysis returns the snapshot, running the analyzer first when none exists
func (s *Session) analysis(ctx context.Context) *workspace.Snapshot {
	if snap := s.Snapshot(); snap != nil {
		return snap
	}
	return s.RefreshWorkspaceAnalysis(ctx)
}

func analysisVars(ctx context.Context, s *Session, _ string) map[string]string {
	snap := s.analysis(ctx)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		s.warn("Failed to encode workspace analysis", "error", err)
		data = []byte("{}")
	}
	return map[string]string{
		"analysis":     string(data),
		"project_type": projectType(snap),
	}
}

func projectType(snap *workspace.Snapshot) string {
	if snap == nil || snap.ProjectType == "" {
		return workspace.UnknownProject
	}
	return snap.ProjectType
}

// fileSections concatenates "=== name ===" sections for regular files under the root
func (s *Session) fileSections(names []string) string {
	var sb strings.Builder
	for _, name := range names {
		path := filepath.Join(s.materializer.Root, filepath.FromSlash(name))
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			s.debug("Skipping unreadable file", "path", path, "error", err)
			continue
		}
		fmt.Fprintf(&sb, "\n\n=== %s ===\n%s", name, data)
	}
	return sb.String()
}
