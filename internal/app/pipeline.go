package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chriscorrea/astrelium/internal/classify"
	"github.com/chriscorrea/astrelium/internal/extract"
	"github.com/chriscorrea/astrelium/internal/materialize"
	"github.com/chriscorrea/astrelium/internal/runner"
)

const originalResponseHeader = "Original Response:\n"

// processCode turns a code reply into files on disk and runs its commands
func (s *Session) processCode(ctx context.Context, t *turn, reply string, out *Outcome) {
	if classify.IsFileModification(reply, s.activeFile() != "") {
		if blocks := extract.CodeBlocks(reply); len(blocks) > 0 {
			s.applyToActive(t, blocks[0].Content, out)
			t.emit(Event{Kind: EventResponse, Text: reply})
			return
		}
	}

	result := extract.Extract(reply)
	out.Extraction = result
	s.debug("Extracted files", "strategy", result.Strategy, "files", len(result.Files))

	switch result.Strategy {
	case extract.NoFiles:
		t.emit(Event{Kind: EventResponse, Text: reply})
		return

	case extract.BareBlocks:
		report := s.materializer.Apply(result.Files, false)
		out.Report = report
		s.emitEntries(t, report, result.Files)
		t.emit(Event{Kind: EventResponse, Text: reply})

	default:
		t.emit(Event{Kind: EventProgress, Text: fmt.Sprintf("Creating %d file(s)...", len(result.Files))})
		report := s.materializer.Apply(result.Files, false)
		out.Report = report
		s.emitEntries(t, report, result.Files)

		if written := report.Written(); len(written) > 0 {
			t.emit(Event{Kind: EventProgress, Text: "Successfully created: " + strings.Join(written, ", ")})
			t.emit(Event{Kind: EventProgress, Text: BuildingText})
		}
	}

	if t.aborted() {
		return
	}
	if len(out.Report.Written()) > 0 && !result.Commands.Empty() {
		s.runCommands(ctx, t, result.Commands, out)
	}

	if result.Strategy != extract.BareBlocks {
		t.emit(Event{Kind: EventResponse, Text: originalResponseHeader + reply})
	}
}

func (s *Session) applyToActive(t *turn, content string, out *Outcome) {
	active := s.activeFile()
	backup, err := s.materializer.ApplyToActive(content)
	if err != nil {
		t.emit(Event{Kind: EventFileError, Path: active, Text: fmt.Sprintf("Error applying code: %v", err)})
		return
	}
	out.Backup = backup
	t.emit(Event{Kind: EventProgress, Path: active, Text: "Code applied to " + filepath.Base(active)})
	t.emit(Event{Kind: EventBackup, Path: backup})
}

// emitEntries reports each materialized file; created events carry the content for previews
func (s *Session) emitEntries(t *turn, report materialize.Report, files []extract.ExtractedFile) {
	content := make(map[string]string, len(files))
	for _, f := range files {
		content[f.Path] = f.Content
	}

	for _, e := range report.Entries {
		if !e.OK() {
			t.emit(Event{Kind: EventFileError, Path: e.Path, Text: e.Err.Error()})
			continue
		}
		t.emit(Event{Kind: EventFileCreated, Path: e.Path, Status: e.Status, Text: content[e.Path]})
		if e.BackupPath != "" {
			t.emit(Event{Kind: EventBackup, Path: e.BackupPath})
		}
	}
}

// runCommands executes the stages in order; a failed compile that the
// policy did not block gets one debug-assist round
func (s *Session) runCommands(ctx context.Context, t *turn, cmds extract.Commands, out *Outcome) {
	r := *s.runner
	r.OnStart = func(stage runner.Stage, command string) {
		t.emit(Event{Kind: EventCommand, Stage: stage, Text: command})
	}

	var failedCompile *runner.StageResult
	out.Stages = r.Run(ctx, cmds, func(res runner.StageResult) {
		s.emitStage(t, res)
		if res.Stage == runner.StageCompile && res.Failed() && !res.Blocked() {
			failedCompile = &res
		}
	})

	if failedCompile == nil || !s.cfg.DebugAssist.Enabled || t.aborted() {
		return
	}

	t.emit(Event{Kind: EventProgress, Text: DebugProgress})
	stop := startSpinner(ctx, s.spinner, s.provider, s.model)
	suggestion, err := s.assistant.Suggest(ctx, failedCompile.ErrorText())
	stop()
	if err != nil {
		out.Err = err
		cause := err
		if inner := errors.Unwrap(err); inner != nil {
			cause = inner
		}
		t.emit(Event{Kind: EventError, Text: fmt.Sprintf("Debug analysis failed: %v", cause)})
		return
	}
	out.Suggestion = suggestion
	t.emit(Event{Kind: EventDebugSuggestion, Stage: runner.StageCompile, Text: suggestion})
}

func (s *Session) emitStage(t *turn, res runner.StageResult) {
	if res.Skipped {
		t.emit(Event{Kind: EventProgress, Stage: res.Stage,
			Text: fmt.Sprintf("%s skipped: %s", res.Stage.Label(), res.Reason)})
		return
	}
	if res.Output.Stdout != "" {
		t.emit(Event{Kind: EventStdout, Stage: res.Stage, Text: res.Output.Stdout})
	}
	if res.Output.Stderr != "" {
		t.emit(Event{Kind: EventStderr, Stage: res.Stage, Text: res.Output.Stderr})
	}
	if res.Err != nil {
		t.emit(Event{Kind: EventCommandError, Stage: res.Stage, Text: res.Err.Error()})
	}
}
