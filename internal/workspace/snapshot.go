// Package workspace builds the project snapshot that is fed into prompts.
package workspace

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// NoWorkspace is the project context used when no root is configured
const NoWorkspace = "No workspace folder open"

// UnknownProject is the project type when no manifest matches
const UnknownProject = "Unknown"

// Snapshot is the result of one full workspace analysis
type Snapshot struct {
	Root          string                 `json:"root"`
	ProjectType   string                 `json:"projectType"`
	Languages     []string               `json:"languages"`
	Frameworks    []string               `json:"frameworks"`
	Dependencies  Dependencies           `json:"dependencies"`
	Structure     map[string]StructEntry `json:"structure"`
	Configs       []string               `json:"configs"`
	Scripts       Scripts                `json:"scripts"`
	EntryPoints   []string               `json:"entry_points"`
	TestFiles     []string               `json:"test_files"`
	Documentation []string               `json:"documentation"`
	Git           GitInfo                `json:"git_info"`
	FileCount     int                    `json:"file_count"`
	TotalLines    int                    `json:"total_lines"`
	MainFiles     []string               `json:"main_files"`
	AnalyzedAt    time.Time              `json:"analyzed_at"`
}

// NPMManifest holds the package.json sections we read
type NPMManifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Scripts         map[string]string `json:"scripts"`
}

// Dependencies per package manager; the maven and cargo entries are
// presence notes only
type Dependencies struct {
	NPM   *NPMManifest `json:"npm,omitempty"`
	Pip   []string     `json:"pip,omitempty"`
	Maven string       `json:"maven,omitempty"`
	Cargo string       `json:"cargo,omitempty"`
}

type Scripts struct {
	NPM    map[string]string `json:"npm,omitempty"`
	Python string            `json:"python,omitempty"`
	Make   string            `json:"make,omitempty"`
}

type GitInfo struct {
	HasGit        bool   `json:"hasGit"`
	CurrentBranch string `json:"currentBranch,omitempty"`
	HasChanges    bool   `json:"hasChanges"`
}

// StructEntry describes one top-level item of the workspace
type StructEntry struct {
	Type  string   `json:"type"` // "file" or "directory"
	Files []string `json:"files,omitempty"`
	Size  int64    `json:"size,omitempty"`
}

// ProjectContext renders the PROJECT ANALYSIS block
func (s *Snapshot) ProjectContext() string {
	if s == nil || s.Root == "" {
		return NoWorkspace
	}

	var sb strings.Builder
	sb.WriteString("PROJECT ANALYSIS:\n")
	fmt.Fprintf(&sb, "Type: %s\n", s.ProjectType)
	fmt.Fprintf(&sb, "Languages: %s\n", strings.Join(s.Languages, ", "))
	if len(s.Frameworks) > 0 {
		fmt.Fprintf(&sb, "Frameworks: %s\n", strings.Join(s.Frameworks, ", "))
	}
	fmt.Fprintf(&sb, "Files: %d files, %d lines of code\n", s.FileCount, s.TotalLines)
	if len(s.EntryPoints) > 0 {
		fmt.Fprintf(&sb, "Entry Points: %s\n", strings.Join(s.EntryPoints, ", "))
	}
	if len(s.TestFiles) > 0 {
		fmt.Fprintf(&sb, "Tests: %d test files found\n", len(s.TestFiles))
	}
	if s.Git.HasGit {
		fmt.Fprintf(&sb, "Git: Repository on branch %s\n", s.Git.CurrentBranch)
	}
	if s.Dependencies.NPM != nil && len(s.Dependencies.NPM.Dependencies) > 0 {
		deps := sortedKeys(s.Dependencies.NPM.Dependencies)
		if len(deps) > 10 {
			deps = deps[:10]
		}
		fmt.Fprintf(&sb, "NPM Dependencies: %s\n", strings.Join(deps, ", "))
	}
	return sb.String()
}

// Summary renders the WORKSPACE SUMMARY block appended to every prompt
func (s *Snapshot) Summary() string {
	if s == nil || s.Root == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\n=== WORKSPACE SUMMARY ===\n")
	fmt.Fprintf(&sb, "Project Type: %s\n", s.ProjectType)
	fmt.Fprintf(&sb, "Languages: %s\n", strings.Join(s.Languages, ", "))
	fmt.Fprintf(&sb, "Frameworks: %s\n", strings.Join(s.Frameworks, ", "))
	fmt.Fprintf(&sb, "Files: %d\n", s.FileCount)
	if len(s.EntryPoints) > 0 {
		fmt.Fprintf(&sb, "Entry Points: %s\n", strings.Join(s.EntryPoints, ", "))
	}
	return sb.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// appendUnique keeps insertion order
func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, existing := range list {
			if existing == item {
				found = true
				break
			}
		}
		if !found {
			list = append(list, item)
		}
	}
	return list
}
