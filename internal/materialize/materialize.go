// Package materialize writes extracted files under the workspace root.
package materialize

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/chriscorrea/astrelium/internal/editor"
	"github.com/chriscorrea/astrelium/internal/extract"
)

var (
	// ErrOutsideWorkspace is reported for paths that resolve outside the root
	ErrOutsideWorkspace = errors.New("path escapes the workspace root")

	// ErrNoActiveEditor is returned by ApplyToActive when no file is open
	ErrNoActiveEditor = errors.New("no active editor")
)

// DefaultBackupSuffix is appended to the original path for in-place backups
const DefaultBackupSuffix = ".backup"

// Status is the outcome of one file write
type Status string

const (
	StatusCreated   Status = "created"
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
	StatusReplaced  Status = "replaced"
	StatusError     Status = "error"
)

// Entry records what happened to a single extracted file
type Entry struct {
	Path       string // as extracted
	AbsPath    string
	Status     Status
	BackupPath string // set for StatusReplaced
	Err        error
}

// OK reports whether the file reached the disk (or already matched)
func (e Entry) OK() bool {
	return e.Status != StatusError
}

// Report is the result of Apply
type Report struct {
	Entries []Entry
	Opened  string // file focused in the editor afterwards, if any
	OpenErr error
}

// Written returns the extracted paths that did not fail
func (r Report) Written() []string {
	var paths []string
	for _, e := range r.Entries {
		if e.OK() {
			paths = append(paths, e.Path)
		}
	}
	return paths
}

// Failed reports how many entries have StatusError
func (r Report) Failed() int {
	n := 0
	for _, e := range r.Entries {
		if !e.OK() {
			n++
		}
	}
	return n
}

// Materializer writes files below Root and patches the active editor
type Materializer struct {
	Root         string
	Editor       editor.Editor // may be nil
	BackupSuffix string
	OpenFirst    bool
	Logger       *slog.Logger
}

// New creates a Materializer rooted at root
func New(root string, ed editor.Editor, logger *slog.Logger) (*Materializer, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root %s: %w", root, err)
	}

	return &Materializer{
		Root:         abs,
		Editor:       ed,
		BackupSuffix: DefaultBackupSuffix,
		OpenFirst:    true,
		Logger:       logger,
	}, nil
}

// Apply writes every file, continuing past per-file failures.
// With modification set, a file that is the active editor's file is backed up
// and replaced through the editor instead of being written directly.
func (m *Materializer) Apply(files []extract.ExtractedFile, modification bool) Report {
	var report Report

	for _, file := range files {
		entry := m.applyOne(file, modification)
		if entry.Err != nil {
			m.debug("Failed to materialize file", "path", file.Path, "error", entry.Err)
		} else {
			m.debug("Materialized file", "path", file.Path, "status", entry.Status)
		}
		report.Entries = append(report.Entries, entry)
	}

	if m.OpenFirst && m.Editor != nil {
		for _, e := range report.Entries {
			if !e.OK() {
				continue
			}
			if err := m.Editor.Open(e.AbsPath); err != nil {
				report.OpenErr = err
			} else {
				report.Opened = e.AbsPath
			}
			break
		}
	}

	return report
}

func (m *Materializer) applyOne(file extract.ExtractedFile, modification bool) Entry {
	entry := Entry{Path: file.Path}

	abs, err := m.Resolve(file.Path)
	if err != nil {
		entry.Status = StatusError
		entry.Err = err
		return entry
	}
	entry.AbsPath = abs

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		entry.Status = StatusError
		entry.Err = fmt.Errorf("failed to create directory: %w", err)
		return entry
	}

	if modification && m.isActive(abs) {
		backup, err := m.ApplyToActive(file.Content)
		if err != nil {
			entry.Status = StatusError
			entry.Err = err
			return entry
		}
		entry.Status = StatusReplaced
		entry.BackupPath = backup
		return entry
	}

	existing, readErr := os.ReadFile(abs)
	switch {
	case readErr == nil && xxh3.Hash(existing) == xxh3.HashString(file.Content):
		entry.Status = StatusUnchanged
		return entry
	case readErr == nil:
		entry.Status = StatusUpdated
	default:
		entry.Status = StatusCreated
	}

	if err := os.WriteFile(abs, []byte(file.Content), 0o644); err != nil {
		entry.Status = StatusError
		entry.Err = fmt.Errorf("failed to write file: %w", err)
	}
	return entry
}

// ApplyToActive backs up the active editor's buffer to <file><suffix>
// and replaces the buffer with content
func (m *Materializer) ApplyToActive(content string) (string, error) {
	if m.Editor == nil || m.Editor.ActiveFile() == "" {
		return "", ErrNoActiveEditor
	}
	active := m.Editor.ActiveFile()

	current, err := m.Editor.Content()
	if err != nil {
		return "", err
	}

	backup := active + m.suffix()
	if err := os.WriteFile(backup, []byte(current), 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup %s: %w", backup, err)
	}

	if err := m.Editor.Replace(content); err != nil {
		return backup, err
	}

	m.debug("Applied code to active file", "path", active, "backup", backup)
	return backup, nil
}

// Resolve joins rel onto Root and rejects results outside it
func (m *Materializer) Resolve(rel string) (string, error) {
	if strings.TrimSpace(rel) == "" {
		return "", fmt.Errorf("empty file path")
	}

	abs := filepath.Join(m.Root, filepath.FromSlash(rel))
	inside, err := filepath.Rel(m.Root, abs)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", rel, ErrOutsideWorkspace)
	}
	if inside == "." {
		return "", fmt.Errorf("%s: path is the workspace root", rel)
	}
	return abs, nil
}

func (m *Materializer) isActive(abs string) bool {
	if m.Editor == nil {
		return false
	}
	active := m.Editor.ActiveFile()
	return active != "" && filepath.Clean(active) == abs
}

func (m *Materializer) suffix() string {
	if m.BackupSuffix == "" {
		return DefaultBackupSuffix
	}
	return m.BackupSuffix
}

func (m *Materializer) debug(msg string, args ...any) {
	if m.Logger != nil {
		m.Logger.Debug(msg, args...)
	}
}
