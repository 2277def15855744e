// Package editor models the "active editor" of the assistant as a file on disk.
package editor

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNoActiveFile is returned when an operation needs an open file
var ErrNoActiveFile = errors.New("no active file")

// Editor is the buffer the assistant reads context from and patches in place
type Editor interface {
	// ActiveFile returns the absolute path of the open file, or "" when none
	ActiveFile() string
	Content() (string, error)
	Replace(content string) error
	Open(path string) error
}

// Notifier is implemented by editors that report when the active file changes
type Notifier interface {
	OnChange(fn func(path string))
}

// File is an Editor whose buffer is the file itself
type File struct {
	mu       sync.RWMutex
	active   string
	logger   *slog.Logger
	onChange func(path string)
}

var (
	_ Editor   = (*File)(nil)
	_ Notifier = (*File)(nil)
)

// NewFile creates an editor with path open; an empty path means no file open
func NewFile(path string, logger *slog.Logger) (*File, error) {
	f := &File{logger: logger}
	if path == "" {
		return f, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	f.active = abs
	return f, nil
}

func (f *File) ActiveFile() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.active
}

// Content reads the active file
func (f *File) Content() (string, error) {
	path := f.ActiveFile()
	if path == "" {
		return "", ErrNoActiveFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read active file: %w", err)
	}
	return string(data), nil
}

// Replace overwrites the whole buffer, keeping the file mode when it exists
func (f *File) Replace(content string) error {
	path := f.ActiveFile()
	if path == "" {
		return ErrNoActiveFile
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to replace active file: %w", err)
	}

	if f.logger != nil {
		f.logger.Debug("Replaced editor buffer", "path", path, "bytes", len(content))
	}
	return nil
}

// Open makes path the active file
func (f *File) Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("cannot open %s: %w", path, err)
	}

	f.mu.Lock()
	f.active = abs
	onChange := f.onChange
	f.mu.Unlock()

	if f.logger != nil {
		f.logger.Debug("Opened file in editor", "path", abs)
	}
	if onChange != nil {
		onChange(abs)
	}
	return nil
}

// Close clears the active file
func (f *File) Close() {
	f.mu.Lock()
	was := f.active
	f.active = ""
	onChange := f.onChange
	f.mu.Unlock()

	if was != "" && onChange != nil {
		onChange("")
	}
}

// OnChange registers fn to run after Open or Close changes the active file;
// path is "" after Close
func (f *File) OnChange(fn func(path string)) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

// languageIDs maps extensions to editor language identifiers
var languageIDs = map[string]string{
	".js":   "javascript",
	".jsx":  "javascriptreact",
	".ts":   "typescript",
	".tsx":  "typescriptreact",
	".py":   "python",
	".go":   "go",
	".java": "java",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".cc":   "cpp",
	".hpp":  "cpp",
	".cs":   "csharp",
	".rs":   "rust",
	".rb":   "ruby",
	".php":  "php",
	".html": "html",
	".css":  "css",
	".json": "json",
	".xml":  "xml",
	".yml":  "yaml",
	".yaml": "yaml",
	".md":   "markdown",
	".sh":   "shellscript",
	".ps1":  "powershell",
	".toml": "toml",
}

// LanguageID guesses the language of path from its extension
func LanguageID(path string) string {
	if id, ok := languageIDs[strings.ToLower(filepath.Ext(path))]; ok {
		return id
	}
	return "plaintext"
}
