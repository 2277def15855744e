package io

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Attachment is a file whose content is sent along with the message
type Attachment struct {
	Path    string
	Content string
}

// Input keeps each message source separate until Message joins them
type Input struct {
	CLIArgs      string
	StdinContent string
	Attachments  []Attachment
}

// ReadInput collects the CLI arguments, piped stdin and attached files.
// A terminal stdin is not read.
func ReadInput(stdin *os.File, cliArgs []string, attachPaths []string) (*Input, error) {
	in := &Input{CLIArgs: strings.TrimSpace(strings.Join(cliArgs, " "))}

	if stdin != nil && IsPiped(stdin) {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
		in.StdinContent = strings.TrimRight(string(content), "\r\n\t ")
	}

	for _, path := range attachPaths {
		if path == "" {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read attached file %q: %w", path, err)
		}
		in.Attachments = append(in.Attachments, Attachment{
			Path:    path,
			Content: strings.TrimRight(string(content), "\r\n\t "),
		})
	}

	return in, nil
}

// IsPiped reports whether f is a pipe or regular file rather than a terminal
func IsPiped(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}

// Empty reports whether no source produced any text
func (in *Input) Empty() bool {
	return in.CLIArgs == "" && in.StdinContent == "" && len(in.Attachments) == 0
}

// Message joins the sources: the request from args first, then piped
// stdin, then each attachment under a file header
func (in *Input) Message() string {
	var parts []string
	if in.CLIArgs != "" {
		parts = append(parts, in.CLIArgs)
	}
	if in.StdinContent != "" {
		parts = append(parts, in.StdinContent)
	}
	for _, a := range in.Attachments {
		parts = append(parts, fmt.Sprintf("=== %s ===\n%s", filepath.Base(a.Path), a.Content))
	}
	return strings.Join(parts, "\n\n")
}
