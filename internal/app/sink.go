package app

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chriscorrea/astrelium/internal/editor"
	"github.com/chriscorrea/astrelium/internal/format"
	"github.com/chriscorrea/astrelium/internal/materialize"

	"github.com/fatih/color"
)

// WriterSink prints events to a terminal. Replies and suggestions go to Out;
// progress and thinking lines go to Err so piped output stays clean.
type WriterSink struct {
	Out      io.Writer
	Err      io.Writer
	Renderer *format.Renderer

	// Previews prints the highlighted content of each created file
	Previews bool
}

// NewWriterSink creates a sink; a nil renderer prints text unchanged
func NewWriterSink(out, errOut io.Writer, renderer *format.Renderer) *WriterSink {
	return &WriterSink{Out: out, Err: errOut, Renderer: renderer}
}

var (
	green   = color.New(color.FgGreen).SprintFunc()
	red     = color.New(color.FgRed).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	cyan    = color.New(color.FgCyan).SprintFunc()
	magenta = color.New(color.FgMagenta, color.Bold).SprintFunc()
	bold    = color.New(color.Bold).SprintFunc()
)

// fileLabel names what happened to a materialized file
func fileLabel(status materialize.Status) string {
	switch status {
	case materialize.StatusUpdated:
		return "Updated:"
	case materialize.StatusUnchanged:
		return "Unchanged:"
	case materialize.StatusReplaced:
		return "Replaced:"
	}
	return "Created:"
}

func (w *WriterSink) Emit(e Event) error {
	var err error
	switch e.Kind {
	case EventThinking:
		_, err = fmt.Fprintln(w.Err, cyan(e.Text))
	case EventResponse:
		_, err = fmt.Fprintln(w.Out, w.Renderer.Markdown(e.Text))
	case EventProgress:
		_, err = fmt.Fprintln(w.Err, bold(e.Text))
	case EventFileCreated:
		_, err = fmt.Fprintf(w.Err, "%s %s\n", green(fileLabel(e.Status)), e.Path)
		if err == nil && w.Previews && e.Text != "" && e.Status != materialize.StatusUnchanged {
			_, err = fmt.Fprintln(w.Out, w.Preview(e.Path, e.Text))
		}
	case EventFileError:
		_, err = fmt.Fprintf(w.Err, "%s %s: %s\n", red("Error creating"), e.Path, e.Text)
	case EventBackup:
		_, err = fmt.Fprintf(w.Err, "%s %s\n", yellow("Backup created:"), e.Path)
	case EventCommand:
		_, err = fmt.Fprintf(w.Err, "%s %s\n", yellow(e.Stage.Label()+":"), e.Text)
	case EventStdout:
		_, err = fmt.Fprintf(w.Out, "%s\n%s\n", green(e.Stage.Label()+" Output:"), strings.TrimRight(e.Text, "\n"))
	case EventStderr:
		_, err = fmt.Fprintf(w.Err, "%s\n%s\n", yellow(e.Stage.Label()+" Warnings:"), strings.TrimRight(e.Text, "\n"))
	case EventCommandError:
		_, err = fmt.Fprintf(w.Err, "%s %s\n", red(e.Stage.Label()+" Error:"), e.Text)
	case EventDebugSuggestion:
		_, err = fmt.Fprintf(w.Out, "%s\n%s\n", magenta("Debug Suggestion:"), w.Renderer.Markdown(e.Text))
	case EventError:
		_, err = fmt.Fprintln(w.Err, red(e.Text))
	default:
		_, err = fmt.Fprintln(w.Out, e.Text)
	}
	return err
}

// Preview highlights a created file for display
func (w *WriterSink) Preview(path, content string) string {
	lang := editor.LanguageID(path)
	return fmt.Sprintf("%s\n%s", bold(filepath.Base(path)), w.Renderer.Code(content, lang))
}
