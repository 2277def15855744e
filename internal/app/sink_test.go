package app

import (
	"bytes"
	"errors"
	"testing"

	"github.com/chriscorrea/astrelium/internal/format"
	"github.com/chriscorrea/astrelium/internal/materialize"
	"github.com/chriscorrea/astrelium/internal/runner"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterSink_Emit(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name      string
		event     Event
		expectOut string
		expectErr string
	}{
		{
			name:      "thinking",
			event:     Event{Kind: EventThinking, Text: ThinkingText},
			expectErr: ThinkingText + "\n",
		},
		{
			name:      "response",
			event:     Event{Kind: EventResponse, Text: "hello"},
			expectOut: "hello\n",
		},
		{
			name:      "file created",
			event:     Event{Kind: EventFileCreated, Path: "app.py", Text: "print(1)"},
			expectErr: "Created: app.py\n",
		},
		{
			name:      "file updated",
			event:     Event{Kind: EventFileCreated, Path: "app.py", Status: materialize.StatusUpdated, Text: "print(2)"},
			expectErr: "Updated: app.py\n",
		},
		{
			name:      "file unchanged",
			event:     Event{Kind: EventFileCreated, Path: "app.py", Status: materialize.StatusUnchanged},
			expectErr: "Unchanged: app.py\n",
		},
		{
			name:      "file replaced",
			event:     Event{Kind: EventFileCreated, Path: "main.js", Status: materialize.StatusReplaced},
			expectErr: "Replaced: main.js\n",
		},
		{
			name:      "file error",
			event:     Event{Kind: EventFileError, Path: "../x", Text: "path escapes the workspace root"},
			expectErr: "Error creating ../x: path escapes the workspace root\n",
		},
		{
			name:      "backup",
			event:     Event{Kind: EventBackup, Path: "main.js.backup"},
			expectErr: "Backup created: main.js.backup\n",
		},
		{
			name:      "command",
			event:     Event{Kind: EventCommand, Stage: runner.StageCompile, Text: "gcc main.c"},
			expectErr: "COMPILE: gcc main.c\n",
		},
		{
			name:      "stdout",
			event:     Event{Kind: EventStdout, Stage: runner.StageRun, Text: "hi\n"},
			expectOut: "RUN Output:\nhi\n",
		},
		{
			name:      "stderr",
			event:     Event{Kind: EventStderr, Stage: runner.StageTest, Text: "warning: x\n"},
			expectErr: "TEST Warnings:\nwarning: x\n",
		},
		{
			name:      "command error",
			event:     Event{Kind: EventCommandError, Stage: runner.StageRun, Text: "command exited with code 1"},
			expectErr: "RUN Error: command exited with code 1\n",
		},
		{
			name:      "debug suggestion",
			event:     Event{Kind: EventDebugSuggestion, Text: "add a semicolon"},
			expectOut: "Debug Suggestion:\nadd a semicolon\n",
		},
		{
			name:      "error",
			event:     Event{Kind: EventError, Text: "Error: boom"},
			expectErr: "Error: boom\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			sink := NewWriterSink(&out, &errOut, nil)

			require.NoError(t, sink.Emit(tt.event))
			assert.Equal(t, tt.expectOut, out.String())
			assert.Equal(t, tt.expectErr, errOut.String())
		})
	}
}

func TestWriterSink_Previews(t *testing.T) {
	color.NoColor = true

	var out, errOut bytes.Buffer
	sink := NewWriterSink(&out, &errOut, format.NewRenderer(false, false, "monokai", 80))
	sink.Previews = true

	require.NoError(t, sink.Emit(Event{Kind: EventFileCreated, Path: "src/app.py", Text: "print(1)"}))
	assert.Equal(t, "Created: src/app.py\n", errOut.String())
	assert.Contains(t, out.String(), "app.py\n")
	assert.Contains(t, out.String(), "print")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestWriterSink_WriteError(t *testing.T) {
	sink := NewWriterSink(failingWriter{}, failingWriter{}, nil)
	assert.Error(t, sink.Emit(Event{Kind: EventResponse, Text: "x"}))
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Emit(Event{Kind: EventThinking}))
	require.NoError(t, r.Emit(Event{Kind: EventResponse, Text: "a"}))
	require.NoError(t, r.Emit(Event{Kind: EventResponse, Text: "b"}))

	assert.Equal(t, []EventKind{EventThinking, EventResponse, EventResponse}, r.Kinds())
	assert.Len(t, r.Of(EventResponse), 2)

	r.Reset()
	assert.Empty(t, r.Events())
}
