package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipeWith(t *testing.T, content string) *os.File {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	go func() {
		defer w.Close()
		_, _ = w.WriteString(content)
	}()
	return r
}

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	attached := filepath.Join(dir, "main.py")
	require.NoError(t, os.WriteFile(attached, []byte("print('x')\n\n"), 0o644))

	tests := []struct {
		name        string
		stdin       string
		args        []string
		attach      []string
		expectStdin string
		expectArgs  string
		expectMsg   string
	}{
		{
			name:       "args only",
			args:       []string{"create", "a", "flask", "app"},
			expectArgs: "create a flask app",
			expectMsg:  "create a flask app",
		},
		{
			name: "nothing",
		},
		{
			name:        "stdin with trailing whitespace",
			stdin:       "Traceback: boom\n\n\t  ",
			expectStdin: "Traceback: boom",
			expectMsg:   "Traceback: boom",
		},
		{
			name:        "all sources",
			stdin:       "error log",
			args:        []string{"fix", "this"},
			attach:      []string{attached, ""},
			expectStdin: "error log",
			expectArgs:  "fix this",
			expectMsg:   "fix this\n\nerror log\n\n=== main.py ===\nprint('x')",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdin *os.File
			if tt.stdin != "" {
				stdin = pipeWith(t, tt.stdin)
			}

			in, err := ReadInput(stdin, tt.args, tt.attach)
			require.NoError(t, err)

			assert.Equal(t, tt.expectStdin, in.StdinContent)
			assert.Equal(t, tt.expectArgs, in.CLIArgs)
			assert.Equal(t, tt.expectMsg, in.Message())
			assert.Equal(t, tt.expectMsg == "", in.Empty())
		})
	}
}

func TestReadInput_MissingAttachment(t *testing.T) {
	_, err := ReadInput(nil, nil, []string{filepath.Join(t.TempDir(), "nope.txt")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read attached file")
}

func TestReadInput_RegularFileStdin(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString("from file")
	require.NoError(t, err)
	_, err = f.Seek(0, 0)
	require.NoError(t, err)

	in, err := ReadInput(f, []string{"q"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "from file", in.StdinContent)
	assert.True(t, IsPiped(f))
}
