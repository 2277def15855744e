package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"time"
)

const waitDelay = 2 * time.Second

// Output is what a command printed and how it exited
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor runs one shell command in dir
type Executor interface {
	Execute(ctx context.Context, dir, command string) (Output, error)
}

// ShellExecutor runs commands through the platform shell:
// bash -c on unix-likes, cmd /C on Windows
type ShellExecutor struct {
	// Shell overrides the shell binary; the platform default is used when empty
	Shell string
}

var _ Executor = (*ShellExecutor)(nil)

// Execute runs command and returns an error for spawn failures or a non-zero exit
func (e *ShellExecutor) Execute(ctx context.Context, dir, command string) (Output, error) {
	cmd := e.command(ctx, command)
	cmd.Dir = dir
	// grandchildren holding the pipes open must not outlive a cancelled stage
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			return out, fmt.Errorf("command exited with code %d", out.ExitCode)
		}
		out.ExitCode = -1
		return out, fmt.Errorf("command failed to start: %w", err)
	}

	return out, nil
}

func (e *ShellExecutor) command(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		shell := e.Shell
		if shell == "" {
			shell = "cmd"
		}
		return exec.CommandContext(ctx, shell, "/C", command)
	}

	shell := e.Shell
	if shell == "" {
		shell = "bash"
	}
	return exec.CommandContext(ctx, shell, "-c", command)
}
