// Package runner executes the compile, run and test commands suggested by the model.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chriscorrea/astrelium/internal/extract"
)

// Stage names one of the three command slots
type Stage string

const (
	StageCompile Stage = "compile"
	StageRun     Stage = "run"
	StageTest    Stage = "test"
)

// Label is the upper-case stage name used in output
func (s Stage) Label() string {
	return strings.ToUpper(string(s))
}

// StageResult is the outcome of one stage
type StageResult struct {
	Stage    Stage
	Command  string
	Output   Output
	Err      error
	Skipped  bool
	Reason   string // why a stage was skipped
	Duration time.Duration
}

// Failed reports a non-zero exit, spawn error, timeout or policy rejection
func (r StageResult) Failed() bool {
	return r.Err != nil
}

// Blocked reports whether the policy rejected the command
func (r StageResult) Blocked() bool {
	return errors.Is(r.Err, ErrCommandBlocked)
}

// ErrorText is the text handed to debug-assist: the error, then stderr,
// or stdout when stderr is empty
func (r StageResult) ErrorText() string {
	var parts []string
	if r.Err != nil {
		parts = append(parts, fmt.Sprintf("Command failed: %s: %v", r.Command, r.Err))
	}
	switch {
	case strings.TrimSpace(r.Output.Stderr) != "":
		parts = append(parts, strings.TrimRight(r.Output.Stderr, "\n"))
	case strings.TrimSpace(r.Output.Stdout) != "":
		parts = append(parts, strings.TrimRight(r.Output.Stdout, "\n"))
	}
	return strings.Join(parts, "\n")
}

// Approver is asked before each stage starts
type Approver interface {
	Approve(ctx context.Context, stage Stage, command string) (bool, error)
}

// ApproveFunc adapts a function to Approver
type ApproveFunc func(ctx context.Context, stage Stage, command string) (bool, error)

func (f ApproveFunc) Approve(ctx context.Context, stage Stage, command string) (bool, error) {
	return f(ctx, stage, command)
}

// Runner executes stages one after another in Dir
type Runner struct {
	Dir      string
	Executor Executor
	Policy   *Policy
	Approver Approver      // optional
	Timeout  time.Duration // per stage, 0 = none
	Disabled bool
	Logger   *slog.Logger

	// OnStart, when set, is called right before a stage executes
	OnStart func(stage Stage, command string)
}

// New creates a Runner using the shell executor and the default allow-list
func New(dir string, logger *slog.Logger) *Runner {
	return &Runner{
		Dir:      dir,
		Executor: &ShellExecutor{},
		Policy:   NewPolicy(nil),
		Logger:   logger,
	}
}

// Run executes compile, run and test in that order, each only if present.
// Every present stage is attempted even after an earlier failure.
// observe is called after each stage, before the next one starts.
func (r *Runner) Run(ctx context.Context, cmds extract.Commands, observe func(StageResult)) []StageResult {
	stages := []struct {
		stage   Stage
		command string
	}{
		{StageCompile, cmds.Compile},
		{StageRun, cmds.Run},
		{StageTest, cmds.Test},
	}

	var results []StageResult
	for _, s := range stages {
		if s.command == "" {
			continue
		}

		result := r.runStage(ctx, s.stage, s.command)
		r.log(result)

		results = append(results, result)
		if observe != nil {
			observe(result)
		}
	}
	return results
}

func (r *Runner) runStage(ctx context.Context, stage Stage, command string) StageResult {
	result := StageResult{Stage: stage, Command: command}

	if r.Disabled {
		result.Skipped = true
		result.Reason = "command execution is disabled"
		return result
	}

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	if r.Policy != nil {
		if err := r.Policy.Check(command); err != nil {
			result.Err = err
			return result
		}
	}

	if r.Approver != nil {
		ok, err := r.Approver.Approve(ctx, stage, command)
		if err != nil {
			result.Err = fmt.Errorf("approval failed: %w", err)
			return result
		}
		if !ok {
			result.Skipped = true
			result.Reason = "declined"
			return result
		}
	}

	if r.OnStart != nil {
		r.OnStart(stage, command)
	}

	stageCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	executor := r.Executor
	if executor == nil {
		executor = &ShellExecutor{}
	}

	start := time.Now()
	out, err := executor.Execute(stageCtx, r.Dir, command)
	result.Duration = time.Since(start)
	result.Output = out

	if err != nil {
		if errors.Is(stageCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("command timed out after %s: %w", r.Timeout, err)
		}
		result.Err = err
	}
	return result
}

func (r *Runner) log(result StageResult) {
	if r.Logger == nil {
		return
	}
	switch {
	case result.Skipped:
		r.Logger.Debug("Stage skipped", "stage", result.Stage, "reason", result.Reason)
	case result.Failed():
		r.Logger.Debug("Stage failed", "stage", result.Stage, "command", result.Command, "error", result.Err)
	default:
		r.Logger.Debug("Stage succeeded", "stage", result.Stage, "command", result.Command, "duration", result.Duration)
	}
}
