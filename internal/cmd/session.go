package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chriscorrea/astrelium/internal/app"
	"github.com/chriscorrea/astrelium/internal/config"
	"github.com/chriscorrea/astrelium/internal/editor"
	"github.com/chriscorrea/astrelium/internal/format"
	"github.com/chriscorrea/astrelium/internal/history"
	iopkg "github.com/chriscorrea/astrelium/internal/io"
	"github.com/chriscorrea/astrelium/internal/registry"
	"github.com/chriscorrea/astrelium/internal/runner"
	"github.com/chriscorrea/astrelium/internal/verbose"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// askOne is swapped out in tests
var askOne = func(p survey.Prompt, response interface{}) error {
	return survey.AskOne(p, response)
}

// sessionEnv is what the chat and ask commands share
type sessionEnv struct {
	session *app.Session
	editor  *editor.File
	sink    *app.WriterSink
	root    string
}

// buildSession wires config, provider, editor, history and terminal output
// into an app.Session
func buildSession(cmd *cobra.Command) (*sessionEnv, error) {
	manager, err := requireManager()
	if err != nil {
		return nil, err
	}
	cfg := *manager.Config()
	ctx := commandContext(cmd)

	if boolFlag(cmd, "yes") {
		cfg.Commands.Confirm = false
	}

	providerName, modelName, err := selectModel(cmd, &cfg)
	if err != nil {
		return nil, err
	}

	llm, err := registry.CreateProvider(providerName, &cfg, state.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", providerName, err)
	}

	root, err := resolveWorkspace(cfg.Workspace.Root)
	if err != nil {
		return nil, err
	}

	ed, err := editor.NewFile(stringFlag(cmd, "file"), state.logger)
	if err != nil {
		return nil, err
	}

	store, err := historyStore(&cfg)
	if err != nil {
		return nil, err
	}

	renderer := format.NewRenderer(cfg.Render.Markdown, !color.NoColor, cfg.Render.Style, renderWidth(cmd.OutOrStdout(), cfg.Render.Width))
	sink := app.NewWriterSink(cmd.OutOrStdout(), cmd.ErrOrStderr(), renderer)
	sink.Previews = boolFlag(cmd, "preview")

	if boolFlag(cmd, "verbose") {
		verbose.PrintParameters(&cfg, providerName, root, verbose.DefaultOutputConfig(cmd.ErrOrStderr()))
	}

	opts := app.Options{
		Config:      &cfg,
		Logger:      state.logger,
		LLM:         llm,
		Provider:    providerName,
		Model:       modelName,
		ChatOptions: registry.BuildProviderOptions(providerName, &cfg),
		Root:        root,
		Editor:      ed,
		Store:       store,
		Approver:    surveyApprover(),
		Sink:        sink,
		Spinner:     spinnerWriter(cmd.ErrOrStderr()),
	}

	session, err := app.New(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &sessionEnv{session: session, editor: ed, sink: sink, root: root}, nil
}

// resolveWorkspace makes root absolute; an empty root means no workspace
func resolveWorkspace(root string) (string, error) {
	if root == "" {
		return "", nil
	}

	expanded, err := config.ExpandHome(root)
	if err != nil {
		return "", fmt.Errorf("failed to expand workspace path: %w", err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("workspace %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("workspace %s is not a directory", abs)
	}
	return abs, nil
}

// historyStore returns the file store for cfg; an empty path keeps history in memory
func historyStore(cfg *config.Config) (history.Store, error) {
	if cfg.History.Path == "" {
		return nil, nil
	}
	path, err := config.ExpandHome(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand history path: %w", err)
	}
	return history.NewFileStore(path, state.logger), nil
}

// surveyApprover asks on the terminal before each build command runs
func surveyApprover() runner.Approver {
	return runner.ApproveFunc(func(ctx context.Context, stage runner.Stage, command string) (bool, error) {
		var ok bool
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Run %s command: %s ?", stage.Label(), command),
			Default: true,
		}
		if err := askOne(prompt, &ok); err != nil {
			return false, fmt.Errorf("survey error: %w", err)
		}
		return ok, nil
	})
}

// spinnerWriter returns w when it is a terminal so piped output carries no animation
func spinnerWriter(w io.Writer) io.Writer {
	f, ok := w.(*os.File)
	if !ok || !iopkg.IsTerminal(f) {
		return nil
	}
	return f
}

// renderWidth wraps at the configured width or the terminal width, whichever is narrower
func renderWidth(w io.Writer, configured int) int {
	f, ok := w.(*os.File)
	if !ok {
		return configured
	}
	return min(configured, iopkg.TerminalWidth(f, configured))
}

func stdinPiped() bool {
	return iopkg.IsPiped(os.Stdin)
}
