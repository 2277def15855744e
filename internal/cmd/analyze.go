package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/chriscorrea/astrelium/internal/workspace"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the workspace the assistant works in",
	Long: `Print the project analysis that is sent to the model with every message:
project type, frameworks, languages, dependencies, scripts, entry points,
tests, documentation, git state and file statistics.

Examples:
  astrelium analyze
  astrelium analyze --json
  astrelium analyze --watch -w ./myproject`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := requireManager()
		if err != nil {
			return err
		}

		root, err := resolveWorkspace(manager.Config().Workspace.Root)
		if err != nil {
			return err
		}
		if root == "" {
			fmt.Fprintln(cmd.OutOrStdout(), workspace.NoWorkspace)
			return nil
		}

		asJSON := boolFlag(cmd, "json")
		ctx := commandContext(cmd)

		if err := printAnalysis(cmd.OutOrStdout(), workspace.Analyze(ctx, root, state.logger), asJSON); err != nil {
			return err
		}

		if !boolFlag(cmd, "watch") {
			return nil
		}
		return watchAnalysis(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), root, asJSON)
	},
}

// printAnalysis writes the prompt form of snap, or its JSON encoding
func printAnalysis(w io.Writer, snap *workspace.Snapshot, asJSON bool) error {
	if !asJSON {
		_, err := fmt.Fprintln(w, snap.ProjectContext())
		return err
	}

	encoded, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}

// watchAnalysis re-prints the analysis on every manifest change until interrupted
func watchAnalysis(ctx context.Context, out, errOut io.Writer, root string, asJSON bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	changes := make(chan string, 1)
	watcher, err := workspace.NewWatcher(root, state.logger, func(path string) {
		select {
		case changes <- path:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("failed to create workspace watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to watch workspace: %w", err)
	}

	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(errOut, "%s Watching %s, press Ctrl+C to stop\n", yellow("👀"), root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-changes:
			fmt.Fprintf(errOut, "\n%s %s changed\n", yellow("↻"), path)
			if err := printAnalysis(out, workspace.Analyze(ctx, root, state.logger), asJSON); err != nil {
				return err
			}
		}
	}
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "Print the analysis as JSON")
	rootCmd.AddCommand(analyzeCmd)
}
