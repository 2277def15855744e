package cmd

import (
	"fmt"
	"os"

	"github.com/chriscorrea/astrelium/internal/history"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the saved chat history",
	Long: `Show, clear, import or export the chat history kept between sessions.
Only the most recent messages are kept (history.max_entries, 50 by default).

Examples:
  astrelium history
  astrelium history clear
  astrelium history export > chat.md
  astrelium history import chat.md`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := openHistory()
		if err != nil {
			return err
		}

		msgs := log.Messages()
		if len(msgs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No chat history")
			return nil
		}
		for _, m := range msgs {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n",
				m.Time().Format("2006-01-02 15:04"), m.Role, firstLine(m.Content))
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved chat history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := openHistory()
		if err != nil {
			return err
		}
		log.Clear()
		fmt.Fprintln(cmd.OutOrStdout(), "Chat history cleared")
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the chat history as a markdown transcript",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := openHistory()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), history.FormatTranscript(log.Messages()))
		return nil
	},
}

var historyImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Append messages from a JSON or text transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msgs, err := readTranscript(args[0])
		if err != nil {
			return err
		}

		log, err := openHistory()
		if err != nil {
			return err
		}
		log.Import(msgs)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d message(s), %d kept\n", len(msgs), log.Len())
		return nil
	},
}

// readTranscript parses the messages of a saved transcript file
func readTranscript(path string) ([]history.ChatMessage, error) {
	if !history.IsTranscriptFile(path) {
		return nil, fmt.Errorf("%s does not look like a transcript (.json, .md, .txt, .chat or .history)", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	return history.ParseTranscript(content)
}

// openHistory restores the persisted log described by the loaded config
func openHistory() (*history.Log, error) {
	manager, err := requireManager()
	if err != nil {
		return nil, err
	}
	cfg := manager.Config()

	store, err := historyStore(cfg)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("chat history is not persisted (history.path is empty)")
	}

	log := history.NewLog(cfg.History.MaxEntries, store, state.logger)
	if err := log.Restore(); err != nil {
		return nil, err
	}
	return log, nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i] + " …"
		}
	}
	return s
}

func init() {
	historyCmd.AddCommand(historyClearCmd, historyExportCmd, historyImportCmd)
	rootCmd.AddCommand(historyCmd)
}
