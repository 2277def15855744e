package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/chriscorrea/astrelium/internal/history"
	iopkg "github.com/chriscorrea/astrelium/internal/io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat",
	Long: `Start an interactive chat with the assistant. Each message is one turn:
code replies are written into the workspace and their build commands run.

Type /help inside the chat for the available slash commands.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

const chatHelp = `Commands:
  /open <path>   treat a file as open in the editor
  /close         close the active file
  /analyze       re-analyze the workspace and print the summary
  /history       show the chat history
  /import <file> append messages from a saved transcript
  /clear         clear the chat history
  /help          show this help
  /exit          leave the chat`

func runChat(cmd *cobra.Command) error {
	env, err := buildSession(cmd)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	manager, _ := requireManager()
	if manager != nil && manager.Config().Workspace.Watch && env.root != "" {
		watcher, err := env.session.Watch(ctx)
		if err != nil {
			state.logger.Warn("Workspace watch disabled", "error", err)
		} else {
			defer watcher.Close()
		}
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s (model %s). Type /help for commands.\n",
		cyan("✦"), "Astrelium chat", env.session.Model())

	return chatLoop(ctx, env, iopkg.NewLineReader(cmd.InOrStdin()), cmd.ErrOrStderr())
}

// chatLoop reads messages until EOF, /exit or an interrupt while waiting
// for input. An interrupt during a turn cancels only that turn.
func chatLoop(ctx context.Context, env *sessionEnv, reader *iopkg.LineReader, out io.Writer) error {
	prompt := color.New(color.FgGreen, color.Bold).SprintFunc()

	for {
		fmt.Fprint(out, prompt("› "))

		readCtx, stopRead := signal.NotifyContext(ctx, os.Interrupt)
		line, err := reader.ReadLine(readCtx)
		stopRead()
		if err != nil {
			fmt.Fprintln(out)
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := handleSlash(ctx, env, line, out)
			if err != nil {
				fmt.Fprintln(out, color.RedString("%v", err))
			}
			if quit {
				return nil
			}
			continue
		}

		turnCtx, stopTurn := signal.NotifyContext(ctx, os.Interrupt)
		err = env.session.HandleMessage(turnCtx, line)
		stopTurn()
		if err != nil {
			return err
		}
	}
}

// handleSlash runs one slash command; quit reports whether the chat should end
func handleSlash(ctx context.Context, env *sessionEnv, line string, out io.Writer) (quit bool, err error) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/exit", "/quit":
		return true, nil

	case "/help":
		fmt.Fprintln(out, chatHelp)

	case "/open":
		if arg == "" {
			return false, fmt.Errorf("usage: /open <path>")
		}
		if err := env.editor.Open(arg); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "Opened %s\n", env.editor.ActiveFile())

	case "/close":
		env.editor.Close()
		fmt.Fprintln(out, "No file open")

	case "/analyze":
		snap := env.session.RefreshWorkspaceAnalysis(ctx)
		fmt.Fprintln(out, snap.ProjectContext())

	case "/history":
		msgs := env.session.History()
		if len(msgs) == 0 {
			fmt.Fprintln(out, "No chat history")
			return false, nil
		}
		fmt.Fprint(out, history.FormatTranscript(msgs))

	case "/import":
		if arg == "" {
			return false, fmt.Errorf("usage: /import <file>")
		}
		msgs, err := readTranscript(arg)
		if err != nil {
			return false, err
		}
		env.session.ImportHistory(msgs)
		fmt.Fprintf(out, "Imported %d message(s), %d kept\n", len(msgs), len(env.session.History()))

	case "/clear":
		env.session.ClearHistory()
		fmt.Fprintln(out, "Chat history cleared")

	default:
		return false, fmt.Errorf("unknown command %s, type /help", name)
	}
	return false, nil
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
