package cmd

import (
	"fmt"
	"os"

	"github.com/chriscorrea/astrelium/internal/app"
	iopkg "github.com/chriscorrea/astrelium/internal/io"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send a single message and exit",
	Long: `Send one message to the assistant. The message is built from the
arguments, piped stdin and any --attach files, in that order.

Examples:
  astrelium ask "create a hello world program in C"
  git diff | astrelium ask "review this change"
  astrelium ask --attach main.go "explain this code"
  astrelium ask --exit-code "write tests for calc.py"; [ $? -eq 30 ] && echo passed

Exit status with --exit-code:
  0   no command ran and the reply gave no pass/fail verdict
  10  the model request failed
  11  a file could not be written
  30  every build command passed, or the reply reads as a pass
  31  a build command failed, or the reply reads as a fail`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAsk(cmd, args)
	},
}

// runAsk handles one message; with --exit-code the process exit status
// reports how the turn went
func runAsk(cmd *cobra.Command, args []string) error {
	var attach []string
	if cmd.Flags().Lookup("attach") != nil {
		attach, _ = cmd.Flags().GetStringSlice("attach")
	}

	input, err := iopkg.ReadInput(os.Stdin, args, attach)
	if err != nil {
		return err
	}
	if input.Empty() {
		return fmt.Errorf("no message given: pass one as an argument or pipe it on stdin")
	}

	env, err := buildSession(cmd)
	if err != nil {
		return err
	}

	outcome, err := env.session.Turn(commandContext(cmd), input.Message())
	if err != nil {
		return err
	}

	if boolFlag(cmd, "exit-code") {
		if code := app.ExitCode(outcome); code != app.ExitOK {
			os.Exit(code)
		}
	}
	return nil
}

func init() {
	askCmd.Flags().StringSliceP("attach", "a", nil, "File(s) appended to the message")
	askCmd.Flags().Bool("exit-code", false, "Exit with a status describing the outcome")
	rootCmd.Flags().StringSliceP("attach", "a", nil, "File(s) appended to the message")
	rootCmd.Flags().Bool("exit-code", false, "Exit with a status describing the outcome")
	rootCmd.AddCommand(askCmd)
}
