package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var manCmd = &cobra.Command{
	Use:    "man [dir]",
	Short:  "Generate man pages for astrelium",
	Long:   `This command generates the man pages for the astrelium CLI, in ./man unless a directory is given.`,
	Hidden: true, // hide this from the public help output
	Args:   cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "./man"
		if len(args) == 1 {
			dir = args[0]
		}
		return generateManPages(cmd.Root(), dir)
	},
}

// generateManPages writes one page per command under dir
func generateManPages(root *cobra.Command, dir string) error {
	header := &doc.GenManHeader{
		Title:   "ASTRELIUM",
		Section: "1", // Section 1 is for executable programs and shell commands
		Source:  "Astrelium CLI",
	}

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create man directory: %w", err)
	}
	if err := doc.GenManTree(root, header, dir); err != nil {
		return fmt.Errorf("failed to generate man pages: %w", err)
	}

	if state.logger != nil {
		state.logger.Info("Man pages generated", "dir", dir)
	}
	return nil
}

// add the man command to root command's hierarchy
func init() {
	rootCmd.AddCommand(manCmd)
}
