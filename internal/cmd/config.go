package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage astrelium configuration",
	Long: `Manage astrelium configuration settings. This command provides subcommands
to view and modify configuration values.

Examples:
  astrelium config                          # Show current configuration status
  astrelium config list                     # Show configuration values
  astrelium config set key=value            # Set a configuration value

      astrelium config set model.name=qwen2.5-coder:7b
      astrelium config set temperature=0.3
      astrelium config set confirm=true
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := requireManager()
		if err != nil {
			return err
		}
		cfg := manager.Config()

		fmt.Fprintln(cmd.OutOrStdout(), "Configuration loaded successfully")
		fmt.Fprintf(cmd.OutOrStdout(), "Model: %s\n", cfg.Model.Name)
		fmt.Fprintf(cmd.OutOrStdout(), "Ollama: %s\n", cfg.Ollama.BaseURL)
		fmt.Fprintf(cmd.OutOrStdout(), "Allowed programs: %d\n", len(cfg.Commands.AllowList))

		// show configuration file location
		if manager.Viper().ConfigFileUsed() != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", manager.Viper().ConfigFileUsed())
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
