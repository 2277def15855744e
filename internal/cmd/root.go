package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/chriscorrea/astrelium/internal/config"
	"github.com/chriscorrea/astrelium/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// current version (hardcoded for now, could be replaced with build flags)
const version = "0.1.0"

// rootCmdState holds the config manager and logger for the command
type rootCmdState struct {
	manager *config.Manager
	logger  *slog.Logger
}

// state is the global state instance for the root command
var state = &rootCmdState{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "astrelium [message]",
	Version: version,
	Short:   "A local coding assistant backed by Ollama",
	Long: `Astrelium is a coding assistant for your terminal. It talks to a local
Ollama model, writes the files it proposes into your workspace and runs the
COMPILE, RUN and TEST commands it suggests.

Run without arguments to start an interactive chat, or pass a message to
ask a single question.`,
	SilenceUsage: true, // Don't show usage after errors

	Args: cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// get the debug flag value and create logger
		debug, err := cmd.Flags().GetBool("debug")
		if err != nil {
			return fmt.Errorf("failed to get debug flag: %w", err)
		}
		state.logger = logger.New(debug)

		// instantiate the config manager with logger
		state.manager = config.NewManager().WithLogger(state.logger)

		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return fmt.Errorf("failed to get config flag: %w", err)
		}
		if configPath == "" {
			configPath = config.DefaultConfigPath
		}
		configPath, err = config.ExpandHome(configPath)
		if err != nil {
			return fmt.Errorf("failed to expand home path: %w", err)
		}

		// bind all persistent flags to their corresponding Viper keys
		viper := state.manager.Viper()
		flagBindings := map[string]string{
			"model":        "model.name",
			"temperature":  "model.temperature",
			"max-tokens":   "model.max_tokens",
			"seed":         "model.seed",
			"ollama-url":   "ollama.base_url",
			"timeout":      "ollama.timeout",
			"max-retries":  "ollama.max_retries",
			"workspace":    "workspace.root",
			"watch":        "workspace.watch",
			"confirm":      "commands.confirm",
			"debug-assist": "debug_assist.enabled",
			"markdown":     "render.markdown",
		}
		for flagName, viperKey := range flagBindings {
			if err := viper.BindPFlag(viperKey, cmd.Flags().Lookup(flagName)); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", flagName, err)
			}
		}

		if err := state.manager.Load(configPath); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// a message or piped input means a single question
		if len(args) > 0 || stdinPiped() {
			return runAsk(cmd, args)
		}
		return runChat(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags
// this is called by main.main() – it only needs to happen once to the rootCmd
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the config file")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "Enable detailed debug logging")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Display model parameters in a formatted table")
	rootCmd.PersistentFlags().Bool("test", false, "Use mock provider for testing")

	rootCmd.PersistentFlags().StringP("model", "m", "", "Ollama model name")
	rootCmd.PersistentFlags().Float64("temperature", 0.2, "Temperature for chat replies")
	rootCmd.PersistentFlags().Int("max-tokens", 512, "Maximum number of tokens for chat replies")
	rootCmd.PersistentFlags().Int("seed", 0, "Random seed for deterministic replies (0 = no seed)")
	rootCmd.PersistentFlags().String("ollama-url", "", "Ollama server URL")
	rootCmd.PersistentFlags().Int("timeout", 0, "Timeout in seconds for model requests (0 = none)")
	rootCmd.PersistentFlags().Int("max-retries", 0, "Retry attempts for failed model requests (max: 5)")

	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "Workspace root directory")
	rootCmd.PersistentFlags().StringP("file", "f", "", "File treated as open in the editor")
	rootCmd.PersistentFlags().Bool("watch", false, "Re-analyze the workspace when project files change")
	rootCmd.PersistentFlags().Bool("confirm", false, "Ask before running each build command")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Run build commands without asking")
	rootCmd.PersistentFlags().Bool("debug-assist", true, "Ask the model for a fix when a compile fails")
	rootCmd.PersistentFlags().Bool("markdown", true, "Render replies as terminal markdown")
	rootCmd.PersistentFlags().Bool("preview", false, "Print the content of each created file")

	rootCmd.MarkFlagsMutuallyExclusive("confirm", "yes")

	// --max_tokens and --max-tokens are the same flag
	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)

	// list of flags to hide for now
	flagsToHide := []string{"test"}
	for _, flagName := range flagsToHide {
		if err := rootCmd.PersistentFlags().MarkHidden(flagName); err != nil {
			panic(err)
		}
	}

	// custom usage template will hide lengthly global flags list for subcommands
	rootCmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`)

	rootCmd.AddCommand(createVersionCommand())
}

// createVersionCommand creates the version subcommand
func createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the current version of astrelium.",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), "astrelium version ", version, "\n")
			return nil
		},
	}
}

// normalizeFlagName accepts underscores in place of dashes, matching the
// config key spelling
func normalizeFlagName(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// commandContext returns the command's context, or Background when run
// outside Execute
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// requireManager fails when PersistentPreRunE has not loaded a config
func requireManager() (*config.Manager, error) {
	if state.manager == nil {
		return nil, fmt.Errorf("config manager not initialized")
	}
	return state.manager, nil
}

// stringFlag reads a flag that may be missing on commands built in tests
func stringFlag(cmd *cobra.Command, name string) string {
	if cmd.Flags().Lookup(name) == nil {
		return ""
	}
	value, _ := cmd.Flags().GetString(name)
	return strings.TrimSpace(value)
}

// boolFlag reads a flag that may be missing on commands built in tests
func boolFlag(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Lookup(name) == nil {
		return false
	}
	value, _ := cmd.Flags().GetBool(name)
	return value
}
