package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/chriscorrea/astrelium/internal/data"
	"github.com/chriscorrea/astrelium/internal/runner"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// otherModelOption lets the user type a model that is not in the catalog
const otherModelOption = "Other (enter a model name)"

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize astrelium config through an interactive process",
	Long: `Initialize your astrelium configuration:
• Point astrelium at your Ollama server
• Choose the model used for chat and debugging
• Decide how suggested build commands are run

Your configuration will be saved to ~/.astrelium/config.toml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd.ErrOrStderr())
	},
}

// runInit asks the setup questions through askOne and saves the answers
func runInit(out io.Writer) error {
	manager, err := requireManager()
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	magenta := color.New(color.FgMagenta).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(out, "\n%s\n", cyan("✦ Welcome to astrelium"))
	fmt.Fprintf(out, "\n%s\n", "Let's get you set up, this will only take a minute!")

	catalog := data.NewModelCatalog()
	if err := catalog.Load(); err != nil {
		return fmt.Errorf("failed to load model catalog: %w", err)
	}

	viper := manager.Viper()
	cfg := manager.Config()

	// Ollama endpoint
	var ollamaURL string
	urlPrompt := &survey.Input{
		Message: fmt.Sprintf("%s Ollama server URL:", cyan("🔗")),
		Default: cfg.Ollama.BaseURL,
		Help:    "The URL where your Ollama server is running",
	}
	if err := askOne(urlPrompt, &ollamaURL); err != nil {
		return fmt.Errorf("survey error: %w", err)
	}
	ollamaURL = strings.TrimRight(strings.TrimSpace(ollamaURL), "/")
	if !strings.HasPrefix(ollamaURL, "http://") && !strings.HasPrefix(ollamaURL, "https://") {
		return fmt.Errorf("ollama URL must start with http:// or https://, got %q", ollamaURL)
	}

	// model
	modelName, err := askModel(catalog, cfg.Model.Name, cyan)
	if err != nil {
		return err
	}

	// debug assist
	var debugAssist bool
	debugPrompt := &survey.Confirm{
		Message: fmt.Sprintf("%s Ask the model for a fix when a compile fails?", cyan("🩺")),
		Default: cfg.DebugAssist.Enabled,
	}
	if err := askOne(debugPrompt, &debugAssist); err != nil {
		return fmt.Errorf("survey error: %w", err)
	}

	// command execution
	var confirmCommands bool
	confirmPrompt := &survey.Confirm{
		Message: fmt.Sprintf("%s Ask before running suggested build commands?", cyan("🛡")),
		Default: cfg.Commands.Confirm,
		Help:    "COMPILE, RUN and TEST commands from replies run automatically unless you confirm them",
	}
	if err := askOne(confirmPrompt, &confirmCommands); err != nil {
		return fmt.Errorf("survey error: %w", err)
	}

	var allowList []string
	allowPrompt := &survey.MultiSelect{
		Message:  fmt.Sprintf("%s Programs build commands may run:", cyan("⚙")),
		Options:  allowListOptions(cfg.Commands.AllowList),
		Default:  cfg.Commands.AllowList,
		PageSize: 12,
	}
	if err := askOne(allowPrompt, &allowList); err != nil {
		return fmt.Errorf("survey error: %w", err)
	}

	viper.Set("ollama.base_url", ollamaURL)
	viper.Set("model.name", modelName)
	viper.Set("debug_assist.enabled", debugAssist)
	viper.Set("commands.confirm", confirmCommands)
	viper.Set("commands.allow_list", allowList)

	fmt.Fprintf(out, "\n%s Saving your configuration...\n", yellow("💾"))
	if err := manager.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	configPath := viper.ConfigFileUsed()
	fmt.Fprintf(out, "\n%s All set! Your configuration has been saved to %s\n",
		green("🎉"), magenta(configPath))
	fmt.Fprintf(out, "\n%s Make sure the model is pulled: %s\n",
		cyan("💡"), magenta("ollama pull "+modelName))
	fmt.Fprintf(out, "\n%s Then try: %s\n\n",
		cyan("📖"), magenta(`astrelium "create a hello world program in C"`))

	return nil
}

// askModel offers the catalog and falls back to free text for other models
func askModel(catalog *data.ModelCatalog, current string, cyan func(a ...interface{}) string) (string, error) {
	options := append(catalog.Options(), otherModelOption)

	target := current
	if target == "" {
		target = catalog.Default()
	}
	defaultOption := otherModelOption
	for _, option := range options {
		if catalog.NameFromOption(option) == target {
			defaultOption = option
		}
	}

	var selected string
	modelPrompt := &survey.Select{
		Message: fmt.Sprintf("%s Choose the model for chat and debugging:", cyan("🤖")),
		Options: options,
		Default: defaultOption,
	}
	if err := askOne(modelPrompt, &selected); err != nil {
		return "", fmt.Errorf("survey error: %w", err)
	}

	if selected != otherModelOption {
		if name := catalog.NameFromOption(selected); name != "" {
			return name, nil
		}
		return "", fmt.Errorf("unknown model option %q", selected)
	}

	var typed string
	namePrompt := &survey.Input{
		Message: fmt.Sprintf("%s Model name (as shown by `ollama list`):", cyan("✏")),
		Default: current,
	}
	if err := askOne(namePrompt, &typed); err != nil {
		return "", fmt.Errorf("survey error: %w", err)
	}
	typed = strings.TrimSpace(typed)
	if typed == "" {
		return "", fmt.Errorf("model name cannot be empty")
	}
	return typed, nil
}

// allowListOptions merges the built-in programs with the configured ones
func allowListOptions(configured []string) []string {
	seen := map[string]bool{}
	var options []string
	for _, list := range [][]string{runner.DefaultAllowList, configured} {
		for _, program := range list {
			if !seen[program] {
				seen[program] = true
				options = append(options, program)
			}
		}
	}
	return options
}

func init() {
	rootCmd.AddCommand(initCmd)
}
