package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/chriscorrea/astrelium/internal/config"

	"github.com/spf13/cobra"
)

var describeConfigCmd = &cobra.Command{
	Use:   "describe <key>",
	Short: "Explain a configuration key and where its value comes from",
	Long: `Explain a configuration key: its type, default, accepted values, current
value and whether that value comes from the environment, the config file or
the built-in default.

Keys may be canonical paths or aliases.

Examples:
  astrelium config describe temperature
  astrelium config describe ollama-url
  astrelium config describe debug_assist.max_tokens`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireManager(); err != nil {
			return err
		}

		schema := config.DefaultConfigSchema()
		given := args[0]
		key, err := schema.ResolveKey(given)
		if err != nil {
			return err
		}
		info, err := schema.GetFieldInfo(key)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 1, ' ', 0)
		row := func(label string, value interface{}) {
			fmt.Fprintf(w, "%s:\t%v\n", label, value)
		}

		row("Configuration Key", key)
		if given != key {
			row("Alias", given)
		}
		row("Type", info.Type)
		row("Description", info.Description)
		row("Current Value", getConfigValue(key))
		row("Source", valueSource(key, info))
		if info.Default != nil {
			row("Default", info.Default)
		}
		if info.Rule != "" {
			row("Accepted", info.Rule)
		}
		if aliases := aliasesFor(schema, key, given); len(aliases) > 0 {
			row("Aliases", aliases)
		}
		return w.Flush()
	},
}

// valueSource reports which layer the effective value of key comes from
func valueSource(key string, info config.ConfigFieldInfo) string {
	if env, ok := config.EnvOverride(key); ok && os.Getenv(env) != "" {
		return "environment (" + env + ")"
	}
	current := state.manager.Viper().Get(key)
	if info.Default != nil && fmt.Sprint(current) == fmt.Sprint(info.Default) {
		return "default"
	}
	return "config file"
}

func aliasesFor(schema *config.ConfigSchema, key, skip string) []string {
	var aliases []string
	for alias, target := range schema.Aliases {
		if target == key && alias != skip {
			aliases = append(aliases, alias)
		}
	}
	sort.Strings(aliases)
	return aliases
}

func init() {
	configCmd.AddCommand(describeConfigCmd)
}
