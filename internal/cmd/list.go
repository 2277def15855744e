package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/chriscorrea/astrelium/internal/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ConfigDisplayInfo holds information for displaying config item
type ConfigDisplayInfo struct {
	Key         string
	Value       string
	Description string
	IsAlias     bool
	Target      string // the canonical path an alias points to
}

// OutputStyle contains color configuration for the list output
type OutputStyle struct {
	Writer       io.Writer
	KeyColor     *color.Color
	ValueColor   *color.Color
	HeaderColor  *color.Color
	GroupColor   *color.Color
	AliasColor   *color.Color
	EnableColors bool
}

// NewOutputStyle creates new output style configuration
func NewOutputStyle(writer io.Writer) *OutputStyle {
	return &OutputStyle{
		Writer:       writer,
		KeyColor:     color.New(color.FgCyan, color.Bold),
		ValueColor:   color.New(color.FgMagenta),
		HeaderColor:  color.New(color.FgYellow, color.Bold, color.Underline),
		GroupColor:   color.New(color.FgGreen, color.Bold),
		AliasColor:   color.New(color.FgBlue),
		EnableColors: true,
	}
}

// groupOrder is the display order of config sections
var groupOrder = []string{"Model", "Ollama", "Assistant", "Execution", "Session"}

// sectionGroups maps a top-level config section to its display group
var sectionGroups = map[string]string{
	"model":        "Model",
	"ollama":       "Ollama",
	"debug_assist": "Assistant",
	"advanced":     "Assistant",
	"commands":     "Execution",
	"materialize":  "Execution",
	"history":      "Session",
	"workspace":    "Session",
	"render":       "Session",
}

// groupFor returns the display group of a canonical path
func groupFor(canonicalPath string) string {
	section, _, _ := strings.Cut(canonicalPath, ".")
	if group, ok := sectionGroups[section]; ok {
		return group
	}
	return "Session"
}

// listConfigCmd represents the config list cmd
var listConfigCmd = &cobra.Command{
	Use:   "list",
	Short: "List configuration values",
	Long: `List configuration values.

By default, shows the user-friendly aliases view. Use --canonical to see 
the complete configuration structure with all canonical paths.

Examples:
  astrelium config list              # Show aliases view (default)
  astrelium config list --aliases    # Show aliases view (explicit)
  astrelium config list --canonical  # Show canonical configuration paths`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireManager(); err != nil {
			return err
		}
		schema := config.DefaultConfigSchema()

		showCanonical, _ := cmd.Flags().GetBool("canonical")

		style := NewOutputStyle(cmd.OutOrStdout())
		if showCanonical {
			return displayCanonicalView(schema, style)
		}
		return displayAliasesView(schema, style)
	},
}

// displayAliasesView shows the user-friendly aliases organized by category
func displayAliasesView(schema *config.ConfigSchema, style *OutputStyle) error {
	w := tabwriter.NewWriter(style.Writer, 0, 0, 3, ' ', 0)

	groups := map[string][]ConfigDisplayInfo{}
	for _, alias := range schema.ListAliases() {
		canonicalPath := schema.Aliases[alias]
		fieldInfo, err := schema.GetFieldInfo(canonicalPath)
		if err != nil {
			// skip if no field info available
			continue
		}

		group := groupFor(canonicalPath)
		groups[group] = append(groups[group], ConfigDisplayInfo{
			Key:         alias,
			Value:       getConfigValue(canonicalPath),
			Description: fieldInfo.Description,
			IsAlias:     true,
			Target:      canonicalPath,
		})
	}

	for _, groupName := range groupOrder {
		items := groups[groupName]
		if len(items) == 0 {
			continue
		}

		printSectionHeader(w, style, groupName)
		for _, item := range items {
			printConfigRow(w, style, item.Key, item.Value, item.Description)
		}
		fmt.Fprintf(w, "\n")
	}

	return w.Flush()
}

// displayCanonicalView shows the complete config structure
func displayCanonicalView(schema *config.ConfigSchema, style *OutputStyle) error {
	w := tabwriter.NewWriter(style.Writer, 0, 0, 3, ' ', 0)

	groups := map[string][]ConfigDisplayInfo{}
	for _, key := range schema.ListCanonicalKeys() {
		fieldInfo, err := schema.GetFieldInfo(key)
		if err != nil {
			continue
		}

		group := groupFor(key)
		groups[group] = append(groups[group], ConfigDisplayInfo{
			Key:         key,
			Value:       getConfigValue(key),
			Description: fieldInfo.Description,
		})
	}

	for _, groupName := range groupOrder {
		items := groups[groupName]
		if len(items) == 0 {
			continue
		}

		printCanonicalSectionHeader(w, style, groupName)
		for _, item := range items {
			printCanonicalConfigRow(w, style, item.Key, item.Value)
		}
		fmt.Fprintf(w, "\n")
	}

	return w.Flush()
}

// printSectionHeader prints a section header for grouped config items
func printSectionHeader(w io.Writer, style *OutputStyle, groupName string) {
	groupSprint := style.GroupColor.SprintFunc()
	keySprint := style.KeyColor.SprintFunc()
	valueSprint := style.ValueColor.SprintFunc()

	if !style.EnableColors {
		groupSprint = fmt.Sprint
		keySprint = fmt.Sprint
		valueSprint = fmt.Sprint
	}

	fmt.Fprintf(w, "%s\n", groupSprint(fmt.Sprintf("▶ %s", groupName)))

	fmt.Fprintf(w, "%s\t%s\t%s\n",
		keySprint("Key"),
		valueSprint("Value"),
		"Description") // plain text due to formatting/spacing issue
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		keySprint(strings.Repeat("-", 20)),
		valueSprint(strings.Repeat("-", 15)),
		strings.Repeat("-", 40)) // plain text due to formatting/spacing issue
}

// printConfigRow prints a single configuration row with proper formatting
func printConfigRow(w io.Writer, style *OutputStyle, key, value, description string) {
	keySprint := style.KeyColor.SprintFunc()
	valueSprint := style.ValueColor.SprintFunc()

	if !style.EnableColors {
		keySprint = fmt.Sprint
		valueSprint = fmt.Sprint
	}

	// truncate long descriptions
	if len(description) > 50 {
		description = description[:47] + "..."
	}

	// truncate long values
	if len(value) > 25 {
		value = value[:22] + "..."
	}

	fmt.Fprintf(w, "%s\t%s\t%s\n",
		keySprint(key),
		valueSprint(value),
		description)
}

// printCanonicalSectionHeader prints a section header for canonical view (no description column)
func printCanonicalSectionHeader(w io.Writer, style *OutputStyle, groupName string) {
	groupSprint := style.GroupColor.SprintFunc()
	if !style.EnableColors {
		groupSprint = fmt.Sprint
	}

	fmt.Fprintf(w, "%s\n", groupSprint(fmt.Sprintf("▶ %s", groupName)))
	fmt.Fprintf(w, "%s\t%s\n",
		groupSprint("Key"),
		groupSprint("Value"))
	fmt.Fprintf(w, "%s\t%s\n",
		groupSprint(strings.Repeat("-", 30)),
		groupSprint(strings.Repeat("-", 45)))
}

// printCanonicalConfigRow prints a single configuration row for canonical view (no description)
func printCanonicalConfigRow(w io.Writer, style *OutputStyle, key, value string) {
	keySprint := style.KeyColor.SprintFunc()
	valueSprint := style.ValueColor.SprintFunc()

	if !style.EnableColors {
		keySprint = fmt.Sprint
		valueSprint = fmt.Sprint
	}

	fmt.Fprintf(w, "%s\t%s\n",
		keySprint(key),
		valueSprint(value))
}

// getConfigValue retrieves the current value for a configuration key using Viper
func getConfigValue(canonicalPath string) string {
	value := state.manager.Viper().Get(canonicalPath)

	if value == nil {
		return "<not set>"
	}
	if str, ok := value.(string); ok && str == "" {
		return "<not set>"
	}

	result := fmt.Sprintf("%v", value)

	// truncate if too long for table display
	if len(result) > 40 {
		return result[:37] + "..."
	}

	return result
}

func init() {
	configCmd.AddCommand(listConfigCmd)
	listConfigCmd.Flags().Bool("aliases", false, "Show aliases view (default behavior)")
	listConfigCmd.Flags().Bool("canonical", false, "Show canonical configuration paths")
	listConfigCmd.MarkFlagsMutuallyExclusive("aliases", "canonical")
}
