package cmd

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/chriscorrea/astrelium/internal/config"
	"github.com/chriscorrea/astrelium/internal/data"

	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <key>=<value> [<key>=<value>...]",
	Short: "Set one or more configuration values",
	Long: `Set configuration values in the config file.

Keys use dot notation (model.temperature) or one of the aliases shown by
'astrelium config list'. Several assignments may be given at once; they are
all checked before anything is written, so a bad value leaves the file as
it was.

Examples:
  astrelium config set model.temperature=0.25
  astrelium config set model=qwen2.5-coder:14b num-ctx=8192
  astrelium config set ollama-url=http://10.0.0.5:11434
  astrelium config set debug-assist=false confirm=true
  astrelium config set commands.timeout=120`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schema := config.DefaultConfigSchema()

		pending := make([]setting, 0, len(args))
		for _, arg := range args {
			s, err := parseSetting(schema, arg)
			if err != nil {
				return err
			}
			pending = append(pending, s)
		}

		manager, err := requireManager()
		if err != nil {
			return err
		}
		for _, s := range pending {
			manager.Viper().Set(s.key, s.value)
		}
		if err := manager.Save(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, s := range pending {
			s.report(out)
		}
		return nil
	},
}

// setting is one validated assignment waiting to be written
type setting struct {
	given string
	key   string
	value interface{}
}

func (s setting) report(w io.Writer) {
	name := s.key
	if s.given != s.key {
		name = fmt.Sprintf("%s (%s)", s.given, s.key)
	}
	fmt.Fprintf(w, "Configuration updated: %s = %v\n", name, s.value)

	if s.key == "model.name" {
		if hint := modelHint(s.value.(string)); hint != "" {
			fmt.Fprintln(w, hint)
		}
	}
}

// parseSetting splits key=value, resolves aliases and converts the value
// to the key's type.
func parseSetting(schema *config.ConfigSchema, arg string) (setting, error) {
	rawKey, rawValue, found := strings.Cut(arg, "=")
	if !found {
		return setting{}, fmt.Errorf("invalid format: expected key=value, got %q", arg)
	}
	given := strings.TrimSpace(rawKey)
	if given == "" {
		return setting{}, fmt.Errorf("key cannot be empty")
	}

	key, err := schema.ResolveKey(given)
	if err != nil {
		return setting{}, err
	}
	info, err := schema.GetFieldInfo(key)
	if err != nil {
		return setting{}, err
	}

	raw := strings.TrimSpace(rawValue)
	value, err := convertValueToType(raw, info.Type)
	if err != nil {
		return setting{}, fmt.Errorf("failed to convert value %q for key %q: %w", raw, key, err)
	}
	if err := schema.ValidateValue(key, value); err != nil {
		return setting{}, fmt.Errorf("validation failed for key %q: %w", key, err)
	}

	return setting{given: given, key: key, value: value}, nil
}

// modelHint returns a reminder to pull models outside the suggested catalog
func modelHint(name string) string {
	catalog := data.NewModelCatalog()
	if err := catalog.Load(); err != nil {
		return ""
	}
	if _, ok := catalog.Get(name); ok {
		return ""
	}
	return fmt.Sprintf("Note: %s is not a suggested model; make sure it is pulled (ollama pull %s)", name, name)
}

// convertValueToType parses value as targetType. Quoted values are
// unquoted first; a value that only looks quoted is kept as typed.
func convertValueToType(value string, targetType reflect.Type) (interface{}, error) {
	value = unquote(value)

	switch targetType.Kind() {
	case reflect.String:
		return value, nil
	case reflect.Bool:
		return strconv.ParseBool(strings.ToLower(value))
	case reflect.Int:
		return strconv.Atoi(value)
	case reflect.Float64:
		return strconv.ParseFloat(value, 64)
	case reflect.Float32:
		f, err := strconv.ParseFloat(value, 32)
		return float32(f), err
	}
	return nil, fmt.Errorf("unsupported type: %s", targetType)
}

func unquote(value string) string {
	if len(value) < 2 || !strings.ContainsRune("\"'`", rune(value[0])) {
		return value
	}
	if s, err := strconv.Unquote(value); err == nil {
		return s
	}
	return value
}

func init() {
	configCmd.AddCommand(setCmd)
}
