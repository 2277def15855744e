package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// ConfigFieldInfo contains metadata about a configuration field
type ConfigFieldInfo struct {
	Type        reflect.Type
	Description string
	Default     interface{}
	Validation  func(interface{}) error
	Rule        string
}

// ConfigSchema holds the registry of valid configuration paths and aliases
type ConfigSchema struct {
	ValidPaths map[string]ConfigFieldInfo
	Aliases    map[string]string
}

// validateFloat64Range returns a validation function for float64 values within a range
func validateFloat64Range(min, max float64) func(interface{}) error {
	return func(value interface{}) error {
		if v, ok := value.(float64); ok {
			if v < min || v > max {
				return fmt.Errorf("value must be between %.2f and %.2f", min, max)
			}
			return nil
		}
		return fmt.Errorf("expected float64, got %T", value)
	}
}

// validateIntRange returns a validation function for int values within a range
func validateIntRange(min, max int) func(interface{}) error {
	return func(value interface{}) error {
		if v, ok := value.(int); ok {
			if v < min || v > max {
				return fmt.Errorf("value must be between %d and %d", min, max)
			}
			return nil
		}
		return fmt.Errorf("expected int, got %T", value)
	}
}

// validateURL accepts http(s) endpoints only
func validateURL() func(interface{}) error {
	return func(value interface{}) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
			return fmt.Errorf("url must start with http:// or https://")
		}
		return nil
	}
}

// DefaultConfigSchema returns the default configuration schema
func DefaultConfigSchema() *ConfigSchema {
	return &ConfigSchema{
		ValidPaths: map[string]ConfigFieldInfo{
			// model
			"model.name": {
				Type:        reflect.TypeOf(""),
				Description: "Ollama model used for chat turns",
				Default:     "gpt-oss:20b",
			},
			"model.temperature": {
				Type:        reflect.TypeOf(float64(0)),
				Description: "Temperature for chat turns (0.0-2.0)",
				Default:     0.2,
				Validation:  validateFloat64Range(0.0, 2.0),
				Rule:        "between 0.0 and 2.0",
			},
			"model.top_p": {
				Type:        reflect.TypeOf(float64(0)),
				Description: "Top P sampling for chat turns (0.0-1.0)",
				Default:     0.8,
				Validation:  validateFloat64Range(0.0, 1.0),
				Rule:        "between 0.0 and 1.0",
			},
			"model.max_tokens": {
				Type:        reflect.TypeOf(int(0)),
				Description: "Maximum tokens to generate (num_predict)",
				Default:     512,
				Validation:  validateIntRange(1, 100000),
				Rule:        "between 1 and 100000",
			},
			"model.context_size": {
				Type:        reflect.TypeOf(int(0)),
				Description: "Context window in tokens (num_ctx)",
				Default:     2048,
				Validation:  validateIntRange(256, 1048576),
				Rule:        "between 256 and 1048576",
			},
			"model.seed": {
				Type:        reflect.TypeOf(int(0)),
				Description: "Random seed for deterministic outputs (0 = no seed)",
				Default:     0,
			},

			// endpoint
			"ollama.base_url": {
				Type:        reflect.TypeOf(""),
				Description: "Ollama server URL",
				Default:     "http://localhost:11434",
				Validation:  validateURL(),
				Rule:        "an http:// or https:// URL",
			},
			"ollama.timeout": {
				Type:        reflect.TypeOf(int(0)),
				Description: "HTTP timeout in seconds (0 = none)",
				Default:     0,
				Validation:  validateIntRange(0, 3600),
				Rule:        "between 0 and 3600",
			},
			"ollama.max_retries": {
				Type:        reflect.TypeOf(int(0)),
				Description: "Retry attempts on 429/5xx (max: 5)",
				Default:     0,
				Validation:  validateIntRange(0, 5),
				Rule:        "between 0 and 5",
			},

			// debug-assist
			"debug_assist.enabled": {
				Type:        reflect.TypeOf(bool(false)),
				Description: "Ask the model for a fix when a compile step fails",
				Default:     true,
			},
			"debug_assist.temperature": {
				Type:        reflect.TypeOf(float64(0)),
				Description: "Temperature for debug requests",
				Default:     0.3,
				Validation:  validateFloat64Range(0.0, 2.0),
				Rule:        "between 0.0 and 2.0",
			},
			"debug_assist.max_tokens": {
				Type:        reflect.TypeOf(int(0)),
				Description: "Maximum tokens for debug requests",
				Default:     800,
				Validation:  validateIntRange(1, 100000),
				Rule:        "between 1 and 100000",
			},

			// advanced commands
			"advanced.enabled": {
				Type:        reflect.TypeOf(bool(false)),
				Description: "Recognise review/refactor/docs style requests",
				Default:     true,
			},

			// command execution
			"commands.enabled": {
				Type:        reflect.TypeOf(bool(false)),
				Description: "Run COMPILE/RUN/TEST directives",
				Default:     true,
			},
			"commands.confirm": {
				Type:        reflect.TypeOf(bool(false)),
				Description: "Ask before running each command",
				Default:     false,
			},
			"commands.timeout": {
				Type:        reflect.TypeOf(int(0)),
				Description: "Per-command timeout in seconds (0 = none)",
				Default:     0,
				Validation:  validateIntRange(0, 86400),
				Rule:        "between 0 and 86400",
			},

			// materialization
			"materialize.backup_suffix": {
				Type:        reflect.TypeOf(""),
				Description: "Suffix for backups of replaced editor buffers",
				Default:     ".backup",
			},
			"materialize.open_first": {
				Type:        reflect.TypeOf(bool(false)),
				Description: "Open the first written file in the editor",
				Default:     true,
			},

			// history
			"history.path": {
				Type:        reflect.TypeOf(""),
				Description: "Chat history file",
				Default:     "~/.astrelium/history.json",
			},
			"history.max_entries": {
				Type:        reflect.TypeOf(int(0)),
				Description: "Messages kept in history",
				Default:     50,
				Validation:  validateIntRange(1, 10000),
				Rule:        "between 1 and 10000",
			},

			// workspace
			"workspace.root": {
				Type:        reflect.TypeOf(""),
				Description: "Workspace root directory",
				Default:     ".",
			},
			"workspace.watch": {
				Type:        reflect.TypeOf(bool(false)),
				Description: "Re-analyze the workspace when manifests change",
				Default:     false,
			},

			// rendering
			"render.markdown": {
				Type:        reflect.TypeOf(bool(false)),
				Description: "Render replies as terminal markdown",
				Default:     true,
			},
			"render.style": {
				Type:        reflect.TypeOf(""),
				Description: "Syntax highlighting style",
				Default:     "monokai",
			},
			"render.width": {
				Type:        reflect.TypeOf(int(0)),
				Description: "Word wrap width for rendered replies",
				Default:     80,
				Validation:  validateIntRange(20, 400),
				Rule:        "between 20 and 400",
			},
		},

		Aliases: map[string]string{
			"model":        "model.name",
			"temperature":  "model.temperature",
			"temp":         "model.temperature",
			"top-p":        "model.top_p",
			"max-tokens":   "model.max_tokens",
			"context-size": "model.context_size",
			"num-ctx":      "model.context_size",
			"seed":         "model.seed",

			"ollama-url":  "ollama.base_url",
			"timeout":     "ollama.timeout",
			"max-retries": "ollama.max_retries",

			"debug-assist": "debug_assist.enabled",
			"run-commands": "commands.enabled",
			"confirm":      "commands.confirm",

			"history-size": "history.max_entries",
			"watch":        "workspace.watch",
			"markdown":     "render.markdown",
			"style":        "render.style",
		},
	}
}

// ResolveKey resolves an alias to its canonical path or returns the path if already canonical
func (s *ConfigSchema) ResolveKey(key string) (string, error) {
	if canonicalPath, exists := s.Aliases[key]; exists {
		return canonicalPath, nil
	}

	if _, exists := s.ValidPaths[key]; exists {
		return key, nil
	}

	suggestions := s.FindSimilarKeys(key)
	if len(suggestions) > 0 {
		return "", fmt.Errorf("invalid config key %q. Did you mean one of: %s", key, strings.Join(suggestions, ", "))
	}

	return "", fmt.Errorf("invalid config key %q. Use 'astrelium config' to see valid keys", key)
}

// ValidateValue validates a value against the field's type and validation rules
func (s *ConfigSchema) ValidateValue(path string, value interface{}) error {
	fieldInfo, exists := s.ValidPaths[path]
	if !exists {
		return fmt.Errorf("unknown config path: %s", path)
	}

	valueType := reflect.TypeOf(value)
	if valueType != fieldInfo.Type {
		return fmt.Errorf("expected %s, got %s", fieldInfo.Type.String(), valueType.String())
	}

	if fieldInfo.Validation != nil {
		return fieldInfo.Validation(value)
	}

	return nil
}

// GetFieldInfo returns information about a configuration field
func (s *ConfigSchema) GetFieldInfo(path string) (ConfigFieldInfo, error) {
	fieldInfo, exists := s.ValidPaths[path]
	if !exists {
		return ConfigFieldInfo{}, fmt.Errorf("unknown config path: %s", path)
	}
	return fieldInfo, nil
}

// ListCanonicalKeys returns only the canonical configuration paths
func (s *ConfigSchema) ListCanonicalKeys() []string {
	keys := make([]string, 0, len(s.ValidPaths))
	for path := range s.ValidPaths {
		keys = append(keys, path)
	}
	sort.Strings(keys)
	return keys
}

// ListAliases returns only the alias keys
func (s *ConfigSchema) ListAliases() []string {
	aliases := make([]string, 0, len(s.Aliases))
	for alias := range s.Aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// FindSimilarKeys finds keys similar to the input using simple string matching
func (s *ConfigSchema) FindSimilarKeys(key string) []string {
	var suggestions []string
	lowerKey := strings.ToLower(key)

	for _, path := range s.ListCanonicalKeys() {
		parts := strings.Split(path, ".")
		leaf := strings.ToLower(parts[len(parts)-1])
		if strings.Contains(strings.ToLower(path), lowerKey) || strings.Contains(lowerKey, leaf) {
			suggestions = append(suggestions, path)
		}
	}

	for _, alias := range s.ListAliases() {
		if strings.Contains(strings.ToLower(alias), lowerKey) ||
			strings.Contains(lowerKey, strings.ToLower(alias)) {
			suggestions = append(suggestions, alias)
		}
	}

	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}

	return suggestions
}
