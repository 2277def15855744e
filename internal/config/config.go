package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

//go:embed data/default_config.toml
var defaultConfigTOML string

// DefaultConfigPath is where the user config lives unless --config says otherwise
const DefaultConfigPath = "~/.astrelium/config.toml"

// envOverrides maps config keys to the environment variables that win over the file
var envOverrides = map[string]string{
	"model.name":      "ASTRELIUM_MODEL",
	"ollama.base_url": "OLLAMA_HOST",
}

// EnvOverride returns the environment variable bound to key, if any
func EnvOverride(key string) (string, bool) {
	name, ok := envOverrides[key]
	return name, ok
}

// Manager handles configuration loading and management
type Manager struct {
	v      *viper.Viper
	cfg    *Config
	logger *slog.Logger
}

// NewManager creates a new configuration manager with default settings
func NewManager() *Manager {
	v := viper.New()

	// short names for the keys people touch most
	v.RegisterAlias("model-name", "model.name")
	v.RegisterAlias("ollama-url", "ollama.base_url")

	for key, env := range envOverrides {
		_ = v.BindEnv(key, env)
	}

	return &Manager{
		v:   v,
		cfg: &Config{}, // defaults loaded from embedded TOML in Load()
	}
}

// WithLogger sets the logger for the configuration manager
func (m *Manager) WithLogger(logger *slog.Logger) *Manager {
	m.logger = logger
	return m
}

// Load loads configuration from the specified TOML file, merging with defaults
func (m *Manager) Load(configPath string) error {
	if m.logger != nil {
		m.logger.Debug("Attempting to load config file", "path", configPath)
	}

	m.v.SetConfigType("toml")

	// defaults first
	if err := m.v.ReadConfig(strings.NewReader(defaultConfigTOML)); err != nil {
		return fmt.Errorf("failed to load embedded defaults: %w", err)
	}

	m.v.SetConfigFile(configPath)

	// merge user config file over defaults
	err := m.v.MergeInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		var pathError *os.PathError
		if !errors.As(err, &configFileNotFoundError) && !errors.As(err, &pathError) {
			return err
		}
		if pathError != nil && !os.IsNotExist(pathError) {
			return err
		}

		if m.logger != nil {
			m.logger.Debug("Config file not found")
		}

		if err := m.createDefaultConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create default config file: %w", err)
		}

		// keep the path so Save() knows where to write
		m.v.SetConfigFile(configPath)

	} else if m.logger != nil {
		m.logger.Info("Configuration loaded successfully", "path", m.v.ConfigFileUsed())
	}

	if err := m.v.Unmarshal(&m.cfg); err != nil {
		return err
	}

	m.postProcessConfig()

	return nil
}

// Config returns the current configuration
func (m *Manager) Config() *Config {
	return m.cfg
}

// Viper returns the underlying Viper instance for flag binding
func (m *Manager) Viper() *viper.Viper {
	return m.v
}

// Save writes the current configuration state back to the config file
func (m *Manager) Save() error {
	configFile := m.v.ConfigFileUsed()
	if configFile == "" {
		return fmt.Errorf("no config file path set")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := m.v.SafeWriteConfigAs(configFile); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
	} else {
		if err := m.v.WriteConfigAs(configFile); err != nil {
			return fmt.Errorf("failed to update config file: %w", err)
		}
	}

	// reload the struct so callers see the saved values
	if err := m.v.Unmarshal(&m.cfg); err != nil {
		return fmt.Errorf("failed to reload configuration after save: %w", err)
	}
	m.postProcessConfig()

	return nil
}

// NewDefaultFromEmbedded creates a Config struct populated from embedded TOML
// note we're primarily using this for testing
func NewDefaultFromEmbedded() *Config {
	v := viper.New()
	v.SetConfigType("toml")

	if err := v.ReadConfig(strings.NewReader(defaultConfigTOML)); err != nil {
		panic(fmt.Sprintf("failed to load embedded defaults in test helper: %v", err))
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal embedded config in test helper: %v", err))
	}
	if cfg.Model.Seed != nil && *cfg.Model.Seed == 0 {
		cfg.Model.Seed = nil
	}

	return cfg
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return home, nil
	}

	return filepath.Join(home, path[1:]), nil
}

// postProcessConfig handles special processing after configuration loading
func (m *Manager) postProcessConfig() {
	// seed of 0 means "no seed"
	if m.v.IsSet("model.seed") {
		seedValue := m.v.GetInt("model.seed")
		if seedValue == 0 {
			m.cfg.Model.Seed = nil
		} else {
			m.cfg.Model.Seed = &seedValue
		}
	}

	if m.cfg.History.MaxEntries <= 0 {
		m.cfg.History.MaxEntries = 50
	}
	if m.cfg.Materialize.BackupSuffix == "" {
		m.cfg.Materialize.BackupSuffix = ".backup"
	}
}

// createDefaultConfigFile creates the default config.toml file if it doesn't exist
func (m *Manager) createDefaultConfigFile(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfigTOML), 0600); err != nil {
		return fmt.Errorf("failed to write default config file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Created default config.toml at %s\n", configPath)
	fmt.Fprintf(os.Stderr, "For a guided setup, run: astrelium init\n")

	if m.logger != nil {
		m.logger.Info("Created default config file", "path", configPath)
	}

	return nil
}
