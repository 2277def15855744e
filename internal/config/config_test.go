package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefault(t *testing.T) {
	config := NewDefaultFromEmbedded()

	if config == nil {
		t.Fatal("NewDefault() returned nil")
	}

	t.Run("Model", func(t *testing.T) {
		model := config.Model

		if model.Name != "gpt-oss:20b" {
			t.Errorf("Expected model name gpt-oss:20b, got %s", model.Name)
		}
		if model.Temperature != 0.2 {
			t.Errorf("Expected Temperature to be 0.2, got %f", model.Temperature)
		}
		if model.TopP != 0.8 {
			t.Errorf("Expected TopP to be 0.8, got %f", model.TopP)
		}
		if model.MaxTokens != 512 {
			t.Errorf("Expected MaxTokens to be 512, got %d", model.MaxTokens)
		}
		if model.ContextSize != 2048 {
			t.Errorf("Expected ContextSize to be 2048, got %d", model.ContextSize)
		}

		expectedStop := []string{"User:", "Human:", "\n\n\n"}
		if !reflect.DeepEqual(model.StopSequences, expectedStop) {
			t.Errorf("Expected StopSequences to be %q, got %q", expectedStop, model.StopSequences)
		}
		if model.Seed != nil {
			t.Errorf("Expected zero seed to mean no seed, got %d", *model.Seed)
		}
	})

	t.Run("Ollama", func(t *testing.T) {
		assert.Equal(t, "http://localhost:11434", config.Ollama.BaseURL)
		assert.Equal(t, 0, config.Ollama.Timeout)
		assert.Equal(t, 0, config.Ollama.MaxRetries)
	})

	t.Run("DebugAssist", func(t *testing.T) {
		assert.True(t, config.DebugAssist.Enabled)
		assert.Equal(t, 0.3, config.DebugAssist.Temperature)
		assert.Equal(t, 800, config.DebugAssist.MaxTokens)
	})

	t.Run("Commands", func(t *testing.T) {
		assert.True(t, config.Commands.Enabled)
		assert.False(t, config.Commands.Confirm)
		assert.Contains(t, config.Commands.AllowList, "python")
		assert.Contains(t, config.Commands.AllowList, "./*")
	})

	t.Run("History", func(t *testing.T) {
		assert.Equal(t, 50, config.History.MaxEntries)
		assert.Equal(t, "~/.astrelium/history.json", config.History.Path)
	})

	t.Run("Materialize", func(t *testing.T) {
		assert.Equal(t, ".backup", config.Materialize.BackupSuffix)
		assert.True(t, config.Materialize.OpenFirst)
	})
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name           string
		setupFile      func(t *testing.T, tempDir string) string
		expectError    bool
		validateConfig func(t *testing.T, cfg *Config)
	}{
		{
			name: "Successful Load",
			setupFile: func(t *testing.T, tempDir string) string {
				configPath := filepath.Join(tempDir, "test_config.toml")
				configContent := `[model]
name = "qwen2.5-coder:7b"
temperature = 0.5
seed = 42

[commands]
confirm = true
`
				require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
				return configPath
			},
			validateConfig: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "qwen2.5-coder:7b", cfg.Model.Name)
				assert.Equal(t, 0.5, cfg.Model.Temperature)
				require.NotNil(t, cfg.Model.Seed)
				assert.Equal(t, 42, *cfg.Model.Seed)
				assert.True(t, cfg.Commands.Confirm)

				// untouched values keep their defaults
				assert.Equal(t, 0.8, cfg.Model.TopP)
				assert.Equal(t, 2048, cfg.Model.ContextSize)
				assert.True(t, cfg.Commands.Enabled)
			},
		},
		{
			name: "File Not Found",
			setupFile: func(t *testing.T, tempDir string) string {
				return filepath.Join(tempDir, "nested", "config.toml")
			},
			validateConfig: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 0.2, cfg.Model.Temperature)
				assert.Equal(t, "gpt-oss:20b", cfg.Model.Name)
			},
		},
		{
			name: "Malformed File",
			setupFile: func(t *testing.T, tempDir string) string {
				configPath := filepath.Join(tempDir, "malformed.toml")
				configContent := `[model
temperature = "invalid
missing_quote = test`
				require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
				return configPath
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			configPath := tt.setupFile(t, tempDir)

			manager := NewManager()
			err := manager.Load(configPath)

			if tt.expectError {
				require.Error(t, err)
				var notFound viper.ConfigFileNotFoundError
				assert.False(t, errors.As(err, &notFound), "expected a parse error")
				return
			}

			require.NoError(t, err)
			if tt.validateConfig != nil {
				tt.validateConfig(t, manager.Config())
			}
		})
	}
}

func TestLoad_CreatesDefaultFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "astrelium", "config.toml")

	manager := NewManager()
	require.NoError(t, manager.Load(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[model]")
	assert.Contains(t, string(data), "gpt-oss:20b")
}

func TestSave_PersistsValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")

	manager := NewManager()
	require.NoError(t, manager.Load(configPath))

	manager.Viper().Set("model.temperature", 0.9)
	require.NoError(t, manager.Save())
	assert.Equal(t, 0.9, manager.Config().Model.Temperature)

	reloaded := NewManager()
	require.NoError(t, reloaded.Load(configPath))
	assert.Equal(t, 0.9, reloaded.Config().Model.Temperature)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ASTRELIUM_MODEL", "llama3.2:3b")
	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434")

	manager := NewManager()
	require.NoError(t, manager.Load(filepath.Join(t.TempDir(), "config.toml")))

	assert.Equal(t, "llama3.2:3b", manager.Config().Model.Name)
	assert.Equal(t, "http://gpu-box:11434", manager.Config().Ollama.BaseURL)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/abs/path", "/abs/path"},
		{"~", home},
		{"~/.astrelium/config.toml", filepath.Join(home, ".astrelium/config.toml")},
	}

	for _, tt := range tests {
		got, err := ExpandHome(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
