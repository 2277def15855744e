package cmd

import (
	"path/filepath"
	"testing"

	"github.com/chriscorrea/astrelium/internal/config"
	"github.com/chriscorrea/astrelium/internal/logger"
)

// withTestState loads a fresh config in a temp dir into the global state
// and restores the previous state when the test ends
func withTestState(t *testing.T) (*config.Manager, string) {
	t.Helper()

	// env overrides would shadow values read back from the file
	t.Setenv("OLLAMA_HOST", "")
	t.Setenv("ASTRELIUM_MODEL", "")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	manager := config.NewManager()
	if err := manager.Load(configPath); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	originalState := state
	state = &rootCmdState{manager: manager, logger: logger.OrDiscard(nil)}
	t.Cleanup(func() { state = originalState })

	return manager, configPath
}
