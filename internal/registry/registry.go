package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/chriscorrea/astrelium/internal/config"
	"github.com/chriscorrea/astrelium/internal/llm/common"
	"github.com/chriscorrea/astrelium/internal/llm/mock"
	"github.com/chriscorrea/astrelium/internal/llm/ollama"
)

// DefaultProvider is the backend used unless --test selects the mock
const DefaultProvider = "ollama"

// AllProviders contains registered LLM providers
var AllProviders = map[string]common.Provider{
	"mock":   mock.New(),
	"ollama": ollama.New(),
}

// CreateProvider creates a client using the central registry
// this will return an error if provider is not registered or creation fails
func CreateProvider(name string, cfg *config.Config, logger *slog.Logger) (common.LLM, error) {
	provider, exists := AllProviders[name]
	if !exists {
		return nil, fmt.Errorf("unsupported provider '%s'. Available providers: %s", name, strings.Join(GetAvailableProviders(), ", "))
	}

	return provider.CreateClient(cfg, logger)
}

// BuildProviderOptions builds provider-specific options using the central registry
// returns nil if the provider is not registered
func BuildProviderOptions(name string, cfg *config.Config) []interface{} {
	provider, exists := AllProviders[name]
	if !exists {
		return nil
	}

	return provider.BuildOptions(cfg)
}

// GetAvailableProviders returns the sorted registered provider names
func GetAvailableProviders() []string {
	providers := make([]string, 0, len(AllProviders))
	for name := range AllProviders {
		providers = append(providers, name)
	}
	sort.Strings(providers)
	return providers
}

// IsProviderRegistered checks if provider is registered
func IsProviderRegistered(name string) bool {
	_, exists := AllProviders[name]
	return exists
}
