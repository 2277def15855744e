package cmd

import (
	"fmt"
	"strings"

	"github.com/chriscorrea/astrelium/internal/config"
	"github.com/chriscorrea/astrelium/internal/registry"

	"github.com/spf13/cobra"
)

// ModelSelector decides which provider and model serve a session
type ModelSelector interface {
	SelectModel(cmd *cobra.Command, cfg *config.Config) (providerName, modelName string, err error)
}

// DefaultModelSelector implements ModelSelector
type DefaultModelSelector struct{}

// NewModelSelector creates a new DefaultModelSelector
func NewModelSelector() *DefaultModelSelector {
	return &DefaultModelSelector{}
}

// SelectModel returns the mock provider for --test and Ollama otherwise.
// The --model flag is already merged into cfg through viper.
func (s *DefaultModelSelector) SelectModel(cmd *cobra.Command, cfg *config.Config) (providerName, modelName string, err error) {
	if boolFlag(cmd, "test") {
		return "mock", "test-model", nil
	}

	modelName = strings.TrimSpace(cfg.Model.Name)
	if modelName == "" {
		return "", "", fmt.Errorf("failed to select model: %w", s.generateModelConfigError())
	}

	providerName = registry.DefaultProvider
	if !registry.IsProviderRegistered(providerName) {
		return "", "", fmt.Errorf("provider %q is not registered", providerName)
	}
	return providerName, modelName, nil
}

// generateModelConfigError for helpful error message when model config is missing
func (s *DefaultModelSelector) generateModelConfigError() error {
	return fmt.Errorf(`no Ollama model configured.

Configure a model with:
  astrelium config set model.name=MODEL_NAME

Example:
  astrelium config set model.name=gpt-oss:20b

or run the guided setup with: astrelium init`)
}

// selectModel runs the default selector and logs the outcome
func selectModel(cmd *cobra.Command, cfg *config.Config) (string, string, error) {
	providerName, modelName, err := NewModelSelector().SelectModel(cmd, cfg)
	if err != nil {
		return "", "", err
	}

	if state.logger != nil {
		state.logger.Info("Model selected", "model_name", modelName, "provider", providerName)
	}
	return providerName, modelName, nil
}
