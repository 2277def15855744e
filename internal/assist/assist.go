// Package assist asks the model for a fix after a failed compile.
package assist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chriscorrea/astrelium/internal/llm/common"
	"github.com/chriscorrea/astrelium/internal/template"
)

// NoSuggestion is shown when the model answers with an empty string
const NoSuggestion = "No debug suggestion received"

// Assistant performs a single advisory round-trip; it never patches files
// and never retries the failed command
type Assistant struct {
	LLM     common.LLM
	Model   string
	Options []interface{} // provider options for the debug request
	Logger  *slog.Logger

	// Template overrides template.Debug; it must contain {error}
	Template string
}

// New creates an Assistant
func New(llm common.LLM, model string, options []interface{}, logger *slog.Logger) *Assistant {
	return &Assistant{
		LLM:     llm,
		Model:   model,
		Options: options,
		Logger:  logger,
	}
}

// Prompt renders the debugging prompt for errorText
func (a *Assistant) Prompt(errorText string) string {
	tmpl := a.Template
	if tmpl == "" {
		tmpl = template.Debug
	}
	return template.Render(tmpl, map[string]string{"error": errorText})
}

// Suggest sends errorText to the model and returns its reply verbatim
func (a *Assistant) Suggest(ctx context.Context, errorText string) (string, error) {
	if a.LLM == nil {
		return "", fmt.Errorf("debug assist has no language model")
	}

	if a.Logger != nil {
		a.Logger.Debug("Requesting debug suggestion", "error_length", len(errorText))
	}

	reply, err := a.LLM.Generate(ctx, a.Prompt(errorText), a.Model, a.Options...)
	if err != nil {
		return "", fmt.Errorf("debug analysis failed: %w", err)
	}

	if strings.TrimSpace(reply) == "" {
		return NoSuggestion, nil
	}
	return reply, nil
}
