package ollama

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/chriscorrea/astrelium/internal/config"
	"github.com/chriscorrea/astrelium/internal/llm/common"
)

// Provider implements common.Provider for a local Ollama server
type Provider struct{}

// ensure Provider implements the common.Provider interface
var _ common.Provider = (*Provider)(nil)

// New creates a new Ollama provider instance
func New() *Provider {
	return &Provider{}
}

// CreateClient creates a new LLM client using the unified adapter pattern
func (p *Provider) CreateClient(cfg *config.Config, logger *slog.Logger) (common.LLM, error) {
	baseURL := cfg.Ollama.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	opts := []common.ClientOption{common.WithBaseURL(baseURL)}
	if logger != nil {
		opts = append(opts, common.WithLogger(logger))
	}

	maxRetries := cfg.Ollama.MaxRetries
	if maxRetries > common.MaxRetryLimit {
		maxRetries = common.MaxRetryLimit
	}
	if maxRetries > 0 {
		opts = append(opts, common.WithMaxRetries(maxRetries))
	}
	if cfg.Ollama.Timeout > 0 {
		opts = append(opts, common.WithTimeout(time.Duration(cfg.Ollama.Timeout)*time.Second))
	}

	return common.NewAdapterClient(p, baseURL, opts...), nil
}

// BuildOptions creates the chat-turn generation options from configuration
func (p *Provider) BuildOptions(cfg *config.Config) []interface{} {
	var functionalOpts []GenerateOption

	// zero is a meaningful temperature, so it is always sent
	functionalOpts = append(functionalOpts, WithTemperature(cfg.Model.Temperature))

	if cfg.Model.TopP > 0 {
		functionalOpts = append(functionalOpts, WithTopP(cfg.Model.TopP))
	}
	if cfg.Model.MaxTokens > 0 {
		functionalOpts = append(functionalOpts, WithMaxTokens(cfg.Model.MaxTokens))
	}
	if cfg.Model.ContextSize > 0 {
		functionalOpts = append(functionalOpts, WithContextSize(cfg.Model.ContextSize))
	}
	if len(cfg.Model.StopSequences) > 0 {
		functionalOpts = append(functionalOpts, WithStop(cfg.Model.StopSequences))
	}
	if cfg.Model.Seed != nil {
		functionalOpts = append(functionalOpts, WithSeed(*cfg.Model.Seed))
	}

	return []interface{}{NewGenerateOptions(functionalOpts...)}
}

// ProviderName returns the name of this provider
func (p *Provider) ProviderName() string {
	return "ollama"
}

// BuildRequest creates a /api/generate payload from the prompt and options
func (p *Provider) BuildRequest(prompt string, modelName string, options interface{}, logger *slog.Logger) (interface{}, error) {
	if modelName == "" {
		return nil, fmt.Errorf("no model configured; set one with: astrelium config set model=<name>")
	}

	config, ok := options.(*GenerateOptions)
	if !ok || config == nil {
		config = &GenerateOptions{}
	}

	common.LogAPIRequest(logger, "Ollama", modelName, len(prompt), &config.GenerateOptions)

	requestBody := &GenerateRequest{
		Model:  modelName,
		Prompt: prompt,
		Stream: false,
	}

	optionsMap := make(map[string]interface{})

	if config.Temperature != nil {
		optionsMap["temperature"] = *config.Temperature
	}
	if config.TopP != nil {
		optionsMap["top_p"] = *config.TopP
	}
	if config.MaxTokens != nil {
		optionsMap["num_predict"] = *config.MaxTokens
	}
	if config.ContextSize != nil {
		optionsMap["num_ctx"] = *config.ContextSize
	}
	if len(config.Stop) > 0 {
		optionsMap["stop"] = config.Stop
	}

	if config.TopK != nil {
		optionsMap["top_k"] = *config.TopK
	}
	if config.RepeatPenalty != nil {
		optionsMap["repeat_penalty"] = *config.RepeatPenalty
	}
	if config.Seed != nil {
		optionsMap["seed"] = *config.Seed
	}

	if len(optionsMap) > 0 {
		requestBody.Options = optionsMap
	}

	return requestBody, nil
}

// ParseResponse extracts the reply text and token usage
func (p *Provider) ParseResponse(body []byte, logger *slog.Logger) (string, *common.Usage, error) {
	var genResp GenerateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		common.LogJSONUnmarshalError(logger, err, string(body))
		return "", nil, fmt.Errorf("failed to unmarshal Ollama response: %w", err)
	}

	// a missing done flag is tolerated; an explicit false is a partial reply
	if genResp.Done != nil && !*genResp.Done {
		return "", nil, fmt.Errorf("incomplete response received from Ollama (done: false)")
	}

	var usage *common.Usage
	if genResp.PromptEvalCount > 0 {
		usage = &common.Usage{
			PromptTokens:     genResp.PromptEvalCount,
			CompletionTokens: genResp.EvalCount,
			TotalTokens:      genResp.PromptEvalCount + genResp.EvalCount,
		}
	}

	return genResp.Response, usage, nil
}

// HandleError turns an error status into a readable message
func (p *Provider) HandleError(statusCode int, body []byte) error {
	var errResp ErrorResponse
	_ = json.Unmarshal(body, &errResp)

	// unknown model
	if strings.Contains(string(body), "try pulling") || strings.Contains(errResp.Error, "not found") {
		return fmt.Errorf(`the requested model was not found on the Ollama server.

To see all models you have installed, run:
    ollama list

To download a model, use:
    ollama pull [model_name]`)
	}

	if statusCode == http.StatusRequestEntityTooLarge {
		return fmt.Errorf(`the request was too large for Ollama to process.

Please reduce the size of your input or raise model.context_size.`)
	}

	if errResp.Error != "" {
		return fmt.Errorf("ollama API error (status %d): %s", statusCode, errResp.Error)
	}
	return fmt.Errorf("ollama API error: status %d", statusCode)
}

// HandleConnectionError gives guidance when the server is unreachable
func (p *Provider) HandleConnectionError(err error) error {
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "no such host") {
		return fmt.Errorf(`cannot connect to Ollama server, make sure Ollama is running:
• Start Ollama: ollama serve
• Check it: curl http://localhost:11434/api/version

original error: %w`, err)
	}

	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return fmt.Errorf("ollama did not answer in time (ollama.timeout): %w", err)
	}

	return err
}

// CustomizeRequest is a no-op; Ollama needs no auth headers
func (p *Provider) CustomizeRequest(req *http.Request) error {
	return nil
}
