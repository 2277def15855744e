package mock

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/chriscorrea/astrelium/internal/config"
	"github.com/chriscorrea/astrelium/internal/llm/common"
)

// Provider implements common.Provider without touching the network
type Provider struct{}

var _ common.Provider = (*Provider)(nil)

func New() *Provider {
	return &Provider{}
}

// ResponseEnv overrides the canned reply of clients created by the provider
const ResponseEnv = "ASTRELIUM_MOCK_RESPONSE"

// CreateClient creates a new mock LLM client
func (p *Provider) CreateClient(cfg *config.Config, logger *slog.Logger) (common.LLM, error) {
	return &Client{Response: os.Getenv(ResponseEnv)}, nil
}

// BuildOptions returns no options; the mock ignores them
func (p *Provider) BuildOptions(cfg *config.Config) []interface{} {
	return []interface{}{}
}

// ProviderName returns the name of this provider
func (p *Provider) ProviderName() string {
	return "mock"
}

// BuildRequest creates a mock request
func (p *Provider) BuildRequest(prompt string, modelName string, options interface{}, logger *slog.Logger) (interface{}, error) {
	return map[string]interface{}{
		"model":  modelName,
		"prompt": prompt,
	}, nil
}

// the remaining methods only satisfy the interface

// ParseResponse parses a mock response
func (p *Provider) ParseResponse(body []byte, logger *slog.Logger) (string, *common.Usage, error) {
	return DefaultResponse, &common.Usage{
		PromptTokens:     10,
		CompletionTokens: 20,
		TotalTokens:      30,
	}, nil
}

// HandleError handles mock errors
func (p *Provider) HandleError(statusCode int, body []byte) error {
	return nil
}

// HandleConnectionError handles mock connection errors
func (p *Provider) HandleConnectionError(err error) error {
	return err
}

// CustomizeRequest customizes mock requests
func (p *Provider) CustomizeRequest(req *http.Request) error {
	return nil
}
