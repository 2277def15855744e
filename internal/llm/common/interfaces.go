package common

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/chriscorrea/astrelium/internal/config"
)

// LLM is the client interface; every provider client implements it
type LLM interface {
	Generate(ctx context.Context, prompt string, modelName string, options ...interface{}) (string, error)
}

// Provider is the contract each backend implements
// it combines the factory and the wire adapter into a single interface
type Provider interface {
	CreateClient(cfg *config.Config, logger *slog.Logger) (LLM, error)
	BuildOptions(cfg *config.Config) []interface{}
	ProviderName() string
	BuildRequest(prompt string, modelName string, options interface{}, logger *slog.Logger) (interface{}, error)
	ParseResponse(body []byte, logger *slog.Logger) (content string, usage *Usage, err error)
	HandleError(statusCode int, body []byte) error
	CustomizeRequest(req *http.Request) error
	HandleConnectionError(err error) error
}
