package common

import (
	"log/slog"
	"net/http"
	"time"
)

// BaseClient contains the client configuration shared by all providers
type BaseClient struct {
	HTTPClient *http.Client
	BaseURL    string
	Logger     *slog.Logger
	MaxRetries int
}

// ClientOption configures a BaseClient using the functional options pattern
type ClientOption func(*BaseClient)

// WithLogger sets the logger for any client
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *BaseClient) {
		c.Logger = logger
	}
}

// WithMaxRetries sets maximum retry attempts for any client
func WithMaxRetries(retries int) ClientOption {
	return func(c *BaseClient) {
		c.MaxRetries = retries
	}
}

// WithHTTPClient sets the HTTP client for any client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *BaseClient) {
		c.HTTPClient = client
	}
}

// WithBaseURL sets the base URL for any client
func WithBaseURL(url string) ClientOption {
	return func(c *BaseClient) {
		c.BaseURL = url
	}
}

// WithTimeout bounds every HTTP request; zero leaves requests unbounded
func WithTimeout(d time.Duration) ClientOption {
	return func(c *BaseClient) {
		c.HTTPClient = &http.Client{Timeout: d}
	}
}

// NewBaseClient creates a base client
// local models can take minutes on the first request, so there is no
// timeout and no retry unless configured
func NewBaseClient(defaultBaseURL string, opts ...ClientOption) *BaseClient {
	c := &BaseClient{
		HTTPClient: &http.Client{},
		BaseURL:    defaultBaseURL,
		MaxRetries: 0,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}
