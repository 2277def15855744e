package common

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// AdapterClient is the single HTTP client used by every Provider
// it owns marshalling, retries and logging; the provider owns the wire format
type AdapterClient struct {
	*BaseClient
	adapter Provider
}

// ensure AdapterClient implements the LLM interface
var _ LLM = (*AdapterClient)(nil)

// NewAdapterClient creates a new unified client with the given adapter
func NewAdapterClient(adapter Provider, baseURL string, opts ...ClientOption) *AdapterClient {
	return &AdapterClient{
		BaseClient: NewBaseClient(baseURL, opts...),
		adapter:    adapter,
	}
}

// Generate sends one prompt and returns the complete reply text
// TODO? ...interface() pushes type checking to runtime; consider using a more structured approach
func (c *AdapterClient) Generate(ctx context.Context, prompt string, modelName string, options ...interface{}) (string, error) {
	processedOptions := c.processOptions(options)

	request, err := c.adapter.BuildRequest(prompt, modelName, processedOptions, c.Logger)
	if err != nil {
		return "", err
	}

	response, err := c.executeRequest(ctx, request)
	if err != nil {
		// let the adapter explain unreachable servers
		return "", c.adapter.HandleConnectionError(err)
	}
	defer response.Body.Close()

	body, err := c.readResponseBody(response)
	if err != nil {
		return "", err
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return "", c.adapter.HandleError(response.StatusCode, body)
	}

	content, usage, err := c.adapter.ParseResponse(body, c.Logger)
	if err != nil {
		return "", err
	}

	c.logSuccess(content, usage)

	return content, nil
}

// processOptions picks the consolidated options object built by the provider
func (c *AdapterClient) processOptions(options []interface{}) interface{} {
	// providers fold functional options into one object before calling us
	if len(options) > 1 && c.Logger != nil {
		c.Logger.Warn("Multiple options passed to AdapterClient - only first will be used", "count", len(options))
	}

	if len(options) > 0 {
		return options[0]
	}
	return nil
}

// executeRequest marshals the payload and posts it with retry
func (c *AdapterClient) executeRequest(ctx context.Context, request interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", c.adapter.ProviderName(), err)
	}

	url := BuildGenerateURL(c.BaseURL)
	LogRequestExecution(c.Logger, url, c.MaxRetries)

	executor := func(ctx context.Context) (*http.Response, error) {
		// fresh request per attempt, the body reader is consumed
		req, err := CreateJSONRequest(ctx, url, jsonData)
		if err != nil {
			return nil, err
		}

		if err := c.adapter.CustomizeRequest(req); err != nil {
			return nil, err
		}

		return c.HTTPClient.Do(req)
	}

	resp, err := ExecuteWithRetry(ctx, executor, c.MaxRetries, c.Logger)
	if err != nil {
		LogRequestFailure(c.Logger, err, c.MaxRetries)
		return nil, err
	}

	return resp, nil
}

// readResponseBody reads and logs the HTTP response body
func (c *AdapterClient) readResponseBody(response *http.Response) ([]byte, error) {
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response body: %w", c.adapter.ProviderName(), err)
	}

	LogHTTPResponse(c.Logger, response.StatusCode, len(body))
	LogRawResponse(c.Logger, string(body), response.StatusCode)

	return body, nil
}

// logSuccess logs successful completion with token usage
func (c *AdapterClient) logSuccess(content string, usage *Usage) {
	if usage != nil {
		LogTokenUsage(c.Logger, *usage)
	}
	LogRequestCompletion(c.Logger, len(content))
}
