package common

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
)

// GeneratePath is the non-chat completion endpoint of a local model server
const GeneratePath = "/api/generate"

// CreateJSONRequest creates a POST request carrying a JSON body
func CreateJSONRequest(ctx context.Context, url string, jsonData []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// BuildGenerateURL joins the base URL and the generate endpoint
func BuildGenerateURL(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/") + GeneratePath
}
