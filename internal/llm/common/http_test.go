package common

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateJSONRequest(t *testing.T) {
	url := "http://localhost:11434/api/generate"
	jsonData := []byte(`{"model":"gpt-oss:20b"}`)

	req, err := CreateJSONRequest(context.Background(), url, jsonData)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, url, req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	// local servers take no credentials
	assert.Empty(t, req.Header.Get("Authorization"))

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, string(jsonData), string(body))
}

func TestBuildGenerateURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		expected string
	}{
		{"plain", "http://localhost:11434", "http://localhost:11434/api/generate"},
		{"trailing slash", "http://localhost:11434/", "http://localhost:11434/api/generate"},
		{"proxied prefix", "https://gpu.example.com/ollama", "https://gpu.example.com/ollama/api/generate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildGenerateURL(tt.baseURL))
		})
	}
}
