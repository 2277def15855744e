package common

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chriscorrea/astrelium/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProvider implements Provider for testing
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreateClient(cfg *config.Config, logger *slog.Logger) (LLM, error) {
	args := m.Called(cfg, logger)
	return args.Get(0).(LLM), args.Error(1)
}

func (m *MockProvider) BuildOptions(cfg *config.Config) []interface{} {
	args := m.Called(cfg)
	return args.Get(0).([]interface{})
}

func (m *MockProvider) ProviderName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) BuildRequest(prompt string, modelName string, options interface{}, logger *slog.Logger) (interface{}, error) {
	args := m.Called(prompt, modelName, options, logger)
	return args.Get(0), args.Error(1)
}

func (m *MockProvider) ParseResponse(body []byte, logger *slog.Logger) (string, *Usage, error) {
	args := m.Called(body, logger)
	return args.String(0), args.Get(1).(*Usage), args.Error(2)
}

func (m *MockProvider) HandleError(statusCode int, body []byte) error {
	args := m.Called(statusCode, body)
	return args.Error(0)
}

func (m *MockProvider) CustomizeRequest(req *http.Request) error {
	args := m.Called(req)
	return args.Error(0)
}

func (m *MockProvider) HandleConnectionError(err error) error {
	args := m.Called(err)
	return args.Error(0)
}

// newRequestExpectations wires the calls every successful round trip makes
func newRequestExpectations(m *MockProvider, prompt string) {
	m.On("BuildRequest", prompt, "test-model", mock.Anything, mock.Anything).Return(map[string]interface{}{
		"model":  "test-model",
		"prompt": prompt,
	}, nil)
	m.On("ProviderName").Return("test-provider").Maybe()
	m.On("CustomizeRequest", mock.AnythingOfType("*http.Request")).Return(nil)
}

func TestAdapterClient_Generate_Success(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"response": "hello"}`))
		assert.NoError(t, err)
	}))
	defer server.Close()

	mockProvider := &MockProvider{}
	newRequestExpectations(mockProvider, "test prompt")
	mockProvider.On("ParseResponse", mock.AnythingOfType("[]uint8"), mock.Anything).Return(
		"hello",
		&Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		nil)

	client := NewAdapterClient(mockProvider, server.URL)
	result, err := client.Generate(context.Background(), "test prompt", "test-model")

	require.NoError(t, err)
	assert.Equal(t, "hello", result)
	assert.Equal(t, "/api/generate", gotPath)
	assert.Equal(t, "test prompt", gotBody["prompt"])
	mockProvider.AssertExpectations(t)
}

func TestAdapterClient_Generate_BuildRequest_Error(t *testing.T) {
	mockProvider := &MockProvider{}
	expectedError := errors.New("build request failed")
	mockProvider.On("BuildRequest", "test prompt", "test-model", mock.Anything, mock.Anything).Return(nil, expectedError)

	client := NewAdapterClient(mockProvider, "http://localhost:8080")
	result, err := client.Generate(context.Background(), "test prompt", "test-model")

	assert.Equal(t, expectedError, err)
	assert.Empty(t, result)
	mockProvider.AssertExpectations(t)
}

func TestAdapterClient_Generate_HTTP_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte(`{"error": "model 'nope' not found"}`))
		assert.NoError(t, err)
	}))
	defer server.Close()

	mockProvider := &MockProvider{}
	newRequestExpectations(mockProvider, "test prompt")
	expectedError := errors.New("provider-specific error message")
	mockProvider.On("HandleError", http.StatusNotFound, []byte(`{"error": "model 'nope' not found"}`)).Return(expectedError)

	client := NewAdapterClient(mockProvider, server.URL)
	result, err := client.Generate(context.Background(), "test prompt", "test-model")

	assert.Equal(t, expectedError, err)
	assert.Empty(t, result)
	mockProvider.AssertExpectations(t)
}

func TestAdapterClient_Generate_ParseResponse_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"malformed": json}`))
		assert.NoError(t, err)
	}))
	defer server.Close()

	mockProvider := &MockProvider{}
	newRequestExpectations(mockProvider, "test prompt")
	expectedError := errors.New("failed to parse response")
	mockProvider.On("ParseResponse", []byte(`{"malformed": json}`), mock.Anything).Return("", (*Usage)(nil), expectedError)

	client := NewAdapterClient(mockProvider, server.URL)
	result, err := client.Generate(context.Background(), "test prompt", "test-model")

	assert.Equal(t, expectedError, err)
	assert.Empty(t, result)
	mockProvider.AssertExpectations(t)
}

func TestAdapterClient_Generate_Connection_Error(t *testing.T) {
	// grab a free port, then close the listener so nothing answers
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := server.URL
	server.Close()

	mockProvider := &MockProvider{}
	newRequestExpectations(mockProvider, "test prompt")
	enhancedError := errors.New("enhanced connection error message")
	mockProvider.On("HandleConnectionError", mock.MatchedBy(func(err error) bool {
		return err != nil
	})).Return(enhancedError)

	client := NewAdapterClient(mockProvider, deadURL)
	result, err := client.Generate(context.Background(), "test prompt", "test-model")

	assert.Equal(t, enhancedError, err)
	assert.Empty(t, result)
	mockProvider.AssertCalled(t, "HandleConnectionError", mock.AnythingOfType("*url.Error"))
}

func TestAdapterClient_Generate_CustomizeRequest_Error(t *testing.T) {
	mockProvider := &MockProvider{}
	customizeError := errors.New("failed to customize request")
	mockProvider.On("BuildRequest", "test prompt", "test-model", mock.Anything, mock.Anything).Return(map[string]interface{}{}, nil)
	mockProvider.On("ProviderName").Return("test-provider").Maybe()
	mockProvider.On("CustomizeRequest", mock.AnythingOfType("*http.Request")).Return(customizeError)
	mockProvider.On("HandleConnectionError", customizeError).Return(customizeError)

	client := NewAdapterClient(mockProvider, "http://localhost:8080")
	result, err := client.Generate(context.Background(), "test prompt", "test-model")

	assert.ErrorContains(t, err, "failed to customize request")
	assert.Empty(t, result)
	mockProvider.AssertExpectations(t)
}

func TestAdapterClient_Generate_With_Options(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"response": "response with options"}`))
		assert.NoError(t, err)
	}))
	defer server.Close()

	mockProvider := &MockProvider{}
	testOptions := []interface{}{"option1", "option2"}

	// only the first option object reaches the provider
	mockProvider.On("BuildRequest", "test prompt", "test-model", "option1", mock.Anything).Return(map[string]interface{}{}, nil)
	mockProvider.On("ProviderName").Return("test-provider").Maybe()
	mockProvider.On("CustomizeRequest", mock.AnythingOfType("*http.Request")).Return(nil)
	mockProvider.On("ParseResponse", mock.AnythingOfType("[]uint8"), mock.Anything).Return("response with options", (*Usage)(nil), nil)

	client := NewAdapterClient(mockProvider, server.URL, WithLogger(slog.Default()))
	result, err := client.Generate(context.Background(), "test prompt", "test-model", testOptions...)

	require.NoError(t, err)
	assert.Equal(t, "response with options", result)
	mockProvider.AssertExpectations(t)
}

func TestAdapterClient_Generate_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"response": "too late"}`))
	}))
	defer server.Close()

	mockProvider := &MockProvider{}
	newRequestExpectations(mockProvider, "test prompt")
	mockProvider.On("HandleConnectionError", context.Canceled).Return(context.Canceled)

	client := NewAdapterClient(mockProvider, server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := client.Generate(ctx, "test prompt", "test-model")

	assert.Equal(t, context.Canceled, err)
	assert.Empty(t, result)
}

func TestAdapterClient_Generate_AcceptsAny2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"response": "created"}`))
	}))
	defer server.Close()

	mockProvider := &MockProvider{}
	newRequestExpectations(mockProvider, "test prompt")
	mockProvider.On("ParseResponse", mock.AnythingOfType("[]uint8"), mock.Anything).Return("created", (*Usage)(nil), nil)

	client := NewAdapterClient(mockProvider, server.URL)
	result, err := client.Generate(context.Background(), "test prompt", "test-model")

	require.NoError(t, err)
	assert.Equal(t, "created", result)
}
