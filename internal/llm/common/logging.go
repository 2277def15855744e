package common

import (
	"fmt"
	"log/slog"
)

// LogAPIRequest logs the outgoing request parameters
func LogAPIRequest(logger *slog.Logger, providerName, modelName string, promptLength int, config *GenerateOptions) {
	if logger == nil {
		return
	}

	args := []interface{}{
		"model", modelName,
		"prompt_length", promptLength,
	}

	if config != nil {
		if config.Temperature != nil {
			args = append(args, "temperature", *config.Temperature)
		}
		if config.MaxTokens != nil {
			args = append(args, "num_predict", *config.MaxTokens)
		}
		if config.TopP != nil {
			args = append(args, "top_p", *config.TopP)
		}
		if config.ContextSize != nil {
			args = append(args, "num_ctx", *config.ContextSize)
		}
	}

	logger.Debug(fmt.Sprintf("Sending request to %s API", providerName), args...)
}

// LogHTTPResponse logs basic HTTP response information
func LogHTTPResponse(logger *slog.Logger, statusCode int, bodyLength int) {
	if logger == nil {
		return
	}
	logger.Debug("Received API response",
		"status_code", statusCode,
		"body_length", bodyLength)
}

// LogRawResponse logs the raw API response body for debugging
func LogRawResponse(logger *slog.Logger, body string, statusCode int) {
	if logger == nil {
		return
	}
	logger.Debug("Raw API response",
		"body", body,
		"status_code", statusCode)
}

// LogTokenUsage logs token consumption
func LogTokenUsage(logger *slog.Logger, usage Usage) {
	if logger == nil {
		return
	}
	logger.Debug("Parsed API response",
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
		"total_tokens", usage.TotalTokens)
}

// LogRequestCompletion logs successful request completion
func LogRequestCompletion(logger *slog.Logger, contentLength int) {
	if logger == nil {
		return
	}
	logger.Debug("API request completed successfully",
		"response_length", contentLength)
}

// LogRequestExecution logs request execution details
func LogRequestExecution(logger *slog.Logger, url string, maxRetries int) {
	if logger == nil {
		return
	}
	logger.Debug("Executing API request",
		"url", url,
		"max_retries", maxRetries)
}

// LogRequestFailure logs request execution failures
func LogRequestFailure(logger *slog.Logger, err error, maxRetries int) {
	if logger == nil {
		return
	}
	logger.Error("API request failed",
		"error", err,
		"max_retries", maxRetries)
}

// LogJSONUnmarshalError logs JSON parsing errors with context
func LogJSONUnmarshalError(logger *slog.Logger, err error, responseBody string) {
	if logger == nil {
		return
	}
	logger.Error("Failed to unmarshal JSON response",
		"error", err,
		"response_body", responseBody)
}
