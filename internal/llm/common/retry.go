package common

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"time"
)

// MaxRetryLimit caps any configured retry count
const MaxRetryLimit = 5

// ShouldRetry reports whether a status code is worth another attempt
// only server errors (5xx) and rate limits (429) qualify
func ShouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		(statusCode >= 500 && statusCode < 600)
}

// calculateBackoff returns 3^attempt seconds with ±10% jitter
func calculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	base := math.Pow(3, float64(attempt))
	jitter := 0.9 + rand.Float64()*0.2

	return time.Duration(base * jitter * float64(time.Second))
}

// HTTPExecutor is a function type that executes an HTTP request
type HTTPExecutor func(ctx context.Context) (*http.Response, error)

// retryable decides whether the outcome of one attempt should be retried
func retryable(resp *http.Response, err error) bool {
	if err != nil {
		// transport error without a response
		if resp == nil {
			return true
		}
		return ShouldRetry(resp.StatusCode)
	}
	return resp != nil && ShouldRetry(resp.StatusCode)
}

// closeBody drains nothing, it only releases the connection
func closeBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
}

// ExecuteWithRetry runs executor until it succeeds, fails permanently,
// or maxRetries extra attempts have been spent
func ExecuteWithRetry(ctx context.Context, executor HTTPExecutor, maxRetries int, logger *slog.Logger) (*http.Response, error) {
	if maxRetries > MaxRetryLimit {
		maxRetries = MaxRetryLimit
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			delay := calculateBackoff(attempt)
			if logger != nil {
				logger.Debug("Retrying HTTP request",
					"attempt", attempt,
					"max_retries", maxRetries,
					"delay_seconds", delay.Seconds())
			}

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		resp, err := executor(ctx)

		if ctx.Err() != nil {
			closeBody(resp)
			return nil, ctx.Err()
		}

		if !retryable(resp, err) || attempt >= maxRetries {
			if err != nil {
				closeBody(resp)
			}
			return resp, err
		}

		if logger != nil {
			args := []interface{}{"attempt", attempt}
			if resp != nil {
				args = append(args, "status_code", resp.StatusCode)
			}
			if err != nil {
				args = append(args, "error", err.Error())
			}
			logger.Debug("Request failed, will retry", args...)
		}

		closeBody(resp)
	}
}
