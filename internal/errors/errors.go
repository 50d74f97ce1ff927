// Package errors defines the failure taxonomy of the mesh engine and the
// retryability rules driving the retry package.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors. The first three are contained failures: the run skips the
// affected repository or recommendation and continues. ErrStore is a hard run
// failure — the snapshot is the sole durable record of an analysis.
var (
	ErrMetricFetch     = errors.New("repository metrics unavailable")
	ErrMalformedMetric = errors.New("malformed repository metrics")
	ErrActionSink      = errors.New("action sink failure")
	ErrStore           = errors.New("snapshot store failure")

	ErrTimeout     = errors.New("operation timed out")
	ErrRateLimit   = errors.New("rate limit exceeded")
	ErrNotFound    = errors.New("resource not found")
	ErrUnavailable = errors.New("service unavailable")
)

// APIError is an error from an external API call (GitHub, Slack).
type APIError struct {
	Service    string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s API error (status %d): %s: %v", e.Service, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("%s API error (status %d): %s", e.Service, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// NewAPIError creates an APIError for a service response.
func NewAPIError(service string, statusCode int, message string) *APIError {
	return &APIError{Service: service, StatusCode: statusCode, Message: message}
}

// FetchError marks a per-repository metrics failure. It wraps the cause and
// matches ErrMetricFetch, so callers skip the repository and continue.
type FetchError struct {
	Repo string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching metrics for %s: %v", e.Repo, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrMetricFetch) match any FetchError. A malformed
// metric is treated identically: skip the repository, never crash the batch.
func (e *FetchError) Is(target error) bool {
	return target == ErrMetricFetch || errors.Is(e.Err, target)
}

// IsRetryable reports whether an error is likely transient. Only retryable
// errors are worth another attempt; malformed data never is.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
	}
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrRateLimit) || errors.Is(err, ErrUnavailable)
}
