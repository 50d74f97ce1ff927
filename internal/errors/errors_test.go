package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_Error(t *testing.T) {
	err := NewAPIError("github", 403, "forbidden")
	assert.Contains(t, err.Error(), "github")
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "forbidden")
}

func TestAPIError_WithWrapped(t *testing.T) {
	inner := errors.New("connection refused")
	err := &APIError{Service: "slack", StatusCode: 500, Message: "fail", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFetchError_MatchesSentinel(t *testing.T) {
	err := &FetchError{Repo: "ob1-agent-hub", Err: NewAPIError("github", 502, "bad gateway")}
	assert.ErrorIs(t, err, ErrMetricFetch)
	assert.Contains(t, err.Error(), "ob1-agent-hub")
}

func TestFetchError_MalformedIsAlsoFetchFailure(t *testing.T) {
	err := &FetchError{Repo: "broken", Err: ErrMalformedMetric}
	assert.ErrorIs(t, err, ErrMetricFetch)
	assert.ErrorIs(t, err, ErrMalformedMetric)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewAPIError("github", 429, "rate limit")))
	assert.True(t, IsRetryable(NewAPIError("github", 502, "bad gateway")))
	assert.True(t, IsRetryable(NewAPIError("github", 503, "unavailable")))
	assert.True(t, IsRetryable(ErrTimeout))
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(ErrUnavailable))

	assert.False(t, IsRetryable(NewAPIError("github", 401, "unauth")))
	assert.False(t, IsRetryable(NewAPIError("github", 404, "not found")))
	assert.False(t, IsRetryable(ErrMalformedMetric))
	assert.False(t, IsRetryable(ErrStore))
}
