package llm

import "errors"

// Sentinel errors classifying upstream failures. Providers wrap these so
// callers can branch with errors.Is without knowing the backend.
var (
	// ErrModelNotFound means the requested model name was rejected. The
	// caller may retry once against its baseline model.
	ErrModelNotFound = errors.New("model not found")

	// ErrRateLimited maps HTTP 429. User-retryable.
	ErrRateLimited = errors.New("rate limited by model provider")

	// ErrServiceMisconfigured maps auth failures (401/403). Requires an
	// operator to fix credentials, never user-retryable.
	ErrServiceMisconfigured = errors.New("model provider rejected credentials")

	// ErrServiceUnavailable covers network failures and other non-success
	// statuses.
	ErrServiceUnavailable = errors.New("model provider unavailable")

	// ErrInvalidUpstreamResponse means a success status carried no message
	// content.
	ErrInvalidUpstreamResponse = errors.New("model provider returned no content")
)
