package github

import (
	"errors"
	"fmt"
	"time"
)

// GitHubErrorType is the classification of a GitHub API failure.
// The sweep run treats each type differently: authentication aborts the
// run, not-found is a no-op for write operations, retryable types go
// through the retry strategies.
type GitHubErrorType int

const (
	// ErrorTypeRateLimit indicates the rate limit was exceeded
	ErrorTypeRateLimit GitHubErrorType = iota
	// ErrorTypeNetworkTimeout indicates a network timeout
	ErrorTypeNetworkTimeout
	// ErrorTypeAuthentication indicates the token was rejected
	ErrorTypeAuthentication
	// ErrorTypeNotFound indicates the issue or repository is gone
	ErrorTypeNotFound
	// ErrorTypeServerError indicates a 5xx response
	ErrorTypeServerError
	// ErrorTypeUnknown is everything else
	ErrorTypeUnknown
)

// String returns the string representation of the error type
func (t GitHubErrorType) String() string {
	switch t {
	case ErrorTypeRateLimit:
		return "RateLimit"
	case ErrorTypeNetworkTimeout:
		return "NetworkTimeout"
	case ErrorTypeAuthentication:
		return "Authentication"
	case ErrorTypeNotFound:
		return "NotFound"
	case ErrorTypeServerError:
		return "ServerError"
	default:
		return "Unknown"
	}
}

// GitHubError is a classified GitHub API error. RetryAfter is set when
// the API told us how long to wait (rate limit responses)
type GitHubError struct {
	Type        GitHubErrorType
	StatusCode  int
	Message     string
	RetryAfter  time.Duration
	OriginalErr error
}

// Error implements the error interface
func (e *GitHubError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("GitHub API error [%s]: %s: %v", e.Type, e.Message, e.OriginalErr)
	}
	return fmt.Sprintf("GitHub API error [%s]: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *GitHubError) Unwrap() error {
	return e.OriginalErr
}

// IsRetryable returns true if a retry has a chance of succeeding
func (e *GitHubError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeRateLimit, ErrorTypeNetworkTimeout, ErrorTypeServerError:
		return true
	default:
		return false
	}
}

// IsRateLimitError checks if the error is a rate limit error
func IsRateLimitError(err error) bool {
	var ghErr *GitHubError
	if errors.As(err, &ghErr) {
		return ghErr.Type == ErrorTypeRateLimit
	}
	return false
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	var ghErr *GitHubError
	if errors.As(err, &ghErr) {
		return ghErr.Type == ErrorTypeNotFound
	}
	return false
}

// IsAuthenticationError checks if the error is an authentication error
func IsAuthenticationError(err error) bool {
	var ghErr *GitHubError
	if errors.As(err, &ghErr) {
		return ghErr.Type == ErrorTypeAuthentication
	}
	return false
}
