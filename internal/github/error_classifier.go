package github

import (
	"errors"
	"net"
	"strings"
	"time"

	"github.com/google/go-github/v50/github"
)

// ClassifyError converts an error returned by the go-github client into a
// structured GitHubError. Errors that are already classified pass through.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var ghErr *GitHubError
	if errors.As(err, &ghErr) {
		return err
	}

	var rateLimitErr *github.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &GitHubError{
			Type:        ErrorTypeRateLimit,
			StatusCode:  429,
			Message:     rateLimitErr.Message,
			RetryAfter:  time.Until(rateLimitErr.Rate.Reset.Time),
			OriginalErr: err,
		}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		ghe := &GitHubError{
			Type:        ErrorTypeRateLimit,
			StatusCode:  429,
			Message:     abuseErr.Message,
			OriginalErr: err,
		}
		if abuseErr.RetryAfter != nil {
			ghe.RetryAfter = *abuseErr.RetryAfter
		}
		return ghe
	}

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		statusCode := 0
		if errResp.Response != nil {
			statusCode = errResp.Response.StatusCode
		}
		return &GitHubError{
			Type:        typeForStatus(statusCode, errResp.Message),
			StatusCode:  statusCode,
			Message:     errResp.Message,
			OriginalErr: err,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &GitHubError{
			Type:        ErrorTypeNetworkTimeout,
			Message:     err.Error(),
			OriginalErr: err,
		}
	}

	return &GitHubError{
		Type:        ErrorTypeUnknown,
		Message:     err.Error(),
		OriginalErr: err,
	}
}

// typeForStatus maps an HTTP status code to an error type
func typeForStatus(statusCode int, message string) GitHubErrorType {
	switch {
	case statusCode == 401:
		return ErrorTypeAuthentication
	case statusCode == 403:
		// 403 covers both secondary rate limits and permission errors
		if strings.Contains(strings.ToLower(message), "rate limit") {
			return ErrorTypeRateLimit
		}
		return ErrorTypeAuthentication
	case statusCode == 404 || statusCode == 410:
		return ErrorTypeNotFound
	case statusCode == 429:
		return ErrorTypeRateLimit
	case statusCode >= 500 && statusCode < 600:
		return ErrorTypeServerError
	default:
		return ErrorTypeUnknown
	}
}
