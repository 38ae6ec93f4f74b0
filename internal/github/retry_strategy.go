package github

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryStrategy defines how failed write operations are retried
type RetryStrategy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
}

// DefaultRetryStrategy returns the strategy used for unclassified errors
func DefaultRetryStrategy() RetryStrategy {
	return RetryStrategy{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// RateLimitRetryStrategy returns the strategy for rate limited requests.
// Delays are long because the limit window resets on GitHub's schedule,
// not ours; the exact retry-after from the error takes precedence.
func RateLimitRetryStrategy() RetryStrategy {
	return RetryStrategy{
		MaxAttempts:  5,
		InitialDelay: 5 * time.Second,
		MaxDelay:     5 * time.Minute,
		Multiplier:   2.0,
		Jitter:       false,
	}
}

// NetworkRetryStrategy returns the strategy for network timeouts
func NetworkRetryStrategy() RetryStrategy {
	return RetryStrategy{
		MaxAttempts:  4,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   1.5,
		Jitter:       true,
	}
}

// GetRetryDelay calculates the delay for a given attempt
func (rs *RetryStrategy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	// Calculate exponential delay
	delay := float64(rs.InitialDelay) * math.Pow(rs.Multiplier, float64(attempt-1))

	// Cap at max delay
	if delay > float64(rs.MaxDelay) {
		delay = float64(rs.MaxDelay)
	}

	// Add jitter if enabled
	if rs.Jitter && delay > 0 {
		// Add up to 25% jitter
		jitter := rand.Float64() * 0.25 * delay
		delay += jitter
	}

	return time.Duration(delay)
}

// ShouldRetry determines if an operation should be retried based on the error
func (rs *RetryStrategy) ShouldRetry(err error, attempt int) bool {
	if err == nil || attempt >= rs.MaxAttempts {
		return false
	}

	var ghErr *GitHubError
	if !errors.As(err, &ghErr) {
		// Unclassified errors get a single retry
		return attempt < 2
	}

	return ghErr.IsRetryable()
}

// GetStrategyForError returns the retry strategy matching the error's
// classification: rate limits wait long, network timeouts retry quickly,
// server errors sit in between
func GetStrategyForError(err error) RetryStrategy {
	var ghErr *GitHubError
	if !errors.As(err, &ghErr) {
		return DefaultRetryStrategy()
	}

	switch ghErr.Type {
	case ErrorTypeRateLimit:
		return RateLimitRetryStrategy()
	case ErrorTypeNetworkTimeout:
		return NetworkRetryStrategy()
	case ErrorTypeServerError:
		return RetryStrategy{
			MaxAttempts:  3,
			InitialDelay: 2 * time.Second,
			MaxDelay:     20 * time.Second,
			Multiplier:   2.0,
			Jitter:       true,
		}
	default:
		return DefaultRetryStrategy()
	}
}

// RetryWithStrategy executes a function with retry logic
func RetryWithStrategy(ctx context.Context, strategy RetryStrategy, operation func() error) error {
	var lastErr error

	for attempt := 1; attempt <= strategy.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		if !strategy.ShouldRetry(err, attempt) {
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		// Don't sleep on the last attempt
		if attempt < strategy.MaxAttempts {
			delay := strategy.GetRetryDelay(attempt)

			// Rate limit errors carry the exact wait time
			var ghErr *GitHubError
			if errors.As(err, &ghErr) && ghErr.RetryAfter > 0 {
				delay = ghErr.RetryAfter
			}

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return lastErr
}
