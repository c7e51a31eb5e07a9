package resilience

import (
	"context"
	"fmt"
	"time"

	"policylens/internal/providers"
)

// RetryPolicy bounds the retry loop for outbound model and network calls.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond, MaxDelay: 8 * time.Second}
}

// Do runs fn up to MaxAttempts times, backing off exponentially between
// attempts. Only failures classified as transient or rate-limited are
// retried; anything else is returned to the caller on first sight.
func Do(ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) error) error {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = 500 * time.Millisecond
	}
	var lastErr error
	delay := policy.BaseDelay
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !providers.Retryable(providers.ClassifyError(lastErr)) {
			return lastErr
		}
		if attempt == policy.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if policy.MaxDelay > 0 && delay > policy.MaxDelay {
			delay = policy.MaxDelay
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", policy.MaxAttempts, lastErr)
}
