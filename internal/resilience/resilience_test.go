package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDoRetriesTransientOnly(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}

	calls := 0
	err := Do(context.Background(), policy, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("dial tcp: i/o timeout")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)

	calls = 0
	err = Do(context.Background(), policy, func(ctx context.Context) error {
		calls++
		return errors.New("bad request: invalid model name")
	})
	require.Error(t, err)
	require.Equal(t, 1, calls, "permanent errors must not be retried")
}

func TestDoExhaustsAttempts(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond}
	calls := 0
	err := Do(context.Background(), policy, func(ctx context.Context) error {
		calls++
		return errors.New("429 rate limited")
	})
	require.Error(t, err)
	require.Equal(t, 2, calls)
	require.Contains(t, err.Error(), "gave up after 2 attempts")
}

func TestDoHonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, RetryPolicy{MaxAttempts: 5, BaseDelay: time.Second}, func(ctx context.Context) error {
		return errors.New("service temporarily unavailable")
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache[string](time.Minute)
	clock := time.Now()
	c.now = func() time.Time { return clock }

	c.Set("a", "alpha")
	c.Set("b", "beta")
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, "alpha", v)

	clock = clock.Add(2 * time.Minute)
	_, ok = c.Get("a")
	require.False(t, ok, "entry past its ttl must miss")

	require.Equal(t, 1, c.Sweep())
	require.Equal(t, 0, c.Len())
}

func TestCacheDelete(t *testing.T) {
	c := NewCache[int](time.Minute)
	c.Set("k", 7)
	c.Delete("k")
	_, ok := c.Get("k")
	require.False(t, ok)
}
