package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTemporary = errors.New("temporary")

func TestDoWithResult(t *testing.T) {
	fast := retry.ConstantBackoff(time.Millisecond)

	t.Run("SucceedsAfterRetries", func(t *testing.T) {
		calls := 0
		v, err := retry.DoWithResult(t.Context(), retry.RetryConfig{
			MaxAttempts: 3,
			Backoff:     fast,
		}, func() (int, error) {
			calls++
			if calls < 3 {
				return 0, errTemporary
			}
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, v)
		assert.Equal(t, 3, calls)
	})

	t.Run("ExhaustsAttempts", func(t *testing.T) {
		calls := 0
		err := retry.Do(t.Context(), retry.RetryConfig{
			MaxAttempts: 2,
			Backoff:     fast,
		}, func() error {
			calls++
			return errTemporary
		})
		assert.ErrorIs(t, err, errTemporary)
		assert.Equal(t, 2, calls)
	})

	t.Run("NotRetryable", func(t *testing.T) {
		permanent := errors.New("permanent")
		calls := 0
		err := retry.Do(t.Context(), retry.RetryConfig{
			MaxAttempts: 5,
			Backoff:     fast,
			ShouldRetry: func(err error) bool { return errors.Is(err, errTemporary) },
		}, func() error {
			calls++
			return permanent
		})
		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("ContextCanceledWhileWaiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		err := retry.Do(ctx, retry.RetryConfig{
			MaxAttempts: 3,
			Backoff:     retry.ConstantBackoff(time.Hour),
		}, func() error {
			cancel()
			return errTemporary
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, err, errTemporary)
	})

	t.Run("ContextAlreadyDone", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		called := false
		err := retry.Do(ctx, retry.RetryConfig{}, func() error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})
}

func TestExponentialBackoff(t *testing.T) {
	b := retry.ExponentialBackoff(10 * time.Millisecond)
	for attempt := 1; attempt <= 4; attempt++ {
		base := time.Duration(1<<attempt) * 10 * time.Millisecond
		d := b(attempt)
		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, base+base/2)
	}
}
