package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLimiter struct {
	allowed bool
	err     error
	calls   int
}

func (s *stubLimiter) Allow(context.Context, string, int, time.Duration) (bool, error) {
	s.calls++
	return s.allowed, s.err
}

func TestFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("primary healthy", func(t *testing.T) {
		primary := &stubLimiter{allowed: false}
		secondary := &stubLimiter{allowed: true}
		allowed, err := NewFallback(primary, secondary).Allow(ctx, "k", 1, time.Second)
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Zero(t, secondary.calls)
	})

	t.Run("primary failing", func(t *testing.T) {
		primary := &stubLimiter{err: errors.New("connection refused")}
		secondary := &stubLimiter{allowed: true}
		f := NewFallback(primary, secondary)
		for i := 0; i < 3; i++ {
			allowed, err := f.Allow(ctx, "k", 1, time.Second)
			require.NoError(t, err)
			assert.True(t, allowed)
		}
		assert.Equal(t, 3, primary.calls)
		assert.Equal(t, 3, secondary.calls)
	})

	t.Run("no primary", func(t *testing.T) {
		secondary := &stubLimiter{allowed: true}
		allowed, err := NewFallback(nil, secondary).Allow(ctx, "k", 1, time.Second)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}
