package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedLimiter_AllowsBurstThenRejects(t *testing.T) {
	l := NewKeyedLimiter(3)
	defer l.Stop()

	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "user-1", 1, time.Second)
		require.NoError(t, err)
		assert.True(t, ok, "request %d should pass", i)
	}

	ok, err := l.Allow(ctx, "user-1", 1, time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	// 其他键互不影响
	ok, err = l.Allow(ctx, "user-2", 1, time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	// 令牌按速率回填
	now = now.Add(time.Second)
	ok, err = l.Allow(ctx, "user-1", 1, time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestKeyedLimiter_NonPositiveLimitDisables(t *testing.T) {
	l := NewKeyedLimiter(1)
	defer l.Stop()

	for i := 0; i < 10; i++ {
		ok, err := l.Allow(context.Background(), "k", 0, time.Second)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, 0, l.Len())
}

func TestKeyedLimiter_EvictIdleKeys(t *testing.T) {
	l := NewKeyedLimiter(1)
	defer l.Stop()

	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	_, _ = l.Allow(context.Background(), "stale", 1, time.Second)
	now = now.Add(idleTTL + time.Second)
	_, _ = l.Allow(context.Background(), "fresh", 1, time.Second)

	l.Evict()
	assert.Equal(t, 1, l.Len())
}
