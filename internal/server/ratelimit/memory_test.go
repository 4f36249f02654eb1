package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_Burst(t *testing.T) {
	l := NewMemory(Policy{Name: "auth", Max: 5, Window: 15 * time.Minute})
	start := time.Now()
	l.now = func() time.Time { return start }
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		remaining, err := l.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.Equal(t, 5-i, remaining)
	}

	_, err := l.Allow(ctx, "ip")
	assert.True(t, errors.Is(err, ErrRateLimited))

	_, err = l.Allow(ctx, "other")
	assert.NoError(t, err)
}

func TestMemoryLimiter_Refills(t *testing.T) {
	l := NewMemory(Policy{Name: "auth", Max: 5, Window: 15 * time.Minute})
	now := time.Now()
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := l.Allow(ctx, "ip")
		require.NoError(t, err)
	}
	_, err := l.Allow(ctx, "ip")
	require.ErrorIs(t, err, ErrRateLimited)

	// one token every 3 minutes
	now = now.Add(3*time.Minute + time.Second)
	_, err = l.Allow(ctx, "ip")
	assert.NoError(t, err)
	_, err = l.Allow(ctx, "ip")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestMemoryLimiter_SweepsIdleBuckets(t *testing.T) {
	l := NewMemory(Policy{Name: "api", Max: 100, Window: time.Minute})
	now := time.Now()
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		_, err := l.Allow(ctx, k)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, l.size())

	now = now.Add(2 * time.Minute)
	_, err := l.Allow(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, 1, l.size())
}
