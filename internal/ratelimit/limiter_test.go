package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterSpacesSequentialCalls(t *testing.T) {
	const (
		interval = 20 * time.Millisecond
		calls    = 6
	)
	limiter := New(interval)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < calls; i++ {
		require.NoError(t, limiter.Wait(ctx))
	}
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, time.Duration(calls-1)*interval)
}

func TestLimiterFirstCallDoesNotBlock(t *testing.T) {
	limiter := New(time.Second)

	start := time.Now()
	require.NoError(t, limiter.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestLimiterGapBetweenCalls(t *testing.T) {
	interval := 30 * time.Millisecond
	limiter := New(interval)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx))
	first := time.Now()
	require.NoError(t, limiter.Wait(ctx))

	assert.GreaterOrEqual(t, time.Since(first), interval-time.Millisecond)
}

func TestLimiterHonoursContext(t *testing.T) {
	limiter := New(time.Hour)
	require.NoError(t, limiter.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.Error(t, limiter.Wait(ctx))
}

func TestLimiterZeroIntervalIsUnlimited(t *testing.T) {
	limiter := New(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, limiter.Wait(ctx))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, time.Duration(0), limiter.MinInterval())
}
