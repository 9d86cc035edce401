package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Wait(t *testing.T) {
	limiter := New(5, 100*time.Millisecond)

	for i := 0; i < 5; i++ {
		assert.NoError(t, limiter.Wait(context.Background()))
	}

	assert.Equal(t, int64(5), limiter.Metrics().Permitted)
}

func TestRateLimiter_Wait_ContextCancellation(t *testing.T) {
	limiter := New(1, time.Second)

	assert.NoError(t, limiter.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.Error(t, limiter.Wait(ctx))
	assert.Equal(t, int64(1), limiter.Metrics().Aborted)
}

func TestRateLimiter_Burst(t *testing.T) {
	limiter := New(3, time.Hour)

	for i := 0; i < 3; i++ {
		assert.NoError(t, limiter.Wait(context.Background()), "request %d should pass", i+1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, limiter.Wait(ctx))

	m := limiter.Metrics()
	assert.Equal(t, int64(3), m.Permitted)
	assert.Equal(t, int64(1), m.Aborted)
}
