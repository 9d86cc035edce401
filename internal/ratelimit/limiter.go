// Package ratelimit provides the optional client-side request throttle.
package ratelimit

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter spaces out calls to at most requests per period, allowing a
// burst of up to requests calls.
type RateLimiter struct {
	limiter *rate.Limiter
	waited  atomic.Int64
	aborted atomic.Int64
}

// New creates a RateLimiter for the given number of requests per period.
func New(requests int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(perSecond(requests, period), requests),
	}
}

func perSecond(requests int, period time.Duration) rate.Limit {
	return rate.Limit(float64(requests) / period.Seconds())
}

// Wait blocks until a request is permitted or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		r.aborted.Add(1)
		return err
	}
	r.waited.Add(1)
	return nil
}

// MetricsSnapshot is a point-in-time capture of limiter statistics.
type MetricsSnapshot struct {
	// Permitted is the number of Wait calls that returned without error.
	Permitted int64
	// Aborted is the number of Wait calls cut short by their context.
	Aborted int64
}

// Metrics returns the current counters.
func (r *RateLimiter) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		Permitted: r.waited.Load(),
		Aborted:   r.aborted.Load(),
	}
}
