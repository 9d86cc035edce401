// Package circuitbreaker stops the client from hammering an unreachable host.
// Only transport outcomes are recorded; a rejected envelope is a healthy round trip.
package circuitbreaker

import (
	"sync"
	"time"
)

type State int32

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

type Config struct {
	FailThreshold    int           `json:"fail_threshold"`
	SuccessThreshold int           `json:"success_threshold"`
	Timeout          time.Duration `json:"timeout"`
}

type Breaker struct {
	mu        sync.Mutex
	cfg       Config
	state     State
	failures  int
	successes int
	openedAt  time.Time
	now       func() time.Time

	rejected     int64
	stateChanges int64
}

func New(config Config) *Breaker {
	return &Breaker{
		cfg: config,
		now: time.Now,
	}
}

// Allow reports whether a call may go out. An open breaker moves to half-open
// once its timeout has elapsed since it opened.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if b.now().Sub(b.openedAt) < b.cfg.Timeout {
			b.rejected++
			return false
		}
		b.transition(StateHalfOpen)
	}
	return true
}

// Record feeds the outcome of a call that Allow let through.
func (b *Breaker) Record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		if success {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.cfg.FailThreshold {
			b.open()
		}
	case StateHalfOpen:
		if !success {
			b.open()
			return
		}
		b.successes++
		if b.successes >= b.cfg.SuccessThreshold {
			b.transition(StateClosed)
		}
	case StateOpen:
		// late result of a call issued before the breaker opened
	}
}

func (b *Breaker) open() {
	b.openedAt = b.now()
	b.transition(StateOpen)
}

func (b *Breaker) transition(s State) {
	if b.state == s {
		return
	}
	b.state = s
	b.failures = 0
	b.successes = 0
	b.stateChanges++
}

// Reset closes the breaker and clears its counters of consecutive outcomes.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transition(StateClosed)
	b.failures = 0
	b.successes = 0
}

// MetricsSnapshot is a point-in-time capture of breaker statistics.
type MetricsSnapshot struct {
	Rejected     int64
	StateChanges int64
	Failures     int
	CurrentState State
}

func (b *Breaker) Metrics() MetricsSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return MetricsSnapshot{
		Rejected:     b.rejected,
		StateChanges: b.stateChanges,
		Failures:     b.failures,
		CurrentState: b.state,
	}
}
