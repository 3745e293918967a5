// Package circuitbreaker implements the Circuit Breaker pattern.
// It shields the request path from a degraded notification outbox: when the
// Redis publisher keeps failing, dispatch is short-circuited instead of
// adding latency to every state transition.
// No external dependencies - uses only standard library.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State represents the current state of the circuit breaker.
type State int

const (
	// StateClosed is the normal state - calls are allowed through.
	StateClosed State = iota
	// StateOpen is the failure state - calls are blocked.
	StateOpen
	// StateHalfOpen is the recovery state - a probe call is allowed.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned when the circuit is open and calls are blocked.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Config holds circuit breaker configuration.
type Config struct {
	// Name identifies this breaker in logs.
	Name string

	// FailureThreshold is the number of consecutive failures before the
	// circuit opens. Default: 5
	FailureThreshold int

	// SuccessThreshold is the number of successes in half-open state before
	// the circuit closes again. Default: 2
	SuccessThreshold int

	// Timeout is how long the circuit stays open before allowing a probe.
	// Default: 30s
	Timeout time.Duration

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(name string, from, to State)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
	}
}

// Breaker is a circuit breaker protecting a single downstream dependency.
type Breaker struct {
	cfg Config

	mu           sync.Mutex
	state        State
	failures     int
	successes    int
	openedAt     time.Time
	probeInFlight bool
}

// New creates a circuit breaker with the given configuration.
func New(cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Breaker{cfg: cfg, state: StateClosed}
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState()
}

// currentState folds the open->half-open timeout into the reported state.
// Caller must hold b.mu.
func (b *Breaker) currentState() State {
	if b.state == StateOpen && time.Since(b.openedAt) >= b.cfg.Timeout {
		b.setState(StateHalfOpen)
	}
	return b.state
}

// setState transitions to a new state. Caller must hold b.mu.
func (b *Breaker) setState(next State) {
	if b.state == next {
		return
	}
	prev := b.state
	b.state = next
	b.failures = 0
	b.successes = 0
	b.probeInFlight = false
	if next == StateOpen {
		b.openedAt = time.Now()
	}
	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(b.cfg.Name, prev, next)
	}
}

// Execute runs fn through the breaker.
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	b.mu.Lock()
	switch b.currentState() {
	case StateOpen:
		b.mu.Unlock()
		return ErrCircuitOpen
	case StateHalfOpen:
		if b.probeInFlight {
			b.mu.Unlock()
			return ErrCircuitOpen
		}
		b.probeInFlight = true
	}
	b.mu.Unlock()

	err := fn(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.probeInFlight = false

	if err != nil {
		switch b.state {
		case StateHalfOpen:
			b.setState(StateOpen)
		case StateClosed:
			b.failures++
			if b.failures >= b.cfg.FailureThreshold {
				b.setState(StateOpen)
			}
		}
		return err
	}

	switch b.state {
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.cfg.SuccessThreshold {
			b.setState(StateClosed)
		}
	case StateClosed:
		b.failures = 0
	}
	return nil
}
