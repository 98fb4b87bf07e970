package llm

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrCircuitOpen is returned while the breaker rejects draft calls.
var ErrCircuitOpen = eris.New("llm: circuit breaker is open")

// CircuitState is the state of a Breaker.
type CircuitState int

const (
	// CircuitClosed passes every call through.
	CircuitClosed CircuitState = iota
	// CircuitOpen rejects calls until the reset timeout elapses.
	CircuitOpen
	// CircuitHalfOpen lets one probe through.
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Breaker stops calling a failing drafter for a while so callers fall back
// to rules-only records without waiting on timeouts.
type Breaker struct {
	inner        Drafter
	threshold    int
	resetTimeout time.Duration

	mu          sync.Mutex
	state       CircuitState
	failures    int
	lastFailure time.Time
	now         func() time.Time
}

// NewBreaker opens after threshold consecutive failures and probes again
// after resetTimeout.
func NewBreaker(d Drafter, threshold int, resetTimeout time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if resetTimeout <= 0 {
		resetTimeout = 30 * time.Second
	}
	return &Breaker{
		inner:        d,
		threshold:    threshold,
		resetTimeout: resetTimeout,
		now:          time.Now,
	}
}

// Name returns the inner drafter's name.
func (b *Breaker) Name() string { return b.inner.Name() }

// Inner returns the wrapped drafter.
func (b *Breaker) Inner() Drafter { return b.inner }

// State returns the current state, reporting half-open once an open
// circuit's reset timeout has elapsed.
func (b *Breaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == CircuitOpen && b.now().Sub(b.lastFailure) >= b.resetTimeout {
		return CircuitHalfOpen
	}
	return b.state
}

// Draft delegates to the inner drafter unless the circuit is open.
// Cancellation by the caller does not count as a failure.
func (b *Breaker) Draft(ctx context.Context, in Input) (string, error) {
	if err := b.allow(); err != nil {
		return "", err
	}

	out, err := b.inner.Draft(ctx, in)
	if err != nil && (errors.Is(err, context.Canceled) || ctx.Err() != nil) {
		return "", err
	}
	b.record(err)
	return out, err
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != CircuitOpen {
		return nil
	}
	if b.now().Sub(b.lastFailure) >= b.resetTimeout {
		b.transition(CircuitHalfOpen)
		return nil
	}
	return ErrCircuitOpen
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.failures = 0
		if b.state == CircuitHalfOpen {
			b.transition(CircuitClosed)
		}
		return
	}

	b.failures++
	b.lastFailure = b.now()
	switch b.state {
	case CircuitClosed:
		if b.failures >= b.threshold {
			b.transition(CircuitOpen)
		}
	case CircuitHalfOpen:
		b.transition(CircuitOpen)
	}
}

func (b *Breaker) transition(to CircuitState) {
	from := b.state
	b.state = to
	zap.L().Warn("llm: circuit breaker state change",
		zap.String("drafter", b.inner.Name()),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
	)
}
