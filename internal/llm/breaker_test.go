package llm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingDrafter fails while failing is set.
type countingDrafter struct {
	calls   atomic.Int32
	failing atomic.Bool
}

func (c *countingDrafter) Draft(ctx context.Context, _ Input) (string, error) {
	c.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.failing.Load() {
		return "", errors.New("connection refused")
	}
	return "{}", nil
}

func (c *countingDrafter) Name() string { return "counting" }

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	inner := &countingDrafter{}
	inner.failing.Store(true)
	b := NewBreaker(inner, 3, time.Minute)

	for range 3 {
		_, err := b.Draft(context.Background(), Input{})
		require.Error(t, err)
	}
	assert.Equal(t, CircuitOpen, b.State())

	_, err := b.Draft(context.Background(), Input{})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(3), inner.calls.Load())
}

func TestBreaker_HalfOpenProbe(t *testing.T) {
	inner := &countingDrafter{}
	inner.failing.Store(true)
	b := NewBreaker(inner, 1, time.Minute)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	_, err := b.Draft(context.Background(), Input{})
	require.Error(t, err)
	assert.Equal(t, CircuitOpen, b.State())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, CircuitHalfOpen, b.State())

	// A failed probe reopens the circuit.
	_, err = b.Draft(context.Background(), Input{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, CircuitOpen, b.State())

	// A successful probe closes it.
	now = now.Add(2 * time.Minute)
	inner.failing.Store(false)
	out, err := b.Draft(context.Background(), Input{})
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
	assert.Equal(t, CircuitClosed, b.State())
}

func TestBreaker_SuccessResetsCount(t *testing.T) {
	inner := &countingDrafter{}
	b := NewBreaker(inner, 2, time.Minute)

	inner.failing.Store(true)
	_, _ = b.Draft(context.Background(), Input{})
	inner.failing.Store(false)
	_, _ = b.Draft(context.Background(), Input{})
	inner.failing.Store(true)
	_, _ = b.Draft(context.Background(), Input{})

	assert.Equal(t, CircuitClosed, b.State())
}

func TestBreaker_CancellationDoesNotTrip(t *testing.T) {
	b := NewBreaker(&countingDrafter{}, 1, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Draft(ctx, Input{})
	require.Error(t, err)
	assert.Equal(t, CircuitClosed, b.State())
}

func TestBreaker_Defaults(t *testing.T) {
	b := NewBreaker(stubDrafter{}, 0, 0)
	assert.Equal(t, 5, b.threshold)
	assert.Equal(t, 30*time.Second, b.resetTimeout)
	assert.Equal(t, "stub", b.Name())
	assert.Equal(t, "half-open", CircuitHalfOpen.String())
}
