package llm

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// AdaptiveLimiter wraps a rate.Limiter with adaptive rate adjustment.
// On success it increases the rate by 20% (up to 2x initial).
// On failure it halves the rate (down to initial/4 minimum).
type AdaptiveLimiter struct {
	mu          sync.Mutex
	limiter     *rate.Limiter
	maxRate     rate.Limit
	minRate     rate.Limit
	currentRate rate.Limit
}

// NewAdaptiveLimiter creates an adaptive rate limiter that auto-tunes.
func NewAdaptiveLimiter(initialRate rate.Limit, burst int) *AdaptiveLimiter {
	return &AdaptiveLimiter{
		limiter:     rate.NewLimiter(initialRate, burst),
		maxRate:     initialRate * 2,
		minRate:     initialRate / 4,
		currentRate: initialRate,
	}
}

// Wait blocks until the limiter allows an event.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// OnSuccess increases the rate by 20%, up to 2x initial.
func (a *AdaptiveLimiter) OnSuccess() {
	a.set(a.Limit() * 1.2)
}

// OnFailure halves the rate, down to initial/4.
func (a *AdaptiveLimiter) OnFailure() {
	a.set(a.Limit() * 0.5)
	zap.L().Warn("llm: reducing draft rate after failure", zap.Float64("new_rate", float64(a.Limit())))
}

func (a *AdaptiveLimiter) set(r rate.Limit) {
	a.mu.Lock()
	defer a.mu.Unlock()
	r = min(max(r, a.minRate), a.maxRate)
	a.currentRate = r
	a.limiter.SetLimit(r)
}

// Limit returns the current rate limit.
func (a *AdaptiveLimiter) Limit() rate.Limit {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentRate
}

// RateLimited throttles calls to an inner Drafter.
type RateLimited struct {
	inner   Drafter
	limiter *AdaptiveLimiter
}

// NewRateLimited wraps d with an adaptive limiter starting at r events per
// second.
func NewRateLimited(d Drafter, r rate.Limit, burst int) *RateLimited {
	return &RateLimited{inner: d, limiter: NewAdaptiveLimiter(r, burst)}
}

// Name returns the inner drafter's name.
func (r *RateLimited) Name() string { return r.inner.Name() }

// Inner returns the wrapped drafter.
func (r *RateLimited) Inner() Drafter { return r.inner }

// Limiter exposes the limiter for inspection.
func (r *RateLimited) Limiter() *AdaptiveLimiter { return r.limiter }

// Draft waits for a token and delegates to the inner drafter.
func (r *RateLimited) Draft(ctx context.Context, in Input) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "llm: rate limit wait")
	}
	out, err := r.inner.Draft(ctx, in)
	if err != nil {
		r.limiter.OnFailure()
		return "", err
	}
	r.limiter.OnSuccess()
	return out, nil
}
