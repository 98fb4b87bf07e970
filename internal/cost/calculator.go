// Package cost estimates what model drafts cost.
package cost

import "sync"

// ModelRate holds per-model token pricing (per million tokens).
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates map[string]ModelRate
}

// NewCalculator creates a Calculator with the given per-model rates.
func NewCalculator(rates map[string]ModelRate) *Calculator {
	return &Calculator{rates: rates}
}

// Claude returns the USD cost of one call, or 0 for an unpriced model.
func (c *Calculator) Claude(model string, input, output int64) float64 {
	rate, ok := c.rates[model]
	if !ok {
		return 0
	}
	return (float64(input)/1e6)*rate.Input + (float64(output)/1e6)*rate.Output
}

// DefaultRates returns list prices for the models drafts usually run on.
func DefaultRates() map[string]ModelRate {
	return map[string]ModelRate{
		"claude-haiku-4-5-20251001":  {Input: 1.00, Output: 5.00},
		"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
		"claude-3-5-haiku-20241022":  {Input: 0.80, Output: 4.00},
	}
}

// Tracker accumulates spend across calls. It is safe for concurrent use.
type Tracker struct {
	calc *Calculator

	mu      sync.Mutex
	total   float64
	calls   int
	byModel map[string]float64
}

// NewTracker creates a Tracker pricing calls with calc.
func NewTracker(calc *Calculator) *Tracker {
	return &Tracker{calc: calc, byModel: map[string]float64{}}
}

// Add records one call and returns its cost.
func (t *Tracker) Add(model string, input, output int64) float64 {
	c := t.calc.Claude(model, input, output)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.total += c
	t.calls++
	t.byModel[model] += c
	return c
}

// Total returns the accumulated spend and call count.
func (t *Tracker) Total() (usd float64, calls int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total, t.calls
}

// ByModel returns a copy of spend per model.
func (t *Tracker) ByModel() map[string]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]float64, len(t.byModel))
	for k, v := range t.byModel {
		out[k] = v
	}
	return out
}
