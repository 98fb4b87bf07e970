// Package monitoring exposes Prometheus metrics for analyze calls and
// raises webhook alerts when drafting degrades.
package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lifebox/lifebox-cli/internal/model"
)

// DraftState labels how the model draft contributed to a record.
type DraftState string

const (
	DraftUsed    DraftState = "used"
	DraftFailed  DraftState = "failed"
	DraftSkipped DraftState = "skipped"
)

// Analyze stages observed by the duration histogram.
const (
	StageDraft     = "draft"
	StageNormalize = "normalize"
	StageTotal     = "total"
)

// Window counts analyze outcomes since the last TakeWindow call.
type Window struct {
	Analyzed      int       `json:"analyzed"`
	DraftFailures int       `json:"draft_failures"`
	HighRisk      int       `json:"high_risk"`
	Since         time.Time `json:"since"`
	Until         time.Time `json:"until"`
}

// DraftFailureRate returns failures over analyzed, or 0.
func (w Window) DraftFailureRate() float64 {
	if w.Analyzed == 0 {
		return 0
	}
	return float64(w.DraftFailures) / float64(w.Analyzed)
}

// HighRiskRate returns high-risk records over analyzed, or 0.
func (w Window) HighRiskRate() float64 {
	if w.Analyzed == 0 {
		return 0
	}
	return float64(w.HighRisk) / float64(w.Analyzed)
}

// Metrics records analyze outcomes. It is safe for concurrent use.
type Metrics struct {
	analyzeTotal  *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	draftFailures *prometheus.CounterVec

	mu     sync.Mutex
	window Window
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		analyzeTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lifebox_analyze_total",
				Help: "Total number of messages normalized into task records",
			},
			[]string{"risk", "draft"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lifebox_analyze_duration_seconds",
				Help:    "Analyze stage duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 16), // 0.5ms to ~16s
			},
			[]string{"stage"},
		),
		draftFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lifebox_draft_failures_total",
				Help: "Total number of failed model draft calls",
			},
			[]string{"provider"},
		),
		window: Window{Since: time.Now().UTC()},
	}
}

// RecordAnalyze counts one finished record.
func (m *Metrics) RecordAnalyze(risk model.Risk, draft DraftState) {
	m.analyzeTotal.WithLabelValues(string(risk), string(draft)).Inc()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.window.Analyzed++
	if risk == model.RiskHigh {
		m.window.HighRisk++
	}
}

// RecordDraftFailure counts one failed model call.
func (m *Metrics) RecordDraftFailure(provider string) {
	m.draftFailures.WithLabelValues(provider).Inc()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.window.DraftFailures++
}

// ObserveStage records how long a stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.duration.WithLabelValues(stage).Observe(d.Seconds())
}

// TakeWindow returns the counts since the previous call and starts a new
// window at now.
func (m *Metrics) TakeWindow(now time.Time) Window {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.window
	w.Until = now
	m.window = Window{Since: now}
	return w
}
