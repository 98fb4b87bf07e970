package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lifebox/lifebox-cli/internal/config"
)

// AlertType identifies the rate an alert fired on.
type AlertType string

const (
	AlertDraftFailureRate AlertType = "draft_failure_rate"
	AlertHighRiskRate     AlertType = "high_risk_rate"
)

// Alert is the JSON payload posted to the webhook.
type Alert struct {
	Type      AlertType      `json:"type"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// rateRule ties one window rate to its configured threshold.
type rateRule struct {
	typ       AlertType
	severity  string
	threshold func(config.MonitoringConfig) float64
	rate      func(Window) float64
	count     func(Window) int
	describe  string
}

var rateRules = []rateRule{
	{
		typ:       AlertDraftFailureRate,
		severity:  "high",
		threshold: func(c config.MonitoringConfig) float64 { return c.DraftFailureRateThreshold },
		rate:      Window.DraftFailureRate,
		count:     func(w Window) int { return w.DraftFailures },
		describe:  "draft failures",
	},
	{
		typ:       AlertHighRiskRate,
		severity:  "mid",
		threshold: func(c config.MonitoringConfig) float64 { return c.HighRiskRateThreshold },
		rate:      Window.HighRiskRate,
		count:     func(w Window) int { return w.HighRisk },
		describe:  "high-risk records",
	},
}

// Alerter turns analyze windows into alerts and delivers them.
type Alerter struct {
	cfg    config.MonitoringConfig
	client *resty.Client
	now    func() time.Time
}

// NewAlerter builds an Alerter. A zero threshold disables its rule and an
// empty webhook URL keeps alerts in the log only.
func NewAlerter(cfg config.MonitoringConfig) *Alerter {
	return &Alerter{
		cfg: cfg,
		client: resty.New().
			SetTimeout(10*time.Second).
			SetHeader("Content-Type", "application/json"),
		now: time.Now,
	}
}

// Evaluate returns one alert per rule whose rate exceeds its threshold.
// Windows with fewer than MinSamples analyze calls never alert.
func (a *Alerter) Evaluate(w Window) []Alert {
	if w.Analyzed == 0 || w.Analyzed < a.cfg.MinSamples {
		return nil
	}

	ts := a.now().UTC()
	var alerts []Alert
	for _, r := range rateRules {
		limit := r.threshold(a.cfg)
		rate := r.rate(w)
		if limit <= 0 || rate <= limit {
			continue
		}
		n := r.count(w)
		alerts = append(alerts, Alert{
			Type:     r.typ,
			Severity: r.severity,
			Message: fmt.Sprintf("%s at %.1f%% (%d of %d analyzed), threshold %.1f%%",
				r.describe, rate*100, n, w.Analyzed, limit*100),
			Details: map[string]any{
				"rate":      rate,
				"threshold": limit,
				"count":     n,
				"analyzed":  w.Analyzed,
			},
			Timestamp: ts,
		})
	}
	return alerts
}

// SendAlerts posts each alert to the webhook and returns how many were
// accepted. Delivery failures are logged, not returned.
func (a *Alerter) SendAlerts(ctx context.Context, alerts []Alert) int {
	if a.cfg.WebhookURL == "" {
		return 0
	}

	sent := 0
	for _, alert := range alerts {
		log := zap.L().With(zap.String("type", string(alert.Type)))
		if err := a.post(ctx, alert); err != nil {
			log.Error("monitoring: alert delivery failed", zap.Error(err))
			continue
		}
		log.Info("monitoring: alert delivered", zap.String("severity", alert.Severity))
		sent++
	}
	return sent
}

func (a *Alerter) post(ctx context.Context, alert Alert) error {
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(alert).
		Post(a.cfg.WebhookURL)
	if err != nil {
		return eris.Wrap(err, "monitoring: post webhook")
	}
	if resp.IsError() {
		return eris.Errorf("monitoring: webhook status %d", resp.StatusCode())
	}
	return nil
}
