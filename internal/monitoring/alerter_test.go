package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifebox/lifebox-cli/internal/config"
)

func thresholds() config.MonitoringConfig {
	return config.MonitoringConfig{
		DraftFailureRateThreshold: 0.25,
		HighRiskRateThreshold:     0.5,
		MinSamples:                5,
	}
}

func TestAlerter_Evaluate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.MonitoringConfig
		win   Window
		types []AlertType
	}{
		{"below thresholds", thresholds(), Window{Analyzed: 100, DraftFailures: 5, HighRisk: 10}, nil},
		{"draft failures", thresholds(), Window{Analyzed: 20, DraftFailures: 8}, []AlertType{AlertDraftFailureRate}},
		{"high risk", thresholds(), Window{Analyzed: 10, HighRisk: 8}, []AlertType{AlertHighRiskRate}},
		{"both", thresholds(), Window{Analyzed: 10, DraftFailures: 10, HighRisk: 10}, []AlertType{AlertDraftFailureRate, AlertHighRiskRate}},
		{"exactly at threshold", thresholds(), Window{Analyzed: 20, DraftFailures: 5, HighRisk: 10}, nil},
		{"too few samples", thresholds(), Window{Analyzed: 3, DraftFailures: 3, HighRisk: 3}, nil},
		{"empty window", thresholds(), Window{}, nil},
		{"zero thresholds disable", config.MonitoringConfig{}, Window{Analyzed: 50, DraftFailures: 50, HighRisk: 50}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []AlertType
			for _, a := range NewAlerter(tt.cfg).Evaluate(tt.win) {
				got = append(got, a.Type)
			}
			assert.Equal(t, tt.types, got)
		})
	}
}

func TestAlerter_EvaluateMessage(t *testing.T) {
	a := NewAlerter(thresholds())
	a.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.FixedZone("JST", 9*3600)) }

	alerts := a.Evaluate(Window{Analyzed: 20, DraftFailures: 8})
	require.Len(t, alerts, 1)
	assert.Equal(t, "high", alerts[0].Severity)
	assert.Contains(t, alerts[0].Message, "40.0%")
	assert.Contains(t, alerts[0].Message, "8 of 20")
	assert.Equal(t, 8, alerts[0].Details["count"])
	assert.Equal(t, time.UTC, alerts[0].Timestamp.Location())
	assert.Equal(t, 0, alerts[0].Timestamp.Hour())
}

func TestAlerter_SendAlerts(t *testing.T) {
	var received atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")
		var alert Alert
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&alert)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.NotEmpty(t, alert.Type)
		received.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	a := NewAlerter(config.MonitoringConfig{WebhookURL: ts.URL})
	sent := a.SendAlerts(context.Background(), []Alert{
		{Type: AlertDraftFailureRate, Severity: "high", Message: "one"},
		{Type: AlertHighRiskRate, Severity: "mid", Message: "two"},
	})
	assert.Equal(t, 2, sent)
	assert.Equal(t, int32(2), received.Load())
}

func TestAlerter_SendAlertsSkipped(t *testing.T) {
	alert := []Alert{{Type: AlertDraftFailureRate, Message: "x"}}

	assert.Zero(t, NewAlerter(config.MonitoringConfig{}).SendAlerts(context.Background(), alert))
	assert.Zero(t, NewAlerter(config.MonitoringConfig{WebhookURL: "http://127.0.0.1:1"}).SendAlerts(context.Background(), nil))
}

func TestAlerter_SendAlertsWebhookError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	a := NewAlerter(config.MonitoringConfig{WebhookURL: ts.URL})
	assert.Zero(t, a.SendAlerts(context.Background(), []Alert{{Type: AlertHighRiskRate}}))
}
