package monitoring

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lifebox/lifebox-cli/internal/config"
)

const defaultCheckInterval = 5 * time.Minute

// Checker drains the metrics window on a fixed interval and alerts on it.
type Checker struct {
	metrics  *Metrics
	alerter  *Alerter
	interval time.Duration
}

// NewChecker builds a Checker; a non-positive interval falls back to five
// minutes.
func NewChecker(metrics *Metrics, alerter *Alerter, cfg config.MonitoringConfig) *Checker {
	interval := time.Duration(cfg.CheckIntervalSecs) * time.Second
	if interval <= 0 {
		interval = defaultCheckInterval
	}
	return &Checker{metrics: metrics, alerter: alerter, interval: interval}
}

// Run checks once per interval until ctx is done.
func (c *Checker) Run(ctx context.Context) {
	log := zap.L().Named("monitoring")
	log.Info("alert checker started", zap.Duration("interval", c.interval))

	t := time.NewTicker(c.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("alert checker stopped")
			return
		case now := <-t.C:
			c.check(ctx, log, now)
		}
	}
}

// check evaluates and resets the current window, returning the number of
// alerts delivered.
func (c *Checker) check(ctx context.Context, log *zap.Logger, now time.Time) int {
	w := c.metrics.TakeWindow(now.UTC())
	alerts := c.alerter.Evaluate(w)
	for _, a := range alerts {
		log.Warn(a.Message, zap.String("type", string(a.Type)), zap.String("severity", a.Severity))
	}
	if len(alerts) == 0 {
		log.Debug("window clean", zap.Int("analyzed", w.Analyzed))
		return 0
	}
	return c.alerter.SendAlerts(ctx, alerts)
}
