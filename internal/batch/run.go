package batch

import (
	"context"
	"encoding/json"
	"io"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lifebox/lifebox-cli/internal/analyze"
	"github.com/lifebox/lifebox-cli/internal/model"
)

// Analyzer produces a record for one request.
type Analyzer interface {
	Analyze(ctx context.Context, req analyze.Request) (model.TaskRecord, error)
}

// Result is the outcome for one Message. Exactly one of Record and Error
// is set.
type Result struct {
	ID     string            `json:"id"`
	Record *model.TaskRecord `json:"record,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// Summary counts results by outcome.
type Summary struct {
	Total  int                `json:"total"`
	Failed int                `json:"failed"`
	ByRisk map[model.Risk]int `json:"by_risk"`
}

// Run analyzes msgs with at most concurrency calls in flight. Results keep
// the input order. Per-message failures land in Result.Error; only context
// cancellation aborts the run.
func Run(ctx context.Context, msgs []Message, a Analyzer, concurrency int) ([]Result, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	log := zap.L().With(zap.String("component", "batch"), zap.Int("messages", len(msgs)))
	log.Info("batch: starting", zap.Int("concurrency", concurrency))

	results := make([]Result, len(msgs))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, msg := range msgs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			rec, err := a.Analyze(gctx, analyze.Request{
				Text:       msg.Text,
				Locale:     msg.Locale,
				SourceHint: msg.SourceHint,
			})
			results[i].ID = msg.ID
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warn("batch: message failed", zap.String("id", msg.ID), zap.Error(err))
				results[i].Error = err.Error()
			} else {
				results[i].Record = &rec
			}

			if n := done.Add(1); n%100 == 0 {
				log.Info("batch: progress", zap.Int64("done", n))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, eris.Wrap(err, "batch: run")
	}

	log.Info("batch: complete", zap.Int64("done", done.Load()))
	return results, nil
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results), ByRisk: map[model.Risk]int{}}
	for _, r := range results {
		if r.Record == nil {
			s.Failed++
			continue
		}
		s.ByRisk[r.Record.Risk]++
	}
	return s
}

// WriteJSONL writes one result per line.
func WriteJSONL(w io.Writer, results []Result) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return eris.Wrapf(err, "batch: write result %s", r.ID)
		}
	}
	return nil
}
