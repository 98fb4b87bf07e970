package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lifebox/lifebox-cli/internal/batch"
)

var (
	batchInput       string
	batchFormat      string
	batchOutput      string
	batchConcurrency int
	batchOffline     bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze every message in a CSV, JSONL or XLSX file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if batchConcurrency > 0 {
			cfg.Batch.Concurrency = batchConcurrency
		}
		svc, err := initService("batch", batchOffline)
		if err != nil {
			return err
		}

		msgs, err := batch.ReadMessages(batchInput, batch.Format(batchFormat))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if batchOutput != "" && batchOutput != "-" {
			f, err := os.Create(batchOutput)
			if err != nil {
				return eris.Wrap(err, "create output")
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		defer logSpend(svc.Drafter())
		return processBatch(ctx, msgs, svc, cfg.Batch.Concurrency, out)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchInput, "input", "", "input file (.csv, .jsonl, .xlsx)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "input format: csv, jsonl or xlsx (default: from extension)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "output JSONL file (default: stdout)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "parallel analyses (default from config)")
	batchCmd.Flags().BoolVar(&batchOffline, "offline", false, "skip the model and use rules only")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}

// processBatch analyzes msgs and writes one JSONL result per message in
// input order.
func processBatch(ctx context.Context, msgs []batch.Message, a batch.Analyzer, concurrency int, out io.Writer) error {
	start := time.Now()

	results, err := batch.Run(ctx, msgs, a, concurrency)
	if err != nil {
		return err
	}
	if err := batch.WriteJSONL(out, results); err != nil {
		return err
	}

	summary := batch.Summarize(results)
	zap.L().Info("batch complete",
		zap.Int("total", summary.Total),
		zap.Int("failed", summary.Failed),
		zap.Any("by_risk", summary.ByRisk),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
