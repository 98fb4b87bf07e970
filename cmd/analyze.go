package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/lifebox/lifebox-cli/internal/analyze"
)

var (
	analyzeText    string
	analyzeFile    string
	analyzeSource  string
	analyzeLocale  string
	analyzeNow     string
	analyzeModel   string
	analyzeOffline bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Draft a task record with the configured model and normalize it",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, err := initService("analyze", analyzeOffline)
		if err != nil {
			return err
		}

		text, err := readText(analyzeText, analyzeFile, cmd.InOrStdin())
		if err != nil {
			return err
		}

		rec, err := svc.Analyze(ctx, analyze.Request{
			Text:       text,
			Locale:     analyzeLocale,
			SourceHint: analyzeSource,
			Now:        analyzeNow,
			Model:      analyzeModel,
		})
		if err != nil {
			return eris.Wrap(err, "analyze")
		}
		logSpend(svc.Drafter())
		return printJSON(cmd.OutOrStdout(), rec)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", "message text")
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "read message text from file (- for stdin)")
	analyzeCmd.Flags().StringVar(&analyzeSource, "source", "", "source hint (e.g. line, gmail)")
	analyzeCmd.Flags().StringVar(&analyzeLocale, "locale", "", "message locale (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeNow, "now", "", "current time passed to the model (default: clock)")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "override the configured model name")
	analyzeCmd.Flags().BoolVar(&analyzeOffline, "offline", false, "skip the model and use rules only")
	rootCmd.AddCommand(analyzeCmd)
}
