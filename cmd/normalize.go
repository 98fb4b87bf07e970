package main

import (
	"github.com/spf13/cobra"

	"github.com/lifebox/lifebox-cli/internal/analyze"
)

var (
	normalizeText        string
	normalizeFile        string
	normalizeModelOutput string
	normalizeSource      string
	normalizeLocale      string
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize text and an existing model draft into a task record",
	Long:  "Runs the rule-based pipeline over the text and an optional raw model output. No model is called.",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := initService("normalize", true)
		if err != nil {
			return err
		}

		text, err := readText(normalizeText, normalizeFile, cmd.InOrStdin())
		if err != nil {
			return err
		}
		modelOutput, err := readText("", normalizeModelOutput, cmd.InOrStdin())
		if err != nil {
			return err
		}

		rec := svc.Normalize(analyze.NormalizeRequest{
			Text:        text,
			ModelOutput: modelOutput,
			SourceHint:  normalizeSource,
			Locale:      normalizeLocale,
		})
		return printJSON(cmd.OutOrStdout(), rec)
	},
}

func init() {
	normalizeCmd.Flags().StringVar(&normalizeText, "text", "", "message text")
	normalizeCmd.Flags().StringVar(&normalizeFile, "file", "", "read message text from file (- for stdin)")
	normalizeCmd.Flags().StringVar(&normalizeModelOutput, "model-output", "", "file holding raw model output (- for stdin)")
	normalizeCmd.Flags().StringVar(&normalizeSource, "source", "", "source hint (e.g. line, gmail)")
	normalizeCmd.Flags().StringVar(&normalizeLocale, "locale", "", "message locale")
	rootCmd.AddCommand(normalizeCmd)
}
