package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/lifebox/lifebox-cli/internal/lexicon"
)

var lexiconBuiltin bool

var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Print the effective keyword lexicon as YAML",
	Long:  "Prints the lexicon the pipeline would use. Edit the output and point lexicon.path at it to override keywords.",
	RunE: func(cmd *cobra.Command, args []string) error {
		lex := lexicon.Default()
		if !lexiconBuiltin {
			var err error
			if lex, err = loadLexicon(); err != nil {
				return err
			}
		}

		out, err := lex.Marshal()
		if err != nil {
			return err
		}
		if _, err := cmd.OutOrStdout().Write(out); err != nil {
			return eris.Wrap(err, "write lexicon")
		}
		return nil
	},
}

func init() {
	lexiconCmd.Flags().BoolVar(&lexiconBuiltin, "builtin", false, "ignore lexicon.path and print the built-in lexicon")
	rootCmd.AddCommand(lexiconCmd)
}
