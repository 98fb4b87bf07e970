package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lifebox/lifebox-cli/internal/analyze"
	"github.com/lifebox/lifebox-cli/internal/config"
	"github.com/lifebox/lifebox-cli/internal/lexicon"
	"github.com/lifebox/lifebox-cli/internal/llm"
	"github.com/lifebox/lifebox-cli/internal/pipeline"
)

// loadLexicon returns the configured lexicon, or the built-in one when no
// override file is set.
func loadLexicon() (*lexicon.Lexicon, error) {
	if cfg.Lexicon.Path == "" {
		return lexicon.Default(), nil
	}
	lex, err := lexicon.Load(cfg.Lexicon.Path)
	if err != nil {
		return nil, eris.Wrap(err, "load lexicon")
	}
	zap.L().Info("loaded lexicon override", zap.String("path", cfg.Lexicon.Path))
	return lex, nil
}

// initService validates the config for mode and builds the analyze service.
// Offline forces the "none" provider so no model is contacted.
func initService(mode string, offline bool, opts ...analyze.Option) (*analyze.Service, error) {
	c := *cfg
	if offline {
		c.LLM.Provider = config.ProviderNone
	}
	if err := c.Validate(mode); err != nil {
		return nil, err
	}

	lex, err := loadLexicon()
	if err != nil {
		return nil, err
	}

	svc, err := analyze.FromConfig(&c, pipeline.New(lex), offline, opts...)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("analyze service ready", zap.String("drafter", svc.Drafter().Name()))
	return svc, nil
}

// logSpend reports estimated model spend when drafting ran on Anthropic.
func logSpend(d llm.Drafter) {
	a, ok := llm.Unwrap(d).(*llm.AnthropicDrafter)
	if !ok {
		return
	}
	usd, calls := a.Spend()
	zap.L().Info("anthropic spend", zap.Float64("usd", usd), zap.Int("calls", calls))
}

// readText returns the inline text, or the contents of file ("-" is stdin).
func readText(text, file string, stdin io.Reader) (string, error) {
	if text != "" && file != "" {
		return "", eris.New("use either --text or --file, not both")
	}
	if file == "" {
		return text, nil
	}
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", eris.Wrapf(err, "read %s", file)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// printJSON writes v as indented JSON without HTML escaping.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode output")
	}
	return nil
}
