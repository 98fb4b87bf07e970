// Package llm asks a language model for a draft TaskRecord. Drafts are
// advisory: callers feed the raw text to the normalization pipeline, which
// tolerates any output including none at all.
package llm

import (
	"context"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/lifebox/lifebox-cli/internal/config"
	"github.com/lifebox/lifebox-cli/pkg/anthropic"
	"github.com/lifebox/lifebox-cli/pkg/ollama"
)

// Input is the context sent to the model alongside the message text.
type Input struct {
	Text       string
	Locale     string
	SourceHint string
	Now        string
	// Model overrides the configured model name when set.
	Model string
}

// Drafter produces the raw model output for one message.
type Drafter interface {
	Draft(ctx context.Context, in Input) (string, error)
	// Name identifies the provider in logs and metrics.
	Name() string
}

// NopDrafter stands in for an absent model.
type NopDrafter struct{}

// Draft returns an empty draft.
func (NopDrafter) Draft(context.Context, Input) (string, error) { return "", nil }

// Name returns "none".
func (NopDrafter) Name() string { return config.ProviderNone }

// New builds the drafter selected by cfg.LLM.Provider, wrapped in a rate
// limiter when llm.rate_per_sec is positive and in a circuit breaker when
// llm.breaker_threshold is positive.
func New(cfg *config.Config) (Drafter, error) {
	timeout := time.Duration(cfg.LLM.TimeoutSecs) * time.Second

	var d Drafter
	switch cfg.LLM.Provider {
	case config.ProviderNone, "":
		return NopDrafter{}, nil
	case config.ProviderAnthropic:
		if cfg.Anthropic.Key == "" {
			return nil, eris.New("llm: anthropic.key is required")
		}
		client := anthropic.NewClient(cfg.Anthropic.Key, option.WithRequestTimeout(timeout))
		d = NewAnthropicDrafter(client, firstNonEmpty(cfg.LLM.Model, cfg.Anthropic.Model), cfg.LLM.MaxTokens)
	case config.ProviderOllama:
		client := ollama.NewClient(cfg.Ollama.BaseURL,
			ollama.WithTimeout(timeout),
			ollama.WithRetries(cfg.Ollama.Retries),
		)
		d = NewOllamaDrafter(client, firstNonEmpty(cfg.LLM.Model, cfg.Ollama.Model), ollama.Options{
			Temperature:   cfg.Ollama.Temperature,
			TopP:          cfg.Ollama.TopP,
			NumPredict:    cfg.Ollama.NumPredict,
			NumCtx:        cfg.Ollama.NumCtx,
			RepeatPenalty: cfg.Ollama.RepeatPenalty,
		})
	default:
		return nil, eris.Errorf("llm: unknown provider %q", cfg.LLM.Provider)
	}

	if cfg.LLM.RatePerSec > 0 {
		d = NewRateLimited(d, rate.Limit(cfg.LLM.RatePerSec), max(cfg.LLM.Burst, 1))
	}
	if cfg.LLM.BreakerThreshold > 0 {
		d = NewBreaker(d, cfg.LLM.BreakerThreshold, time.Duration(cfg.LLM.BreakerResetSecs)*time.Second)
	}
	return d, nil
}

// Unwrap strips rate limiters and breakers and returns the provider drafter.
func Unwrap(d Drafter) Drafter {
	for {
		w, ok := d.(interface{ Inner() Drafter })
		if !ok {
			return d
		}
		d = w.Inner()
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
