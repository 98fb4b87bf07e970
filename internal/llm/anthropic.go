package llm

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lifebox/lifebox-cli/internal/cost"
	"github.com/lifebox/lifebox-cli/pkg/anthropic"
)

// AnthropicDrafter drafts with the Anthropic Messages API.
type AnthropicDrafter struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	spend     *cost.Tracker
}

// NewAnthropicDrafter creates a drafter for model.
func NewAnthropicDrafter(client anthropic.Client, model string, maxTokens int64) *AnthropicDrafter {
	if maxTokens <= 0 {
		maxTokens = 512
	}
	return &AnthropicDrafter{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
		spend:     cost.NewTracker(cost.NewCalculator(cost.DefaultRates())),
	}
}

// Spend returns the estimated USD spent so far and the number of calls.
func (d *AnthropicDrafter) Spend() (float64, int) {
	return d.spend.Total()
}

// Name returns "anthropic".
func (d *AnthropicDrafter) Name() string { return "anthropic" }

// Draft sends the prompt with temperature 0 and returns the joined text
// blocks of the reply.
func (d *AnthropicDrafter) Draft(ctx context.Context, in Input) (string, error) {
	resp, err := d.client.Complete(ctx, anthropic.Prompt{
		Model:     firstNonEmpty(in.Model, d.model),
		MaxTokens: d.maxTokens,
		System:    SystemPrompt,
		User:      BuildUserPrompt(in),
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: anthropic draft")
	}
	usd := d.spend.Add(resp.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	zap.L().Debug("llm: anthropic draft cost", zap.String("model", resp.Model), zap.Float64("usd", usd))
	return resp.Text, nil
}
