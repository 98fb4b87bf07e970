package llm

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/lifebox/lifebox-cli/pkg/ollama"
)

// OllamaDrafter drafts with a local Ollama model.
type OllamaDrafter struct {
	client ollama.Client
	model  string
	opts   ollama.Options
}

// NewOllamaDrafter creates a drafter for model with sampling options opts.
func NewOllamaDrafter(client ollama.Client, model string, opts ollama.Options) *OllamaDrafter {
	return &OllamaDrafter{client: client, model: model, opts: opts}
}

// Name returns "ollama".
func (d *OllamaDrafter) Name() string { return "ollama" }

// Draft sends the system and user prompts as a non-streaming chat.
func (d *OllamaDrafter) Draft(ctx context.Context, in Input) (string, error) {
	out, err := d.client.Chat(ctx, ollama.ChatRequest{
		Model: firstNonEmpty(in.Model, d.model),
		Messages: []ollama.Message{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: BuildUserPrompt(in)},
		},
		Options: d.opts,
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: ollama draft")
	}
	return out, nil
}
