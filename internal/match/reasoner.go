package match

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/abduldattijo/investment-data-app/pkg/anthropic"
)

// AnthropicReasoner answers prompts with a Claude model.
type AnthropicReasoner struct {
	Client    anthropic.Client
	Model     string
	MaxTokens int64
}

// Complete implements Reasoner.
func (r *AnthropicReasoner) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	maxTokens := r.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	resp, err := r.Client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       r.Model,
		MaxTokens:   maxTokens,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &temperature,
	})
	if err != nil {
		return "", eris.Wrap(err, "match: anthropic completion")
	}
	resp.Usage.LogCost(r.Model, "match")
	return resp.Text(), nil
}

// TextGenerator is the slice of the Gemini client the matcher uses.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string, temperature float64) (string, error)
}

// GeminiReasoner answers prompts with a Gemini model.
type GeminiReasoner struct {
	Generator TextGenerator
}

// Complete implements Reasoner.
func (r *GeminiReasoner) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	text, err := r.Generator.GenerateContent(ctx, prompt, temperature)
	if err != nil {
		return "", eris.Wrap(err, "match: gemini completion")
	}
	return text, nil
}
