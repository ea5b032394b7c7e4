// Package gemini wraps the Google GenAI client as an alternate reasoning
// backend for investor matching.
package gemini

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// Generator sends single-turn prompts to a Gemini model.
type Generator struct {
	client    *genai.Client
	modelName string
}

// Option customizes the underlying client configuration.
type Option func(*genai.ClientConfig)

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(u string) Option {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPOptions.BaseURL = u
	}
}

// NewGenerator creates a Generator for the Gemini API backend. An empty
// model uses gemini-2.5-flash.
func NewGenerator(ctx context.Context, apiKey, model string, opts ...Option) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, eris.New("gemini: api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	return &Generator{client: client, modelName: model}, nil
}

// GenerateContent sends prompt at the given temperature and returns the
// response text.
func (g *Generator) GenerateContent(ctx context.Context, prompt string, temperature float64) (string, error) {
	if g == nil || g.client == nil {
		return "", eris.New("gemini: generator is not initialized")
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", eris.New("gemini: prompt must not be empty")
	}

	cfg := &genai.GenerateContentConfig{Temperature: genai.Ptr(float32(temperature))}
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), cfg)
	if err != nil {
		return "", eris.Wrap(err, "gemini: generate content")
	}

	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || strings.TrimSpace(part.Text) == "" {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(strings.TrimSpace(part.Text))
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", eris.New("gemini: empty response")
	}
	if u := resp.UsageMetadata; u != nil {
		zap.L().Info("gemini: usage",
			zap.String("model", g.modelName),
			zap.Int32("prompt_tokens", u.PromptTokenCount),
			zap.Int32("output_tokens", u.CandidatesTokenCount),
		)
	}
	return out, nil
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
