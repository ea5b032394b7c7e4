// Package anthropic wraps the Anthropic Messages API for the investor
// matcher's reasoning calls.
package anthropic

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Client is the subset of the Messages API the matcher calls.
type Client interface {
	CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error)
}

// MessageRequest is a single-turn or multi-turn completion request.
type MessageRequest struct {
	Model       string
	MaxTokens   int64
	System      string
	Messages    []Message
	Temperature *float64 // nil leaves the model default
}

// Message is one conversational turn. Any role other than "assistant" is
// sent as a user turn.
type Message struct {
	Role    string
	Content string
}

// MessageResponse carries the parts of a reply the matcher reads.
type MessageResponse struct {
	ID         string
	Model      string
	StopReason string
	Content    []ContentBlock
	Usage      TokenUsage
}

// ContentBlock is one block of a reply. Only "text" blocks carry Text.
type ContentBlock struct {
	Type string
	Text string
}

// Text joins the reply's text blocks in order.
func (r *MessageResponse) Text() string {
	if r == nil {
		return ""
	}
	parts := make([]string, 0, len(r.Content))
	for _, b := range r.Content {
		if b.Type == "text" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "")
}

// TokenUsage counts the tokens billed for one call.
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
}

// price is USD per million tokens.
type price struct {
	in, out float64
}

var prices = map[string]price{
	"claude-haiku-4-5-20251001":  {in: 0.80, out: 4.00},
	"claude-sonnet-4-5-20250929": {in: 3.00, out: 15.00},
	"claude-opus-4-6":            {in: 15.00, out: 75.00},
}

// EstimateCost prices u for model in USD. Unknown models cost 0.
func (u TokenUsage) EstimateCost(model string) float64 {
	p := prices[model]
	return float64(u.InputTokens)*p.in/1e6 + float64(u.OutputTokens)*p.out/1e6
}

// LogCost records u against operation at info level.
func (u TokenUsage) LogCost(model, operation string) {
	zap.L().Info("anthropic: usage",
		zap.String("model", model),
		zap.String("operation", operation),
		zap.Int64("input_tokens", u.InputTokens),
		zap.Int64("output_tokens", u.OutputTokens),
		zap.Float64("estimated_cost_usd", u.EstimateCost(model)),
	)
}

type sdkClient struct {
	api sdk.Client
}

// NewClient returns a Client backed by anthropic-sdk-go. opts are appended
// after the API key, so tests can point it at a local server.
func NewClient(apiKey string, opts ...option.RequestOption) Client {
	all := make([]option.RequestOption, 0, len(opts)+1)
	all = append(all, option.WithAPIKey(apiKey))
	all = append(all, opts...)
	return &sdkClient{api: sdk.NewClient(all...)}
}

func (c *sdkClient) CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(req.Model),
		MaxTokens: req.MaxTokens,
		Messages:  make([]sdk.MessageParam, 0, len(req.Messages)),
	}
	for _, m := range req.Messages {
		params.Messages = append(params.Messages, toParam(m))
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature != nil {
		params.Temperature = sdk.Float(*req.Temperature)
	}

	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return nil, eris.Wrap(err, "anthropic: create message")
	}
	return fromSDKMessage(msg), nil
}

func toParam(m Message) sdk.MessageParam {
	block := sdk.NewTextBlock(m.Content)
	if m.Role == "assistant" {
		return sdk.NewAssistantMessage(block)
	}
	return sdk.NewUserMessage(block)
}

func fromSDKMessage(msg *sdk.Message) *MessageResponse {
	resp := &MessageResponse{
		ID:         msg.ID,
		Model:      string(msg.Model),
		StopReason: string(msg.StopReason),
		Content:    make([]ContentBlock, len(msg.Content)),
		Usage:      TokenUsage{InputTokens: msg.Usage.InputTokens, OutputTokens: msg.Usage.OutputTokens},
	}
	for i, b := range msg.Content {
		resp.Content[i] = ContentBlock{Type: b.Type, Text: b.Text}
	}
	return resp
}
