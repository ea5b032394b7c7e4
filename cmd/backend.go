package main

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/abduldattijo/investment-data-app/internal/config"
	"github.com/abduldattijo/investment-data-app/internal/dataset"
	"github.com/abduldattijo/investment-data-app/internal/match"
	"github.com/abduldattijo/investment-data-app/internal/model"
	"github.com/abduldattijo/investment-data-app/pkg/anthropic"
	"github.com/abduldattijo/investment-data-app/pkg/gemini"
)

const defaultDataPath = "vc_profiles.json"

// newReasoner builds the configured reasoning backend. A backend without
// credentials yields nil, which makes the engine use keyword scoring.
func newReasoner(ctx context.Context, c *config.Config) (match.Reasoner, error) {
	switch c.Match.Backend {
	case config.BackendAnthropic:
		if c.Anthropic.Key == "" {
			zap.L().Warn("no anthropic key configured, matching uses keyword scoring")
			return nil, nil
		}
		return &match.AnthropicReasoner{
			Client:    anthropic.NewClient(c.Anthropic.Key),
			Model:     c.Anthropic.Model,
			MaxTokens: c.Anthropic.MaxTokens,
		}, nil
	case config.BackendGemini:
		if c.Gemini.Key == "" {
			zap.L().Warn("no gemini key configured, matching uses keyword scoring")
			return nil, nil
		}
		gen, err := gemini.NewGenerator(ctx, c.Gemini.Key, c.Gemini.Model)
		if err != nil {
			return nil, eris.Wrap(err, "init gemini")
		}
		return &match.GeminiReasoner{Generator: gen}, nil
	case config.BackendNone, "":
		return nil, nil
	default:
		return nil, eris.Errorf("unknown match backend %q", c.Match.Backend)
	}
}

func newEngine(ctx context.Context, c *config.Config, opts ...match.Option) (*match.Engine, error) {
	r, err := newReasoner(ctx, c)
	if err != nil {
		return nil, err
	}
	opts = append([]match.Option{
		match.WithTokenBudget(c.Match.TokenBudget),
		match.WithTemperature(c.Match.Temperature),
	}, opts...)
	return match.New(r, opts...), nil
}

func loadProfiles(path string) ([]model.VCProfile, error) {
	profiles, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("loaded profiles", zap.String("path", path), zap.Int("count", len(profiles)))
	return profiles, nil
}

// parseLeadFollow accepts lead, follow or both in any case.
func parseLeadFollow(s string) (model.LeadFollow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "lead":
		return model.LeadFollowLead, nil
	case "follow":
		return model.LeadFollowFollow, nil
	case "both":
		return model.LeadFollowBoth, nil
	}
	return "", eris.Errorf("invalid lead/follow %q (want lead, follow or both)", s)
}
