package provider

import (
	"time"

	"go.uber.org/zap"

	"github.com/abduldattijo/investment-data-app/internal/config"
	"github.com/abduldattijo/investment-data-app/internal/resilience"
)

// Build registers the HTTP providers and any fixture sources described by
// cfg. Fixture sources replace HTTP providers of the same name.
func Build(cfg config.ProvidersConfig) (*Registry, error) {
	retry := resilience.DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.MaxAttempts
	}
	retry.InitialBackoff = 500 * time.Millisecond

	reg := NewRegistry()
	reg.Register(NewCrunchbase(cfg.Crunchbase.Key,
		WithBaseURL(cfg.Crunchbase.BaseURL),
		WithRateLimit(cfg.RatePerSec),
		WithRetry(retry),
	))
	reg.Register(NewPitchBook(cfg.Pitchbook.Key,
		WithBaseURL(cfg.Pitchbook.BaseURL),
		WithRateLimit(cfg.RatePerSec),
		WithRetry(retry),
	))

	if cfg.FixturePath != "" {
		fixtures, err := LoadFixtures(cfg.FixturePath)
		if err != nil {
			return nil, err
		}
		for _, f := range fixtures {
			reg.Register(f)
		}
		zap.L().Info("provider: loaded fixtures",
			zap.String("path", cfg.FixturePath),
			zap.Int("sources", len(fixtures)),
		)
	}

	for _, name := range cfg.Enabled {
		switch {
		case reg.Get(name) == nil:
			zap.L().Warn("provider: enabled provider not registered", zap.String("provider", name))
		case name == Crunchbase && cfg.Crunchbase.Key == "" && cfg.FixturePath == "":
			zap.L().Warn("provider: no API key configured", zap.String("provider", name))
		case name == PitchBook && cfg.Pitchbook.Key == "" && cfg.FixturePath == "":
			zap.L().Warn("provider: no API key configured", zap.String("provider", name))
		}
	}
	return reg, nil
}
