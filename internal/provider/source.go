package provider

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/abduldattijo/investment-data-app/internal/model"
	"github.com/abduldattijo/investment-data-app/internal/resilience"
	"github.com/abduldattijo/investment-data-app/internal/session"
)

// Source wraps a Provider for the enrichment path. Every lookup goes through
// the session cache and the provider's breaker. Failures and panics are
// logged and turned into empty results, so Source methods never fail. A nil
// *Source behaves like a provider that knows nothing.
type Source struct {
	p       Provider
	cache   *session.Cache
	breaker *resilience.Breaker
}

// NewSource wraps p. A nil cache gets a private one; a nil breaker disables
// tripping.
func NewSource(p Provider, cache *session.Cache, breaker *resilience.Breaker) *Source {
	if cache == nil {
		cache = session.New()
	}
	return &Source{p: p, cache: cache, breaker: breaker}
}

// Sources wraps each provider with its own breaker over a shared cache.
func Sources(providers []Provider, cache *session.Cache, tripThreshold int) []*Source {
	out := make([]*Source, 0, len(providers))
	for _, p := range providers {
		out = append(out, NewSource(p, cache, resilience.NewBreaker(tripThreshold, time.Minute)))
	}
	return out
}

// Name returns the wrapped provider's name, or "" for a nil Source.
func (s *Source) Name() string {
	if s == nil {
		return ""
	}
	return s.p.Name()
}

// Info looks up a firm by name. Failures yield an empty info with a
// non-nil Categories list.
func (s *Source) Info(ctx context.Context, name string) model.FirmInfo {
	if s == nil || strings.TrimSpace(name) == "" {
		return emptyInfo()
	}
	info, err := s.cache.Info(ctx, s.p.Name(), name, func(ctx context.Context) (model.FirmInfo, error) {
		return guard(s, func() (model.FirmInfo, error) { return s.p.GetInfo(ctx, name) })
	})
	if err != nil {
		s.logFailure("get_info", name, err)
		return emptyInfo()
	}
	if info.Categories == nil {
		info.Categories = []string{}
	}
	return info
}

func emptyInfo() model.FirmInfo {
	return model.FirmInfo{Categories: []string{}}
}

// Portfolio lists portfolio companies for a provider id. An empty id
// returns an empty list without calling the provider.
func (s *Source) Portfolio(ctx context.Context, id string) []model.PortfolioCompany {
	if s == nil || id == "" {
		return []model.PortfolioCompany{}
	}
	out, err := s.cache.Portfolio(ctx, s.p.Name(), id, func(ctx context.Context) ([]model.PortfolioCompany, error) {
		return guard(s, func() ([]model.PortfolioCompany, error) { return s.p.GetPortfolio(ctx, id) })
	})
	if err != nil {
		s.logFailure("get_portfolio", id, err)
		return []model.PortfolioCompany{}
	}
	if out == nil {
		return []model.PortfolioCompany{}
	}
	return out
}

// Deals lists deals for a provider id. An empty id returns an empty list
// without calling the provider.
func (s *Source) Deals(ctx context.Context, id string) []model.Deal {
	if s == nil || id == "" {
		return []model.Deal{}
	}
	out, err := s.cache.Deals(ctx, s.p.Name(), id, func(ctx context.Context) ([]model.Deal, error) {
		return guard(s, func() ([]model.Deal, error) { return s.p.GetDeals(ctx, id) })
	})
	if err != nil {
		s.logFailure("get_deals", id, err)
		return []model.Deal{}
	}
	if out == nil {
		return []model.Deal{}
	}
	return out
}

func (s *Source) logFailure(op, key string, err error) {
	zap.L().Warn("provider: lookup failed",
		zap.String("provider", s.p.Name()),
		zap.String("operation", op),
		zap.String("key", key),
		zap.Error(err),
	)
}

// guard runs fn through the breaker, converting a panic into an error.
func guard[T any](s *Source, fn func() (T, error)) (T, error) {
	call := func() (v T, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = eris.Errorf("provider: %s panicked: %v", s.p.Name(), r)
			}
		}()
		return fn()
	}
	if s.breaker == nil {
		return call()
	}
	return resilience.BreakerVal(s.breaker, call)
}
