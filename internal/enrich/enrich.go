// Package enrich turns a firm list into investor profiles by crawling firm
// websites, querying the structured providers, or both.
package enrich

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/abduldattijo/investment-data-app/internal/crawler"
	"github.com/abduldattijo/investment-data-app/internal/model"
	"github.com/abduldattijo/investment-data-app/internal/provider"
	"github.com/abduldattijo/investment-data-app/internal/reconcile"
	"github.com/abduldattijo/investment-data-app/internal/session"
)

// Mode selects where profile data comes from.
type Mode string

const (
	ModeCrawl     Mode = "crawl"
	ModeProviders Mode = "providers"
	ModeBoth      Mode = "both"
)

// ParseMode validates a mode name. Matching is case-insensitive.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeCrawl, ModeProviders, ModeBoth:
		return m, nil
	}
	return "", eris.Errorf("enrich: unknown mode %q (want crawl, providers or both)", s)
}

// SiteCrawler builds profiles from firm websites.
type SiteCrawler interface {
	CrawlMany(ctx context.Context, firms []model.FirmInput) []model.VCProfile
}

// Enricher runs one enrichment session. Sources are ordered: the first is
// the primary source A and the second is B. A missing source contributes
// nothing.
type Enricher struct {
	Mode    Mode
	Crawler SiteCrawler
	Sources []*provider.Source
	Cache   *session.Cache
}

// Run enriches firms according to Mode. The crawl path skips firms without
// a website. The provider and combined paths return exactly one profile per
// input firm, in input order.
func (e *Enricher) Run(ctx context.Context, firms []model.FirmInput) []model.VCProfile {
	log := zap.L().With(zap.String("mode", string(e.Mode)), zap.Int("firms", len(firms)))
	if e.Cache != nil {
		log = log.With(zap.String("session", e.Cache.ID))
	}
	log.Info("enrich: starting run")
	start := time.Now()

	var out []model.VCProfile
	switch e.Mode {
	case ModeCrawl:
		out = e.crawl(ctx, firms)
	case ModeBoth:
		out = e.fromProviders(ctx, firms)
		fillFromCrawl(out, e.crawl(ctx, firms))
	default:
		out = e.fromProviders(ctx, firms)
	}

	fields := []zap.Field{
		zap.Int("profiles", len(out)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	}
	if e.Cache != nil {
		hits, loads := e.Cache.Stats()
		fields = append(fields, zap.Int64("cache_hits", hits), zap.Int64("cache_loads", loads))
	}
	log.Info("enrich: run complete", fields...)
	return out
}

func (e *Enricher) crawl(ctx context.Context, firms []model.FirmInput) []model.VCProfile {
	if e.Crawler == nil {
		zap.L().Warn("enrich: no crawler configured")
		return []model.VCProfile{}
	}
	return e.Crawler.CrawlMany(ctx, firms)
}

// fromProviders enriches firms one at a time.
func (e *Enricher) fromProviders(ctx context.Context, firms []model.FirmInput) []model.VCProfile {
	out := make([]model.VCProfile, 0, len(firms))
	for _, firm := range firms {
		out = append(out, e.enrichFirm(ctx, firm))
	}
	return out
}

func (e *Enricher) enrichFirm(ctx context.Context, firm model.FirmInput) (p model.VCProfile) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("enrich: firm failed",
				zap.String("firm", firm.Name),
				zap.String("website", firm.Website),
				zap.Error(eris.Errorf("panic: %v", r)),
			)
			p = model.NewVCProfile(firm)
		}
	}()

	if strings.TrimSpace(firm.Name) == "" {
		zap.L().Warn("enrich: firm without name", zap.String("website", firm.Website))
		return model.NewVCProfile(firm)
	}

	in := model.FirmInput{Name: firm.Name, Website: crawler.NormalizeURL(firm.Website)}
	a, b := e.source(0), e.source(1)

	infoA := a.Info(ctx, in.Name)
	infoB := b.Info(ctx, in.Name)
	p = reconcile.BuildProfile(in, reconcile.Sources{
		InfoA:      infoA,
		InfoB:      infoB,
		PortfolioA: a.Portfolio(ctx, infoA.ID),
		PortfolioB: b.Portfolio(ctx, infoB.ID),
		DealsA:     a.Deals(ctx, infoA.ID),
		DealsB:     b.Deals(ctx, infoB.ID),
	})

	zap.L().Info("enrich: enriched firm",
		zap.String("firm", p.Name),
		zap.Int("portfolio", len(p.Portfolio)),
		zap.Int("deals", len(p.Deals)),
		zap.String("status", string(p.Status)),
	)
	return p
}

func (e *Enricher) source(i int) *provider.Source {
	if i < len(e.Sources) {
		return e.Sources[i]
	}
	return nil
}

// fillFromCrawl fills fields the providers left empty with what the firm's
// website produced. Crawled profiles are matched to provider profiles by
// case-folded name.
func fillFromCrawl(profiles, crawled []model.VCProfile) {
	byName := make(map[string]model.VCProfile, len(crawled))
	for _, c := range crawled {
		if c.Status == model.StatusDisabled {
			continue
		}
		key := foldName(c.Name)
		if _, ok := byName[key]; !ok {
			byName[key] = c
		}
	}

	for i := range profiles {
		c, ok := byName[foldName(profiles[i].Name)]
		if !ok {
			continue
		}
		mergeCrawled(&profiles[i], c)
	}
}

func mergeCrawled(p *model.VCProfile, c model.VCProfile) {
	if p.Website == "" {
		p.Website = c.Website
	}
	if p.About == "" {
		p.About = c.About
	}
	if len(p.Team) == 0 && len(c.Team) > 0 {
		p.Team = c.Team
	}
	if len(p.Portfolio) == 0 && len(c.Portfolio) > 0 {
		p.Portfolio = c.Portfolio
	}
	if len(p.SectorFocus) == 0 && len(c.SectorFocus) > 0 {
		p.SectorFocus = c.SectorFocus
	}
	if len(p.PreferredStage) == 0 && len(c.PreferredStage) > 0 {
		p.PreferredStage = c.PreferredStage
	}
	if p.CheckRange == nil && c.CheckRange != nil {
		p.CheckRange = c.CheckRange
		p.CheckRangeLabel = c.CheckRangeLabel
	}
	if p.CheckSweetSpot == nil && c.CheckSweetSpot != nil {
		p.CheckSweetSpot = c.CheckSweetSpot
		p.SweetSpotLabel = c.SweetSpotLabel
	}
	if p.GeoFocus == model.DefaultGeo && c.GeoFocus != "" {
		p.GeoFocus = c.GeoFocus
	}
	if p.Status == model.StatusUnknown && c.Status == model.StatusActive {
		p.Status = model.StatusActive
	}
	p.Normalize()
}

func foldName(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
