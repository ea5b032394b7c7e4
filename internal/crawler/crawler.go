// Package crawler builds investor profiles from firm websites: it fetches the
// homepage and up to three key subpages, extracts content and classifies the
// combined text.
package crawler

import (
	"context"
	"math"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/errgroup"

	"github.com/abduldattijo/investment-data-app/internal/classify"
	"github.com/abduldattijo/investment-data-app/internal/extract"
	"github.com/abduldattijo/investment-data-app/internal/fetcher"
	"github.com/abduldattijo/investment-data-app/internal/model"
)

// DefaultConcurrency is the number of firms crawled at once.
const DefaultConcurrency = 5

type pageKind int

const (
	pageAbout pageKind = iota
	pagePortfolio
	pageApproach
)

// importantPages lists, in visiting order, the path keywords that identify
// each subpage category.
var importantPages = []struct {
	kind     pageKind
	keywords []string
}{
	{pageAbout, []string{"about", "about-us", "who-we-are", "team", "our-team"}},
	{pagePortfolio, []string{"portfolio", "companies", "investments", "our-portfolio"}},
	{pageApproach, []string{"approach", "strategy", "thesis", "investment-strategy", "how-we-invest"}},
}

// Crawler crawls firm websites through a PageFetcher.
type Crawler struct {
	fetcher     fetcher.PageFetcher
	concurrency int
}

// New returns a Crawler. Non-positive concurrency uses DefaultConcurrency.
func New(f fetcher.PageFetcher, concurrency int) *Crawler {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Crawler{fetcher: f, concurrency: concurrency}
}

// CrawlMany crawls every firm that has a website using a bounded worker pool.
// Firms without a website are skipped. Results arrive in completion order and
// one firm's failure never affects another's record.
func (c *Crawler) CrawlMany(ctx context.Context, firms []model.FirmInput) []model.VCProfile {
	var (
		mu  sync.Mutex
		out = make([]model.VCProfile, 0, len(firms))
	)

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for _, firm := range firms {
		if strings.TrimSpace(firm.Website) == "" {
			zap.L().Debug("crawler: skipping firm without website", zap.String("firm", firm.Name))
			continue
		}
		g.Go(func() error {
			p := c.crawlIsolated(ctx, firm)
			mu.Lock()
			out = append(out, p)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (c *Crawler) crawlIsolated(ctx context.Context, firm model.FirmInput) (p model.VCProfile) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("crawler: firm failed",
				zap.String("firm", firm.Name),
				zap.String("website", firm.Website),
				zap.Error(eris.Errorf("panic: %v", r)),
			)
			p = model.NewVCProfile(firm)
		}
	}()
	p = c.Crawl(ctx, firm)
	zap.L().Info("crawler: crawled firm",
		zap.String("firm", firm.Name),
		zap.String("status", string(p.Status)),
	)
	return p
}

// Crawl builds one firm's profile from its website. An unreachable homepage
// yields an otherwise empty profile with status Disabled.
func (c *Crawler) Crawl(ctx context.Context, firm model.FirmInput) model.VCProfile {
	site := NormalizeURL(firm.Website)

	p := model.NewVCProfile(model.FirmInput{Name: firm.Name, Website: site})
	p.Status = model.StatusActive
	p.LeadFollow = model.LeadFollowBoth

	home, err := c.fetchDoc(ctx, site)
	if err != nil {
		zap.L().Warn("crawler: homepage unreachable",
			zap.String("firm", firm.Name),
			zap.String("website", site),
			zap.Error(err),
		)
		p.Status = model.StatusDisabled
		return p
	}

	content := extract.Extract(home, site)
	links := internalLinks(home, site)
	for _, pg := range importantPages {
		link := firstMatchingLink(links, pg.keywords, site)
		if link == "" {
			continue
		}
		doc, err := c.fetchDoc(ctx, link)
		if err != nil {
			zap.L().Debug("crawler: subpage unreachable", zap.String("url", link), zap.Error(err))
			continue
		}
		overlay(&content, pg.kind, doc, link)
	}

	p.About = content.About
	p.InvestmentThesis = content.Thesis
	p.Portfolio = content.Portfolio
	p.Team = content.Team
	classifyProfile(&p)
	return p
}

// overlay replaces the homepage values for a category with the subpage's,
// only when the subpage produced something.
func overlay(content *model.PartialProfile, kind pageKind, doc *goquery.Document, pageURL string) {
	switch kind {
	case pageAbout:
		if about := extract.AboutParagraphs(doc, 3); about != "" {
			content.About = about
		}
		if team := extract.Team(doc); len(team) > 0 {
			content.Team = team
		}
	case pagePortfolio:
		if portfolio := extract.Portfolio(doc, pageURL); len(portfolio) > 0 {
			content.Portfolio = portfolio
		}
	case pageApproach:
		if thesis := extract.Thesis(doc); thesis != "" {
			content.Thesis = thesis
		}
	}
}

func classifyProfile(p *model.VCProfile) {
	var b strings.Builder
	b.WriteString(p.About)
	b.WriteByte(' ')
	b.WriteString(p.InvestmentThesis)
	for _, m := range p.Team {
		if m.Bio != "" {
			b.WriteByte(' ')
			b.WriteString(m.Bio)
		}
	}
	text := b.String()

	p.SectorFocus = classify.Sectors(text)
	p.PreferredStage = classify.Stages(text)
	p.GeoFocus = classify.GeoFocus(text)

	lo, hi := classify.CheckRange(text)
	sweet := math.Sqrt(lo * hi)
	p.CheckRange = &model.CheckRange{Min: lo, Max: hi}
	p.CheckSweetSpot = &sweet
	p.CheckRangeLabel = classify.FormatRange(lo, hi)
	p.SweetSpotLabel = classify.FormatThousands(sweet)
}

func (c *Crawler) fetchDoc(ctx context.Context, pageURL string) (*goquery.Document, error) {
	page, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := extract.Parse(page.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "crawler: parse %s", pageURL)
	}
	return doc, nil
}

// NormalizeURL prepends https:// when the scheme is missing.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	return raw
}

// internalLinks returns the absolute http(s) links on the page that share the
// site's registrable domain, deduplicated in document order.
func internalLinks(doc *goquery.Document, site string) []string {
	base, err := url.Parse(site)
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		u := base.ResolveReference(ref)
		if u.Scheme != "http" && u.Scheme != "https" {
			return
		}
		u.Fragment = ""
		if !sameSite(base.Hostname(), u.Hostname()) {
			return
		}
		s := u.String()
		if !seen[s] {
			seen[s] = true
			links = append(links, s)
		}
	})
	return links
}

func sameSite(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return true
	}
	da, errA := publicsuffix.EffectiveTLDPlusOne(a)
	db, errB := publicsuffix.EffectiveTLDPlusOne(b)
	return errA == nil && errB == nil && da == db
}

func firstMatchingLink(links, keywords []string, site string) string {
	for _, link := range links {
		if strings.TrimRight(link, "/") == strings.TrimRight(site, "/") {
			continue
		}
		u, err := url.Parse(link)
		if err != nil {
			continue
		}
		path := strings.ToLower(u.Path)
		for _, kw := range keywords {
			if strings.Contains(path, kw) {
				return link
			}
		}
	}
	return ""
}
