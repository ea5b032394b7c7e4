package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abduldattijo/investment-data-app/internal/extract"
	"github.com/abduldattijo/investment-data-app/internal/fetcher"
	"github.com/abduldattijo/investment-data-app/internal/model"
	"github.com/abduldattijo/investment-data-app/internal/resilience"
)

// fakeFetcher serves canned pages by URL and records each request.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls []string
	panic string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*fetcher.Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()
	if url == f.panic {
		panic("boom")
	}
	body, ok := f.pages[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return &fetcher.Page{URL: url, StatusCode: 200, Body: []byte(body)}, nil
}

const homepage = `<html><head><meta name="description" content="Homepage blurb."></head><body>
<a href="/about-us">About</a>
<a href="https://www.acme.vc/portfolio">Portfolio</a>
<a href="/approach#top">Approach</a>
<a href="https://other.com/team">Elsewhere</a>
<a href="mailto:hi@acme.vc">Mail</a>
<section class="portfolio"><div class="company-card"><h3>HomeCo</h3></div></section>
</body></html>`

const aboutPage = `<main class="content">
<p>Acme Ventures backs fintech founders in San Francisco.</p>
<p>We lead seed rounds.</p>
<p>Checks of $0.5-2 million.</p>
<p>Ignored fourth paragraph about robotics.</p>
</main>
<section class="team"><div class="member"><h4>Ada</h4><p class="bio">Former payments operator.</p></div></section>`

const portfolioPage = `<div class="portfolio-grid">
<div class="company-card"><h3>PayCo</h3></div>
<div class="company-card"><h3>LendCo</h3></div>
</div>`

func acmeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[string]string{
		"https://acme.vc":               homepage,
		"https://acme.vc/about-us":      aboutPage,
		"https://www.acme.vc/portfolio": portfolioPage,
		"https://acme.vc/approach":      `<p>Nothing relevant.</p>`,
		"https://other.com/team":        `<p>never fetched</p>`,
	}}
}

func TestCrawl_OverlaysSubpages(t *testing.T) {
	f := acmeFetcher()
	p := New(f, 2).Crawl(context.Background(), model.FirmInput{Name: "Acme", Website: "acme.vc"})

	assert.Equal(t, "https://acme.vc", p.Website)
	assert.Equal(t, model.StatusActive, p.Status)
	assert.Equal(t, model.LeadFollowBoth, p.LeadFollow)
	assert.Equal(t, "Acme Ventures backs fintech founders in San Francisco. We lead seed rounds. Checks of $0.5-2 million.", p.About)

	require.Len(t, p.Portfolio, 2)
	assert.Equal(t, "PayCo", p.Portfolio[0].Name)
	require.Len(t, p.Team, 1)
	assert.Equal(t, "Ada", p.Team[0].Name)

	assert.Equal(t, []string{"Fintech"}, p.SectorFocus)
	assert.Equal(t, []string{"Seed"}, p.PreferredStage)
	assert.Equal(t, "Silicon Valley", p.GeoFocus)
	require.NotNil(t, p.CheckRange)
	assert.Equal(t, model.CheckRange{Min: 500, Max: 2000}, *p.CheckRange)
	assert.Equal(t, "$500k-$2.0M", p.CheckRangeLabel)
	require.NotNil(t, p.CheckSweetSpot)
	assert.InDelta(t, 1000, *p.CheckSweetSpot, 0.001)
	assert.Equal(t, "$1.0M", p.SweetSpotLabel)

	assert.NotContains(t, f.calls, "https://other.com/team")
}

func TestCrawl_EmptySubpageKeepsHomepageValues(t *testing.T) {
	f := acmeFetcher()
	f.pages["https://www.acme.vc/portfolio"] = `<p>Coming soon</p>`

	p := New(f, 1).Crawl(context.Background(), model.FirmInput{Name: "Acme", Website: "https://acme.vc"})
	require.Len(t, p.Portfolio, 1)
	assert.Equal(t, "HomeCo", p.Portfolio[0].Name)
}

func TestCrawl_UnreachableHomepage(t *testing.T) {
	p := New(&fakeFetcher{}, 1).Crawl(context.Background(), model.FirmInput{Name: "Gone", Website: "gone.vc"})

	assert.Equal(t, model.StatusDisabled, p.Status)
	assert.Empty(t, p.About)
	assert.Empty(t, p.InvestmentThesis)
	assert.Empty(t, p.SectorFocus)
	assert.NotNil(t, p.Portfolio)
	assert.Nil(t, p.CheckRange)
	assert.Equal(t, model.Unknown, p.CheckRangeLabel)
	assert.Equal(t, model.DefaultGeo, p.GeoFocus)
}

func TestCrawl_DefaultCheckRange(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{"https://plain.vc": `<p>Hello</p>`}}
	p := New(f, 1).Crawl(context.Background(), model.FirmInput{Name: "Plain", Website: "plain.vc"})

	assert.Equal(t, "$100k-$1.0M", p.CheckRangeLabel)
	assert.Equal(t, "$316k", p.SweetSpotLabel)
}

func TestCrawlMany_SkipsFirmsWithoutWebsite(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{"https://a.vc": `<p>a</p>`}}
	got := New(f, 3).CrawlMany(context.Background(), []model.FirmInput{
		{Name: "A", Website: "a.vc"},
		{Name: "NoSite"},
		{Name: "Blank", Website: "  "},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
}

func TestCrawlMany_PanicBecomesDefaultRecord(t *testing.T) {
	f := &fakeFetcher{
		pages: map[string]string{"https://ok.vc": `<p>ok</p>`},
		panic: "https://bad.vc",
	}
	got := New(f, 2).CrawlMany(context.Background(), []model.FirmInput{
		{Name: "Ok", Website: "ok.vc"},
		{Name: "Bad", Website: "bad.vc"},
	})
	require.Len(t, got, 2)
	byName := map[string]model.VCProfile{}
	for _, p := range got {
		byName[p.Name] = p
	}
	assert.Equal(t, model.StatusActive, byName["Ok"].Status)
	bad := byName["Bad"]
	assert.Equal(t, model.StatusUnknown, bad.Status)
	assert.Equal(t, model.LeadFollowUnknown, bad.LeadFollow)
	assert.Equal(t, "bad.vc", bad.Website)
	assert.Empty(t, bad.Portfolio)
}

func TestCrawlMany_FailingSiteIsIsolated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/down") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`<html><head><meta name="description" content="We back SaaS founders."></head></html>`))
	}))
	defer srv.Close()

	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		Retry: resilience.RetryConfig{InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond},
		Sleep: func(context.Context, time.Duration) error { return nil },
	})
	got := New(f, 3).CrawlMany(context.Background(), []model.FirmInput{
		{Name: "One", Website: srv.URL + "/one"},
		{Name: "Down", Website: srv.URL + "/down"},
		{Name: "Two", Website: srv.URL + "/two"},
	})
	require.Len(t, got, 3)
	sort.Slice(got, func(i, j int) bool { return got[i].Name < got[j].Name })

	assert.Equal(t, "Down", got[0].Name)
	assert.Equal(t, model.StatusDisabled, got[0].Status)
	assert.Empty(t, got[0].About)
	for _, p := range got[1:] {
		assert.Equal(t, model.StatusActive, p.Status)
		assert.Equal(t, "We back SaaS founders.", p.About)
		assert.Equal(t, []string{"Enterprise SaaS"}, p.SectorFocus)
	}
}

func TestInternalLinks(t *testing.T) {
	doc, err := extract.Parse([]byte(homepage))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://acme.vc/about-us",
		"https://www.acme.vc/portfolio",
		"https://acme.vc/approach",
	}, internalLinks(doc, "https://acme.vc"))
}

func TestSameSite(t *testing.T) {
	assert.True(t, sameSite("acme.vc", "www.acme.vc"))
	assert.True(t, sameSite("fund.co.uk", "blog.fund.co.uk"))
	assert.False(t, sameSite("a.co.uk", "b.co.uk"))
	assert.True(t, sameSite("127.0.0.1", "127.0.0.1"))
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://acme.vc", NormalizeURL(" acme.vc "))
	assert.Equal(t, "http://acme.vc", NormalizeURL("http://acme.vc"))
	assert.Equal(t, "", NormalizeURL(""))
}
