package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abduldattijo/investment-data-app/internal/model"
	"github.com/abduldattijo/investment-data-app/internal/provider"
	"github.com/abduldattijo/investment-data-app/internal/session"
)

type fakeCrawler struct {
	profiles []model.VCProfile
	got      []model.FirmInput
}

func (f *fakeCrawler) CrawlMany(_ context.Context, firms []model.FirmInput) []model.VCProfile {
	f.got = firms
	return f.profiles
}

type panicProvider struct{}

func (panicProvider) Name() string { return "broken" }
func (panicProvider) GetInfo(context.Context, string) (model.FirmInfo, error) {
	panic("decoder bug")
}
func (panicProvider) GetPortfolio(context.Context, string) ([]model.PortfolioCompany, error) {
	panic("decoder bug")
}
func (panicProvider) GetDeals(context.Context, string) ([]model.Deal, error) {
	panic("decoder bug")
}

func primary() *provider.FixtureProvider {
	return provider.NewFixture("crunchbase", []provider.FixtureFirm{{
		FirmInfo: model.FirmInfo{ID: "cb-acme", Name: "Acme Ventures", Description: "Short.", Location: "Boston, MA"},
		Portfolio: []model.PortfolioCompany{
			{Name: "PayCo", Categories: []string{"Fintech"}},
			{Name: "Ledgerly", Categories: []string{"Fintech"}},
		},
		Deals: []model.Deal{
			{Company: "PayCo", Date: "2023-01-10", Stage: "seed", Amount: 1_000_000, IsLead: true},
		},
	}})
}

func secondary() *provider.FixtureProvider {
	return provider.NewFixture("pitchbook", []provider.FixtureFirm{{
		FirmInfo: model.FirmInfo{ID: "pb-9", Name: "Acme Ventures", Description: "A longer description of Acme from the second source."},
		Portfolio: []model.PortfolioCompany{
			{Name: "payco", Description: "Payments"},
			{Name: "Robo", Categories: []string{"Robotics"}},
		},
		Deals: []model.Deal{
			{Company: "PayCo", Date: "2023-01-10", Stage: "Seed", Amount: 2_000_000},
			{Company: "Robo", Date: "2022-06-01", Stage: "Series A", Amount: 3_000_000, IsLead: true},
		},
	}})
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"crawl", ModeCrawl, false},
		{" Providers ", ModeProviders, false},
		{"BOTH", ModeBoth, false},
		{"api", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun_ProvidersOneProfilePerFirm(t *testing.T) {
	cache := session.New()
	e := &Enricher{
		Mode:    ModeProviders,
		Sources: provider.Sources([]provider.Provider{primary(), secondary()}, cache, 5),
		Cache:   cache,
	}

	firms := []model.FirmInput{
		{Name: "Acme Ventures", Website: "acme.vc"},
		{Name: "Nobody Capital"},
		{Name: "  ", Website: "blank.vc"},
	}
	out := e.Run(context.Background(), firms)
	require.Len(t, out, 3)

	acme := out[0]
	assert.Equal(t, "Acme Ventures", acme.Name)
	assert.Equal(t, "https://acme.vc", acme.Website)
	assert.Equal(t, "Short.", acme.About)
	assert.Equal(t, "Thesis: A longer description of Acme from the second source.", acme.InvestmentThesis)
	assert.Equal(t, "Boston", acme.GeoFocus)
	require.Len(t, acme.Portfolio, 3)
	assert.Equal(t, "PayCo", acme.Portfolio[0].Name)
	assert.Equal(t, "Payments", acme.Portfolio[0].Description)
	assert.Equal(t, []string{"Fintech"}, acme.SectorFocus)
	require.Len(t, acme.Deals, 2)
	assert.Equal(t, float64(1_000_000), acme.Deals[0].Amount)
	assert.Equal(t, model.LeadFollowLead, acme.LeadFollow)
	assert.Equal(t, model.StatusActive, acme.Status)

	nobody := out[1]
	assert.Equal(t, "Nobody Capital", nobody.Name)
	assert.Equal(t, model.StatusUnknown, nobody.Status)
	assert.Equal(t, model.Unknown, nobody.CheckRangeLabel)
	assert.NotNil(t, nobody.Portfolio)

	assert.Equal(t, "blank.vc", out[2].Website)
	assert.Equal(t, model.LeadFollowUnknown, out[2].LeadFollow)
}

func TestRun_SingleSource(t *testing.T) {
	e := &Enricher{
		Mode:    ModeProviders,
		Sources: provider.Sources([]provider.Provider{primary()}, nil, 5),
	}
	out := e.Run(context.Background(), []model.FirmInput{{Name: "acme ventures"}})
	require.Len(t, out, 1)
	assert.Len(t, out[0].Portfolio, 2)
	assert.Len(t, out[0].Deals, 1)
	assert.Equal(t, "Pattern: Invests in Fintech.", out[0].InvestmentThesis)
}

func TestRun_BrokenProviderStillYieldsProfiles(t *testing.T) {
	e := &Enricher{
		Mode:    ModeProviders,
		Sources: provider.Sources([]provider.Provider{panicProvider{}, primary()}, nil, 5),
	}
	out := e.Run(context.Background(), []model.FirmInput{{Name: "Acme Ventures"}, {Name: "Other"}})
	require.Len(t, out, 2)
	assert.Len(t, out[0].Portfolio, 2)
	assert.Equal(t, "Other", out[1].Name)
}

func TestRun_CrawlDelegates(t *testing.T) {
	crawled := model.NewVCProfile(model.FirmInput{Name: "Acme", Website: "https://acme.vc"})
	fc := &fakeCrawler{profiles: []model.VCProfile{crawled}}
	e := &Enricher{Mode: ModeCrawl, Crawler: fc}

	firms := []model.FirmInput{{Name: "Acme", Website: "acme.vc"}, {Name: "NoSite"}}
	out := e.Run(context.Background(), firms)
	assert.Equal(t, []model.VCProfile{crawled}, out)
	assert.Equal(t, firms, fc.got)
}

func TestRun_CrawlWithoutCrawler(t *testing.T) {
	e := &Enricher{Mode: ModeCrawl}
	out := e.Run(context.Background(), []model.FirmInput{{Name: "Acme", Website: "acme.vc"}})
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestRun_BothFillsGapsFromCrawl(t *testing.T) {
	crawled := model.NewVCProfile(model.FirmInput{Name: "NOBODY capital", Website: "https://nobody.vc"})
	crawled.About = "We back climate founders."
	crawled.Team = []model.TeamMember{{Name: "Ada", Title: "Partner"}}
	crawled.SectorFocus = []string{"Climate Tech"}
	crawled.PreferredStage = []string{"Seed"}
	crawled.GeoFocus = "New York"
	crawled.Status = model.StatusActive
	crawled.CheckRange = &model.CheckRange{Min: 500, Max: 2000}
	crawled.CheckRangeLabel = "$500k-$2M"

	disabled := model.NewVCProfile(model.FirmInput{Name: "Acme Ventures"})
	disabled.Status = model.StatusDisabled
	disabled.About = "should not be used"

	e := &Enricher{
		Mode:    ModeBoth,
		Crawler: &fakeCrawler{profiles: []model.VCProfile{crawled, disabled}},
		Sources: provider.Sources([]provider.Provider{primary(), secondary()}, nil, 5),
	}
	out := e.Run(context.Background(), []model.FirmInput{{Name: "Acme Ventures"}, {Name: "Nobody Capital"}})
	require.Len(t, out, 2)

	assert.Equal(t, "Short.", out[0].About)
	assert.Empty(t, out[0].Team)

	nobody := out[1]
	assert.Equal(t, "https://nobody.vc", nobody.Website)
	assert.Equal(t, "We back climate founders.", nobody.About)
	assert.Len(t, nobody.Team, 1)
	assert.Equal(t, []string{"Climate Tech"}, nobody.SectorFocus)
	assert.Equal(t, []string{"Seed"}, nobody.PreferredStage)
	assert.Equal(t, "New York", nobody.GeoFocus)
	assert.Equal(t, model.StatusActive, nobody.Status)
	assert.Equal(t, "$500k-$2M", nobody.CheckRangeLabel)
	assert.Equal(t, model.Unknown, nobody.SweetSpotLabel)
}
