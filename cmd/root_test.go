package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abduldattijo/investment-data-app/internal/config"
	"github.com/abduldattijo/investment-data-app/internal/dataset"
	"github.com/abduldattijo/investment-data-app/internal/enrich"
	"github.com/abduldattijo/investment-data-app/internal/filter"
	"github.com/abduldattijo/investment-data-app/internal/match"
	"github.com/abduldattijo/investment-data-app/internal/model"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"enrich", "match", "advise", "filter", "serve"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "vcmatch", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmd   string
		flag  string
		deflt string
	}{
		{"enrich", "input", ""},
		{"enrich", "out", defaultDataPath},
		{"enrich", "mode", "both"},
		{"enrich", "concurrency", "0"},
		{"match", "startup", ""},
		{"match", "lead-follow", ""},
		{"match", "limit", "0"},
		{"advise", "out", ""},
		{"filter", "check", ""},
		{"filter", "limit", "10"},
		{"serve", "port", "0"},
		{"serve", "data", defaultDataPath},
	}
	for _, tt := range tests {
		t.Run(tt.cmd+"/"+tt.flag, func(t *testing.T) {
			c, _, err := rootCmd.Find([]string{tt.cmd})
			require.NoError(t, err)
			f := c.Flags().Lookup(tt.flag)
			require.NotNil(t, f, "%s should have --%s", tt.cmd, tt.flag)
			assert.Equal(t, tt.deflt, f.DefValue)
		})
	}
}

func TestParseLeadFollow(t *testing.T) {
	tests := []struct {
		in      string
		want    model.LeadFollow
		wantErr bool
	}{
		{"", "", false},
		{"LEAD", model.LeadFollowLead, false},
		{" follow ", model.LeadFollowFollow, false},
		{"Both", model.LeadFollowBoth, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := parseLeadFollow(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestCriteriaFromFlags(t *testing.T) {
	c, err := criteriaFromFlags("", " ", "", "")
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = criteriaFromFlags("Fintech", "Seed", "Boston", "lead")
	require.NoError(t, err)
	assert.Equal(t, &model.Criteria{Sector: "Fintech", Stage: "Seed", Geography: "Boston", LeadFollow: model.LeadFollowLead}, c)

	_, err = criteriaFromFlags("", "", "", "nope")
	assert.Error(t, err)
}

func TestNewReasoner(t *testing.T) {
	ctx := context.Background()

	r, err := newReasoner(ctx, &config.Config{Match: config.MatchConfig{Backend: config.BackendNone}})
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = newReasoner(ctx, &config.Config{Match: config.MatchConfig{Backend: config.BackendAnthropic}})
	require.NoError(t, err)
	assert.Nil(t, r, "missing key falls back to keyword scoring")

	r, err = newReasoner(ctx, &config.Config{Match: config.MatchConfig{Backend: config.BackendGemini}})
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = newReasoner(ctx, &config.Config{
		Match:     config.MatchConfig{Backend: config.BackendAnthropic},
		Anthropic: config.AnthropicConfig{Key: "sk-test", Model: "claude-haiku-4-5-20251001", MaxTokens: 500},
	})
	require.NoError(t, err)
	ar, ok := r.(*match.AnthropicReasoner)
	require.True(t, ok)
	assert.Equal(t, int64(500), ar.MaxTokens)

	_, err = newReasoner(ctx, &config.Config{Match: config.MatchConfig{Backend: "openai"}})
	assert.Error(t, err)
}

func TestNewEnricher(t *testing.T) {
	c := &config.Config{
		Crawl:     config.CrawlConfig{Concurrency: 2, TimeoutSecs: 5, MaxAttempts: 1},
		Providers: config.ProvidersConfig{Enabled: []string{"crunchbase", "pitchbook"}, TripThreshold: 3},
	}

	e, err := newEnricher(c, enrich.ModeCrawl)
	require.NoError(t, err)
	assert.NotNil(t, e.Crawler)
	assert.Empty(t, e.Sources)
	assert.NotEmpty(t, e.Cache.ID)

	e, err = newEnricher(c, enrich.ModeProviders)
	require.NoError(t, err)
	assert.Nil(t, e.Crawler)
	require.Len(t, e.Sources, 2)
	assert.Equal(t, "crunchbase", e.Sources[0].Name())
	assert.Equal(t, "pitchbook", e.Sources[1].Name())

	e, err = newEnricher(c, enrich.ModeBoth)
	require.NoError(t, err)
	assert.NotNil(t, e.Crawler)
	assert.Len(t, e.Sources, 2)
}

func sampleProfiles() []model.VCProfile {
	a := model.NewVCProfile(model.FirmInput{Name: "Acme Ventures", Website: "https://acme.vc"})
	a.SectorFocus = []string{"Fintech"}
	a.PreferredStage = []string{"Seed"}
	a.Status = model.StatusActive
	b := model.NewVCProfile(model.FirmInput{Name: "Beacon Capital"})
	b.SectorFocus = []string{"Health Tech"}
	b.Status = model.StatusActive
	return []model.VCProfile{a, b}
}

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vcs.json")
	require.NoError(t, dataset.Save(path, sampleProfiles()))

	got, err := loadProfiles(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = loadProfiles(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestRunFilter(t *testing.T) {
	var buf bytes.Buffer
	runFilter(&buf, sampleProfiles(), filter.Filter{Sector: "fintech"}, 10)
	assert.Contains(t, buf.String(), "Acme Ventures")
	assert.NotContains(t, buf.String(), "Beacon Capital")

	buf.Reset()
	runFilter(&buf, sampleProfiles(), filter.Filter{}, 1)
	assert.Contains(t, buf.String(), "Showing 1 of 2 results")
}

func TestRunAdvise_KeywordScoring(t *testing.T) {
	var buf bytes.Buffer
	err := runAdvise(context.Background(), &buf, match.New(nil), sampleProfiles(), "fintech payments at seed", 5, nil)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "### 1. Acme Ventures (55/100)")
	assert.Contains(t, out, match.UnavailableAdvice)
}

func TestWriteMatches_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeMatches(&buf, []model.Match{{VCProfile: sampleProfiles()[0], Score: 70, Reason: "fit"}}, true))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Acme Ventures", got[0]["name"])
	assert.Equal(t, float64(70), got[0]["match_score"])
}
