package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abduldattijo/investment-data-app/internal/model"
)

func sample() []model.VCProfile {
	a := model.NewVCProfile(model.FirmInput{Name: "Acme Ventures"})
	a.SectorFocus = []string{"Fintech", "AI/ML"}
	a.PreferredStage = []string{"Seed"}
	a.CheckRange = &model.CheckRange{Min: 250, Max: 750}
	a.CheckRangeLabel = "$250k-$750k"
	a.GeoFocus = "Boston"
	a.About = "We back payments founders."

	b := model.NewVCProfile(model.FirmInput{Name: "Beacon Capital"})
	b.SectorFocus = []string{"Health Tech"}
	b.PreferredStage = []string{"Series A", "Series B"}
	b.CheckRange = &model.CheckRange{Min: 2000, Max: 8000}
	b.CheckRangeLabel = "$2M-$8M"
	b.InvestmentThesis = "Thesis: Digital health at scale."

	c := model.NewVCProfile(model.FirmInput{Name: "Cedar Partners"})
	c.SectorFocus = []string{"Fintech"}
	c.GeoFocus = "Europe"

	return []model.VCProfile{a, b, c}
}

func names(profiles []model.VCProfile) []string {
	out := []string{}
	for _, p := range profiles {
		out = append(out, p.Name)
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero passes all", Filter{}, []string{"Acme Ventures", "Beacon Capital", "Cedar Partners"}},
		{"sector", Filter{Sector: "fintech"}, []string{"Acme Ventures", "Cedar Partners"}},
		{"stage", Filter{Stage: "Series B"}, []string{"Beacon Capital"}},
		{"geo exact", Filter{Geo: "europe"}, []string{"Cedar Partners"}},
		{"geo is not substring", Filter{Geo: "Bost"}, []string{}},
		{"bucket overlap low", Filter{CheckRange: "$500k-1M"}, []string{"Acme Ventures"}},
		{"bucket overlap high", Filter{CheckRange: "$5M+"}, []string{"Beacon Capital"}},
		{"bucket without range", Filter{CheckRange: "$0-100k"}, []string{}},
		{"label equality", Filter{CheckRange: "$2M-$8M"}, []string{"Beacon Capital"}},
		{"query name", Filter{Query: "cedar"}, []string{"Cedar Partners"}},
		{"query about", Filter{Query: "PAYMENTS"}, []string{"Acme Ventures"}},
		{"query thesis", Filter{Query: "digital health"}, []string{"Beacon Capital"}},
		{"combined", Filter{Sector: "Fintech", Geo: "Boston", Stage: "Seed"}, []string{"Acme Ventures"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(tt.filter.Apply(sample())))
		})
	}
}

func TestIsZero(t *testing.T) {
	assert.True(t, Filter{}.IsZero())
	assert.False(t, Filter{Query: "x"}.IsZero())
}

func TestPage(t *testing.T) {
	profiles := make([]model.VCProfile, 25)
	page, total := Page(profiles, 0)
	assert.Len(t, page, DefaultPageSize)
	assert.Equal(t, 25, total)

	page, total = Page(profiles[:3], 10)
	assert.Len(t, page, 3)
	assert.Equal(t, 3, total)
}

func TestOptions(t *testing.T) {
	assert.Len(t, SectorOptions, 32)
	assert.Equal(t, []string{"$0-100k", "$100-250k", "$250-500k", "$500k-1M", "$1-5M", "$5M+"}, CheckRangeLabels())
	assert.Contains(t, GeoRegions, "California")
	assert.Contains(t, StageOptions, "Seed+")
}
