// Package filter narrows an enriched profile collection for display. It is
// consumer-side post-processing and never modifies the profiles.
package filter

import (
	"math"
	"strings"

	"github.com/abduldattijo/investment-data-app/internal/model"
)

// SectorOptions are the sectors offered in filter menus.
var SectorOptions = []string{
	"Fintech", "Enterprise SaaS", "Health Tech", "AI/ML", "Cybersecurity",
	"E-commerce", "Edtech", "Climate Tech", "Consumer Apps", "B2B Marketplace",
	"Web3/Blockchain", "Hardware", "IoT", "Robotics", "Biotech", "Clean Energy",
	"Retail Tech", "Real Estate Tech", "Gaming", "Media", "Transportation",
	"Logistics", "Manufacturing", "Agtech", "Food Tech", "Space", "AR/VR",
	"Dev Tools", "Mobile", "Data Analytics", "Advertising Tech", "Marketplaces",
}

// StageOptions are the stages offered in filter menus.
var StageOptions = []string{"Pre-seed", "Seed", "Seed+", "Series A", "Series B", "Series C+"}

// GeoRegions are the regions offered in filter menus.
var GeoRegions = []string{
	"USA", "Silicon Valley", "New York", "Boston", "Midwest", "Southeast",
	"Texas", "Pacific Northwest", "California", "Europe", "Asia", "Global",
}

// CheckBucket is a check-size menu entry covering [Min, Max) thousands.
type CheckBucket struct {
	Label string
	Min   float64
	Max   float64
}

// CheckRangeOptions are the check-size buckets offered in filter menus.
var CheckRangeOptions = []CheckBucket{
	{"$0-100k", 0, 100},
	{"$100-250k", 100, 250},
	{"$250-500k", 250, 500},
	{"$500k-1M", 500, 1000},
	{"$1-5M", 1000, 5000},
	{"$5M+", 5000, math.Inf(1)},
}

// CheckRangeLabels returns the bucket labels in menu order.
func CheckRangeLabels() []string {
	out := make([]string, len(CheckRangeOptions))
	for i, b := range CheckRangeOptions {
		out[i] = b.Label
	}
	return out
}

// DefaultPageSize is how many filtered profiles a listing shows.
const DefaultPageSize = 10

// Filter selects profiles. Empty fields match everything; set fields must
// all match.
type Filter struct {
	Sector     string `json:"sector,omitempty"`
	Stage      string `json:"stage,omitempty"`
	CheckRange string `json:"check_range,omitempty"`
	Geo        string `json:"geo,omitempty"`
	Query      string `json:"query,omitempty"`
}

// IsZero reports whether the filter passes every profile.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Apply returns the profiles f matches, in input order. Sector and stage
// must be members of the profile's lists and geo must equal its region,
// all case-insensitively. A check range naming a bucket keeps profiles whose
// range overlaps it; any other value must equal the profile's range label.
// Query is a case-insensitive substring of the name, about or thesis.
func (f Filter) Apply(profiles []model.VCProfile) []model.VCProfile {
	out := make([]model.VCProfile, 0, len(profiles))
	for _, p := range profiles {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Match reports whether f selects p.
func (f Filter) Match(p model.VCProfile) bool {
	if f.Sector != "" && !containsFold(p.SectorFocus, f.Sector) {
		return false
	}
	if f.Stage != "" && !containsFold(p.PreferredStage, f.Stage) {
		return false
	}
	if f.CheckRange != "" && !matchCheck(p, f.CheckRange) {
		return false
	}
	if f.Geo != "" && !strings.EqualFold(p.GeoFocus, f.Geo) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.About), q) &&
			!strings.Contains(strings.ToLower(p.InvestmentThesis), q) {
			return false
		}
	}
	return true
}

func matchCheck(p model.VCProfile, want string) bool {
	for _, b := range CheckRangeOptions {
		if !strings.EqualFold(b.Label, want) {
			continue
		}
		if p.CheckRange == nil {
			return false
		}
		return p.CheckRange.Min < b.Max && p.CheckRange.Max >= b.Min
	}
	return strings.EqualFold(p.CheckRangeLabel, want)
}

// Page returns at most n profiles and the total count. Non-positive n uses
// DefaultPageSize.
func Page(profiles []model.VCProfile, n int) ([]model.VCProfile, int) {
	if n <= 0 {
		n = DefaultPageSize
	}
	return profiles[:min(n, len(profiles))], len(profiles)
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
