package match

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/abduldattijo/investment-data-app/internal/model"
)

// DefaultTokenBudget bounds the investor context sent with a match request.
const DefaultTokenBudget = 3500

const aboutPreview = 200

// Completeness weighs which profile fields are filled: thesis 3, sectors 2,
// stages 2, and one each for a known check range, about text and portfolio.
func Completeness(p model.VCProfile) int {
	n := 0
	if p.InvestmentThesis != "" {
		n += 3
	}
	if len(p.SectorFocus) > 0 {
		n += 2
	}
	if len(p.PreferredStage) > 0 {
		n += 2
	}
	if knownCheckRange(p) {
		n++
	}
	if p.About != "" {
		n++
	}
	if len(p.Portfolio) > 0 {
		n++
	}
	return n
}

// ByCompleteness returns a copy of profiles sorted by Completeness, most
// complete first. Equal scores keep their input order.
func ByCompleteness(profiles []model.VCProfile) []model.VCProfile {
	out := append([]model.VCProfile(nil), profiles...)
	sort.SliceStable(out, func(i, j int) bool { return Completeness(out[i]) > Completeness(out[j]) })
	return out
}

// EstimateTokens approximates a prompt's token count as one token per four
// characters, rounded up.
func EstimateTokens(s string) int {
	return (utf8.RuneCountInString(s) + 3) / 4
}

// BuildContext renders profiles in the given order until the next summary
// would exceed budget tokens. Summaries are never split.
func BuildContext(profiles []model.VCProfile, budget int) string {
	if budget <= 0 {
		budget = DefaultTokenBudget
	}
	var sb strings.Builder
	used := 0
	for _, p := range profiles {
		summary := Summary(p)
		cost := EstimateTokens(summary)
		if used+cost > budget {
			break
		}
		sb.WriteString(summary)
		used += cost
	}
	return sb.String()
}

// Summary renders one profile for the reasoning prompt. Each summary ends
// with a blank line.
func Summary(p model.VCProfile) string {
	var sb strings.Builder
	line := func(label, value string) {
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteByte('\n')
	}

	line("Investor", orUnknown(p.Name))
	line("Website", p.Website)
	if len(p.SectorFocus) > 0 {
		line("Sectors", strings.Join(p.SectorFocus, ", "))
	}
	if len(p.PreferredStage) > 0 {
		line("Stages", strings.Join(p.PreferredStage, ", "))
	}
	if knownCheckRange(p) {
		line("Check Size", p.CheckRangeLabel)
	}
	if p.GeoFocus != "" {
		line("Geography", p.GeoFocus)
	}
	if p.LeadFollow != "" {
		line("Lead/Follow", string(p.LeadFollow))
	}
	if p.InvestmentThesis != "" {
		line("Thesis", p.InvestmentThesis)
	}
	if p.About != "" {
		line("About", truncateRunes(p.About, aboutPreview)+"...")
	}
	if len(p.Portfolio) > 0 {
		names := make([]string, 0, 3)
		for _, c := range p.Portfolio[:min(3, len(p.Portfolio))] {
			names = append(names, orUnknown(c.Name))
		}
		line("Portfolio Examples", strings.Join(names, ", "))
	}
	line("Status", orUnknown(string(p.Status)))
	sb.WriteByte('\n')
	return sb.String()
}

func knownCheckRange(p model.VCProfile) bool {
	return p.CheckRangeLabel != "" && p.CheckRangeLabel != model.Unknown
}

func orUnknown(s string) string {
	if s == "" {
		return model.Unknown
	}
	return s
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
