package reconcile

import (
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/abduldattijo/investment-data-app/internal/classify"
	"github.com/abduldattijo/investment-data-app/internal/model"
)

const (
	maxSectors      = 10
	minTagCount     = 2
	leadThreshold   = 0.7
	followThreshold = 0.3
	minDescription  = 20
	recentPrefix    = "202"
)

// SectorFocus ranks portfolio category tags carried by at least two
// companies, most frequent first, capped at ten. Ties keep first-seen order.
func SectorFocus(portfolio []model.PortfolioCompany) []string {
	var tags []string
	for _, c := range portfolio {
		tags = append(tags, c.Categories...)
	}
	return rankFrequent(tags, maxSectors)
}

// PreferredStages ranks normalized deal stages seen in at least two deals.
func PreferredStages(deals []model.Deal) []string {
	var stages []string
	for _, d := range deals {
		if s := classify.NormalizeStage(d.Stage); s != "" {
			stages = append(stages, s)
		}
	}
	return rankFrequent(stages, 0)
}

// rankFrequent counts non-empty values, keeps those seen minTagCount times
// or more and sorts them by count descending. limit <= 0 means no cap.
func rankFrequent(values []string, limit int) []string {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	out := []string{}
	for _, v := range order {
		if counts[v] >= minTagCount {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return counts[out[i]] > counts[out[j]] })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func positiveAmounts(deals []model.Deal) []float64 {
	var out []float64
	for _, d := range deals {
		if d.Amount > 0 {
			out = append(out, d.Amount)
		}
	}
	return out
}

// CheckRange returns the smallest and largest positive deal amounts in
// thousands, each rounded to the nearest 50. Both are 0 without amounts.
func CheckRange(deals []model.Deal) (float64, float64) {
	amounts := positiveAmounts(deals)
	if len(amounts) == 0 {
		return 0, 0
	}
	return classify.RoundTo50(slices.Min(amounts) / 1000), classify.RoundTo50(slices.Max(amounts) / 1000)
}

// SweetSpot returns the median positive deal amount in thousands, rounded
// to the nearest 50. Small medians can round to 0.
func SweetSpot(deals []model.Deal) float64 {
	amounts := positiveAmounts(deals)
	if len(amounts) == 0 {
		return 0
	}
	slices.Sort(amounts)
	n := len(amounts)
	median := amounts[n/2]
	if n%2 == 0 {
		median = (amounts[n/2-1] + amounts[n/2]) / 2
	}
	return classify.RoundTo50(median / 1000)
}

// FormatCheckRange renders a derived range, or "Unknown" when both bounds
// are 0.
func FormatCheckRange(lo, hi float64) string {
	if lo == 0 && hi == 0 {
		return model.Unknown
	}
	return classify.FormatRange(lo, hi)
}

// FormatSweetSpot renders a derived sweet spot, or "Unknown" for 0.
func FormatSweetSpot(v float64) string {
	if v == 0 {
		return model.Unknown
	}
	return classify.FormatThousands(v)
}

// LeadFollow classifies the share of led deals: at least 70% is Lead, at
// most 30% is Follow, anything between is Both.
func LeadFollow(deals []model.Deal) model.LeadFollow {
	if len(deals) == 0 {
		return model.LeadFollowUnknown
	}
	led := 0
	for _, d := range deals {
		if d.IsLead {
			led++
		}
	}
	ratio := float64(led) / float64(len(deals))
	switch {
	case ratio >= leadThreshold:
		return model.LeadFollowLead
	case ratio <= followThreshold:
		return model.LeadFollowFollow
	default:
		return model.LeadFollowBoth
	}
}

// GeoFocus maps the first non-empty provider location to a region.
func GeoFocus(a, b model.FirmInfo) string {
	return classify.RegionForLocation(firstNonEmpty(a.Location, b.Location))
}

// InvestmentThesis uses a provider description longer than 20 characters
// verbatim. Otherwise it describes the firm from its sectors, stages and a
// sample of its portfolio.
func InvestmentThesis(a, b model.FirmInfo, sectors, stages []string, portfolio []model.PortfolioCompany) string {
	for _, desc := range []string{a.Description, b.Description} {
		if utf8.RuneCountInString(desc) > minDescription {
			return "Thesis: " + desc
		}
	}

	var sb strings.Builder
	sb.WriteString("Pattern: ")
	switch {
	case len(sectors) > 0:
		sb.WriteString("Invests in ")
		sb.WriteString(strings.Join(sectors[:min(3, len(sectors))], ", "))
		if len(stages) > 0 {
			sb.WriteString(" at ")
			sb.WriteString(strings.Join(stages, ", "))
			sb.WriteString(" stages")
		}
		sb.WriteString(".")
	case len(stages) > 0:
		sb.WriteString("Focuses on ")
		sb.WriteString(strings.Join(stages, ", "))
		sb.WriteString(" stage investments.")
	default:
		sb.WriteString("General investment approach across various sectors and stages.")
	}

	if len(portfolio) >= 3 {
		var names []string
		for _, c := range portfolio[:3] {
			if c.Name != "" {
				names = append(names, c.Name)
			}
		}
		if len(names) > 0 {
			sb.WriteString(" Portfolio includes ")
			sb.WriteString(strings.Join(names, ", "))
			sb.WriteString(".")
		}
	}
	return sb.String()
}

// Status is Active when the firm has a deal dated in the 2020s or any
// portfolio company, and Unknown otherwise.
func Status(deals []model.Deal, portfolio []model.PortfolioCompany) model.Status {
	if len(portfolio) > 0 {
		return model.StatusActive
	}
	for _, d := range deals {
		if strings.HasPrefix(d.Date, recentPrefix) {
			return model.StatusActive
		}
	}
	return model.StatusUnknown
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
