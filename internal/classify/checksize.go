package classify

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Default check range in thousands when the text carries no amounts.
const (
	DefaultCheckMin = 100
	DefaultCheckMax = 1000
)

type amountPattern struct {
	re      *regexp.Regexp
	million bool
}

// amountPatterns are scanned in order; ranges first, then flat mentions.
var amountPatterns = []amountPattern{
	{regexp.MustCompile(`\$?\s*(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)\s*(?:m|million)`), true},
	{regexp.MustCompile(`\$?\s*(\d+(?:\.\d+)?)\s*(?:m|million)\s*to\s*\$?\s*(\d+(?:\.\d+)?)\s*(?:m|million)`), true},
	{regexp.MustCompile(`\$?\s*(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)\s*(?:k|thousand)`), false},
	{regexp.MustCompile(`\$?\s*(\d+(?:\.\d+)?)\s*(?:k|thousand)\s*to\s*\$?\s*(\d+(?:\.\d+)?)\s*(?:k|thousand)`), false},
	{regexp.MustCompile(`invest\s*\$?\s*(\d+(?:\.\d+)?)\s*-\s*\$?\s*(\d+(?:\.\d+)?)\s*(?:in|per|each)`), false},
	{regexp.MustCompile(`initial\s*investments?\s*of\s*\$?\s*(\d+(?:\.\d+)?)\s*(?:m|million)`), true},
	{regexp.MustCompile(`typical\s*check\s*of\s*\$?\s*(\d+(?:\.\d+)?)\s*(?:m|million)`), true},
	{regexp.MustCompile(`initial\s*investments?\s*of\s*\$?\s*(\d+(?:\.\d+)?)\s*(?:k|thousand)`), false},
	{regexp.MustCompile(`typical\s*check\s*of\s*\$?\s*(\d+(?:\.\d+)?)\s*(?:k|thousand)`), false},
}

// CheckRange scans text for investment amounts and returns the widest
// (min, max) interval found, in thousands, rounded to the nearest 50.
// Without any match it returns (100, 1000).
func CheckRange(text string) (float64, float64) {
	lower := strings.ToLower(text)

	var lo, hi float64
	found := false
	observe := func(a, b float64) {
		if !found || a < lo {
			lo = a
		}
		if !found || b > hi {
			hi = b
		}
		found = true
	}

	for _, p := range amountPatterns {
		for _, m := range p.re.FindAllStringSubmatch(lower, -1) {
			vals := make([]float64, 0, 2)
			for _, g := range m[1:] {
				v, err := strconv.ParseFloat(g, 64)
				if err != nil {
					continue
				}
				if p.million {
					v *= 1000
				}
				vals = append(vals, v)
			}
			switch len(vals) {
			case 1:
				observe(vals[0], vals[0])
			case 2:
				observe(vals[0], vals[1])
			}
		}
	}

	if !found {
		lo, hi = DefaultCheckMin, DefaultCheckMax
	}
	return RoundTo50(lo), RoundTo50(hi)
}

// RoundTo50 rounds v (thousands) to the nearest multiple of 50. Exact
// halves round to the even multiple.
func RoundTo50(v float64) float64 {
	return math.RoundToEven(v/50) * 50
}

// FormatThousands renders an amount in thousands as "$750k" or "$2.5M".
func FormatThousands(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("$%.1fM", v/1000)
	}
	return fmt.Sprintf("$%.0fk", v)
}

// FormatRange renders a check range, formatting each bound independently.
func FormatRange(lo, hi float64) string {
	return FormatThousands(lo) + "-" + FormatThousands(hi)
}
