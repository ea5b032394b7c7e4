package classify

import (
	"regexp"
	"strings"
)

// Canonical stage tags.
const (
	StagePreSeed  = "Pre-seed"
	StageSeed     = "Seed"
	StageSeedPlus = "Seed+"
	StageSeriesA  = "Series A"
	StageSeriesB  = "Series B"
	StageSeriesC  = "Series C+"
)

type stagePattern struct {
	stage    string
	patterns []*regexp.Regexp
}

var stagePatterns = []stagePattern{
	{StagePreSeed, compileAll(`pre.?seed`, `concept`, `idea stage`, `earliest`)},
	{StageSeed, compileAll(`seed`, `early stage`, `initial funding`)},
	{StageSeriesA, compileAll(`series a`, `series.a`, `early growth`)},
	{StageSeriesB, compileAll(`series b`, `series.b`, `growth stage`)},
	{StageSeriesC, compileAll(`series c`, `series.c`, `series d`, `later stage`, `growth equity`)},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// Stages returns every stage with at least one pattern matching text,
// in vocabulary order.
func Stages(text string) []string {
	lower := strings.ToLower(text)
	out := []string{}
	for _, sp := range stagePatterns {
		for _, re := range sp.patterns {
			if re.MatchString(lower) {
				out = append(out, sp.stage)
				break
			}
		}
	}
	return out
}

// NormalizeStage maps a provider's raw round label to a canonical stage.
// It returns "" for labels that do not map.
func NormalizeStage(raw string) string {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "pre-seed") || strings.Contains(s, "preseed"):
		return StagePreSeed
	case strings.Contains(s, "seed") || strings.Contains(s, "angel"):
		return StageSeed
	case strings.Contains(s, "series a"):
		return StageSeriesA
	case strings.Contains(s, "series b"):
		return StageSeriesB
	case containsAny(s, []string{"series c", "series d", "series e", "series f"}):
		return StageSeriesC
	case strings.Contains(s, "late") && strings.Contains(s, "stage"):
		return StageSeriesC
	case strings.Contains(s, "early") && strings.Contains(s, "stage"):
		return StageSeedPlus
	default:
		return ""
	}
}

// StageNames returns the stage tags offered to users, including Seed+.
func StageNames() []string {
	return []string{StagePreSeed, StageSeed, StageSeedPlus, StageSeriesA, StageSeriesB, StageSeriesC}
}
