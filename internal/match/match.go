// Package match ranks investor profiles against a startup description. A
// reasoning service does the ranking when one is configured; otherwise, or
// when its answer cannot be used, a deterministic keyword scorer does.
package match

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/abduldattijo/investment-data-app/internal/model"
)

// DefaultLimit is the number of matches returned when the caller gives none.
const DefaultLimit = 5

// DefaultTemperature is the sampling temperature for ranking requests.
const DefaultTemperature = 0.3

// Reasoner answers a free-text prompt with free text.
type Reasoner interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
}

// Path names how a match request was answered.
type Path string

const (
	PathReasoner Path = "reasoner"
	PathFallback Path = "fallback"
	PathEmpty    Path = "empty"
)

// Engine matches startups to investors.
type Engine struct {
	reasoner    Reasoner
	tokenBudget int
	temperature float64
	observe     func(Path, time.Duration)
	keywords    *keywordIndex
}

// Option configures an Engine.
type Option func(*Engine)

// WithTokenBudget bounds the investor context. Non-positive values keep the
// default.
func WithTokenBudget(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.tokenBudget = n
		}
	}
}

// WithTemperature sets the ranking request temperature.
func WithTemperature(t float64) Option {
	return func(e *Engine) { e.temperature = t }
}

// WithObserver registers a callback invoked after every Match call.
func WithObserver(fn func(Path, time.Duration)) Option {
	return func(e *Engine) { e.observe = fn }
}

// New creates an Engine. A nil reasoner makes every match use the keyword
// scorer.
func New(r Reasoner, opts ...Option) *Engine {
	e := &Engine{
		reasoner:    r,
		tokenBudget: DefaultTokenBudget,
		temperature: DefaultTemperature,
		keywords:    newKeywordIndex(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// HasReasoner reports whether a reasoning service is configured.
func (e *Engine) HasReasoner() bool { return e.reasoner != nil }

const matchPrompt = `You are a VC matching expert. Based on the startup description, find the %d most suitable investors from the list below. Consider sector match, stage, check size, and thesis alignment.

Startup description: %s

Available investors:
%s
Return a JSON array of objects with:
1. "name": The exact name of the VC
2. "match_score": A number from 1-100 indicating how good a match this is
3. "match_reason": A short explanation of why this VC is a good match
4. "caution": Optional caution if there's any potential issue with the match

The JSON should be formatted as:
[
    {"name": "VC Name", "match_score": 95, "match_reason": "Explanation...", "caution": "Optional caution"}
]`

// Match returns up to limit profiles ranked for startup. Criteria, when
// given, filter profiles first; only Active profiles are ranked. The result
// is sorted by descending score, ties in completeness order. Match never
// fails: reasoning errors and unusable answers fall back to keyword scoring.
func (e *Engine) Match(ctx context.Context, startup string, profiles []model.VCProfile, limit int, criteria *model.Criteria) []model.Match {
	start := time.Now()
	if limit <= 0 {
		limit = DefaultLimit
	}

	candidates := ByCompleteness(Active(ApplyCriteria(profiles, criteria)))
	out, path := e.rank(ctx, startup, candidates, limit)

	zap.L().Info("match: ranked investors",
		zap.Int("profiles", len(profiles)),
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(out)),
		zap.String("path", string(path)),
	)
	if e.observe != nil {
		e.observe(path, time.Since(start))
	}
	return out
}

func (e *Engine) rank(ctx context.Context, startup string, candidates []model.VCProfile, limit int) ([]model.Match, Path) {
	if len(candidates) == 0 {
		return []model.Match{}, PathEmpty
	}
	if e.reasoner == nil {
		return e.fallback(startup, candidates, limit), PathFallback
	}

	prompt := fmt.Sprintf(matchPrompt, limit, startup, BuildContext(candidates, e.tokenBudget))
	text, err := e.reasoner.Complete(ctx, prompt, e.temperature)
	if err != nil {
		zap.L().Warn("match: reasoning request failed, using keyword scoring", zap.Error(err))
		return e.fallback(startup, candidates, limit), PathFallback
	}

	out, err := resolve(text, candidates, limit)
	// An answer naming no known firm is treated like a failed call.
	if err != nil {
		zap.L().Warn("match: unusable reasoning answer, using keyword scoring",
			zap.Error(err),
			zap.Int("answer_len", len(text)),
		)
		return e.fallback(startup, candidates, limit), PathFallback
	}
	return out, PathReasoner
}

type rankedName struct {
	Name    string `json:"name"`
	Score   score  `json:"match_score"`
	Reason  string `json:"match_reason"`
	Caution string `json:"caution"`
}

// resolve maps the reasoning answer back to candidate profiles by exact
// name. Unknown and repeated names are dropped. An answer with no array of
// objects, or with no resolvable names, is an error.
func resolve(text string, candidates []model.VCProfile, limit int) ([]model.Match, error) {
	var ranked []rankedName
	_, ok := firstJSON(text, '[', func(raw json.RawMessage) bool {
		return json.Unmarshal(raw, &ranked) == nil
	})
	if !ok {
		return nil, eris.New("match: no JSON array of matches in answer")
	}

	position := make(map[string]int, len(candidates))
	for i, p := range candidates {
		if _, dup := position[p.Name]; !dup {
			position[p.Name] = i
		}
	}

	type hit struct {
		m   model.Match
		pos int
	}
	hits := make([]hit, 0, len(ranked))
	seen := make(map[string]bool, len(ranked))
	for _, r := range ranked {
		i, ok := position[r.Name]
		if !ok || seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		hits = append(hits, hit{
			m: model.Match{
				VCProfile: candidates[i],
				Score:     r.Score.int(),
				Reason:    r.Reason,
				Caution:   r.Caution,
			},
			pos: i,
		})
	}
	if len(hits) == 0 {
		return nil, eris.Errorf("match: none of %d answered names are candidates", len(ranked))
	}

	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].m.Score != hits[b].m.Score {
			return hits[a].m.Score > hits[b].m.Score
		}
		return hits[a].pos < hits[b].pos
	})
	out := make([]model.Match, 0, min(limit, len(hits)))
	for _, h := range hits[:min(limit, len(hits))] {
		out = append(out, h.m)
	}
	return out, nil
}

// ApplyCriteria keeps profiles that satisfy every set criterion: sector and
// stage membership (case-insensitive), geography substring of the profile's
// region, and lead/follow equality or a profile that does both.
func ApplyCriteria(profiles []model.VCProfile, c *model.Criteria) []model.VCProfile {
	if c == nil || c.IsZero() {
		return profiles
	}
	out := make([]model.VCProfile, 0, len(profiles))
	for _, p := range profiles {
		if c.Sector != "" && !containsFold(p.SectorFocus, c.Sector) {
			continue
		}
		if c.Stage != "" && !containsFold(p.PreferredStage, c.Stage) {
			continue
		}
		if c.Geography != "" && (p.GeoFocus == "" ||
			!strings.Contains(strings.ToLower(p.GeoFocus), strings.ToLower(c.Geography))) {
			continue
		}
		if c.LeadFollow != "" && !strings.EqualFold(string(p.LeadFollow), string(c.LeadFollow)) &&
			p.LeadFollow != model.LeadFollowBoth {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Active keeps profiles whose status is Active.
func Active(profiles []model.VCProfile) []model.VCProfile {
	out := make([]model.VCProfile, 0, len(profiles))
	for _, p := range profiles {
		if p.Status == model.StatusActive {
			out = append(out, p)
		}
	}
	return out
}
