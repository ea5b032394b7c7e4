package match

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"

	"github.com/abduldattijo/investment-data-app/internal/model"
)

// FallbackCaution marks matches produced without the reasoning service.
const FallbackCaution = "This match was generated by a simplified algorithm due to API limitations."

const (
	sectorPoints = 30
	stagePoints  = 20
	leadPoints   = 10
	thesisPoints = 15
	activePoints = 5
	maxScore     = 100
	minThesisLen = 5
)

type vocabEntry struct {
	name     string
	keywords []string
}

// fallbackSectors is narrower than the crawler's sector vocabulary and names
// sectors in lower case.
var fallbackSectors = []vocabEntry{
	{"fintech", []string{"fintech", "financial", "banking", "payment", "insurance"}},
	{"enterprise saas", []string{"enterprise", "saas", "software", "b2b"}},
	{"health tech", []string{"health", "medical", "biotech", "healthcare"}},
	{"ai/ml", []string{"ai", "artificial intelligence", "machine learning", "ml"}},
	{"ecommerce", []string{"ecommerce", "e-commerce", "retail", "consumer"}},
	{"edtech", []string{"education", "learning", "edtech"}},
	{"climate tech", []string{"climate", "clean", "sustainability", "green"}},
}

var fallbackStages = []vocabEntry{
	{"pre-seed", []string{"pre-seed", "pre seed", "idea", "concept"}},
	{"seed", []string{"seed", "early", "prototype"}},
	{"series a", []string{"series a", "growth", "revenue"}},
	{"series b", []string{"series b", "scale", "expansion"}},
}

// fallbackLead is checked in order; the first preference with a hit wins.
var fallbackLead = []vocabEntry{
	{string(model.LeadFollowLead), []string{"lead investor", "lead round"}},
	{string(model.LeadFollowFollow), []string{"follow-on", "follow on"}},
}

type vocabKind int

const (
	kindSector vocabKind = iota
	kindStage
	kindLead
)

type vocabRef struct {
	kind  vocabKind
	entry int
}

// keywordIndex finds every vocabulary keyword in a text with one pass of an
// Aho-Corasick automaton. The matcher keeps per-call state, so Match calls
// are serialized.
type keywordIndex struct {
	mu       sync.Mutex
	matcher  *ahocorasick.Matcher
	keywords []string
	refs     [][]vocabRef
}

func newKeywordIndex() *keywordIndex {
	idx := &keywordIndex{}
	pos := make(map[string]int)
	add := func(kind vocabKind, vocab []vocabEntry) {
		for i, e := range vocab {
			for _, kw := range e.keywords {
				p, ok := pos[kw]
				if !ok {
					p = len(idx.keywords)
					pos[kw] = p
					idx.keywords = append(idx.keywords, kw)
					idx.refs = append(idx.refs, nil)
				}
				idx.refs[p] = append(idx.refs[p], vocabRef{kind: kind, entry: i})
			}
		}
	}
	add(kindSector, fallbackSectors)
	add(kindStage, fallbackStages)
	add(kindLead, fallbackLead)
	idx.matcher = ahocorasick.NewStringMatcher(idx.keywords)
	return idx
}

// signals are what the fallback infers from a startup description.
type signals struct {
	sectors []string
	stages  []string
	lead    model.LeadFollow
	words   []string
}

func (idx *keywordIndex) infer(lower string) signals {
	idx.mu.Lock()
	hits := idx.matcher.Match([]byte(lower))
	idx.mu.Unlock()

	found := map[vocabKind]map[int]bool{kindSector: {}, kindStage: {}, kindLead: {}}
	for _, h := range hits {
		for _, ref := range idx.refs[h] {
			found[ref.kind][ref.entry] = true
		}
	}

	var sig signals
	for i, e := range fallbackSectors {
		if found[kindSector][i] {
			sig.sectors = append(sig.sectors, e.name)
		}
	}
	for i, e := range fallbackStages {
		if found[kindStage][i] {
			sig.stages = append(sig.stages, e.name)
		}
	}
	for i, e := range fallbackLead {
		if found[kindLead][i] {
			sig.lead = model.LeadFollow(e.name)
			break
		}
	}
	for _, w := range strings.Fields(lower) {
		if utf8.RuneCountInString(w) >= minThesisLen {
			sig.words = append(sig.words, w)
		}
	}
	return sig
}

// fallback scores profiles by keyword overlap with the startup text without
// any external call. The result is deterministic for a given input.
func (e *Engine) fallback(startup string, profiles []model.VCProfile, limit int) []model.Match {
	sig := e.keywords.infer(strings.ToLower(startup))

	out := make([]model.Match, 0, len(profiles))
	for _, p := range profiles {
		pts, reasons := scoreProfile(p, sig)
		if pts <= 0 {
			continue
		}
		out = append(out, model.Match{
			VCProfile: p,
			Score:     min(pts, maxScore),
			Reason:    strings.Join(reasons, "; "),
			Caution:   FallbackCaution,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func scoreProfile(p model.VCProfile, sig signals) (int, []string) {
	pts := 0
	reasons := []string{}

	for _, s := range sig.sectors {
		if containsFold(p.SectorFocus, s) {
			pts += sectorPoints
			reasons = append(reasons, "Sector match: "+s)
		}
	}
	for _, s := range sig.stages {
		if containsFold(p.PreferredStage, s) {
			pts += stagePoints
			reasons = append(reasons, "Stage match: "+s)
		}
	}
	if sig.lead != "" && (p.LeadFollow == sig.lead || p.LeadFollow == model.LeadFollowBoth) {
		pts += leadPoints
		reasons = append(reasons, "Lead/Follow match: "+string(sig.lead))
	}
	if p.InvestmentThesis != "" {
		thesis := strings.ToLower(p.InvestmentThesis)
		for _, w := range sig.words {
			if strings.Contains(thesis, w) {
				pts += thesisPoints
				reasons = append(reasons, "Thesis keywords match")
				break
			}
		}
	}
	if p.Status == model.StatusActive {
		pts += activePoints
	}
	return pts, reasons
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
