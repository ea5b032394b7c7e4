// Package classify infers sector, stage, check-size and geography tags from
// free text using fixed keyword vocabularies.
package classify

import (
	"sort"
	"strings"
)

// maxTextSectors caps the sector tags inferred from a single text blob.
const maxTextSectors = 5

// Sector is one entry of the sector vocabulary.
type Sector struct {
	Name     string
	Keywords []string
}

// SectorVocabulary is the ordered sector vocabulary. Order is significant:
// it is the output order when no ranking is needed.
var SectorVocabulary = []Sector{
	{"Fintech", []string{"fintech", "financial technology", "financial services", "banking", "insurance", "payments"}},
	{"Enterprise SaaS", []string{"enterprise", "saas", "software as a service", "b2b software", "cloud software"}},
	{"Health Tech", []string{"health", "healthcare", "medical", "biotech", "life sciences", "digital health"}},
	{"AI/ML", []string{"ai", "artificial intelligence", "machine learning", "deep learning", "nlp", "computer vision"}},
	{"Cybersecurity", []string{"security", "cybersecurity", "infosec", "data protection", "privacy"}},
	{"E-commerce", []string{"e-commerce", "ecommerce", "e commerce", "retail", "direct to consumer", "d2c", "dtc"}},
	{"Edtech", []string{"education", "edtech", "learning", "teaching", "training"}},
	{"Climate Tech", []string{"climate", "cleantech", "sustainability", "green", "renewable", "carbon"}},
	{"Consumer Apps", []string{"consumer", "apps", "mobile apps", "social media", "social network"}},
	{"B2B Marketplace", []string{"b2b", "marketplace", "platform", "exchange"}},
	{"Web3/Blockchain", []string{"web3", "blockchain", "crypto", "bitcoin", "ethereum", "nft", "defi", "dao"}},
	{"Hardware", []string{"hardware", "devices", "iot", "internet of things", "sensors", "electronics"}},
	{"Robotics", []string{"robotics", "robots", "automation", "autonomous"}},
	{"AR/VR", []string{"augmented reality", "virtual reality", "ar", "vr", "mixed reality", "metaverse"}},
	{"Space", []string{"space", "aerospace", "satellite", "launch"}},
	{"AgTech", []string{"agriculture", "agtech", "farming", "food production"}},
	{"Manufacturing", []string{"manufacturing", "industry 4.0", "industrial", "factories"}},
	{"PropTech", []string{"real estate", "proptech", "construction", "buildings"}},
	{"Mobility", []string{"mobility", "transportation", "automotive", "electric vehicles", "ev"}},
}

// SectorNames returns the vocabulary names in order.
func SectorNames() []string {
	names := make([]string, len(SectorVocabulary))
	for i, s := range SectorVocabulary {
		names[i] = s.Name
	}
	return names
}

// Sectors flags every sector with at least one keyword occurring as a
// case-insensitive substring of text. When more than five flag, the five
// with the most keyword occurrences are kept.
func Sectors(text string) []string {
	lower := strings.ToLower(text)

	type scored struct {
		name  string
		count int
	}
	var hits []scored
	for _, s := range SectorVocabulary {
		if !containsAny(lower, s.Keywords) {
			continue
		}
		n := 0
		for _, kw := range s.Keywords {
			n += strings.Count(lower, kw)
		}
		hits = append(hits, scored{name: s.Name, count: n})
	}

	if len(hits) > maxTextSectors {
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].count > hits[j].count })
		hits = hits[:maxTextSectors]
	}

	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.name)
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
