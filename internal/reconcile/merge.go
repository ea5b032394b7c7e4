// Package reconcile merges per-provider firm records into one canonical
// profile and derives the profile's analytics from the merged collections.
package reconcile

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/abduldattijo/investment-data-app/internal/model"
)

// CompanyKey is the merge identity of a portfolio company: its name,
// NFC-normalized and case-folded.
func CompanyKey(c model.PortfolioCompany) string {
	return fold(c.Name)
}

// DealKey is the merge identity of a deal: folded company, raw date and
// folded stage. Deals missing a company or date share a degenerate key and
// merge together.
func DealKey(d model.Deal) string {
	return fold(d.Company) + "|" + d.Date + "|" + fold(d.Stage)
}

func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// MergeCompanies merges b into a by CompanyKey. Records of a come first in a's
// order, then records only in b in b's order. For a shared key a's non-empty
// fields win and b fills the empty ones. Companies without a name are
// dropped. Neither input is modified.
func MergeCompanies(a, b []model.PortfolioCompany) []model.PortfolioCompany {
	out := make([]model.PortfolioCompany, 0, len(a)+len(b))
	index := make(map[string]int, len(a)+len(b))

	for _, c := range a {
		key := CompanyKey(c)
		if key == "" {
			continue
		}
		c.Categories = cloneStrings(c.Categories)
		if i, ok := index[key]; ok {
			out[i] = c
			continue
		}
		index[key] = len(out)
		out = append(out, c)
	}

	for _, c := range b {
		key := CompanyKey(c)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			c.Categories = cloneStrings(c.Categories)
			index[key] = len(out)
			out = append(out, c)
			continue
		}
		fillCompany(&out[i], c)
	}
	return out
}

func fillCompany(dst *model.PortfolioCompany, src model.PortfolioCompany) {
	fillString(&dst.Name, src.Name)
	fillString(&dst.Description, src.Description)
	fillString(&dst.Website, src.Website)
	fillString(&dst.Founded, src.Founded)
	fillString(&dst.UUID, src.UUID)
	fillString(&dst.LastFunding, src.LastFunding)
	if len(dst.Categories) == 0 && len(src.Categories) > 0 {
		dst.Categories = cloneStrings(src.Categories)
	}
	if dst.TotalFunding == 0 {
		dst.TotalFunding = src.TotalFunding
	}
}

// MergeDeals merges b into a by DealKey with the same precedence and
// ordering rules as MergeCompanies. A lead flag set by either side is kept.
func MergeDeals(a, b []model.Deal) []model.Deal {
	out := make([]model.Deal, 0, len(a)+len(b))
	index := make(map[string]int, len(a)+len(b))

	for _, d := range a {
		key := DealKey(d)
		if i, ok := index[key]; ok {
			out[i] = d
			continue
		}
		index[key] = len(out)
		out = append(out, d)
	}

	for _, d := range b {
		key := DealKey(d)
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, d)
			continue
		}
		fillDeal(&out[i], d)
	}
	return out
}

func fillDeal(dst *model.Deal, src model.Deal) {
	fillString(&dst.Company, src.Company)
	fillString(&dst.Date, src.Date)
	fillString(&dst.Stage, src.Stage)
	fillString(&dst.Name, src.Name)
	fillString(&dst.UUID, src.UUID)
	if dst.Amount == 0 {
		dst.Amount = src.Amount
	}
	if !dst.IsLead {
		dst.IsLead = src.IsLead
	}
}

func fillString(dst *string, src string) {
	if *dst == "" {
		*dst = src
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
