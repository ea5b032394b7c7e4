// Package extract pulls about text, portfolio companies, team members and
// investment thesis prose out of investor web pages using class-name and
// heading heuristics.
package extract

import (
	"bytes"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"golang.org/x/net/html"

	"github.com/abduldattijo/investment-data-app/internal/model"
)

var (
	contentKeywords   = []string{"content", "main", "about"}
	portfolioKeywords = []string{"portfolio", "companies", "investments"}
	companyKeywords   = []string{"company", "card", "item", "logo"}
	descKeywords      = []string{"desc", "summary", "text"}

	teamKeywords        = []string{"team", "people", "about-us", "about"}
	teamHeadingKeywords = []string{"team", "people", "our partners", "our investors"}
	memberKeywords      = []string{"member", "person", "card", "profile"}
	titleKeywords       = []string{"title", "role", "position"}
	bioKeywords         = []string{"bio", "description", "about"}

	thesisKeywords        = []string{"thesis", "strategy", "approach", "philosophy", "about", "invest"}
	thesisHeadingKeywords = []string{"thesis", "strategy", "approach", "philosophy", "how we invest", "what we look for"}
	relevanceKeywords     = []string{
		"invest", "focus", "companies", "founders", "startups", "portfolio",
		"capital", "fund", "venture", "strategy", "partner",
	}
)

const (
	nameSelector      = "h3, h4, h5, strong, b"
	containerSelector = "section, div"
)

// Parse builds a document from raw HTML.
func Parse(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "extract: parse html")
	}
	return doc, nil
}

// Extract runs every extractor over one page. A nil document yields an
// empty profile.
func Extract(doc *goquery.Document, baseURL string) model.PartialProfile {
	return model.PartialProfile{
		About:     About(doc),
		Thesis:    Thesis(doc),
		Portfolio: Portfolio(doc, baseURL),
		Team:      Team(doc),
	}
}

// About prefers the meta description, then the first paragraph of a
// content-like container, then the first paragraph on the page.
func About(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	if desc, ok := doc.Find("meta[name='description']").Attr("content"); ok {
		if desc = strings.TrimSpace(desc); desc != "" {
			return desc
		}
	}
	if main := contentContainer(doc); main.Length() > 0 {
		if p := text(main.Find("p").First()); p != "" {
			return p
		}
	}
	return text(doc.Find("p").First())
}

// AboutParagraphs joins the first n paragraphs of the page's content-like
// container. It returns "" when no such container exists.
func AboutParagraphs(doc *goquery.Document, n int) string {
	if doc == nil {
		return ""
	}
	main := contentContainer(doc)
	if main.Length() == 0 {
		return ""
	}
	parts := make([]string, 0, n)
	main.Find("p").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= n {
			return false
		}
		parts = append(parts, text(s))
		return true
	})
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Portfolio collects company cards from portfolio-like containers.
func Portfolio(doc *goquery.Document, baseURL string) []model.PortfolioCompany {
	out := []model.PortfolioCompany{}
	if doc == nil {
		return out
	}
	base, _ := url.Parse(baseURL)

	seen := make(map[*html.Node]bool)
	containers(doc, portfolioKeywords, "h1, h2, h3, h4", portfolioKeywords).Each(func(_ int, section *goquery.Selection) {
		cards := section.Find("div, li, a").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return classContains(s, companyKeywords)
		})
		if cards.Length() == 0 {
			cards = section.Find("a")
		}
		cards.Each(func(_ int, el *goquery.Selection) {
			node := el.Get(0)
			if seen[node] {
				return
			}
			seen[node] = true
			if c, ok := companyFromCard(el, base); ok {
				out = append(out, c)
			}
		})
	})
	return out
}

func companyFromCard(el *goquery.Selection, base *url.URL) (model.PortfolioCompany, bool) {
	isLink := goquery.NodeName(el) == "a"

	var c model.PortfolioCompany
	if name := el.Find(nameSelector).First(); name.Length() > 0 {
		c.Name = text(name)
	} else if isLink {
		c.Name = text(el)
	}

	href, ok := el.Attr("href")
	if !isLink || !ok {
		href, ok = el.Find("a[href]").First().Attr("href")
	}
	if ok {
		c.Website = resolve(base, href)
	}

	desc := el.Find("p, div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return classContains(s, descKeywords)
	}).First()
	c.Description = text(desc)

	return c, utf8.RuneCountInString(c.Name) > 1
}

// Team collects member cards from team-like containers. Members without a
// name are dropped.
func Team(doc *goquery.Document) []model.TeamMember {
	out := []model.TeamMember{}
	if doc == nil {
		return out
	}

	seen := make(map[*html.Node]bool)
	containers(doc, teamKeywords, "h1, h2, h3, h4", teamHeadingKeywords).Each(func(_ int, section *goquery.Selection) {
		section.Find("div, li").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return classContains(s, memberKeywords)
		}).Each(func(_ int, el *goquery.Selection) {
			node := el.Get(0)
			if seen[node] {
				return
			}
			seen[node] = true

			name := text(el.Find(nameSelector).First())
			if name == "" {
				return
			}
			out = append(out, model.TeamMember{
				Name:  name,
				Title: text(firstWithClass(el, "p, div, span", titleKeywords)),
				Bio:   text(firstWithClass(el, "p, div", bioKeywords)),
			})
		})
	})
	return out
}

// Thesis concatenates substantial paragraphs from thesis-like containers.
// Without any, it joins up to three mid-length paragraphs that mention
// investing vocabulary.
func Thesis(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}

	var b strings.Builder
	containers(doc, thesisKeywords, "h1, h2, h3", thesisHeadingKeywords).Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := text(p); utf8.RuneCountInString(t) > 50 {
			b.WriteString(t)
			b.WriteByte(' ')
		}
	})
	if thesis := strings.TrimSpace(b.String()); thesis != "" {
		return thesis
	}

	var relevant []string
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		t := text(p)
		n := utf8.RuneCountInString(t)
		if n > 20 && n < 300 && containsAny(strings.ToLower(t), relevanceKeywords) {
			relevant = append(relevant, t)
		}
		return len(relevant) < 3
	})
	return strings.TrimSpace(strings.Join(relevant, " "))
}

// containers finds section/div elements whose class mentions a keyword. When
// none exist it falls back to the nearest section/div enclosing a heading
// whose text mentions a heading keyword.
func containers(doc *goquery.Document, classKeywords []string, headings string, headingKeywords []string) *goquery.Selection {
	found := doc.Find(containerSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return classContains(s, classKeywords)
	})
	if found.Length() > 0 {
		return found
	}

	found = doc.Selection.Slice(0, 0)
	doc.Find(headings).Each(func(_ int, h *goquery.Selection) {
		if !containsAny(strings.ToLower(h.Text()), headingKeywords) {
			return
		}
		if parent := h.ParentsFiltered(containerSelector).First(); parent.Length() > 0 {
			found = found.AddSelection(parent)
		}
	})
	return found
}

func contentContainer(doc *goquery.Document) *goquery.Selection {
	return doc.Find("main, article, div, section").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return classContains(s, contentKeywords)
	}).First()
}

func firstWithClass(el *goquery.Selection, selector string, keywords []string) *goquery.Selection {
	return el.Find(selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return classContains(s, keywords)
	}).First()
}

func classContains(s *goquery.Selection, keywords []string) bool {
	class, ok := s.Attr("class")
	if !ok || class == "" {
		return false
	}
	return containsAny(strings.ToLower(class), keywords)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func text(s *goquery.Selection) string {
	if s == nil || s.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(s.Text())
}

func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
