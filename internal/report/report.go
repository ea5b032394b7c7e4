// Package report renders profiles, matches and advice for terminal and
// Markdown output.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nao1215/markdown"
	"github.com/rotisserie/eris"

	"github.com/abduldattijo/investment-data-app/internal/model"
)

const (
	portfolioPreview = 5
	cellWidth        = 60
)

// ProfileTable writes shown as a table. When total exceeds the rows shown a
// hint to narrow the filters follows the table.
func ProfileTable(w io.Writer, shown []model.VCProfile, total int) {
	if total == 0 {
		fmt.Fprintln(w, "No VCs match your filters. Try broadening your search criteria.")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Sectors", "Stages", "Check Size", "Geography", "Lead/Follow", "Portfolio"})
	for _, p := range shown {
		t.AppendRow(table.Row{
			p.Name,
			truncate(strings.Join(p.SectorFocus, ", ")),
			strings.Join(p.PreferredStage, ", "),
			p.CheckRangeLabel,
			p.GeoFocus,
			string(p.LeadFollow),
			truncate(portfolioNames(p.Portfolio)),
		})
	}
	t.Render()
	if total > len(shown) {
		fmt.Fprintf(w, "Showing %d of %d results. Use more specific filters to narrow down.\n", len(shown), total)
	}
}

// MatchTable writes ranked matches as a table.
func MatchTable(w io.Writer, matches []model.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matching investors found.")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Investor", "Score", "Reason", "Caution"})
	for i, m := range matches {
		t.AppendRow(table.Row{i + 1, m.Name, m.Score, truncate(m.Reason), truncate(m.Caution)})
	}
	t.Render()
}

// AdviceMarkdown writes a Markdown brief: extracted startup attributes, the
// ranked investors with their profile highlights, and the outreach advice.
func AdviceMarkdown(w io.Writer, startup string, attrs model.StartupAttributes, matches []model.Match, advice string) error {
	md := markdown.NewMarkdown(w)
	md.H1("Investor Matches")
	md.PlainText("")
	md.PlainText(startup)
	md.PlainText("")

	if rows := attributeRows(attrs); len(rows) > 0 {
		md.H2("Startup Profile")
		md.PlainText("")
		md.Table(markdown.TableSet{Header: []string{"Attribute", "Value"}, Rows: rows})
		md.PlainText("")
	}

	md.H2("Top Matches")
	md.PlainText("")
	if len(matches) == 0 {
		md.PlainText("No matching investors found.")
		md.PlainText("")
	}
	for i, m := range matches {
		md.H3(fmt.Sprintf("%d. %s (%d/100)", i+1, m.Name, m.Score))
		md.PlainText("")
		items := []string{"Why: " + m.Reason}
		if m.Caution != "" {
			items = append(items, "Caution: "+m.Caution)
		}
		if m.Website != "" {
			items = append(items, "Website: "+m.Website)
		}
		if len(m.SectorFocus) > 0 {
			items = append(items, "Sectors: "+strings.Join(m.SectorFocus, ", "))
		}
		if len(m.PreferredStage) > 0 {
			items = append(items, "Stages: "+strings.Join(m.PreferredStage, ", "))
		}
		items = append(items, "Check Size: "+m.CheckRangeLabel)
		if names := portfolioNames(m.Portfolio); names != "" {
			items = append(items, "Portfolio: "+names)
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	md.H2("Outreach Advice")
	md.PlainText("")
	md.PlainText(advice)

	if err := md.Build(); err != nil {
		return eris.Wrap(err, "report: write markdown")
	}
	return nil
}

func attributeRows(a model.StartupAttributes) [][]string {
	var rows [][]string
	add := func(k, v string) {
		if v != "" {
			rows = append(rows, []string{k, v})
		}
	}
	add("Sector", a.Sector)
	add("Stage", a.Stage)
	add("Funding Needs", a.FundingNeeds)
	add("Location", a.Location)
	add("Lead Preference", a.LeadPreference)
	add("Use of Funds", a.UseOfFunds)
	add("Unique Value", a.UniqueValue)
	return rows
}

func portfolioNames(portfolio []model.PortfolioCompany) string {
	names := make([]string, 0, portfolioPreview)
	for _, c := range portfolio[:min(portfolioPreview, len(portfolio))] {
		names = append(names, c.Name)
	}
	if extra := len(portfolio) - portfolioPreview; extra > 0 {
		names = append(names, "+"+strconv.Itoa(extra)+" more")
	}
	return strings.Join(names, ", ")
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= cellWidth {
		return s
	}
	return string(r[:cellWidth-3]) + "..."
}
