package reconcile

import (
	"github.com/abduldattijo/investment-data-app/internal/model"
)

// Sources holds what two providers returned for one firm. A is the primary
// source and wins field conflicts.
type Sources struct {
	InfoA, InfoB           model.FirmInfo
	PortfolioA, PortfolioB []model.PortfolioCompany
	DealsA, DealsB         []model.Deal
}

// BuildProfile merges both sources and derives every analytic field. The
// input's name and website are kept; a missing website is taken from the
// providers.
func BuildProfile(in model.FirmInput, src Sources) model.VCProfile {
	p := model.NewVCProfile(in)
	if p.Website == "" {
		p.Website = firstNonEmpty(src.InfoA.Website, src.InfoB.Website)
	}

	portfolio := MergeCompanies(src.PortfolioA, src.PortfolioB)
	deals := MergeDeals(src.DealsA, src.DealsB)

	p.Portfolio = portfolio
	p.Deals = deals
	p.About = firstNonEmpty(src.InfoA.Description, src.InfoB.Description)
	p.SectorFocus = SectorFocus(portfolio)
	p.PreferredStage = PreferredStages(deals)

	lo, hi := CheckRange(deals)
	p.CheckRangeLabel = FormatCheckRange(lo, hi)
	if p.CheckRangeLabel != model.Unknown {
		p.CheckRange = &model.CheckRange{Min: lo, Max: hi}
	}
	sweet := SweetSpot(deals)
	p.SweetSpotLabel = FormatSweetSpot(sweet)
	if sweet != 0 {
		p.CheckSweetSpot = &sweet
	}

	p.LeadFollow = LeadFollow(deals)
	p.GeoFocus = GeoFocus(src.InfoA, src.InfoB)
	p.InvestmentThesis = InvestmentThesis(src.InfoA, src.InfoB, p.SectorFocus, p.PreferredStage, portfolio)
	p.Status = Status(deals, portfolio)

	p.Normalize()
	return p
}
