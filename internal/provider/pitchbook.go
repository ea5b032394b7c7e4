package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"

	"github.com/abduldattijo/investment-data-app/internal/model"
)

const (
	// PitchBook is the registry name of the PitchBook provider.
	PitchBook = "pitchbook"

	// DefaultPitchBookURL is the PitchBook v1 API base.
	DefaultPitchBookURL = "https://api.pitchbook.com/v1"
)

type pbInvestor struct {
	ID               flexString `json:"id"`
	Name             flexString `json:"name"`
	Description      flexString `json:"description"`
	Website          flexString `json:"website"`
	FoundedDate      flexString `json:"foundedDate"`
	Headquarters     flexString `json:"headquarters"`
	Sectors          []string   `json:"sectors"`
	InvestmentStages []string   `json:"investmentStages"`
	AUM              flexAmount `json:"aum"`
	Status           flexString `json:"status"`
}

type pbCompany struct {
	ID               flexString `json:"id"`
	Name             flexString `json:"name"`
	Description      flexString `json:"description"`
	Website          flexString `json:"website"`
	FoundedDate      flexString `json:"foundedDate"`
	Sectors          []string   `json:"sectors"`
	LastFundingStage flexString `json:"lastFundingStage"`
	TotalFunding     flexAmount `json:"totalFunding"`
}

type pbDeal struct {
	ID              flexString `json:"id"`
	DealName        flexString `json:"dealName"`
	DealDate        flexString `json:"dealDate"`
	DealStage       flexString `json:"dealStage"`
	DealSize        flexAmount `json:"dealSize"`
	IsLead          bool       `json:"isLead"`
	InvestedCompany flexString `json:"investedCompany"`
}

// PitchBookProvider reads investors, portfolios and deals from the PitchBook
// API. Responses are flat objects and lists.
type PitchBookProvider struct {
	c *jsonClient
}

// NewPitchBook creates a PitchBook provider authenticated with apiKey.
func NewPitchBook(apiKey string, opts ...Option) *PitchBookProvider {
	auth := ""
	if apiKey != "" {
		auth = "Bearer " + apiKey
	}
	return &PitchBookProvider{
		c: newJSONClient(PitchBook, DefaultPitchBookURL, "Authorization", auth, opts...),
	}
}

// Name implements Provider.
func (p *PitchBookProvider) Name() string { return PitchBook }

// GetInfo searches investors by name and returns the best match. The search
// endpoint answers with either a single object or a one-element list.
func (p *PitchBookProvider) GetInfo(ctx context.Context, name string) (model.FirmInfo, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("limit", "1")

	var raw json.RawMessage
	if err := p.c.get(ctx, "/investors/search", params, &raw); err != nil {
		return model.FirmInfo{}, err
	}

	var inv pbInvestor
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) > 0 && raw[0] == '{':
		if err := json.Unmarshal(raw, &inv); err != nil {
			return model.FirmInfo{}, err
		}
	case len(raw) > 0 && raw[0] == '[':
		list := decodeList[pbInvestor](raw)
		if len(list) == 0 {
			return model.FirmInfo{}, nil
		}
		inv = list[0]
	default:
		return model.FirmInfo{}, nil
	}

	sectors := inv.Sectors
	if sectors == nil {
		sectors = []string{}
	}
	return model.FirmInfo{
		ID:               string(inv.ID),
		Name:             string(inv.Name),
		Description:      string(inv.Description),
		Website:          string(inv.Website),
		Founded:          string(inv.FoundedDate),
		Location:         string(inv.Headquarters),
		Categories:       sectors,
		InvestmentStages: inv.InvestmentStages,
		AUM:              float64(inv.AUM),
		Status:           string(inv.Status),
	}, nil
}

// GetPortfolio lists the investor's portfolio companies.
func (p *PitchBookProvider) GetPortfolio(ctx context.Context, id string) ([]model.PortfolioCompany, error) {
	params := url.Values{}
	params.Set("limit", pageLimit)

	var raw json.RawMessage
	if err := p.c.get(ctx, "/investors/"+url.PathEscape(id)+"/portfolio", params, &raw); err != nil {
		return nil, err
	}

	companies := decodeList[pbCompany](raw)
	out := make([]model.PortfolioCompany, 0, len(companies))
	for _, c := range companies {
		out = append(out, model.PortfolioCompany{
			UUID:         string(c.ID),
			Name:         string(c.Name),
			Description:  string(c.Description),
			Website:      string(c.Website),
			Founded:      string(c.FoundedDate),
			Categories:   c.Sectors,
			LastFunding:  string(c.LastFundingStage),
			TotalFunding: float64(c.TotalFunding),
		})
	}
	return out, nil
}

// GetDeals lists the investor's deals.
func (p *PitchBookProvider) GetDeals(ctx context.Context, id string) ([]model.Deal, error) {
	params := url.Values{}
	params.Set("limit", pageLimit)

	var raw json.RawMessage
	if err := p.c.get(ctx, "/investors/"+url.PathEscape(id)+"/deals", params, &raw); err != nil {
		return nil, err
	}

	deals := decodeList[pbDeal](raw)
	out := make([]model.Deal, 0, len(deals))
	for _, d := range deals {
		out = append(out, model.Deal{
			UUID:    string(d.ID),
			Name:    string(d.DealName),
			Date:    string(d.DealDate),
			Stage:   string(d.DealStage),
			Amount:  float64(d.DealSize),
			IsLead:  d.IsLead,
			Company: string(d.InvestedCompany),
		})
	}
	return out, nil
}
