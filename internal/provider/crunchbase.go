package provider

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/abduldattijo/investment-data-app/internal/model"
)

const (
	// Crunchbase is the registry name of the Crunchbase provider.
	Crunchbase = "crunchbase"

	// DefaultCrunchbaseURL is the Crunchbase v4 API base.
	DefaultCrunchbaseURL = "https://api.crunchbase.com/api/v4"

	cbInfoFields      = "name,short_description,website,founded_on,location_identifiers,categories"
	cbPortfolioFields = "name,short_description,website,founded_on,categories"
	cbDealFields      = "name,announced_on,investment_type,money_raised,lead_investor_identifiers,investor_identifiers,organization_identifiers"
	pageLimit         = "50"
)

type cbProperties struct {
	Name                    flexString  `json:"name"`
	ShortDescription        flexString  `json:"short_description"`
	Website                 flexString  `json:"website"`
	FoundedOn               flexString  `json:"founded_on"`
	LocationIdentifiers     identifiers `json:"location_identifiers"`
	Categories              identifiers `json:"categories"`
	AnnouncedOn             flexString  `json:"announced_on"`
	InvestmentType          flexString  `json:"investment_type"`
	MoneyRaised             flexAmount  `json:"money_raised"`
	LeadInvestorIdentifiers identifiers `json:"lead_investor_identifiers"`
	OrganizationIdentifiers identifiers `json:"organization_identifiers"`
}

type cbEntity struct {
	UUID       string        `json:"uuid"`
	Properties *cbProperties `json:"properties"`
}

type cbLookupResponse struct {
	Data *cbEntity `json:"data"`
}

type cbCardsResponse struct {
	Data *struct {
		Cards []cbEntity `json:"cards"`
	} `json:"data"`
}

// CrunchbaseProvider reads organizations, portfolios and funding rounds from
// the Crunchbase v4 API.
type CrunchbaseProvider struct {
	c *jsonClient

	// names maps an organization id to the firm name it was looked up as,
	// so deals can be tested for lead participation by name.
	mu    sync.Mutex
	names map[string]string
}

// NewCrunchbase creates a Crunchbase provider authenticated with apiKey.
func NewCrunchbase(apiKey string, opts ...Option) *CrunchbaseProvider {
	return &CrunchbaseProvider{
		c:     newJSONClient(Crunchbase, DefaultCrunchbaseURL, "X-cb-user-key", apiKey, opts...),
		names: make(map[string]string),
	}
}

// Name implements Provider.
func (p *CrunchbaseProvider) Name() string { return Crunchbase }

// GetInfo looks up an organization by name.
func (p *CrunchbaseProvider) GetInfo(ctx context.Context, name string) (model.FirmInfo, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("field_ids", cbInfoFields)

	var resp cbLookupResponse
	if err := p.c.get(ctx, "/organizations/lookup", params, &resp); err != nil {
		return model.FirmInfo{}, err
	}
	if resp.Data == nil || resp.Data.Properties == nil {
		return model.FirmInfo{}, nil
	}

	props := resp.Data.Properties
	info := model.FirmInfo{
		ID:          resp.Data.UUID,
		Name:        string(props.Name),
		Description: string(props.ShortDescription),
		Website:     string(props.Website),
		Founded:     string(props.FoundedOn),
		Location:    props.LocationIdentifiers.first(),
		Categories:  props.Categories.values(),
	}

	if info.ID != "" {
		firm := info.Name
		if firm == "" {
			firm = name
		}
		p.mu.Lock()
		p.names[info.ID] = firm
		p.mu.Unlock()
	}
	return info, nil
}

// GetPortfolio lists the organization's portfolio companies.
func (p *CrunchbaseProvider) GetPortfolio(ctx context.Context, id string) ([]model.PortfolioCompany, error) {
	params := url.Values{}
	params.Set("field_ids", cbPortfolioFields)
	params.Set("limit", pageLimit)

	var resp cbCardsResponse
	if err := p.c.get(ctx, "/organizations/"+url.PathEscape(id)+"/portfolio", params, &resp); err != nil {
		return nil, err
	}

	out := []model.PortfolioCompany{}
	if resp.Data == nil {
		return out, nil
	}
	for _, card := range resp.Data.Cards {
		if card.Properties == nil {
			continue
		}
		props := card.Properties
		out = append(out, model.PortfolioCompany{
			UUID:        card.UUID,
			Name:        string(props.Name),
			Description: string(props.ShortDescription),
			Website:     string(props.Website),
			Founded:     string(props.FoundedOn),
			Categories:  props.Categories.values(),
		})
	}
	return out, nil
}

// GetDeals lists the funding rounds the organization participated in. A
// round counts as led when a lead investor name contains the firm name.
func (p *CrunchbaseProvider) GetDeals(ctx context.Context, id string) ([]model.Deal, error) {
	params := url.Values{}
	params.Set("field_ids", cbDealFields)
	params.Set("limit", pageLimit)

	var resp cbCardsResponse
	if err := p.c.get(ctx, "/organizations/"+url.PathEscape(id)+"/participated_funding_rounds", params, &resp); err != nil {
		return nil, err
	}

	p.mu.Lock()
	firm := p.names[id]
	p.mu.Unlock()

	out := []model.Deal{}
	if resp.Data == nil {
		return out, nil
	}
	for _, card := range resp.Data.Cards {
		if card.Properties == nil {
			continue
		}
		props := card.Properties
		out = append(out, model.Deal{
			UUID:    card.UUID,
			Name:    string(props.Name),
			Date:    string(props.AnnouncedOn),
			Stage:   string(props.InvestmentType),
			Amount:  float64(props.MoneyRaised),
			IsLead:  ledBy(props.LeadInvestorIdentifiers.values(), firm),
			Company: props.OrganizationIdentifiers.first(),
		})
	}
	return out, nil
}

func ledBy(leads []string, firm string) bool {
	if firm == "" {
		return false
	}
	firm = strings.ToLower(firm)
	for _, lead := range leads {
		if strings.Contains(strings.ToLower(lead), firm) {
			return true
		}
	}
	return false
}
