package provider

import (
	"context"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/abduldattijo/investment-data-app/internal/model"
)

// FixtureFile is the on-disk schema for offline provider data.
//
//	sources:
//	  - name: crunchbase
//	    firms:
//	      - id: cb-1
//	        name: Acme Ventures
//	        location: San Francisco, CA
//	        portfolio: [{name: PayCo, categories: [Fintech]}]
//	        deals: [{company: PayCo, date: "2023-01-10", stage: Seed, amount: 750000}]
type FixtureFile struct {
	Sources []FixtureSource `yaml:"sources"`
}

// FixtureSource is one provider's worth of firms.
type FixtureSource struct {
	Name  string        `yaml:"name"`
	Firms []FixtureFirm `yaml:"firms"`
}

// FixtureFirm is a firm record with its portfolio and deals inline.
type FixtureFirm struct {
	model.FirmInfo `yaml:",inline"`
	Portfolio      []model.PortfolioCompany `yaml:"portfolio"`
	Deals          []model.Deal             `yaml:"deals"`
}

// FixtureProvider serves lookups from an in-memory firm table. Names match
// case-insensitively; ids match exactly.
type FixtureProvider struct {
	name   string
	byName map[string]FixtureFirm
	byID   map[string]FixtureFirm
}

// NewFixture builds a provider named name over firms.
func NewFixture(name string, firms []FixtureFirm) *FixtureProvider {
	p := &FixtureProvider{
		name:   name,
		byName: make(map[string]FixtureFirm, len(firms)),
		byID:   make(map[string]FixtureFirm, len(firms)),
	}
	for _, f := range firms {
		if key := strings.ToLower(strings.TrimSpace(f.Name)); key != "" {
			p.byName[key] = f
		}
		if f.ID != "" {
			p.byID[f.ID] = f
		}
	}
	return p
}

// LoadFixtures reads a fixture file and returns one provider per source.
func LoadFixtures(path string) ([]*FixtureProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "provider: read fixtures %s", path)
	}

	var file FixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrapf(err, "provider: parse fixtures %s", path)
	}

	out := make([]*FixtureProvider, 0, len(file.Sources))
	for i, src := range file.Sources {
		if src.Name == "" {
			return nil, eris.Errorf("provider: fixture source %d has no name", i)
		}
		out = append(out, NewFixture(src.Name, src.Firms))
	}
	return out, nil
}

// Name implements Provider.
func (p *FixtureProvider) Name() string { return p.name }

// GetInfo implements Provider.
func (p *FixtureProvider) GetInfo(_ context.Context, name string) (model.FirmInfo, error) {
	f, ok := p.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return model.FirmInfo{}, nil
	}
	return f.FirmInfo, nil
}

// GetPortfolio implements Provider.
func (p *FixtureProvider) GetPortfolio(_ context.Context, id string) ([]model.PortfolioCompany, error) {
	f, ok := p.byID[id]
	if !ok || f.Portfolio == nil {
		return []model.PortfolioCompany{}, nil
	}
	return append([]model.PortfolioCompany(nil), f.Portfolio...), nil
}

// GetDeals implements Provider.
func (p *FixtureProvider) GetDeals(_ context.Context, id string) ([]model.Deal, error) {
	f, ok := p.byID[id]
	if !ok || f.Deals == nil {
		return []model.Deal{}, nil
	}
	return append([]model.Deal(nil), f.Deals...), nil
}
