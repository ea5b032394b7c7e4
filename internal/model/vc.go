package model

// Unknown is the placeholder for derived string fields with no signal.
const Unknown = "Unknown"

// DefaultGeo is the geography bucket used when no region keyword matches.
const DefaultGeo = "USA"

// LeadFollow describes whether a firm usually leads or follows rounds.
type LeadFollow string

const (
	LeadFollowLead    LeadFollow = "Lead"
	LeadFollowFollow  LeadFollow = "Follow"
	LeadFollowBoth    LeadFollow = "Both"
	LeadFollowUnknown LeadFollow = "Unknown"
)

// Status is the activity state of a firm.
type Status string

const (
	StatusActive   Status = "Active"
	StatusUnknown  Status = "Unknown"
	StatusDisabled Status = "Disabled"
)

// FirmInput is one row of the firm list handed to the enrichment run.
type FirmInput struct {
	Name    string `json:"name"`
	Website string `json:"website,omitempty"`
}

// CheckRange is an inclusive check-size interval in thousands of dollars.
type CheckRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PortfolioCompany is a company a firm has invested in. Identity is the
// case-insensitive Name.
type PortfolioCompany struct {
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description,omitempty" yaml:"description"`
	Website      string   `json:"website,omitempty" yaml:"website"`
	Founded      string   `json:"founded,omitempty" yaml:"founded"`
	Categories   []string `json:"categories,omitempty" yaml:"categories"`
	UUID         string   `json:"uuid,omitempty" yaml:"uuid"`
	LastFunding  string   `json:"last_funding,omitempty" yaml:"last_funding"`
	TotalFunding float64  `json:"total_funding,omitempty" yaml:"total_funding"`
}

// Deal is one funding round a firm participated in. Amount is in dollars.
type Deal struct {
	Company string  `json:"company" yaml:"company"`
	Date    string  `json:"date" yaml:"date"`
	Stage   string  `json:"stage" yaml:"stage"`
	Amount  float64 `json:"amount" yaml:"amount"`
	IsLead  bool    `json:"is_lead" yaml:"is_lead"`
	Name    string  `json:"name,omitempty" yaml:"name"`
	UUID    string  `json:"uuid,omitempty" yaml:"uuid"`
}

// TeamMember is a person listed on a firm's website.
type TeamMember struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
	Bio   string `json:"bio,omitempty"`
}

// FirmInfo is the provider-neutral result of a firm lookup by name.
type FirmInfo struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Description      string   `json:"description" yaml:"description"`
	Website          string   `json:"website" yaml:"website"`
	Founded          string   `json:"founded" yaml:"founded"`
	Location         string   `json:"location" yaml:"location"`
	Categories       []string `json:"categories" yaml:"categories"`
	InvestmentStages []string `json:"investment_stages,omitempty" yaml:"investment_stages"`
	AUM              float64  `json:"aum,omitempty" yaml:"aum"`
	Status           string   `json:"status,omitempty" yaml:"status"`
}

// PartialProfile is what the HTML extractor recovers from a single page.
type PartialProfile struct {
	About     string
	Thesis    string
	Portfolio []PortfolioCompany
	Team      []TeamMember
}

// VCProfile is the canonical, enriched investor record.
type VCProfile struct {
	Name             string             `json:"name"`
	Website          string             `json:"website"`
	About            string             `json:"about"`
	InvestmentThesis string             `json:"investment_thesis"`
	SectorFocus      []string           `json:"sector_focus"`
	PreferredStage   []string           `json:"preferred_stage"`
	CheckRange       *CheckRange        `json:"check_range"`
	CheckSweetSpot   *float64           `json:"check_sweet_spot"`
	CheckRangeLabel  string             `json:"check_range_label"`
	SweetSpotLabel   string             `json:"sweet_spot_label"`
	GeoFocus         string             `json:"geo_focus"`
	LeadFollow       LeadFollow         `json:"lead_follow"`
	Status           Status             `json:"status"`
	Portfolio        []PortfolioCompany `json:"portfolio"`
	Deals            []Deal             `json:"deals"`
	Team             []TeamMember       `json:"team"`
}

// NewVCProfile returns a profile carrying the input identity and every
// derived field at its unknown/empty default.
func NewVCProfile(in FirmInput) VCProfile {
	return VCProfile{
		Name:            in.Name,
		Website:         in.Website,
		SectorFocus:     []string{},
		PreferredStage:  []string{},
		CheckRangeLabel: Unknown,
		SweetSpotLabel:  Unknown,
		GeoFocus:        DefaultGeo,
		LeadFollow:      LeadFollowUnknown,
		Status:          StatusUnknown,
		Portfolio:       []PortfolioCompany{},
		Deals:           []Deal{},
		Team:            []TeamMember{},
	}
}

// Normalize replaces nil lists and empty derived strings with their defaults.
// Profiles decoded from JSON or built by hand pass through here before use.
func (p *VCProfile) Normalize() {
	if p.SectorFocus == nil {
		p.SectorFocus = []string{}
	}
	if p.PreferredStage == nil {
		p.PreferredStage = []string{}
	}
	if p.Portfolio == nil {
		p.Portfolio = []PortfolioCompany{}
	}
	if p.Deals == nil {
		p.Deals = []Deal{}
	}
	if p.Team == nil {
		p.Team = []TeamMember{}
	}
	if p.CheckRangeLabel == "" {
		p.CheckRangeLabel = Unknown
	}
	if p.SweetSpotLabel == "" {
		p.SweetSpotLabel = Unknown
	}
	if p.GeoFocus == "" {
		p.GeoFocus = DefaultGeo
	}
	if p.LeadFollow == "" {
		p.LeadFollow = LeadFollowUnknown
	}
	if p.Status == "" {
		p.Status = StatusUnknown
	}
}

// Input returns the identity fields the profile was built from.
func (p VCProfile) Input() FirmInput {
	return FirmInput{Name: p.Name, Website: p.Website}
}
