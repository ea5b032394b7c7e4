package model

// Criteria are optional hard filters applied before ranking. Empty fields
// are ignored.
type Criteria struct {
	Sector     string     `json:"sector,omitempty"`
	Stage      string     `json:"stage,omitempty"`
	Geography  string     `json:"geography,omitempty"`
	LeadFollow LeadFollow `json:"lead_follow,omitempty"`
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c.Sector == "" && c.Stage == "" && c.Geography == "" && c.LeadFollow == ""
}

// Match is a ranked profile with the explanation attached by the matcher.
type Match struct {
	VCProfile
	Score   int    `json:"match_score"`
	Reason  string `json:"match_reason"`
	Caution string `json:"caution,omitempty"`
}

// StartupAttributes are structured fields pulled from a free-text startup
// description.
type StartupAttributes struct {
	Sector         string `json:"sector,omitempty"`
	Stage          string `json:"stage,omitempty"`
	FundingNeeds   string `json:"funding_needs,omitempty"`
	Location       string `json:"location,omitempty"`
	LeadPreference string `json:"lead_preference,omitempty"`
	UseOfFunds     string `json:"use_of_funds,omitempty"`
	UniqueValue    string `json:"unique_value,omitempty"`
}
