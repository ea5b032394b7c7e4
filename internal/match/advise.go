package match

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/abduldattijo/investment-data-app/internal/model"
)

const (
	// NoMatchesAdvice is returned by Advise when there is nothing to advise on.
	NoMatchesAdvice = "No investor matches were found. Consider broadening your search criteria."
	// UnavailableAdvice is returned by Advise when the reasoning service fails.
	UnavailableAdvice = "Unable to generate custom advice due to API limitations."

	adviceTemperature = 0.7
	adviceTopN        = 3
)

const attributesPrompt = `Extract the following attributes from this startup description:

Description: %s

Please output a JSON object with these fields:
1. "sector": The primary industry sector (e.g., Fintech, Health Tech, AI/ML)
2. "stage": The startup's current stage (e.g., Pre-seed, Seed, Series A)
3. "funding_needs": How much funding they're seeking
4. "location": Geographic location of the startup
5. "lead_preference": Whether they need a lead investor or follow-on
6. "use_of_funds": What they plan to use the funding for
7. "unique_value": What makes this startup unique

If any information is not present in the description, leave that field empty or null.
Format the response as a valid JSON object.`

const advicePrompt = `As a VC fundraising expert, provide personalized advice for this startup on how to approach their best-matched investors.

Startup: %s

Top matched investors:
%s
Provide 3-5 bullet points of specific, actionable advice on:
1. How to position their pitch to these specific investors
2. What aspects of their business to emphasize based on the investors' focus
3. Any potential concerns to address proactively
4. Next steps for outreach

Keep your advice specific to these investors and this startup. Be concise but insightful.`

// ExtractAttributes pulls structured fields out of a startup description.
// Any failure yields empty attributes.
func (e *Engine) ExtractAttributes(ctx context.Context, startup string) model.StartupAttributes {
	if e.reasoner == nil {
		return model.StartupAttributes{}
	}
	text, err := e.reasoner.Complete(ctx, fmt.Sprintf(attributesPrompt, startup), e.temperature)
	if err != nil {
		zap.L().Warn("match: attribute extraction failed", zap.Error(err))
		return model.StartupAttributes{}
	}
	raw, ok := ExtractJSONObject(text)
	if !ok {
		zap.L().Warn("match: no JSON object in attribute answer")
		return model.StartupAttributes{}
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		zap.L().Warn("match: failed to parse attribute answer", zap.Error(err))
		return model.StartupAttributes{}
	}
	return model.StartupAttributes{
		Sector:         attrString(fields["sector"]),
		Stage:          attrString(fields["stage"]),
		FundingNeeds:   attrString(fields["funding_needs"]),
		Location:       attrString(fields["location"]),
		LeadPreference: attrString(fields["lead_preference"]),
		UseOfFunds:     attrString(fields["use_of_funds"]),
		UniqueValue:    attrString(fields["unique_value"]),
	}
}

// attrString renders a loosely typed answer field. Lists are joined with
// commas; null is empty.
func attrString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := attrString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// Advise writes outreach advice for the top three matches.
func (e *Engine) Advise(ctx context.Context, startup string, matches []model.Match) string {
	if len(matches) == 0 {
		return NoMatchesAdvice
	}
	if e.reasoner == nil {
		return UnavailableAdvice
	}

	var sb strings.Builder
	for i, m := range matches[:min(adviceTopN, len(matches))] {
		fmt.Fprintf(&sb, "%d. %s (%d/100): %s\n", i+1, m.Name, m.Score, m.Reason)
	}

	advice, err := e.reasoner.Complete(ctx, fmt.Sprintf(advicePrompt, startup, sb.String()), adviceTemperature)
	if err != nil || strings.TrimSpace(advice) == "" {
		zap.L().Warn("match: advice generation failed", zap.Error(err))
		return UnavailableAdvice
	}
	return strings.TrimSpace(advice)
}
