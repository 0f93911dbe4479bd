package insight

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errMalformedResponse = errors.New("malformed generative response")

// buildPrompt renders the per-action breakdown plus aggregate statistics into
// the instruction sent to the generative service. Displayed values are rounded
// to one decimal here, at presentation time only; the aggregates themselves
// were computed at full precision.
func buildPrompt(actions []Action, stats AggregateStats) string {
	var b strings.Builder
	b.WriteString("You are a sustainability coach for a consumer carbon-footprint tracker.\n")
	b.WriteString("The user logged the following new actions (impact in kg CO2e, negative = avoided emissions):\n")
	for _, a := range actions {
		fmt.Fprintf(&b, "- %s: %.1f kg CO2e [%s]\n", a.Name, a.ImpactScore, a.Category())
	}
	fmt.Fprintf(&b, "\nTotals: %d actions, %.1f kg CO2e combined, %.1f average.\n",
		stats.Count, stats.TotalImpact, stats.MeanImpact)
	fmt.Fprintf(&b, "High-impact actions (> %.0f kg): %d. Low-impact actions (< %.0f kg): %d.\n",
		HighImpactThreshold, len(stats.HighImpact), LowImpactThreshold, len(stats.LowImpact))
	if len(stats.ByCategory) > 0 {
		b.WriteString("Impact by category:")
		ordered := append(append([]Category{}, categoryOrder...), CategoryGeneral)
		for _, cat := range ordered {
			if v, ok := stats.ByCategory[cat]; ok {
				fmt.Fprintf(&b, " %s=%.1f", cat, v)
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\nReply ONLY with valid JSON of the form ")
	b.WriteString(`{"insights":["..."],"recommendations":["..."],"summary":"..."}`)
	b.WriteString(" with at most 5 insights and 5 recommendations, all concise and actionable.")
	return b.String()
}

// StripCodeFences removes a wrapping Markdown code fence (``` or ```json)
// from a generative response so the body can be parsed as JSON.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line (e.g. "json").
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseAdviceResponse decodes the service reply into a record, tolerating
// code-fence wrapping. Any parse problem (including an all-empty record) is a
// MalformedRemoteResponse and sends the engine down the local path.
func parseAdviceResponse(body string) (AdviceRecord, error) {
	cleaned := StripCodeFences(body)
	var rec AdviceRecord
	if err := json.Unmarshal([]byte(cleaned), &rec); err != nil {
		return AdviceRecord{}, fmt.Errorf("%w: %v", errMalformedResponse, err)
	}
	if len(rec.Insights) == 0 && len(rec.Recommendations) == 0 && rec.Summary == "" {
		return AdviceRecord{}, errMalformedResponse
	}
	rec.clamp()
	return rec, nil
}
