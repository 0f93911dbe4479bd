package insight

import "fmt"

// Fixed recommendation templates keyed by category. The local generator must
// stay deterministic, so no wall-clock or random input is allowed here.
var categoryRecommendations = map[Category]string{
	CategoryTransportation: "Swap short car trips for walking, cycling or transit where you can.",
	CategoryEnergy:         "Cut standby power and lower heating or cooling by a degree or two.",
	CategoryFood:           "Try a couple of plant-based meals a week and buy local produce.",
	CategoryWaste:          "Keep separating recyclables and compost food scraps where possible.",
	CategoryEnvironment:    "Keep up the restoration work; consider joining a local planting drive.",
	CategoryGeneral:        "Log actions with more specific names to unlock tailored tips.",
}

// LocalAdvice deterministically synthesizes an AdviceRecord from aggregate
// statistics. This is the fallback path when the generative service has no
// credentials, fails, or returns an unparseable body; it never fails for a
// well-formed input.
func LocalAdvice(stats AggregateStats) AdviceRecord {
	var rec AdviceRecord

	rec.Insights = append(rec.Insights, fmt.Sprintf(
		"You logged %d new action(s) with a combined impact of %.1f kg CO2e.",
		stats.Count, stats.TotalImpact))

	if n := len(stats.HighImpact); n > 0 {
		rec.Insights = append(rec.Insights, fmt.Sprintf(
			"%d action(s) exceeded %.0f kg CO2e each and dominate your footprint.",
			n, HighImpactThreshold))
	}
	if n := len(stats.LowImpact); n > 0 {
		rec.Insights = append(rec.Insights, fmt.Sprintf(
			"%d action(s) stayed under %.0f kg CO2e; these habits keep your average down.",
			n, LowImpactThreshold))
	}
	if stats.TotalImpact < 0 {
		rec.Insights = append(rec.Insights,
			"Your avoided emissions outweigh what you added this period.")
	}
	if cat, ok := dominantCategory(stats.ByCategory); ok && cat != CategoryGeneral {
		rec.Insights = append(rec.Insights, fmt.Sprintf(
			"%s contributed the largest share of your recorded impact.", cat))
	}

	// One recommendation per category present, in priority order, then General.
	ordered := append(append([]Category{}, categoryOrder...), CategoryGeneral)
	for _, cat := range ordered {
		if _, ok := stats.ByCategory[cat]; ok {
			rec.Recommendations = append(rec.Recommendations, categoryRecommendations[cat])
		}
	}
	if len(rec.Recommendations) == 0 {
		rec.Recommendations = append(rec.Recommendations, categoryRecommendations[CategoryGeneral])
	}

	rec.Summary = fmt.Sprintf(
		"Since your last check-in you logged %d action(s) totalling %.1f kg CO2e (average %.1f per action).",
		stats.Count, stats.TotalImpact, stats.MeanImpact)

	rec.clamp()
	return rec
}
