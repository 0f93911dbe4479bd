package insight

// Aggregate reduces a non-empty set of new actions into summary statistics.
// Precondition: len(actions) > 0; the engine filters the empty cases before
// calling. Sum and mean use full-precision arithmetic; impact buckets use the
// fixed policy thresholds and are mutually exclusive by construction.
func Aggregate(actions []Action) AggregateStats {
	stats := AggregateStats{
		ByCategory: make(map[Category]float64),
		Count:      len(actions),
	}
	for _, a := range actions {
		stats.TotalImpact += a.ImpactScore
		if a.ImpactScore > HighImpactThreshold {
			stats.HighImpact = append(stats.HighImpact, a)
		}
		if a.ImpactScore < LowImpactThreshold {
			stats.LowImpact = append(stats.LowImpact, a)
		}
		stats.ByCategory[a.Category()] += a.ImpactScore
	}
	stats.MeanImpact = stats.TotalImpact / float64(len(actions))
	return stats
}

// dominantCategory returns the category with the largest absolute impact,
// breaking ties by the fixed priority order so the result is deterministic.
func dominantCategory(byCategory map[Category]float64) (Category, bool) {
	if len(byCategory) == 0 {
		return "", false
	}
	ordered := append(append([]Category{}, categoryOrder...), CategoryGeneral)
	best := Category("")
	bestAbs := -1.0
	for _, cat := range ordered {
		v, ok := byCategory[cat]
		if !ok {
			continue
		}
		abs := v
		if abs < 0 {
			abs = -abs
		}
		if abs > bestAbs {
			best, bestAbs = cat, abs
		}
	}
	return best, best != ""
}
