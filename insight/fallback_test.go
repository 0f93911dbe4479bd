package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalAdviceDeterministic(t *testing.T) {
	stats := Aggregate([]Action{
		{Name: "flew to Rome", ImpactScore: 160},
		{Name: "recycled glass", ImpactScore: -3},
		{Name: "vegan dinner", ImpactScore: 2},
	})

	first := LocalAdvice(stats)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, LocalAdvice(stats))
	}
}

func TestLocalAdviceHeadlineAndSummary(t *testing.T) {
	stats := AggregateStats{
		TotalImpact: 123.456,
		MeanImpact:  41.152,
		Count:       3,
		ByCategory:  map[Category]float64{CategoryTransportation: 123.456},
	}

	rec := LocalAdvice(stats)

	require.NotEmpty(t, rec.Insights)
	// Displayed values are rounded to one decimal, the stats keep full precision.
	assert.Equal(t, "You logged 3 new action(s) with a combined impact of 123.5 kg CO2e.", rec.Insights[0])
	assert.Equal(t, "Since your last check-in you logged 3 action(s) totalling 123.5 kg CO2e (average 41.2 per action).", rec.Summary)
}

func TestLocalAdviceBucketLines(t *testing.T) {
	stats := Aggregate([]Action{
		{Name: "long flight", ImpactScore: 300},
		{Name: "short walk", ImpactScore: 0.5},
	})

	rec := LocalAdvice(stats)

	assert.Contains(t, rec.Insights, "1 action(s) exceeded 50 kg CO2e each and dominate your footprint.")
	assert.Contains(t, rec.Insights, "1 action(s) stayed under 25 kg CO2e; these habits keep your average down.")
}

func TestLocalAdviceNegativeTotal(t *testing.T) {
	stats := Aggregate([]Action{
		{Name: "planted trees", ImpactScore: -20},
		{Name: "composted", ImpactScore: -5},
	})

	rec := LocalAdvice(stats)
	assert.Contains(t, rec.Insights, "Your avoided emissions outweigh what you added this period.")
}

func TestLocalAdviceRecommendationsFollowPriorityOrder(t *testing.T) {
	stats := Aggregate([]Action{
		{Name: "composted scraps", ImpactScore: -2},
		{Name: "drove to town", ImpactScore: 15},
		{Name: "vegan lunch", ImpactScore: 1},
	})

	rec := LocalAdvice(stats)

	require.Len(t, rec.Recommendations, 3)
	assert.Equal(t, categoryRecommendations[CategoryTransportation], rec.Recommendations[0])
	assert.Equal(t, categoryRecommendations[CategoryFood], rec.Recommendations[1])
	assert.Equal(t, categoryRecommendations[CategoryWaste], rec.Recommendations[2])
}

func TestLocalAdviceGeneralOnly(t *testing.T) {
	stats := Aggregate([]Action{
		{Name: "miscellaneous thing", ImpactScore: 5},
	})

	rec := LocalAdvice(stats)
	require.Len(t, rec.Recommendations, 1)
	assert.Equal(t, categoryRecommendations[CategoryGeneral], rec.Recommendations[0])
}

func TestLocalAdviceClampsLineCounts(t *testing.T) {
	stats := Aggregate([]Action{
		{Name: "long flight", ImpactScore: 300},
		{Name: "short walk", ImpactScore: 0.5},
		{Name: "planted trees", ImpactScore: -400},
		{Name: "recycled", ImpactScore: -1},
		{Name: "vegan dinner", ImpactScore: 2},
		{Name: "solar install", ImpactScore: -30},
	})

	rec := LocalAdvice(stats)
	assert.LessOrEqual(t, len(rec.Insights), 5)
	assert.LessOrEqual(t, len(rec.Recommendations), 5)
}
