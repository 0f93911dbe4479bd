package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateBucketsAndTotals(t *testing.T) {
	actions := []Action{
		{Name: "flew to Berlin", ImpactScore: 180.0},
		{Name: "drove to the office", ImpactScore: 30.0},
		{Name: "recycled a week of plastic", ImpactScore: -2.5},
		{Name: "ate a vegan meal", ImpactScore: 1.5},
	}

	stats := Aggregate(actions)

	assert.Equal(t, 4, stats.Count)
	assert.InDelta(t, 209.0, stats.TotalImpact, 1e-9)
	assert.InDelta(t, 52.25, stats.MeanImpact, 1e-9)

	require.Len(t, stats.HighImpact, 1)
	assert.Equal(t, "flew to Berlin", stats.HighImpact[0].Name)

	require.Len(t, stats.LowImpact, 2)
	assert.Equal(t, "recycled a week of plastic", stats.LowImpact[0].Name)
	assert.Equal(t, "ate a vegan meal", stats.LowImpact[1].Name)

	assert.InDelta(t, 210.0, stats.ByCategory[CategoryTransportation], 1e-9)
	assert.InDelta(t, -2.5, stats.ByCategory[CategoryWaste], 1e-9)
	assert.InDelta(t, 1.5, stats.ByCategory[CategoryFood], 1e-9)
}

func TestAggregateThresholdsAreExclusive(t *testing.T) {
	// Values exactly on a threshold belong to neither bucket.
	actions := []Action{
		{Name: "exactly high", ImpactScore: HighImpactThreshold},
		{Name: "exactly low", ImpactScore: LowImpactThreshold},
		{Name: "between", ImpactScore: 30.0},
	}

	stats := Aggregate(actions)

	assert.Empty(t, stats.HighImpact)
	require.Len(t, stats.LowImpact, 0)
}

func TestAggregateBucketsAreDisjoint(t *testing.T) {
	actions := []Action{
		{Name: "a", ImpactScore: 100},
		{Name: "b", ImpactScore: 10},
		{Name: "c", ImpactScore: 40},
	}
	stats := Aggregate(actions)

	seen := map[string]bool{}
	for _, a := range stats.HighImpact {
		seen[a.Name] = true
	}
	for _, a := range stats.LowImpact {
		assert.False(t, seen[a.Name], "action %q in both buckets", a.Name)
	}
}

func TestAggregateOrderIndependentTotals(t *testing.T) {
	a := []Action{
		{Name: "x", ImpactScore: 3.3},
		{Name: "y", ImpactScore: -7.1},
		{Name: "z", ImpactScore: 55.9},
	}
	b := []Action{a[2], a[0], a[1]}

	sa := Aggregate(a)
	sb := Aggregate(b)

	assert.InDelta(t, sa.TotalImpact, sb.TotalImpact, 1e-9)
	assert.InDelta(t, sa.MeanImpact, sb.MeanImpact, 1e-9)
	assert.Equal(t, len(sa.HighImpact), len(sb.HighImpact))
	assert.Equal(t, len(sa.LowImpact), len(sb.LowImpact))
	assert.Equal(t, sa.ByCategory, sb.ByCategory)
}

func TestInferCategory(t *testing.T) {
	cases := []struct {
		name string
		want Category
	}{
		{"Drove to work", CategoryTransportation},
		{"took the BUS downtown", CategoryTransportation},
		{"biked to the store", CategoryTransportation},
		{"turned off the lights", CategoryEnergy},
		{"installed solar panels", CategoryEnergy},
		{"skipped meat today", CategoryFood},
		{"weekly grocery run", CategoryFood},
		{"recycled cardboard", CategoryWaste},
		{"composted scraps", CategoryWaste},
		{"planted a tree", CategoryEnvironment},
		{"beach cleanup", CategoryEnvironment},
		{"did something", CategoryGeneral},
		{"", CategoryGeneral},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, InferCategory(tc.name))
		})
	}
}

func TestInferCategoryWholeWordKeywords(t *testing.T) {
	// Short keywords must not fire inside longer words.
	cases := []struct {
		name string
		want Category
	}{
		{"beach cleanup", CategoryEnvironment},       // "ac" must not match inside "beach"
		{"recycled cardboard", CategoryWaste},        // "car" must not match inside "cardboard"
		{"took action on my bills", CategoryGeneral}, // "ac" must not match inside "action"
		{"carbon offset purchase", CategoryEnvironment},
		{"strength training session", CategoryGeneral}, // "train" must not match inside "training"
		{"turned on the AC", CategoryEnergy},
		{"washed the car", CategoryTransportation},
		{"took the bus", CategoryTransportation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, InferCategory(tc.name))
		})
	}
}

func TestInferCategoryMatchesWordPrefixes(t *testing.T) {
	// Stem keywords still match inflected forms at word starts.
	assert.Equal(t, CategoryWaste, InferCategory("recycling day"))
	assert.Equal(t, CategoryTransportation, InferCategory("driving lessons"))
	assert.Equal(t, CategoryFood, InferCategory("grocery shopping"))
	assert.Equal(t, CategoryEnvironment, InferCategory("neighborhood clean-up"))
}

func TestInferCategoryPriorityOrder(t *testing.T) {
	// "drove to buy food" matches Transportation and Food; Transportation is
	// checked first and wins.
	assert.Equal(t, CategoryTransportation, InferCategory("drove to buy food"))
	// "electric meat grinder" matches Energy before Food.
	assert.Equal(t, CategoryEnergy, InferCategory("electric meat grinder"))
}

func TestInferCategoryDeterministic(t *testing.T) {
	name := "recycled plastic bottles"
	first := InferCategory(name)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, InferCategory(name))
	}
}

func TestDominantCategory(t *testing.T) {
	cat, ok := dominantCategory(map[Category]float64{
		CategoryTransportation: 10,
		CategoryWaste:          -40,
	})
	require.True(t, ok)
	// Absolute impact decides dominance.
	assert.Equal(t, CategoryWaste, cat)

	_, ok = dominantCategory(nil)
	assert.False(t, ok)
}

func TestDominantCategoryTieBreak(t *testing.T) {
	cat, ok := dominantCategory(map[Category]float64{
		CategoryFood:   20,
		CategoryEnergy: -20,
	})
	require.True(t, ok)
	// Equal absolute impact: the fixed priority order places Energy first.
	assert.Equal(t, CategoryEnergy, cat)
}
