package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fp(v float64) *float64 { return &v }

func TestShoppingFootprintEPDWins(t *testing.T) {
	var p ShoppingPayload
	p.EPD.Enabled = true
	p.Product.EPDHitKgCO2e = fp(42.0)
	p.Product.Materials = []Material{{Name: "steel", MassKg: 100}}
	p.Scope = "cradle_to_gate"

	// The declared EPD value beats the bill of materials.
	assert.InDelta(t, 42.0, ShoppingFootprint(p), 1e-9)
}

func TestShoppingFootprintEPDDisabled(t *testing.T) {
	var p ShoppingPayload
	p.EPD.Enabled = false
	p.Product.EPDHitKgCO2e = fp(42.0)
	p.Product.Materials = []Material{{Name: "steel", MassKg: 10}}
	p.Scope = "cradle_to_gate"

	// With EPD disabled the bill of materials applies: 10 kg * 2.0.
	assert.InDelta(t, 20.0, ShoppingFootprint(p), 1e-9)
}

func TestShoppingFootprintMaterialsRung(t *testing.T) {
	var p ShoppingPayload
	p.Product.Materials = []Material{
		{Name: "aluminum", MassKg: 1},       // 9.0
		{Name: "pet", MassKg: 0.5},          // 1.35
		{Name: "unobtainium", MassKg: 2},    // fallback 2.0 -> 4.0
	}
	p.Scope = "cradle_to_gate"

	assert.InDelta(t, 14.35, ShoppingFootprint(p), 1e-9)
}

func TestShoppingFootprintCategoryMassRung(t *testing.T) {
	var p ShoppingPayload
	p.Product.Category = "Consumer Electronics"
	p.Product.WeightKg = 2.0
	p.Scope = "cradle_to_gate"

	// No materials: 2 kg * 10.0 (electronics mass factor).
	assert.InDelta(t, 20.0, ShoppingFootprint(p), 1e-9)
}

func TestShoppingFootprintSpendRung(t *testing.T) {
	var p ShoppingPayload
	p.Product.PriceValue = fp(100.0)
	p.Scope = "cradle_to_gate"

	// No materials, no weight, no matching category: 100 * default 0.45.
	assert.InDelta(t, 45.0, ShoppingFootprint(p), 1e-9)
}

func TestShoppingFootprintPackagingAlwaysAdds(t *testing.T) {
	var p ShoppingPayload
	p.EPD.Enabled = true
	p.Product.EPDHitKgCO2e = fp(10.0)
	p.Product.Packaging = []Packaging{{Material: "cardboard", MassKg: 0.5}} // 0.4
	p.Scope = "cradle_to_gate"

	assert.InDelta(t, 10.4, ShoppingFootprint(p), 1e-9)
}

func TestShoppingFootprintScopeCuts(t *testing.T) {
	var p ShoppingPayload
	p.EPD.Enabled = true
	p.Product.EPDHitKgCO2e = fp(10.0)
	p.Product.WeightKg = 1.0
	p.Logistics.ShippedMassKg = 1.0
	p.Logistics.Segments = []Segment{{Mode: "truck", DistanceKm: 1000}} // 0.001t*1000km*0.12 = 0.12
	p.Use = &UseBlock{Years: 1, KWhPerYear: fp(100)}                    // 100 * 0.40 = 40
	p.EOL = []EOLSplit{{Pathway: "landfill", Fraction: 1.0}}           // 1 * 0.02

	p.Scope = "cradle_to_gate"
	assert.InDelta(t, 10.0, ShoppingFootprint(p), 1e-9)

	p.Scope = "cradle_to_customer"
	assert.InDelta(t, 10.12, ShoppingFootprint(p), 1e-9)

	p.Scope = "cradle_to_grave"
	assert.InDelta(t, 50.14, ShoppingFootprint(p), 1e-9)

	// Unknown scope defaults to the full lifecycle.
	p.Scope = ""
	assert.InDelta(t, 50.14, ShoppingFootprint(p), 1e-9)
}

func TestLogisticsReturnProbability(t *testing.T) {
	segs := []Segment{{Mode: "air", DistanceKm: 1000}}

	base := logisticsFootprint(1000, segs, 0)      // 1t * 1000km * 0.90
	doubled := logisticsFootprint(1000, segs, 1.0) // 100% returns double the legs
	clamped := logisticsFootprint(1000, segs, 5.0) // probability is clamped to 1

	assert.InDelta(t, 900.0, base, 1e-9)
	assert.InDelta(t, 1800.0, doubled, 1e-9)
	assert.InDelta(t, doubled, clamped, 1e-9)

	assert.Zero(t, logisticsFootprint(0, segs, 0))
	assert.Zero(t, logisticsFootprint(1000, nil, 0))
}

func TestUsePhaseFootprint(t *testing.T) {
	// Explicit kWh/year takes precedence over the power estimate.
	explicit := usePhaseFootprint(&UseBlock{Years: 2, KWhPerYear: fp(50), PowerW: 9999, GridEFKgPerKWh: 0.5})
	assert.InDelta(t, 50.0, explicit, 1e-9) // 50*2*0.5

	// Power/hours estimate: 100W * 10h * 365 * 1y = 365 kWh at the default grid factor.
	estimated := usePhaseFootprint(&UseBlock{Years: 1, PowerW: 100, HoursPerDay: 10})
	assert.InDelta(t, 365.0*defaultGridEF, estimated, 1e-9)

	assert.Zero(t, usePhaseFootprint(nil))
	assert.Zero(t, usePhaseFootprint(&UseBlock{Years: 0, PowerW: 100}))
}

func TestEOLFootprintRecyclingCredit(t *testing.T) {
	splits := []EOLSplit{
		{Pathway: "recycling", Fraction: 0.5},    // 10 * 0.5 * -0.30 = -1.5
		{Pathway: "landfill", Fraction: 0.5},     // 10 * 0.5 * 0.02 = 0.1
	}
	assert.InDelta(t, -1.4, eolFootprint(splits, 10), 1e-9)

	assert.Zero(t, eolFootprint(splits, 0))
	assert.Zero(t, eolFootprint(nil, 10))
}

func TestLookupCategoryKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Consumer Electronics", "electronics"},
		{"apparel and shoes", "apparel"},
		{"Home Furniture", "furniture"},
		{"grocery delivery", "grocery"},
		{"something else", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, lookupCategoryKey(tc.in), "category %q", tc.in)
	}
}

func TestShoppingFootprintMicroKgResolution(t *testing.T) {
	var p ShoppingPayload
	p.Product.Materials = []Material{{Name: "pet", MassKg: 1e-7}} // 2.7e-7 kg, below resolution
	p.Scope = "cradle_to_gate"

	assert.Zero(t, ShoppingFootprint(p))

	// A third of a kg of PET: 0.9 exactly after rounding.
	p.Product.Materials = []Material{{Name: "pet", MassKg: 1.0 / 3.0}}
	assert.Equal(t, 0.9, ShoppingFootprint(p))
}

func TestSumMaterialsCorrugateAlias(t *testing.T) {
	got := sumMaterials([]Material{{Name: "corrugated_cardboard", MassKg: 2}})
	assert.InDelta(t, 1.6, got, 1e-9) // corrugate factor 0.8
}
