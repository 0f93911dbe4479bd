// Package estimate implements the product-page carbon estimators the browser
// extension calls through the backend: a lifecycle model for shopped goods and
// a per-itinerary flight emissions model. All results are kg CO2e.
package estimate

import (
	"math"
	"strings"
)

// Emission factors, kg CO2e per kg of material.
var materialEF = map[string]float64{
	"stainless_steel": 6.15, "steel": 2.0, "aluminum": 9.0, "copper": 4.0,
	"glass": 1.3, "pp_plastic": 1.9, "pe": 2.0, "pet": 2.7, "abs": 2.4,
	"cotton": 5.0, "paper": 1.1, "cardboard": 0.8, "corrugate": 0.8,
	"molded_pulp": 1.0, "lithium_ion_battery": 12.0, "electronics_pcba": 15.0,
}

// Logistics emission factors, kg CO2e per tonne-km by transport mode.
var logisticsEF = map[string]float64{
	"air":   0.90,
	"ocean": 0.015,
	"truck": 0.12,
	"rail":  0.03,
	"van":   0.18,
	"bike":  0.0,
}

const defaultGridEF = 0.40

// Category factors for the coarser estimation rungs: per kg of product mass,
// and per currency unit of spend.
var categoryMassEF = map[string]float64{
	"electronics": 10.0,
	"apparel":     8.0,
	"furniture":   3.0,
	"toy":         4.0,
}

var categorySpendEF = map[string]float64{
	"electronics": 0.50,
	"apparel":     0.40,
	"furniture":   0.20,
	"grocery":     0.60,
}

const defaultSpendEF = 0.45

// End-of-life factors, kg CO2e per kg by disposal pathway. Recycling credits
// are negative.
var eolEF = map[string]float64{
	"landfill":     0.02,
	"incineration": 0.70,
	"recycling":    -0.30,
}

// Material is one product component with its mass.
type Material struct {
	Name   string  `json:"name"`
	MassKg float64 `json:"mass_kg"`
}

// Packaging is one packaging element with its mass.
type Packaging struct {
	Material string  `json:"material"`
	MassKg   float64 `json:"mass_kg"`
}

// Segment is one shipping leg.
type Segment struct {
	Mode       string  `json:"mode"`
	DistanceKm float64 `json:"distance_km"`
}

// UseBlock describes the product's use phase. KWhPerYear takes precedence
// over the power/hours estimate when provided.
type UseBlock struct {
	Years          float64  `json:"years"`
	GridEFKgPerKWh float64  `json:"grid_ef_kg_per_kwh"`
	KWhPerYear     *float64 `json:"kwh_per_year"`
	PowerW         float64  `json:"power_w"`
	HoursPerDay    float64  `json:"hours_per_day"`
}

// EOLSplit assigns a fraction of the product mass to a disposal pathway.
type EOLSplit struct {
	Pathway  string  `json:"pathway"`
	Fraction float64 `json:"fraction"`
}

// ShoppingPayload mirrors the estimator's tool-call schema.
type ShoppingPayload struct {
	Product struct {
		Category     string      `json:"category"`
		WeightKg     float64     `json:"weight_kg"`
		PriceValue   *float64    `json:"price_value"`
		EPDHitKgCO2e *float64    `json:"epd_hit_kgco2e"`
		Materials    []Material  `json:"materials"`
		Packaging    []Packaging `json:"packaging"`
	} `json:"product"`
	Scope     string `json:"scope"`
	EPD       struct {
		Enabled bool `json:"enabled"`
	} `json:"epd"`
	Logistics struct {
		ShippedMassKg     float64   `json:"shipped_mass_kg"`
		ReturnProbability float64   `json:"return_probability"`
		Segments          []Segment `json:"segments"`
	} `json:"logistics"`
	Use *UseBlock  `json:"use"`
	EOL []EOLSplit `json:"eol"`
}

// ShoppingFootprint estimates a purchased product's footprint by walking an
// estimation ladder for the production phase (declared EPD value, then
// bill-of-materials, then category mass factor, then category spend factor)
// and adding packaging, logistics, use phase and end-of-life according to the
// requested scope (cradle_to_gate, cradle_to_customer, cradle_to_grave).
func ShoppingFootprint(p ShoppingPayload) float64 {
	categoryKey := lookupCategoryKey(p.Product.Category)

	// Rung A: declared EPD value, when enabled and present.
	var production *float64
	if p.EPD.Enabled && p.Product.EPDHitKgCO2e != nil {
		v := *p.Product.EPDHitKgCO2e
		production = &v
	}

	// Rung B: bill of materials.
	var materialsTotal *float64
	if len(p.Product.Materials) > 0 {
		v := sumMaterials(p.Product.Materials)
		materialsTotal = &v
	}

	// Rung C: category mass factor, only when no bill of materials exists.
	var categoryMass *float64
	if materialsTotal == nil && p.Product.WeightKg > 0 && categoryKey != "" {
		ef, ok := categoryMassEF[categoryKey]
		if !ok {
			ef = 5.0
		}
		v := p.Product.WeightKg * ef
		categoryMass = &v
	}

	// Rung D: spend-based factor, the coarsest estimate.
	var spendBased *float64
	if materialsTotal == nil && categoryMass == nil && p.Product.PriceValue != nil {
		ef, ok := categorySpendEF[categoryKey]
		if !ok {
			ef = defaultSpendEF
		}
		v := *p.Product.PriceValue * ef
		spendBased = &v
	}

	productionCore := 0.0
	switch {
	case production != nil:
		productionCore = *production
	case materialsTotal != nil:
		productionCore = *materialsTotal
	case categoryMass != nil:
		productionCore = *categoryMass
	case spendBased != nil:
		productionCore = *spendBased
	}

	productionTotal := productionCore + sumPackaging(p.Product.Packaging)
	logisticsTotal := logisticsFootprint(p.Logistics.ShippedMassKg, p.Logistics.Segments, p.Logistics.ReturnProbability)
	useTotal := usePhaseFootprint(p.Use)
	eolTotal := eolFootprint(p.EOL, p.Product.WeightKg)

	switch strings.ToLower(p.Scope) {
	case "cradle_to_gate":
		return roundMicro(productionTotal)
	case "cradle_to_customer":
		return roundMicro(productionTotal + logisticsTotal)
	default:
		return roundMicro(productionTotal + logisticsTotal + useTotal + eolTotal)
	}
}

// roundMicro trims the result to 6 decimal places (micro-kg resolution).
func roundMicro(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func lookupCategoryKey(category string) string {
	if category == "" {
		return ""
	}
	c := strings.ToLower(category)
	keys := make(map[string]struct{}, len(categoryMassEF)+len(categorySpendEF))
	for k := range categoryMassEF {
		keys[k] = struct{}{}
	}
	for k := range categorySpendEF {
		keys[k] = struct{}{}
	}
	// Deterministic scan order: check the longer key first so e.g. a category
	// naming two keys resolves stably.
	best := ""
	for k := range keys {
		if strings.Contains(c, k) {
			if len(k) > len(best) || (len(k) == len(best) && k < best) {
				best = k
			}
		}
	}
	return best
}

func sumMaterials(materials []Material) float64 {
	total := 0.0
	for _, m := range materials {
		name := strings.ToLower(m.Name)
		ef, ok := materialEF[name]
		if !ok && (name == "corrugated_cardboard") {
			ef, ok = materialEF["corrugate"], true
		}
		if !ok {
			ef = 2.0 // generic plastic-ish fallback
		}
		total += m.MassKg * ef
	}
	return total
}

func sumPackaging(packaging []Packaging) float64 {
	total := 0.0
	for _, p := range packaging {
		mat := strings.ToLower(p.Material)
		ef, ok := materialEF[mat]
		if !ok && mat == "corrugated_cardboard" {
			ef, ok = materialEF["corrugate"], true
		}
		if !ok {
			ef = 1.2
		}
		total += p.MassKg * ef
	}
	return total
}

func logisticsFootprint(shippedMassKg float64, segments []Segment, returnProbability float64) float64 {
	if len(segments) == 0 || shippedMassKg <= 0 {
		return 0.0
	}
	massTonnes := shippedMassKg / 1000.0
	base := 0.0
	for _, seg := range segments {
		ef, ok := logisticsEF[strings.ToLower(seg.Mode)]
		if !ok {
			ef = 0.12
		}
		base += massTonnes * seg.DistanceKm * ef
	}
	if returnProbability < 0 {
		returnProbability = 0
	}
	if returnProbability > 1 {
		returnProbability = 1
	}
	return base * (1.0 + returnProbability)
}

func usePhaseFootprint(use *UseBlock) float64 {
	if use == nil || use.Years <= 0 {
		return 0.0
	}
	gridEF := use.GridEFKgPerKWh
	if gridEF == 0 {
		gridEF = defaultGridEF
	}
	var energyKWh float64
	if use.KWhPerYear != nil {
		energyKWh = *use.KWhPerYear * use.Years
	} else {
		energyKWh = (use.PowerW / 1000.0) * use.HoursPerDay * 365.0 * use.Years
	}
	return energyKWh * gridEF
}

func eolFootprint(splits []EOLSplit, productMassKg float64) float64 {
	if len(splits) == 0 || productMassKg <= 0 {
		return 0.0
	}
	total := 0.0
	for _, s := range splits {
		ef, ok := eolEF[strings.ToLower(s.Pathway)]
		if !ok {
			ef = 0.02
		}
		total += productMassKg * s.Fraction * ef
	}
	return total
}
