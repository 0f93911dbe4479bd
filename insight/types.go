package insight

import (
	"encoding/json"
	"strings"
	"time"
	"unicode"
)

// Impact bucket thresholds in kg CO2e. Policy constants, not derived.
const (
	HighImpactThreshold = 50.0
	LowImpactThreshold  = 25.0
)

// Maximum number of insight / recommendation lines kept in a record.
const maxAdviceLines = 5

// Action is one user-logged sustainability activity. ImpactScore is signed
// kg CO2e: positive = emission, negative = avoided/offset emission.
type Action struct {
	Name        string    `json:"name"`
	ImpactScore float64   `json:"impact_score"`
	Timestamp   time.Time `json:"timestamp"`
}

// Category returns the inferred category for the action's name.
func (a Action) Category() Category {
	return InferCategory(a.Name)
}

// Category is a display/analytics grouping derived from the action name.
// It is recomputed at read time and never stored authoritatively.
type Category string

const (
	CategoryTransportation Category = "Transportation"
	CategoryEnergy         Category = "Energy"
	CategoryFood           Category = "Food"
	CategoryWaste          Category = "Waste"
	CategoryEnvironment    Category = "Environment"
	CategoryGeneral        Category = "General"
)

// categoryKeywords holds the keyword sets checked in fixed priority order.
// First matching category wins. Keywords are matched case-insensitively
// against word boundaries: a keyword matches when it is a prefix of some word
// in the name ("recycl" matches "recycled"), except that the short ambiguous
// keywords in exactKeywords must equal a whole word, so "car" never fires on
// "cardboard" or "carbon" and "ac" never fires on "action". Hyphenated
// keywords match as plain substrings since word splitting removes the hyphen.
var categoryOrder = []Category{
	CategoryTransportation,
	CategoryEnergy,
	CategoryFood,
	CategoryWaste,
	CategoryEnvironment,
}

var categoryKeywords = map[Category][]string{
	CategoryTransportation: {"drove", "driv", "car", "bus", "train", "flight", "flew", "fly", "bike", "biked", "walk", "commute", "carpool", "taxi", "uber"},
	CategoryEnergy:         {"electric", "energy", "light", "heating", "heater", "thermostat", "solar", "power", "appliance", "ac"},
	CategoryFood:           {"meat", "beef", "vegan", "vegetarian", "food", "meal", "eat", "grocer", "dairy", "produce"},
	CategoryWaste:          {"recycl", "compost", "waste", "trash", "plastic", "reus", "landfill", "donat"},
	CategoryEnvironment:    {"tree", "plant", "garden", "environment", "offset", "cleanup", "clean-up"},
}

var exactKeywords = map[string]bool{
	"ac":    true,
	"car":   true,
	"bus":   true,
	"train": true,
}

// InferCategory maps an action name to its category. Pure and deterministic:
// the same name always yields the same category.
func InferCategory(name string) Category {
	lowered := strings.ToLower(name)
	words := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, cat := range categoryOrder {
		for _, kw := range categoryKeywords[cat] {
			if matchKeyword(lowered, words, kw) {
				return cat
			}
		}
	}
	return CategoryGeneral
}

func matchKeyword(lowered string, words []string, kw string) bool {
	if strings.ContainsRune(kw, '-') {
		return strings.Contains(lowered, kw)
	}
	if exactKeywords[kw] {
		for _, w := range words {
			if w == kw {
				return true
			}
		}
		return false
	}
	for _, w := range words {
		if strings.HasPrefix(w, kw) {
			return true
		}
	}
	return false
}

// AggregateStats summarizes a set of new actions for advice generation.
// Totals and means carry full precision; rounding happens only when values
// are formatted for display.
type AggregateStats struct {
	TotalImpact float64
	MeanImpact  float64
	HighImpact  []Action
	LowImpact   []Action
	ByCategory  map[Category]float64
	Count       int
}

// AdviceRecord is the structured output of one advice-generation cycle.
type AdviceRecord struct {
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
	Summary         string   `json:"summary"`
}

// Encode serializes the record to the single text blob stored in the
// checkpoint mapping. Decode(Encode(r)) round-trips all three fields.
func (r AdviceRecord) Encode() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeAdviceRecord parses a stored blob back into a record.
func DecodeAdviceRecord(blob string) (AdviceRecord, error) {
	var r AdviceRecord
	if err := json.Unmarshal([]byte(blob), &r); err != nil {
		return AdviceRecord{}, err
	}
	return r, nil
}

// clamp trims both line lists to the allowed maximum, preserving order.
func (r *AdviceRecord) clamp() {
	if len(r.Insights) > maxAdviceLines {
		r.Insights = r.Insights[:maxAdviceLines]
	}
	if len(r.Recommendations) > maxAdviceLines {
		r.Recommendations = r.Recommendations[:maxAdviceLines]
	}
}
