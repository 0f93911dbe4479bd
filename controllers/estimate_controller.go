package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ecotrack/ecotrack/estimate"
	"github.com/ecotrack/ecotrack/insight"
	"github.com/ecotrack/ecotrack/llm"
	"github.com/ecotrack/ecotrack/utils"
)

// EstimateController estimates the carbon footprint behind a page the user is
// looking at, or of an explicit shopping/flight payload. The page flow asks
// the generative service to pick the right estimator and fill its arguments
// from the page text; without credentials it degrades to keyword routing.
type EstimateController struct {
	gen llm.Client
}

// NewEstimateController creates an EstimateController. gen may be nil.
func NewEstimateController(gen llm.Client) *EstimateController {
	return &EstimateController{gen: gen}
}

// Shopping runs the product estimator on an explicit payload.
func (e *EstimateController) Shopping(ctx *gin.Context) {
	var payload estimate.ShoppingPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	kg := estimate.ShoppingFootprint(payload)
	utils.Success(ctx, gin.H{"kg_co2e": kg, "scope": payload.Scope})
}

// Flight runs the flight estimator on an explicit payload.
func (e *EstimateController) Flight(ctx *gin.Context) {
	var payload estimate.FlightPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40051, "invalid request payload")
		return
	}

	kg, err := estimate.FlightEmissions(payload)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40052, err.Error())
		return
	}
	utils.Success(ctx, gin.H{"kg_co2e": kg})
}

// Page extracts the text of a product or booking page, routes it to the right
// estimator and returns the footprint with a short natural-language summary.
func (e *EstimateController) Page(ctx *gin.Context) {
	var req struct {
		URL  string `json:"url"`
		HTML string `json:"html" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40053, "invalid request payload")
		return
	}

	text, err := estimate.PageText(req.HTML, estimate.DefaultPageTextLimit)
	if err != nil || strings.TrimSpace(text) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40054, "page text could not be extracted")
		return
	}

	tool, kg, err := e.route(ctx, req.URL, text)
	if err != nil {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42250, err.Error())
		return
	}

	summary := e.summarize(ctx, tool, kg, text)

	utils.Success(ctx, gin.H{
		"tool":    tool,
		"kg_co2e": kg,
		"summary": summary,
	})
}

const routingPromptTemplate = `You route a web page to one carbon estimator and fill its arguments from the page text.

Available tools:
1. "shopping" - a purchased product. Arguments schema:
{"product":{"category":"","weight_kg":0,"price_value":null,"epd_hit_kgco2e":null,"materials":[{"name":"","mass_kg":0}],"packaging":[{"material":"","mass_kg":0}]},"scope":"cradle_to_grave","epd":{"enabled":false},"logistics":{"shipped_mass_kg":0,"return_probability":0,"segments":[{"mode":"","distance_km":0}]},"use":null,"eol":[]}
2. "flight" - a flight booking or itinerary. Arguments schema:
{"cabin_class":"economy","num_passengers":1,"itinerary":[{"origin_iata":"","destination_iata":"","block_time_minutes":null,"aircraft_icao":""}]}

Fill only what the page supports; leave unknown fields at their zero values.
Reply ONLY with valid JSON of the form {"tool":"shopping","arguments":{...}} or {"tool":"flight","arguments":{...}}.

Page URL: %s
Page text:
%s`

type toolCall struct {
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments"`
}

// route asks the generative service which estimator fits the page and runs it.
// Any remote failure falls back to keyword routing over the page text.
func (e *EstimateController) route(ctx *gin.Context, url, text string) (string, float64, error) {
	if e.gen != nil {
		body, err := e.gen.Generate(ctx.Request.Context(), fmt.Sprintf(routingPromptTemplate, url, text))
		if err == nil {
			var call toolCall
			if jerr := json.Unmarshal([]byte(insight.StripCodeFences(body)), &call); jerr == nil {
				if tool, kg, derr := dispatch(call); derr == nil {
					return tool, kg, nil
				}
			}
		}
		if utils.Sugar != nil && err != nil {
			utils.Sugar.Infow("estimator routing unavailable, using keyword fallback", "reason", err)
		}
	}
	return routeByKeywords(url, text)
}

func dispatch(call toolCall) (string, float64, error) {
	switch call.Tool {
	case "shopping":
		var p estimate.ShoppingPayload
		if err := json.Unmarshal(call.Arguments, &p); err != nil {
			return "", 0, err
		}
		return "shopping", estimate.ShoppingFootprint(p), nil
	case "flight":
		var p estimate.FlightPayload
		if err := json.Unmarshal(call.Arguments, &p); err != nil {
			return "", 0, err
		}
		kg, err := estimate.FlightEmissions(p)
		if err != nil {
			return "", 0, err
		}
		return "flight", kg, nil
	default:
		return "", 0, fmt.Errorf("unknown tool %q", call.Tool)
	}
}

// routeByKeywords is the deterministic fallback: pick the estimator from page
// vocabulary and run it with minimal category/spend level arguments.
func routeByKeywords(url, text string) (string, float64, error) {
	lower := strings.ToLower(url + " " + text)

	flightWords := []string{"flight", "boarding", "departure", "airline", "itinerary", "one-way", "round trip", "airport"}
	for _, w := range flightWords {
		if strings.Contains(lower, w) {
			return "", 0, fmt.Errorf("flight pages need itinerary details the fallback cannot extract")
		}
	}

	shoppingWords := []string{"add to cart", "add to basket", "price", "buy now", "in stock", "checkout", "product"}
	for _, w := range shoppingWords {
		if strings.Contains(lower, w) {
			var p estimate.ShoppingPayload
			p.Scope = "cradle_to_grave"
			return "shopping", estimate.ShoppingFootprint(p), nil
		}
	}

	return "", 0, fmt.Errorf("page does not look like a product or flight page")
}

const summaryPromptTemplate = `A carbon estimator computed %.1f kg CO2e for the %s on this page.
Summarize the result for the user in at most 50 words, plain text, no markdown.
Page text:
%s`

// summarize produces the short user-facing line, remote first with a fixed
// template fallback.
func (e *EstimateController) summarize(ctx *gin.Context, tool string, kg float64, text string) string {
	if e.gen != nil {
		body, err := e.gen.Generate(ctx.Request.Context(), fmt.Sprintf(summaryPromptTemplate, kg, tool, text))
		if err == nil {
			s := strings.TrimSpace(insight.StripCodeFences(body))
			if s != "" {
				return s
			}
		}
	}
	return fmt.Sprintf("Estimated footprint for this %s: %.1f kg CO2e.", tool, kg)
}
