package controllers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchShopping(t *testing.T) {
	args := json.RawMessage(`{"product":{"category":"electronics","weight_kg":2},"scope":"cradle_to_gate","epd":{"enabled":false},"logistics":{}}`)
	tool, kg, err := dispatch(toolCall{Tool: "shopping", Arguments: args})

	require.NoError(t, err)
	assert.Equal(t, "shopping", tool)
	assert.InDelta(t, 20.0, kg, 1e-9) // 2 kg * electronics mass factor
}

func TestDispatchFlight(t *testing.T) {
	args := json.RawMessage(`{"cabin_class":"economy","num_passengers":1,"itinerary":[{"origin_iata":"JFK","destination_iata":"LHR"}]}`)
	tool, kg, err := dispatch(toolCall{Tool: "flight", Arguments: args})

	require.NoError(t, err)
	assert.Equal(t, "flight", tool)
	assert.Greater(t, kg, 0.0)
}

func TestDispatchRejectsUnknownTool(t *testing.T) {
	_, _, err := dispatch(toolCall{Tool: "teleport", Arguments: json.RawMessage(`{}`)})
	assert.Error(t, err)
}

func TestDispatchRejectsBadArguments(t *testing.T) {
	_, _, err := dispatch(toolCall{Tool: "flight", Arguments: json.RawMessage(`"not an object"`)})
	assert.Error(t, err)
}

func TestRouteByKeywordsShopping(t *testing.T) {
	tool, _, err := routeByKeywords("https://shop.example/item", "Great blender. Add to cart for $49.")
	require.NoError(t, err)
	assert.Equal(t, "shopping", tool)
}

func TestRouteByKeywordsFlightNeedsDetails(t *testing.T) {
	_, _, err := routeByKeywords("https://air.example/book", "Your flight departure is at 9:40, boarding at 9:00.")
	assert.Error(t, err)
}

func TestRouteByKeywordsUnrecognized(t *testing.T) {
	_, _, err := routeByKeywords("https://blog.example", "Ten thoughts about gardening.")
	assert.Error(t, err)
}
