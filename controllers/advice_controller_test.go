package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ecotrack/ecotrack/insight"
)

func TestAdvicePayloadFresh(t *testing.T) {
	res := &insight.Result{
		Record: insight.AdviceRecord{
			Insights:        []string{"i"},
			Recommendations: []string{"r"},
			Summary:         "s",
		},
	}

	payload := advicePayload(res)

	assert.Equal(t, false, payload["stale"])
	assert.NotContains(t, payload, "message")
	assert.NotContains(t, payload, "warning")
	assert.Equal(t, "s", payload["summary"])
}

func TestAdvicePayloadStaleCarriesMessage(t *testing.T) {
	res := &insight.Result{
		Record: insight.AdviceRecord{Summary: "prior"},
		Stale:  true,
	}

	payload := advicePayload(res)

	assert.Equal(t, true, payload["stale"])
	assert.Equal(t, "no new actions since your last check-in", payload["message"])
	assert.Equal(t, "prior", payload["summary"])
}

func TestAdvicePayloadPersistWarning(t *testing.T) {
	res := &insight.Result{
		Record:         insight.AdviceRecord{Summary: "s"},
		PersistWarning: "advice could not be saved",
	}

	payload := advicePayload(res)

	assert.Equal(t, "advice could not be saved", payload["warning"])
	assert.NotContains(t, payload, "message")
}
