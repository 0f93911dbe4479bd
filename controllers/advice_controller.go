package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ecotrack/ecotrack/insight"
	"github.com/ecotrack/ecotrack/models"
	"github.com/ecotrack/ecotrack/utils"
)

// busyTTL bounds how long a crashed advice run can keep a user locked out.
const busyTTL = time.Minute

// AdviceController exposes the checkpointed advice pipeline over HTTP.
type AdviceController struct {
	db     *gorm.DB
	engine *insight.Engine
}

// NewAdviceController creates an AdviceController.
func NewAdviceController(db *gorm.DB, engine *insight.Engine) *AdviceController {
	return &AdviceController{db: db, engine: engine}
}

// Generate runs one advice cycle for the authenticated user. Only one run per
// user may be in flight at a time; a concurrent request gets 409.
func (a *AdviceController) Generate(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	if !utils.TryAcquireBusy(userID, busyTTL) {
		utils.Error(ctx, http.StatusConflict, 40920, "advice generation already in progress")
		return
	}
	defer utils.ReleaseBusy(userID)

	var rows []models.Action
	if err := a.db.Where("user_id = ?", userID).
		Order("recorded_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to load actions")
		return
	}

	actions := make([]insight.Action, 0, len(rows))
	for _, r := range rows {
		actions = append(actions, insight.Action{
			Name:        r.Name,
			ImpactScore: r.ImpactKg,
			Timestamp:   r.RecordedAt,
		})
	}

	result, err := a.engine.Advise(ctx.Request.Context(), userID, actions)
	if err != nil {
		if errors.Is(err, insight.ErrNoActions) {
			utils.Error(ctx, http.StatusNotFound, 40420, "no actions recorded yet")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50021, "advice generation failed")
		return
	}

	utils.Success(ctx, advicePayload(result))
}

// advicePayload shapes the engine result for the API: stale results carry an
// informational message, persist failures a soft warning.
func advicePayload(result *insight.Result) gin.H {
	payload := gin.H{
		"insights":        result.Record.Insights,
		"recommendations": result.Record.Recommendations,
		"summary":         result.Record.Summary,
		"stale":           result.Stale,
	}
	if result.Stale {
		payload["message"] = "no new actions since your last check-in"
	}
	if result.PersistWarning != "" {
		payload["warning"] = result.PersistWarning
	}
	return payload
}
