package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ecotrack/ecotrack/models"
	"github.com/ecotrack/ecotrack/utils"
)

// leaderboardKey is the sorted set holding per-user saved-emissions scores.
const leaderboardKey = "lb:saved"

// ActionController manages the user's logged sustainability actions.
type ActionController struct {
	db *gorm.DB
}

// NewActionController creates an ActionController.
func NewActionController(db *gorm.DB) *ActionController {
	return &ActionController{db: db}
}

// Create logs an action. Re-logging an existing action name overwrites its
// impact and timestamp: the (user, name) pair is the identity and no history
// is kept for repeats.
func (a *ActionController) Create(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	type request struct {
		Name       string     `json:"name" binding:"required"`
		ImpactKg   float64    `json:"impact_kg"`
		RecordedAt *time.Time `json:"recorded_at"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	name := utils.Sanitize(strings.TrimSpace(req.Name))
	if name == "" || len([]rune(name)) > 255 {
		utils.Error(ctx, http.StatusBadRequest, 40011, "action name must be 1-255 characters")
		return
	}

	recordedAt := time.Now()
	if req.RecordedAt != nil && !req.RecordedAt.IsZero() {
		recordedAt = *req.RecordedAt
	}

	action := models.Action{
		UserID:     userID,
		Name:       name,
		ImpactKg:   req.ImpactKg,
		RecordedAt: recordedAt,
	}

	err := a.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"impact_kg":   req.ImpactKg,
			"recorded_at": recordedAt,
			"updated_at":  time.Now(),
		}),
	}).Create(&action).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to save action")
		return
	}

	a.refreshLeaderboardScore(userID)

	utils.Success(ctx, gin.H{
		"name":        name,
		"impact_kg":   req.ImpactKg,
		"recorded_at": recordedAt,
	})
}

// List returns the user's actions ordered by recording time ascending.
func (a *ActionController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var actions []models.Action
	if err := a.db.Where("user_id = ?", userID).
		Order("recorded_at ASC, id ASC").
		Find(&actions).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to load actions")
		return
	}

	type item struct {
		Name       string    `json:"name"`
		ImpactKg   float64   `json:"impact_kg"`
		RecordedAt time.Time `json:"recorded_at"`
	}
	items := make([]item, 0, len(actions))
	for _, act := range actions {
		items = append(items, item{Name: act.Name, ImpactKg: act.ImpactKg, RecordedAt: act.RecordedAt})
	}

	utils.Success(ctx, gin.H{"actions": items, "count": len(items)})
}

// Delete removes one action by name.
func (a *ActionController) Delete(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	name := strings.TrimSpace(ctx.Param("name"))
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40012, "action name required")
		return
	}

	res := a.db.Where("user_id = ? AND name = ?", userID, name).Delete(&models.Action{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to delete action")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40410, "action not found")
		return
	}

	a.refreshLeaderboardScore(userID)

	utils.Success(ctx, gin.H{"deleted": name})
}

// refreshLeaderboardScore recomputes the user's saved-emissions score from SQL
// and writes it into the Redis sorted set. The score counts only negative
// impacts (avoided or offset emissions), flipped positive. Best effort: a cold
// or unreachable Redis just means the leaderboard endpoint rebuilds from SQL.
func (a *ActionController) refreshLeaderboardScore(userID uint) {
	var saved float64
	err := a.db.Model(&models.Action{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(CASE WHEN impact_kg < 0 THEN -impact_kg ELSE 0 END), 0)").
		Scan(&saved).Error
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("leaderboard score query failed user=%d err=%v", userID, err)
		}
		return
	}

	utils.InvalidateByPrefix("stats:")

	rc := utils.GetRedis()
	if rc == nil {
		return
	}
	rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = rc.ZAdd(rctx, leaderboardKey, redis.Z{
		Score:  saved,
		Member: userID,
	}).Err()
}
