package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ecotrack/ecotrack/config"
	"github.com/ecotrack/ecotrack/models"
	"github.com/ecotrack/ecotrack/utils"
)

// LeaderboardController serves the public saved-emissions ranking and the
// aggregate service statistics.
type LeaderboardController struct {
	db *gorm.DB
}

// NewLeaderboardController creates a LeaderboardController.
func NewLeaderboardController(db *gorm.DB) *LeaderboardController {
	return &LeaderboardController{db: db}
}

type leaderboardEntry struct {
	Rank     int     `json:"rank"`
	UserID   uint    `json:"user_id"`
	Username string  `json:"username"`
	SavedKg  float64 `json:"saved_kg"`
}

// Top returns the highest saved-emissions scores. The Redis sorted set is the
// fast path; a cold set is rebuilt from SQL before serving.
func (l *LeaderboardController) Top(ctx *gin.Context) {
	size := config.Get().LeaderboardSize
	if size < 1 {
		size = 20
	}

	entries, err := l.topFromRedis(size)
	if err != nil || len(entries) == 0 {
		entries, err = l.topFromSQL(size)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load leaderboard")
			return
		}
	}

	utils.Success(ctx, gin.H{"leaderboard": entries})
}

func (l *LeaderboardController) topFromRedis(size int) ([]leaderboardEntry, error) {
	rc := utils.GetRedis()
	if rc == nil {
		return nil, nil
	}
	rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	zs, err := rc.ZRevRangeWithScores(rctx, leaderboardKey, 0, int64(size-1)).Result()
	if err != nil || len(zs) == 0 {
		return nil, err
	}

	ids := make([]uint, 0, len(zs))
	scores := map[uint]float64{}
	for _, z := range zs {
		s, ok := z.Member.(string)
		if !ok {
			continue
		}
		id64, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			continue
		}
		id := uint(id64)
		ids = append(ids, id)
		scores[id] = z.Score
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var users []models.User
	if err := l.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	names := map[uint]string{}
	for _, u := range users {
		names[u.ID] = u.Username
	}

	entries := make([]leaderboardEntry, 0, len(ids))
	for i, id := range ids {
		entries = append(entries, leaderboardEntry{
			Rank:     i + 1,
			UserID:   id,
			Username: names[id],
			SavedKg:  scores[id],
		})
	}
	return entries, nil
}

// topFromSQL rebuilds the ranking from the actions table and re-primes the
// sorted set for subsequent requests.
func (l *LeaderboardController) topFromSQL(size int) ([]leaderboardEntry, error) {
	type row struct {
		UserID   uint
		Username string
		SavedKg  float64
	}
	var rows []row
	err := l.db.Model(&models.Action{}).
		Select("actions.user_id AS user_id, users.username AS username, SUM(CASE WHEN actions.impact_kg < 0 THEN -actions.impact_kg ELSE 0 END) AS saved_kg").
		Joins("JOIN users ON users.id = actions.user_id AND users.deleted_at IS NULL").
		Group("actions.user_id, users.username").
		Having("saved_kg > 0").
		Order("saved_kg DESC").
		Limit(size).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]leaderboardEntry, 0, len(rows))
	for i, r := range rows {
		entries = append(entries, leaderboardEntry{Rank: i + 1, UserID: r.UserID, Username: r.Username, SavedKg: r.SavedKg})
	}

	if rc := utils.GetRedis(); rc != nil && len(rows) > 0 {
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		zs := make([]redis.Z, 0, len(rows))
		for _, r := range rows {
			zs = append(zs, redis.Z{Score: r.SavedKg, Member: r.UserID})
		}
		_ = rc.ZAdd(rctx, leaderboardKey, zs...).Err()
	}

	return entries, nil
}

const statsCacheKey = "stats:overview"

// Stats returns aggregate counters for the whole service. Each figure degrades
// to zero on error so a partial outage never hides the rest. The response is
// cached briefly; action writes invalidate it.
func (l *LeaderboardController) Stats(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(statsCacheKey); ok {
		var cached gin.H
		if json.Unmarshal(b, &cached) == nil {
			utils.Success(ctx, cached)
			return
		}
	}

	var userCount int64
	if err := l.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		userCount = 0
	}

	var actionCount int64
	if err := l.db.Model(&models.Action{}).Count(&actionCount).Error; err != nil {
		actionCount = 0
	}

	var totalKg float64
	if err := l.db.Model(&models.Action{}).
		Select("COALESCE(SUM(impact_kg), 0)").
		Scan(&totalKg).Error; err != nil {
		totalKg = 0
	}

	now := time.Now().In(time.Local)
	localMidnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var visitsToday int64
	if err := l.db.Model(&models.Visit{}).
		Where("date = ?", localMidnight).
		Select("COALESCE(SUM(count), 0)").
		Scan(&visitsToday).Error; err != nil {
		visitsToday = 0
	}

	payload := gin.H{
		"users":         userCount,
		"actions":       actionCount,
		"total_kg_co2e": totalKg,
		"visits_today":  visitsToday,
		"generated_at":  time.Now().UTC().Format(time.RFC3339),
	}
	utils.CacheSetJSON(statsCacheKey, payload, time.Minute)
	utils.Success(ctx, payload)
}
