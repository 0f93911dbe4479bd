package utils

import (
	"time"

	"github.com/ecotrack/ecotrack/config"
	"github.com/ecotrack/ecotrack/models"
)

// StartVisitPruner launches a background goroutine that periodically deletes
// visit counter rows older than the configured retention. It is best-effort
// and logs failures.
func StartVisitPruner(interval time.Duration) {
	if interval <= 0 {
		interval = 12 * time.Hour
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			db := config.DB()
			if db == nil {
				continue
			}
			days := config.Get().VisitRetentionDays
			if days <= 0 {
				continue
			}
			cutoff := time.Now().AddDate(0, 0, -days)
			if err := db.Where("date < ?", cutoff).Delete(&models.Visit{}).Error; err != nil {
				Sugar.Warnf("visit pruner delete failed: %v", err)
			}
		}
	}()
}
