package utils

import (
	"time"

	"gorm.io/gorm"

	"github.com/clwei/goblog/config"
	"github.com/clwei/goblog/models"
)

// StartViewPruner launches a background goroutine that periodically deletes
// daily view counters older than the retention window. It is best-effort and
// logs failures.
func StartViewPruner(db *gorm.DB, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			if db == nil {
				continue
			}
			retention := config.Get().ViewRetentionDays
			if retention <= 0 {
				continue
			}
			cutoff := time.Now().AddDate(0, 0, -retention)
			if err := db.Where("date < ?", cutoff).Delete(&models.PostView{}).Error; err != nil {
				Sugar.Warnf("view pruner failed: %v", err)
			}
		}
	}()
}
