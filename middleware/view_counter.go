package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clwei/goblog/models"
)

// ViewCounter increments the daily view counter for a post after the detail
// handler has answered. Only successful reads count.
func ViewCounter(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != "GET" || c.Writer.Status() != 200 {
			return
		}
		postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			return
		}

		// Local midnight to align with the DATE column.
		now := time.Now().In(time.Local)
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		// Atomic upsert to avoid duplicate key errors under concurrency.
		_ = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "post_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("post_views.count + 1")}),
		}).Create(&models.PostView{
			Date:   day,
			PostID: uint(postID),
			Count:  1,
		}).Error
	}
}
