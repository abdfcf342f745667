package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clwei/goblog/models"
	"github.com/clwei/goblog/policy"
	"github.com/clwei/goblog/utils"
)

// StatsController provides blog statistics such as counts and daily views.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate statistics for the blog.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var userCount int64
	var postCount int64
	var commentCount int64
	var categoryCount int64
	var totalViews int64
	var viewsToday int64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		// Fall back to 0 instead of failing the whole endpoint
		userCount = 0
	}
	if err := s.db.Model(&models.Post{}).Scopes(policy.VisiblePosts).Count(&postCount).Error; err != nil {
		postCount = 0
	}
	if err := s.db.Model(&models.Comment{}).Count(&commentCount).Error; err != nil {
		commentCount = 0
	}
	if err := s.db.Model(&models.Category{}).Count(&categoryCount).Error; err != nil {
		categoryCount = 0
	}

	if err := s.db.Model(&models.PostView{}).
		Select("COALESCE(SUM(count),0)").
		Scan(&totalViews).Error; err != nil {
		totalViews = 0
	}

	// Match the local-midnight timestamp the view counter writes.
	now := time.Now().In(time.Local)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := s.db.Model(&models.PostView{}).
		Where("date = ?", today).
		Select("COALESCE(SUM(count),0)").
		Scan(&viewsToday).Error; err != nil {
		viewsToday = 0
	}

	utils.Success(ctx, gin.H{
		"user_count":     userCount,
		"post_count":     postCount,
		"comment_count":  commentCount,
		"category_count": categoryCount,
		"total_views":    totalViews,
		"views_today":    viewsToday,
	})
}

// GetPostStats returns view and comment counts for a given post id.
func (s *StatsController) GetPostStats(ctx *gin.Context) {
	id := ctx.Param("id")

	var views int64
	if err := s.db.Model(&models.PostView{}).
		Where("post_id = ?", id).
		Select("COALESCE(SUM(count),0)").
		Scan(&views).Error; err != nil {
		views = 0
	}

	var commentsCount int64
	if err := s.db.Model(&models.Comment{}).Where("post_id = ?", id).Count(&commentsCount).Error; err != nil {
		commentsCount = 0
	}

	utils.Success(ctx, gin.H{
		"views":          views,
		"comments_count": commentsCount,
	})
}
