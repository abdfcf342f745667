package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/clwei/goblog/config"
	"github.com/clwei/goblog/utils"
)

// SiteController serves environment-driven site metadata to the frontend.
type SiteController struct{}

func NewSiteController() *SiteController { return &SiteController{} }

// GetMeta returns site metadata plus the upload limits the post editor
// needs to validate images before sending them.
func (s *SiteController) GetMeta(ctx *gin.Context) {
	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"title":       cfg.SiteTitle,
		"description": cfg.SiteDescription,
		"url":         cfg.SiteURL,
		"uploads": gin.H{
			"max_size_mb":  cfg.UploadMaxSizeMB,
			"max_width_px": cfg.UploadMaxWidthPx,
		},
	})
}
