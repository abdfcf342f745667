package controllers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clwei/goblog/config"
	"github.com/clwei/goblog/models"
	"github.com/clwei/goblog/utils"
)

// UploadController stores featured images for posts.
type UploadController struct {
	db *gorm.DB
}

// NewUploadController creates a new UploadController instance.
func NewUploadController(db *gorm.DB) *UploadController {
	return &UploadController{db: db}
}

// UploadImage accepts a multipart image (GIF/PNG/JPEG, max size per config),
// re-encodes it as JPEG, and returns the URL to record on a post.
func (u *UploadController) UploadImage(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40130, "unauthorized")
		return
	}

	file, header, err := ctx.Request.FormFile("image")
	if err != nil {
		file, header, err = ctx.Request.FormFile("featured_image")
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40060, "no image uploaded")
			return
		}
	}
	defer file.Close()

	cfg := config.Get()
	maxSize := int64(cfg.UploadMaxSizeMB) << 20
	if header.Size > maxSize {
		utils.Error(ctx, http.StatusBadRequest, 40061, "image exceeds the size limit")
		return
	}

	// Limit the read as well; multipart headers can lie about the size.
	img, err := utils.ProcessImage(io.LimitReader(file, maxSize+1), cfg.UploadMaxWidthPx)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40062, "uploaded file is not a valid image")
		return
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to create upload directory")
		return
	}

	filename := uuid.NewString() + ".jpg"
	dstPath := filepath.Join(cfg.UploadDir, filename)
	if err := os.WriteFile(dstPath, img.Data, 0o644); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to save image")
		return
	}

	url := "/" + filepath.ToSlash(dstPath)
	absPath, _ := filepath.Abs(dstPath)
	record := models.UploadedImage{
		UserID:   userID,
		FilePath: absPath,
		URL:      url,
		Width:    img.Width,
		Height:   img.Height,
	}
	if err := u.db.Create(&record).Error; err != nil {
		utils.Sugar.Warnf("failed to record uploaded image %s: %v", filename, err)
	}

	utils.Success(ctx, gin.H{"url": url, "width": img.Width, "height": img.Height})
}
