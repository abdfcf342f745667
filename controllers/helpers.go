package controllers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clwei/goblog/middleware"
	"github.com/clwei/goblog/models"
	"github.com/clwei/goblog/policy"
)

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return policy.AnonymousID, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return policy.AnonymousID, false
	}
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 10
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}

func paginationPayload(page, pageSize int, total int64) gin.H {
	return gin.H{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
}

// uniqueSlug resolves slug collisions within one table by appending a numeric
// suffix. excludeID skips the row being updated so it can keep its own slug.
func uniqueSlug(db *gorm.DB, model interface{}, base string, excludeID uint) (string, error) {
	if base == "" {
		base = "untitled"
	}
	candidate := base
	for n := 2; ; n++ {
		var count int64
		q := db.Model(model).Where("slug = ?", candidate)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}
		if err := q.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

func publicUser(user models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"provider":   user.Provider,
		"avatar_url": user.AvatarURL,
		"created_at": user.CreatedAt,
	}
}

// envelope mirrors utils.JSONResponse for caching complete response bodies.
type envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func wrapSuccess(data interface{}) envelope {
	return envelope{Code: 0, Message: "success", Data: data}
}
