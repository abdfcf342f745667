package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clwei/goblog/models"
	"github.com/clwei/goblog/policy"
	"github.com/clwei/goblog/utils"
)

// CategoryController manages the post categories.
type CategoryController struct {
	db *gorm.DB
}

// NewCategoryController creates a new CategoryController instance.
func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{db: db}
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

// ListCategories returns every category.
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	var categories []models.Category
	if err := c.db.Order("name ASC").Find(&categories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to list categories")
		return
	}
	utils.Success(ctx, gin.H{"items": categories})
}

// GetCategory returns one category together with its published posts,
// newest first, paginated.
func (c *CategoryController) GetCategory(ctx *gin.Context) {
	var category models.Category
	if err := c.db.First(&category, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40410, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to load category")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	query := c.db.Scopes(policy.VisiblePosts).
		Where("category_id = ?", category.ID).
		Preload("User").
		Order("created_at DESC").
		Session(&gorm.Session{})

	var total int64
	if err := query.Model(&models.Post{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to count posts")
		return
	}

	var posts []models.Post
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to list posts")
		return
	}

	utils.Success(ctx, gin.H{
		"category":   category,
		"posts":      posts,
		"pagination": paginationPayload(page, pageSize, total),
	})
}

// CreateCategory allows any authenticated user to create a category.
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	var req categoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	name := utils.StripTags(strings.TrimSpace(req.Name))
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40041, "name cannot be empty")
		return
	}

	var count int64
	if err := c.db.Model(&models.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to check category name")
		return
	}
	if count > 0 {
		utils.Error(ctx, http.StatusConflict, 40910, "category name already exists")
		return
	}

	slug, err := uniqueSlug(c.db, &models.Category{}, policy.DeriveSlug(name), 0)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to derive slug")
		return
	}

	category := models.Category{
		Name:        name,
		Slug:        slug,
		Description: utils.StripTags(strings.TrimSpace(req.Description)),
	}
	if err := c.db.Create(&category).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50036, "failed to create category")
		return
	}

	utils.InvalidateByPrefix(cacheHomeKey)

	utils.Success(ctx, gin.H{"category": category})
}

// UpdateCategory updates name and description; the slug is re-derived from
// the new name.
func (c *CategoryController) UpdateCategory(ctx *gin.Context) {
	var category models.Category
	if err := c.db.First(&category, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40411, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50037, "failed to load category")
		return
	}

	var req categoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid request payload")
		return
	}

	name := utils.StripTags(strings.TrimSpace(req.Name))
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40043, "name cannot be empty")
		return
	}

	var count int64
	if err := c.db.Model(&models.Category{}).
		Where("name = ? AND id <> ?", name, category.ID).
		Count(&count).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50038, "failed to check category name")
		return
	}
	if count > 0 {
		utils.Error(ctx, http.StatusConflict, 40911, "category name already exists")
		return
	}

	slug, err := uniqueSlug(c.db, &models.Category{}, policy.DeriveSlug(name), category.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50039, "failed to derive slug")
		return
	}

	category.Name = name
	category.Slug = slug
	category.Description = utils.StripTags(strings.TrimSpace(req.Description))
	if err := c.db.Save(&category).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to update category")
		return
	}

	utils.InvalidateByPrefix(cacheHomeKey)

	utils.Success(ctx, gin.H{"category": category})
}

// DeleteCategory deletes a category only when it owns no posts. The final
// DELETE re-checks emptiness in SQL so a post created between the count and
// the delete cannot leave a dangling reference.
func (c *CategoryController) DeleteCategory(ctx *gin.Context) {
	var category models.Category
	if err := c.db.First(&category, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40412, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load category")
		return
	}

	var postCount int64
	if err := c.db.Model(&models.Post{}).Where("category_id = ?", category.ID).Count(&postCount).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to count posts")
		return
	}
	if !policy.CanDeleteCategory(postCount) {
		utils.Error(ctx, http.StatusConflict, 40920, "cannot delete a category that still has posts")
		return
	}

	res := c.db.Exec(
		"DELETE FROM categories WHERE id = ? AND NOT EXISTS (SELECT 1 FROM posts WHERE posts.category_id = ?)",
		category.ID, category.ID,
	)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to delete category")
		return
	}
	if res.RowsAffected == 0 {
		// A post was created between the count and the delete.
		utils.Error(ctx, http.StatusConflict, 40920, "cannot delete a category that still has posts")
		return
	}

	utils.InvalidateByPrefix(cacheHomeKey)

	utils.Success(ctx, gin.H{"message": "category deleted"})
}
