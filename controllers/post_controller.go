package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clwei/goblog/models"
	"github.com/clwei/goblog/policy"
	"github.com/clwei/goblog/utils"
)

const (
	homeFeedSize = 6
	cacheHomeKey = "cache:home"
)

// PostController manages CRUD operations for posts.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

type postRequest struct {
	Title         string `json:"title" binding:"required,max=255"`
	Content       string `json:"content" binding:"required"`
	CategoryID    uint   `json:"category_id" binding:"required"`
	Excerpt       string `json:"excerpt"`
	FeaturedImage string `json:"featured_image"`
	Published     bool   `json:"published"`
}

// Home returns the landing payload: the six most recent published posts plus
// every category.
func (p *PostController) Home(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(cacheHomeKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var posts []models.Post
	if err := p.db.Scopes(policy.VisiblePosts).
		Preload("User").Preload("Category").
		Order("created_at DESC").Limit(homeFeedSize).
		Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to load recent posts")
		return
	}

	var categories []models.Category
	if err := p.db.Order("name ASC").Find(&categories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to load categories")
		return
	}

	payload := gin.H{"posts": posts, "categories": categories}
	utils.CacheSetJSON(cacheHomeKey, wrapSuccess(payload), time.Hour)
	utils.Success(ctx, payload)
}

// ListPosts returns published posts, newest first, paginated.
func (p *PostController) ListPosts(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	search := strings.TrimSpace(ctx.Query("search"))

	var cacheKey string
	if search == "" {
		cacheKey = "cache:posts:list:page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	query := p.db.Scopes(policy.VisiblePosts).
		Preload("User").Preload("Category").
		Order("created_at DESC")
	if search != "" {
		query = query.Where("title LIKE ? OR content LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Model(&models.Post{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to count posts")
		return
	}

	var posts []models.Post
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to list posts")
		return
	}

	payload := gin.H{
		"items":      posts,
		"pagination": paginationPayload(page, pageSize, total),
	}
	if cacheKey != "" {
		utils.CacheSetJSON(cacheKey, wrapSuccess(payload), time.Hour)
	}
	utils.Success(ctx, payload)
}

// GetPost returns a single post with its comments. Detail lookups do not
// filter by the published flag: drafts stay reachable by direct link.
func (p *PostController) GetPost(ctx *gin.Context) {
	postID := ctx.Param("id")

	if b, ok := utils.CacheGetBytes("cache:post:detail:" + postID); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var post models.Post
	err := p.db.Preload("User").Preload("Category").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Comments.User").
		First(&post, "id = ?", postID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to load post")
		return
	}

	payload := gin.H{"post": post}
	utils.CacheSetJSON("cache:post:detail:"+postID, wrapSuccess(payload), time.Hour)
	utils.Success(ctx, payload)
}

// CreatePost allows authenticated users to create new posts. The requester
// becomes the owner; ownership never changes afterwards.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	title := utils.StripTags(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "title cannot be empty")
		return
	}
	content := utils.Sanitize(req.Content)
	if strings.TrimSpace(content) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40022, "content cannot be empty")
		return
	}

	var category models.Category
	if err := p.db.First(&category, req.CategoryID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusBadRequest, 40023, "category does not exist")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to load category")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	slug, err := uniqueSlug(p.db, &models.Post{}, policy.DeriveSlug(title), 0)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50016, "failed to derive slug")
		return
	}

	post := models.Post{
		UserID:        userID,
		CategoryID:    category.ID,
		Title:         title,
		Slug:          slug,
		Content:       content,
		Excerpt:       utils.StripTags(strings.TrimSpace(req.Excerpt)),
		FeaturedImage: strings.TrimSpace(req.FeaturedImage),
		Published:     req.Published,
	}

	if err := p.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50017, "failed to create post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:list:")
	utils.InvalidateByPrefix(cacheHomeKey)

	utils.Success(ctx, gin.H{"post": post})
}

// UpdatePost allows the owner to update their post. The category may change,
// the owner may not.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	postID := ctx.Param("id")
	var post models.Post
	if err := p.db.First(&post, "id = ?", postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50018, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}
	if !policy.CanEditPost(userID, &post) {
		utils.Error(ctx, http.StatusForbidden, 40301, "you do not have permission to update this post")
		return
	}

	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40024, "invalid request payload")
		return
	}

	title := utils.StripTags(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40025, "title cannot be empty")
		return
	}
	content := utils.Sanitize(req.Content)
	if strings.TrimSpace(content) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40026, "content cannot be empty")
		return
	}

	var category models.Category
	if err := p.db.First(&category, req.CategoryID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusBadRequest, 40027, "category does not exist")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50019, "failed to load category")
		return
	}

	slug, err := uniqueSlug(p.db, &models.Post{}, policy.DeriveSlug(title), post.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to derive slug")
		return
	}

	post.Title = title
	post.Slug = slug
	post.Content = content
	post.CategoryID = category.ID
	post.Excerpt = utils.StripTags(strings.TrimSpace(req.Excerpt))
	post.FeaturedImage = strings.TrimSpace(req.FeaturedImage)
	post.Published = req.Published
	if err := p.db.Save(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to update post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:list:")
	utils.InvalidateByPrefix("cache:post:detail:" + postID)
	utils.InvalidateByPrefix(cacheHomeKey)

	utils.Success(ctx, gin.H{"post": post})
}

// DeletePost allows the owner to delete their post along with its comments.
func (p *PostController) DeletePost(ctx *gin.Context) {
	postID := ctx.Param("id")
	var post models.Post
	if err := p.db.First(&post, "id = ?", postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}
	if !policy.CanDeletePost(userID, &post) {
		utils.Error(ctx, http.StatusForbidden, 40302, "you do not have permission to delete this post")
		return
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to delete post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:list:")
	utils.InvalidateByPrefix("cache:post:detail:" + postID)
	utils.InvalidateByPrefix(cacheHomeKey)

	utils.Success(ctx, gin.H{"message": "post deleted"})
}
