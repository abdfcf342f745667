package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clwei/goblog/models"
	"github.com/clwei/goblog/policy"
	"github.com/clwei/goblog/utils"
)

// CommentController manages comments on posts.
type CommentController struct {
	db *gorm.DB
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

// CreateComment allows any authenticated user to comment on any post.
// Comments are approved on creation; there is no moderation queue.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required,min=2"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "comment content must be at least 2 characters")
		return
	}

	content := utils.Sanitize(req.Content)
	if len(strings.TrimSpace(content)) < 2 {
		utils.Error(ctx, http.StatusBadRequest, 40050, "comment content must be at least 2 characters")
		return
	}

	var post models.Post
	if err := c.db.Preload("User").First(&post, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	comment := models.Comment{
		PostID:   post.ID,
		UserID:   userID,
		Content:  content,
		Approved: true,
	}
	if err := c.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to create comment")
		return
	}

	if err := c.db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to load comment")
		return
	}

	utils.InvalidateByPrefix("cache:post:detail:" + strconv.Itoa(int(post.ID)))

	if comment.UserID != post.UserID {
		utils.NotifyNewComment(post.User.Email, post.User.Name, post.Title, comment.User.Name, comment.Content)
	}

	utils.Success(ctx, gin.H{"comment": comment})
}

// DeleteComment allows the comment owner to delete their comment. Violations
// answer a bare {"error": ...} body, unlike the enveloped responses elsewhere;
// existing clients key off that shape.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	var comment models.Comment
	if err := c.db.First(&comment, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40421, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to load comment")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40121, "unauthorized")
		return
	}
	if !policy.CanDeleteComment(userID, &comment) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "you do not have permission to delete this comment"})
		return
	}

	if err := c.db.Delete(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to delete comment")
		return
	}

	utils.InvalidateByPrefix("cache:post:detail:" + strconv.Itoa(int(comment.PostID)))

	utils.Success(ctx, gin.H{"message": "comment deleted", "post_id": comment.PostID})
}
