// Package policy holds the authorization and content rules shared by every
// mutating endpoint. Identity is always passed in explicitly; nothing in this
// package reads request or session state.
package policy

import (
	"gorm.io/gorm"

	"github.com/clwei/goblog/models"
)

// AnonymousID is the requester id used for unauthenticated visitors. No stored
// row ever has id 0, so anonymous requesters fail every ownership check.
const AnonymousID uint = 0

// CanEditPost reports whether the requester may edit the post. Only the owning
// user may, and ownership never changes after creation.
func CanEditPost(requesterID uint, post *models.Post) bool {
	return requesterID != AnonymousID && requesterID == post.UserID
}

// CanDeletePost reports whether the requester may delete the post. Deletion
// shares the edit rule: ownership governs both mutations.
func CanDeletePost(requesterID uint, post *models.Post) bool {
	return CanEditPost(requesterID, post)
}

// CanDeleteComment reports whether the requester may delete the comment.
func CanDeleteComment(requesterID uint, comment *models.Comment) bool {
	return requesterID != AnonymousID && requesterID == comment.UserID
}

// CanDeleteCategory reports whether a category with the given number of posts
// may be deleted. Any authenticated user may delete an empty category; there
// is no ownership field on categories.
func CanDeleteCategory(postCount int64) bool {
	return postCount == 0
}

// VisiblePosts restricts a query to publicly visible posts. Visibility does
// not depend on the viewer: owners get no draft exception in listings either.
func VisiblePosts(db *gorm.DB) *gorm.DB {
	return db.Where("published = ?", true)
}
