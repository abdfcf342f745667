package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/clwei/goblog/models"
)

func TestCreateCommentRequiresAuth(t *testing.T) {
	r, db := setupTestAPI(t)
	token, _ := registerUser(t, r, "alice")
	category := createCategory(t, r, token, "General")
	post := createPost(t, r, token, category.ID, "A Post", true)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", post.ID), "", map[string]interface{}{
		"content": "drive-by comment",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("guest comment status = %d, want 401", w.Code)
	}

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	if count != 0 {
		t.Errorf("guest comment was persisted")
	}
}

func TestCreateCommentTooShort(t *testing.T) {
	r, db := setupTestAPI(t)
	token, _ := registerUser(t, r, "alice")
	category := createCategory(t, r, token, "General")
	post := createPost(t, r, token, category.ID, "A Post", true)

	for _, content := range []string{"", "x"} {
		w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", post.ID), token, map[string]interface{}{
			"content": content,
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("comment %q status = %d, want 400", content, w.Code)
		}
	}

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	if count != 0 {
		t.Errorf("short comment was persisted")
	}
}

func TestCreateCommentOnMissingPost(t *testing.T) {
	r, _ := setupTestAPI(t)
	token, _ := registerUser(t, r, "alice")

	w := doJSON(t, r, http.MethodPost, "/api/v1/posts/424242/comments", token, map[string]interface{}{
		"content": "hello there",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("comment on missing post status = %d, want 404", w.Code)
	}
}

func TestCreateCommentOnOthersPost(t *testing.T) {
	r, db := setupTestAPI(t)
	ownerToken, _ := registerUser(t, r, "alice")
	otherToken, otherID := registerUser(t, r, "bob")
	category := createCategory(t, r, ownerToken, "General")
	post := createPost(t, r, ownerToken, category.ID, "A Post", true)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", post.ID), otherToken, map[string]interface{}{
		"content": "commenting is open to everyone",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("comment status = %d body %s", w.Code, w.Body.String())
	}

	var comment models.Comment
	if err := db.First(&comment, "post_id = ?", post.ID).Error; err != nil {
		t.Fatalf("comment not stored: %v", err)
	}
	if comment.UserID != otherID {
		t.Errorf("comment author = %d, want %d", comment.UserID, otherID)
	}
	if !comment.Approved {
		t.Error("comment not approved on creation")
	}
}

func TestDeleteCommentOwnerOnly(t *testing.T) {
	r, db := setupTestAPI(t)
	authorToken, _ := registerUser(t, r, "alice")
	otherToken, _ := registerUser(t, r, "bob")
	category := createCategory(t, r, authorToken, "General")
	post := createPost(t, r, authorToken, category.ID, "A Post", true)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", post.ID), authorToken, map[string]interface{}{
		"content": "my own comment",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("comment create status = %d", w.Code)
	}
	var created struct {
		Comment models.Comment `json:"comment"`
	}
	decodeData(t, w, &created)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/comments/%d", created.Comment.ID), otherToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-owner comment delete status = %d, want 403", w.Code)
	}
	// Permission failures here answer a bare error body, not the envelope.
	var errBody map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &errBody); err != nil {
		t.Fatalf("403 body is not JSON: %s", w.Body.String())
	}
	if errBody["error"] == "" {
		t.Errorf("403 body missing error key: %s", w.Body.String())
	}

	var count int64
	db.Model(&models.Comment{}).Where("id = ?", created.Comment.ID).Count(&count)
	if count != 1 {
		t.Fatal("comment removed by non-owner delete")
	}

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/comments/%d", created.Comment.ID), authorToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner comment delete status = %d", w.Code)
	}
	var deleted struct {
		PostID uint `json:"post_id"`
	}
	decodeData(t, w, &deleted)
	if deleted.PostID != post.ID {
		t.Errorf("delete response post_id = %d, want %d", deleted.PostID, post.ID)
	}

	db.Model(&models.Comment{}).Where("id = ?", created.Comment.ID).Count(&count)
	if count != 0 {
		t.Error("comment survived owner delete")
	}
}

func TestDeleteCommentNotFound(t *testing.T) {
	r, _ := setupTestAPI(t)
	token, _ := registerUser(t, r, "alice")

	w := doJSON(t, r, http.MethodDelete, "/api/v1/comments/424242", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing comment delete status = %d, want 404", w.Code)
	}
}

func TestCommentContentSanitized(t *testing.T) {
	r, db := setupTestAPI(t)
	token, _ := registerUser(t, r, "alice")
	category := createCategory(t, r, token, "General")
	post := createPost(t, r, token, category.ID, "A Post", true)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", post.ID), token, map[string]interface{}{
		"content": `nice post<script>alert(1)</script>`,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("comment status = %d body %s", w.Code, w.Body.String())
	}

	var comment models.Comment
	db.First(&comment, "post_id = ?", post.ID)
	if comment.Content != "nice post" {
		t.Errorf("stored comment = %q, script tag not stripped", comment.Content)
	}
}
