package routes

import (
	"fmt"
	"net/http"
	"testing"
)

func TestPostViewCounter(t *testing.T) {
	r, _ := setupTestAPI(t)
	token, _ := registerUser(t, r, "alice")
	category := createCategory(t, r, token, "General")
	post := createPost(t, r, token, category.ID, "Counted Post", true)

	for i := 0; i < 3; i++ {
		w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", post.ID), "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("post detail status = %d", w.Code)
		}
	}
	// 404s must not count
	doJSON(t, r, http.MethodGet, "/api/v1/posts/424242", "", nil)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d/stats", post.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("post stats status = %d", w.Code)
	}
	var data struct {
		Views         int64 `json:"views"`
		CommentsCount int64 `json:"comments_count"`
	}
	decodeData(t, w, &data)
	if data.Views != 3 {
		t.Errorf("views = %d, want 3", data.Views)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/posts/424242/stats", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("missing post stats status = %d", w.Code)
	}
	decodeData(t, w, &data)
	if data.Views != 0 {
		t.Errorf("missing post views = %d, want 0", data.Views)
	}
}

func TestSiteStats(t *testing.T) {
	r, _ := setupTestAPI(t)
	token, _ := registerUser(t, r, "alice")
	category := createCategory(t, r, token, "General")
	createPost(t, r, token, category.ID, "Published Post", true)
	createPost(t, r, token, category.ID, "Draft Post", false)

	w := doJSON(t, r, http.MethodGet, "/api/v1/stats", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d", w.Code)
	}
	var data struct {
		UserCount     int64 `json:"user_count"`
		PostCount     int64 `json:"post_count"`
		CategoryCount int64 `json:"category_count"`
	}
	decodeData(t, w, &data)
	if data.UserCount != 1 {
		t.Errorf("user_count = %d, want 1", data.UserCount)
	}
	if data.PostCount != 1 {
		t.Errorf("post_count = %d, want 1 (drafts excluded)", data.PostCount)
	}
	if data.CategoryCount != 1 {
		t.Errorf("category_count = %d, want 1", data.CategoryCount)
	}
}

func TestSiteMeta(t *testing.T) {
	r, _ := setupTestAPI(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/meta", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("meta status = %d", w.Code)
	}
	var data struct {
		Title   string `json:"title"`
		Uploads struct {
			MaxSizeMB int `json:"max_size_mb"`
		} `json:"uploads"`
	}
	decodeData(t, w, &data)
	if data.Title == "" {
		t.Error("meta returned empty title")
	}
	if data.Uploads.MaxSizeMB <= 0 {
		t.Errorf("meta upload max_size_mb = %d", data.Uploads.MaxSizeMB)
	}
}
