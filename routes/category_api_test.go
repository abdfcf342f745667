package routes

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/clwei/goblog/models"
)

func TestCreateCategoryRequiresAuth(t *testing.T) {
	r, db := setupTestAPI(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/categories", "", map[string]interface{}{
		"name": "Anonymous Category",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("guest category create status = %d, want 401", w.Code)
	}

	var count int64
	db.Model(&models.Category{}).Count(&count)
	if count != 0 {
		t.Error("guest category was persisted")
	}
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	r, db := setupTestAPI(t)
	token, _ := registerUser(t, r, "alice")
	createCategory(t, r, token, "Tech News")

	w := doJSON(t, r, http.MethodPost, "/api/v1/categories", token, map[string]interface{}{
		"name": "Tech News",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate category status = %d, want 409", w.Code)
	}

	var count int64
	db.Model(&models.Category{}).Where("name = ?", "Tech News").Count(&count)
	if count != 1 {
		t.Errorf("category count = %d, want 1", count)
	}
}

func TestListCategories(t *testing.T) {
	r, _ := setupTestAPI(t)
	token, _ := registerUser(t, r, "alice")
	createCategory(t, r, token, "Zoology")
	createCategory(t, r, token, "Astronomy")

	w := doJSON(t, r, http.MethodGet, "/api/v1/categories", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list categories status = %d", w.Code)
	}
	var data struct {
		Items []models.Category `json:"items"`
	}
	decodeData(t, w, &data)
	if len(data.Items) != 2 {
		t.Fatalf("listing returned %d categories, want 2", len(data.Items))
	}
	if data.Items[0].Name != "Astronomy" {
		t.Errorf("categories not sorted by name: first is %q", data.Items[0].Name)
	}
}

func TestGetCategoryShowsOnlyPublishedPosts(t *testing.T) {
	r, _ := setupTestAPI(t)
	token, _ := registerUser(t, r, "alice")
	category := createCategory(t, r, token, "General")
	createPost(t, r, token, category.ID, "Visible Post", true)
	createPost(t, r, token, category.ID, "Hidden Draft", false)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/categories/%d", category.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get category status = %d", w.Code)
	}
	var data struct {
		Category models.Category `json:"category"`
		Posts    []models.Post   `json:"posts"`
	}
	decodeData(t, w, &data)
	if data.Category.ID != category.ID {
		t.Errorf("category id = %d, want %d", data.Category.ID, category.ID)
	}
	if len(data.Posts) != 1 || data.Posts[0].Title != "Visible Post" {
		t.Errorf("category posts = %+v, want only the published post", data.Posts)
	}
}

func TestUpdateCategoryReDerivesSlug(t *testing.T) {
	r, _ := setupTestAPI(t)
	token, _ := registerUser(t, r, "alice")
	category := createCategory(t, r, token, "Old Name")

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/categories/%d", category.ID), token, map[string]interface{}{
		"name": "Fresh Name",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update category status = %d body %s", w.Code, w.Body.String())
	}
	var data struct {
		Category models.Category `json:"category"`
	}
	decodeData(t, w, &data)
	if data.Category.Name != "Fresh Name" || data.Category.Slug != "fresh-name" {
		t.Errorf("updated category = %+v", data.Category)
	}
}

func TestDeleteCategoryBlockedWhenNotEmpty(t *testing.T) {
	r, db := setupTestAPI(t)
	token, _ := registerUser(t, r, "alice")
	category := createCategory(t, r, token, "Busy Category")
	post := createPost(t, r, token, category.ID, "Keeps It Alive", true)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", category.ID), token, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("non-empty category delete status = %d, want 409", w.Code)
	}

	var count int64
	db.Model(&models.Category{}).Where("id = ?", category.ID).Count(&count)
	if count != 1 {
		t.Error("category removed despite having posts")
	}
	db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count)
	if count != 1 {
		t.Error("post removed by blocked category delete")
	}
}

func TestDeleteEmptyCategory(t *testing.T) {
	r, db := setupTestAPI(t)
	token, _ := registerUser(t, r, "alice")
	category := createCategory(t, r, token, "Short Lived")

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", category.ID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("empty category delete status = %d body %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.Category{}).Where("id = ?", category.ID).Count(&count)
	if count != 0 {
		t.Error("empty category survived delete")
	}
}

func TestDeleteCategoryUnblocksAfterPostRemoval(t *testing.T) {
	r, _ := setupTestAPI(t)
	token, _ := registerUser(t, r, "alice")
	category := createCategory(t, r, token, "Emptied")
	post := createPost(t, r, token, category.ID, "Temporary Post", true)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", category.ID), token, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("delete before emptying status = %d, want 409", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", post.ID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("post delete status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", category.ID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete after emptying status = %d body %s", w.Code, w.Body.String())
	}
}
