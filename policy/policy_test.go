package policy

import (
	"testing"

	"github.com/clwei/goblog/models"
)

func TestCanEditPost(t *testing.T) {
	post := &models.Post{ID: 1, UserID: 7}

	cases := []struct {
		name      string
		requester uint
		want      bool
	}{
		{"owner", 7, true},
		{"other user", 8, false},
		{"anonymous", AnonymousID, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanEditPost(tc.requester, post); got != tc.want {
				t.Errorf("CanEditPost(%d) = %v, want %v", tc.requester, got, tc.want)
			}
			// Deletion is intentionally governed by the same rule.
			if got := CanDeletePost(tc.requester, post); got != tc.want {
				t.Errorf("CanDeletePost(%d) = %v, want %v", tc.requester, got, tc.want)
			}
		})
	}
}

func TestCanEditPostAnonymousOwnedRow(t *testing.T) {
	// Even if a row somehow carried owner id 0, anonymous must not match it.
	post := &models.Post{ID: 1, UserID: 0}
	if CanEditPost(AnonymousID, post) {
		t.Error("anonymous requester must never pass an ownership check")
	}
}

func TestCanDeleteComment(t *testing.T) {
	comment := &models.Comment{ID: 3, UserID: 5, PostID: 1}

	if !CanDeleteComment(5, comment) {
		t.Error("owner should be allowed to delete their comment")
	}
	if CanDeleteComment(6, comment) {
		t.Error("non-owner must not delete another user's comment")
	}
	if CanDeleteComment(AnonymousID, comment) {
		t.Error("anonymous must not delete comments")
	}
}

func TestCanDeleteCategory(t *testing.T) {
	if !CanDeleteCategory(0) {
		t.Error("empty category should be deletable")
	}
	for _, n := range []int64{1, 2, 100} {
		if CanDeleteCategory(n) {
			t.Errorf("category with %d posts must not be deletable", n)
		}
	}
}
