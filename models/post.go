package models

import "time"

// Post is an article written by a user. The owning user is fixed at creation
// and never reassigned; the category may change on update.
type Post struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	CategoryID    uint      `gorm:"index;not null" json:"category_id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Slug          string    `gorm:"size:255;index;not null" json:"slug"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	Excerpt       string    `gorm:"type:text" json:"excerpt"`
	FeaturedImage string    `gorm:"size:512" json:"featured_image"`
	Published     bool      `gorm:"default:false;index" json:"published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	User          User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Category      Category  `json:"category"`
	Comments      []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments,omitempty"`
}
