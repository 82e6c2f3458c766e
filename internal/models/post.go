package models

import "time"

// Post represents a short text post. ReplyToID links replies to their parent
// post; it is nil for top-level posts.
//
// The composite (user_id, created_at) index backs the timeline query, which
// always filters by an author set and orders by creation time.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index:idx_posts_author_created,priority:1"`
	Content   string    `json:"content" gorm:"size:280"`
	ReplyToID *uint     `json:"reply_to_id,omitempty" gorm:"index"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_posts_author_created,priority:2"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content   string `json:"content" validate:"required,min=1,max=280"`
	ReplyToID *uint  `json:"reply_to_id,omitempty"`
}

// UpdatePostRequest defines the request body for editing a post
type UpdatePostRequest struct {
	Content string `json:"content" validate:"required,min=1,max=280"`
}
