package models

import "time"

type Post struct {
	ID       int      `gorm:"primaryKey" json:"id"`
	Title    string   `gorm:"not null" json:"title"`
	Content  string   `gorm:"not null" json:"content"`
	Category string   `gorm:"not null" json:"category"`
	Tags     []string `gorm:"serializer:json" json:"tags"`

	AuthorID int  `gorm:"not null" json:"author_id"` // immutable after creation
	Author   User `gorm:"foreignKey:AuthorID" json:"-"`

	Likes        int `gorm:"default:0" json:"likes"`
	Views        int `gorm:"default:0" json:"views"`
	CommentCount int `gorm:"default:0" json:"comment_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreatePostRequest struct {
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Category string   `json:"category" binding:"required"`
	Tags     []string `json:"tags" binding:"required,min=1"`
}

// UpdatePostRequest carries a partial merge: only non-nil fields change.
type UpdatePostRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Category *string   `json:"category"`
	Tags     *[]string `json:"tags"`
}

type CreateCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

type CreateReplyRequest struct {
	Reply string `json:"reply" binding:"required"`
}
