package models

import "time"

// Comment is its own row referencing the post it belongs to. Comments are
// append-only: they are never edited or deleted, so insertion order is the
// display order.
type Comment struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	PostID   int    `gorm:"not null;index" json:"post_id"`
	AuthorID int    `gorm:"not null" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"-"`
	Text     string `gorm:"not null" json:"text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reply hangs off a single comment. Replies are addressed individually when
// appended, so each gets its own generated UUID instead of a serial id.
type Reply struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CommentID int    `gorm:"not null;index" json:"comment_id"`
	AuthorID  int    `gorm:"not null" json:"author_id"`
	Author    User   `gorm:"foreignKey:AuthorID" json:"-"`
	Text      string `gorm:"not null" json:"text"`

	CreatedAt time.Time `json:"created_at"`
}
