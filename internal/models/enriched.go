package models

import "time"

// Author is the public slice of a user joined into enriched reads.
type Author struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	ProfileImage string `json:"profile_image,omitempty"`
}

type EnrichedReply struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	User      Author    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

type EnrichedComment struct {
	ID        int             `json:"id"`
	Text      string          `json:"text"`
	User      Author          `json:"user"`
	Replies   []EnrichedReply `json:"replies"`
	CreatedAt time.Time       `json:"created_at"`
}

// EnrichedPost is a post joined with its author and, on full reads, the whole
// comment/reply tree with every author resolved. Write paths return it too so
// clients never need a second round trip.
type EnrichedPost struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
	Likes        int       `json:"likes"`
	Views        int       `json:"views"`
	CommentCount int       `json:"comment_count"`
	Author       Author    `json:"author"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Nil on author-only reads (create/update), always non-nil on full reads.
	Comments []EnrichedComment `json:"comments,omitempty"`
}

// PostSummary is the one-line-author shape used by the paginated listing.
type PostSummary struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
	Likes        int       `json:"likes"`
	Views        int       `json:"views"`
	CommentCount int       `json:"comment_count"`
	Author       Author    `json:"author"`
	CreatedAt    time.Time `json:"created_at"`
}

type PostPage struct {
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	TotalBlogs int64         `json:"totalBlogs"`
	Blogs      []PostSummary `json:"blogs"`
}
