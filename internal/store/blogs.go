package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/advncdblog/backend/internal/models"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// BlogStore is the content store plus the enrichment pipeline: every read and
// write path hands back posts already joined with author details, and the
// full reads reconstruct the whole comment/reply tree in a bounded number of
// batched queries.
type BlogStore struct {
	db *gorm.DB
}

func NewBlogStore(db *gorm.DB) *BlogStore {
	return &BlogStore{db: db}
}

// Create persists a new post and re-reads it joined with its author, so the
// write path returns the same shape as a read.
func (s *BlogStore) Create(ctx context.Context, authorID int, title, content, category string, tags []string) (*models.EnrichedPost, error) {
	post := models.Post{
		Title:    title,
		Content:  content,
		Category: category,
		Tags:     tags,
		AuthorID: authorID,
	}

	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	return s.getWithAuthor(ctx, post.ID)
}

// GetEnriched loads a post with its full nested tree. Comments and replies
// come back in insertion order, and every author across all three levels is
// resolved in a single flattened lookup rather than one query per row.
func (s *BlogStore) GetEnriched(ctx context.Context, id int) (*models.EnrichedPost, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("loading post: %w", err)
	}

	var comments []models.Comment
	if err := s.db.WithContext(ctx).
		Where("post_id = ?", post.ID).
		Order("created_at, id").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("loading comments: %w", err)
	}

	var replies []models.Reply
	if len(comments) > 0 {
		commentIDs := make([]int, len(comments))
		for i, c := range comments {
			commentIDs[i] = c.ID
		}
		if err := s.db.WithContext(ctx).
			Where("comment_id IN ?", commentIDs).
			Order("created_at, id").
			Find(&replies).Error; err != nil {
			return nil, fmt.Errorf("loading replies: %w", err)
		}
	}

	authorIDs := make([]int, 0, 1+len(comments)+len(replies))
	authorIDs = append(authorIDs, post.AuthorID)
	for _, c := range comments {
		authorIDs = append(authorIDs, c.AuthorID)
	}
	for _, r := range replies {
		authorIDs = append(authorIDs, r.AuthorID)
	}
	authors, err := s.loadAuthors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	repliesByComment := make(map[int][]models.EnrichedReply)
	for _, r := range replies {
		repliesByComment[r.CommentID] = append(repliesByComment[r.CommentID], models.EnrichedReply{
			ID:        r.ID,
			Text:      r.Text,
			User:      authors[r.AuthorID],
			CreatedAt: r.CreatedAt,
		})
	}

	enriched := enrichPost(&post, authors)
	enriched.Comments = make([]models.EnrichedComment, 0, len(comments))
	for _, c := range comments {
		rs := repliesByComment[c.ID]
		if rs == nil {
			rs = []models.EnrichedReply{}
		}
		enriched.Comments = append(enriched.Comments, models.EnrichedComment{
			ID:        c.ID,
			Text:      c.Text,
			User:      authors[c.AuthorID],
			Replies:   rs,
			CreatedAt: c.CreatedAt,
		})
	}

	return enriched, nil
}

// List returns posts newest-first with skip/limit pagination and a one-line
// author summary per post.
func (s *BlogStore) List(ctx context.Context, page, pageSize int) (*models.PostPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting posts: %w", err)
	}

	var posts []models.Post
	if err := s.db.WithContext(ctx).
		Order("created_at desc, id desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	authorIDs := make([]int, len(posts))
	for i, p := range posts {
		authorIDs[i] = p.AuthorID
	}
	authors, err := s.loadAuthors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	blogs := make([]models.PostSummary, 0, len(posts))
	for _, p := range posts {
		blogs = append(blogs, models.PostSummary{
			ID:           p.ID,
			Title:        p.Title,
			Content:      p.Content,
			Category:     p.Category,
			Tags:         p.Tags,
			Likes:        p.Likes,
			Views:        p.Views,
			CommentCount: p.CommentCount,
			Author:       authors[p.AuthorID],
			CreatedAt:    p.CreatedAt,
		})
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &models.PostPage{
		Page:       page,
		TotalPages: totalPages,
		TotalBlogs: total,
		Blogs:      blogs,
	}, nil
}

// Update applies a partial field merge and returns the author-joined record
// without its comment tree.
func (s *BlogStore) Update(ctx context.Context, id int, req models.UpdatePostRequest) (*models.EnrichedPost, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("loading post: %w", err)
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Category != nil {
		post.Category = *req.Category
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
	}

	if err := s.db.WithContext(ctx).Save(&post).Error; err != nil {
		return nil, fmt.Errorf("updating post: %w", err)
	}

	return s.getWithAuthor(ctx, post.ID)
}

// AddComment appends a comment to a post. The comment row and the post's
// comment counter land in one transaction, so callers never observe a
// half-applied append.
func (s *BlogStore) AddComment(ctx context.Context, postID, authorID int, text string) (*models.EnrichedPost, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("loading post: %w", err)
		}

		comment := models.Comment{
			PostID:   post.ID,
			AuthorID: authorID,
			Text:     text,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return fmt.Errorf("creating comment: %w", err)
		}

		if err := tx.Model(&post).
			Update("comment_count", gorm.Expr("comment_count + 1")).Error; err != nil {
			return fmt.Errorf("updating comment count: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetEnriched(ctx, postID)
}

// AddReply appends a reply to a specific comment of a post. The reply gets a
// freshly generated UUID so it can be addressed individually later.
func (s *BlogStore) AddReply(ctx context.Context, postID, commentID, authorID int, text string) (*models.EnrichedPost, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("loading post: %w", err)
		}

		var comment models.Comment
		if err := tx.Where("id = ? AND post_id = ?", commentID, postID).
			First(&comment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return fmt.Errorf("loading comment: %w", err)
		}

		reply := models.Reply{
			ID:        uuid.NewString(),
			CommentID: comment.ID,
			AuthorID:  authorID,
			Text:      text,
		}
		if err := tx.Create(&reply).Error; err != nil {
			return fmt.Errorf("creating reply: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetEnriched(ctx, postID)
}

// getWithAuthor joins the author but skips the comment tree.
func (s *BlogStore) getWithAuthor(ctx context.Context, id int) (*models.EnrichedPost, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("loading post: %w", err)
	}

	authors, err := s.loadAuthors(ctx, []int{post.AuthorID})
	if err != nil {
		return nil, err
	}

	return enrichPost(&post, authors), nil
}

// loadAuthors resolves a key set of user ids to public author blocks in one
// query. Duplicate ids are collapsed before hitting the database.
func (s *BlogStore) loadAuthors(ctx context.Context, ids []int) (map[int]models.Author, error) {
	seen := make(map[int]struct{}, len(ids))
	unique := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	authors := make(map[int]models.Author, len(unique))
	if len(unique) == 0 {
		return authors, nil
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", unique).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("loading authors: %w", err)
	}

	for _, u := range users {
		authors[u.ID] = models.Author{
			ID:           u.ID,
			Username:     u.Username,
			Email:        u.Email,
			ProfileImage: u.ProfileImage,
		}
	}

	return authors, nil
}

func enrichPost(post *models.Post, authors map[int]models.Author) *models.EnrichedPost {
	return &models.EnrichedPost{
		ID:           post.ID,
		Title:        post.Title,
		Content:      post.Content,
		Category:     post.Category,
		Tags:         post.Tags,
		Likes:        post.Likes,
		Views:        post.Views,
		CommentCount: post.CommentCount,
		Author:       authors[post.AuthorID],
		CreatedAt:    post.CreatedAt,
		UpdatedAt:    post.UpdatedAt,
	}
}
