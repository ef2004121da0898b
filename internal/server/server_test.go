package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/advncdblog/backend/internal/auth"
	"github.com/advncdblog/backend/internal/database"
	"github.com/advncdblog/backend/internal/handlers"
	"github.com/advncdblog/backend/internal/models"
)

type testService struct {
	db *gorm.DB
}

func (s *testService) Health() map[string]string { return map[string]string{"status": "up"} }
func (s *testService) Close() error              { return nil }
func (s *testService) GetDB() *gorm.DB           { return s.db }

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	tokens := auth.NewTokenService(db, []byte("test-secret"))
	s := &Server{
		db:      &testService{db: db},
		tokens:  tokens,
		handler: handlers.NewHandler(db, tokens),
	}

	return s.RegisterRoutes(), db
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func registerUser(t *testing.T, r *gin.Engine, username string) auth.TokenPair {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/v1/users/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var pair auth.TokenPair
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	return pair
}

func TestRegisterThenLogin(t *testing.T) {
	r, _ := newTestServer(t)

	registerUser(t, r, "alice")

	w := doJSON(t, r, http.MethodPost, "/api/v1/users/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	assert.True(t, env.Success)

	var pair auth.TokenPair
	require.NoError(t, json.Unmarshal(env.Data, &pair))
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestLoginWrongPassword(t *testing.T) {
	r, _ := newTestServer(t)
	registerUser(t, r, "alice")

	w := doJSON(t, r, http.MethodPost, "/api/v1/users/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid credentials", env.Message)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := newTestServer(t)
	registerUser(t, r, "alice")

	w := doJSON(t, r, http.MethodPost, "/api/v1/users/register", "", gin.H{
		"username": "alice2",
		"email":    "Alice@example.com", // emails are matched lowercased
		"password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMeHidesCredentials(t *testing.T) {
	r, _ := newTestServer(t)
	pair := registerUser(t, r, "alice")

	w := doJSON(t, r, http.MethodGet, "/api/v1/users/me", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &user))
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)

	body := w.Body.String()
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "refresh_token")
}

func TestProtectedEndpointRejectsMissingToken(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/blog", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTamperedTokenLeavesNoSideEffect(t *testing.T) {
	r, db := newTestServer(t)
	pair := registerUser(t, r, "alice")

	tampered := pair.AccessToken + "x"
	w := doJSON(t, r, http.MethodPost, "/api/v1/blog/new-blog", tampered, gin.H{
		"title":    "Should not exist",
		"content":  "body",
		"category": "go",
		"tags":     []string{"go"},
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMalformedBlogIDRejected(t *testing.T) {
	r, _ := newTestServer(t)
	pair := registerUser(t, r, "alice")

	w := doJSON(t, r, http.MethodPatch, "/api/v1/blog/not-a-number", pair.AccessToken, gin.H{
		"title": "new title",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, decode(t, w).Success)
}

type enrichedPostData struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Author   struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"author"`
	Comments []struct {
		ID   int    `json:"id"`
		Text string `json:"text"`
		User struct {
			Username string `json:"username"`
		} `json:"user"`
		Replies []struct {
			ID   string `json:"id"`
			Text string `json:"text"`
			User struct {
				Username string `json:"username"`
			} `json:"user"`
		} `json:"replies"`
	} `json:"comments"`
}

func TestBlogLifecycle(t *testing.T) {
	r, _ := newTestServer(t)
	alice := registerUser(t, r, "alice")
	bob := registerUser(t, r, "bob")

	// Create
	w := doJSON(t, r, http.MethodPost, "/api/v1/blog/new-blog", alice.AccessToken, gin.H{
		"title":    "Hello Go",
		"content":  "A post about Go.",
		"category": "programming",
		"tags":     []string{"go", "backend"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created enrichedPostData
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))
	assert.Equal(t, "alice", created.Author.Username)

	// Read: fresh post has an empty comment list
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/blog/%d", created.ID), bob.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var fetched enrichedPostData
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &fetched))
	require.NotNil(t, fetched.Comments)
	assert.Empty(t, fetched.Comments)

	// Comment
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/blog/%d/comments", created.ID), bob.AccessToken, gin.H{
		"comment": "Nice post!",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var commented enrichedPostData
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &commented))
	require.Len(t, commented.Comments, 1)
	assert.Equal(t, "Nice post!", commented.Comments[0].Text)
	assert.Equal(t, "bob", commented.Comments[0].User.Username)

	// Reply
	w = doJSON(t, r, http.MethodPost,
		fmt.Sprintf("/api/v1/blog/%d/comments/%d/reply", created.ID, commented.Comments[0].ID),
		alice.AccessToken, gin.H{"reply": "Thanks!"})
	require.Equal(t, http.StatusCreated, w.Code)

	var replied enrichedPostData
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &replied))
	require.Len(t, replied.Comments, 1)
	require.Len(t, replied.Comments[0].Replies, 1)
	assert.Equal(t, "Thanks!", replied.Comments[0].Replies[0].Text)
	assert.Equal(t, "alice", replied.Comments[0].Replies[0].User.Username)
	assert.NotEmpty(t, replied.Comments[0].Replies[0].ID)

	// Partial update
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/v1/blog/%d", created.ID), alice.AccessToken, gin.H{
		"title": "Hello Go, revised",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated enrichedPostData
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &updated))
	assert.Equal(t, "Hello Go, revised", updated.Title)
	assert.Equal(t, "A post about Go.", updated.Content)
}

func TestListBlogsDefaultsAndEnvelope(t *testing.T) {
	r, _ := newTestServer(t)
	alice := registerUser(t, r, "alice")

	w := doJSON(t, r, http.MethodPost, "/api/v1/blog/new-blog", alice.AccessToken, gin.H{
		"title":    "Only post",
		"content":  "body",
		"category": "go",
		"tags":     []string{"go"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Non-numeric paging falls back to page 1, limit 10
	w = doJSON(t, r, http.MethodGet, "/api/v1/blog?page=abc&limit=xyz", alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Page       int   `json:"page"`
		TotalPages int   `json:"totalPages"`
		TotalBlogs int64 `json:"totalBlogs"`
		Blogs      []struct {
			Title  string `json:"title"`
			Author struct {
				Username string `json:"username"`
			} `json:"author"`
		} `json:"blogs"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &page))
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, int64(1), page.TotalBlogs)
	require.Len(t, page.Blogs, 1)
	assert.Equal(t, "alice", page.Blogs[0].Author.Username)
}

func TestCreateBlogMissingFields(t *testing.T) {
	r, _ := newTestServer(t)
	alice := registerUser(t, r, "alice")

	w := doJSON(t, r, http.MethodPost, "/api/v1/blog/new-blog", alice.AccessToken, gin.H{
		"title": "No content",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Empty tag list counts as missing too
	w = doJSON(t, r, http.MethodPost, "/api/v1/blog/new-blog", alice.AccessToken, gin.H{
		"title":    "Has everything but tags",
		"content":  "body",
		"category": "go",
		"tags":     []string{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshTokenFlow(t *testing.T) {
	r, _ := newTestServer(t)
	pair := registerUser(t, r, "alice")

	w := doJSON(t, r, http.MethodPost, "/api/v1/users/refresh-token", "", gin.H{
		"refreshToken": pair.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var rotated auth.TokenPair
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &rotated))
	require.NotEmpty(t, rotated.AccessToken)

	// A garbage refresh token is rejected outright
	w = doJSON(t, r, http.MethodPost, "/api/v1/users/refresh-token", "", gin.H{
		"refreshToken": strings.Repeat("x", 32),
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
