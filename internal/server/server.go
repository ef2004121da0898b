package server

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/advncdblog/backend/internal/auth"
	"github.com/advncdblog/backend/internal/database"
	"github.com/advncdblog/backend/internal/handlers"
	"github.com/advncdblog/backend/internal/middleware"
)

type Server struct {
	db      database.Service
	tokens  *auth.TokenService
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Signing secret is required at process start
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	db := database.New()

	tokens := auth.NewTokenService(db.GetDB(), []byte(secret))
	handler := handlers.NewHandler(db.GetDB(), tokens)

	newServer := &Server{
		db:      db,
		tokens:  tokens,
		handler: handler,
	}

	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("Server starting on port %s", port)

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Probe endpoints
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Advncd Blog API running")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	api := r.Group("/api/v1")

	users := api.Group("/users")
	{
		users.POST("/register", s.handler.Auth.Register)
		users.POST("/login", s.handler.Auth.Login)
		users.POST("/refresh-token", s.handler.Auth.Refresh)
		users.GET("/me", middleware.AuthMiddleware(s.tokens), s.handler.Auth.GetMe)
	}

	blog := api.Group("/blog")
	blog.Use(middleware.AuthMiddleware(s.tokens))
	{
		blog.GET("", s.handler.Blog.GetBlogs)
		blog.POST("/new-blog", s.handler.Blog.CreateBlog)
		blog.GET("/:blogId", s.handler.Blog.GetBlog)
		blog.PATCH("/:blogId", s.handler.Blog.UpdateBlog)
		blog.POST("/:blogId/comments", s.handler.Blog.AddComment)
		blog.POST("/:blogId/comments/:commentId/reply", s.handler.Blog.AddReply)
	}

	return r
}
