package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/devoverflow/backend/internal/database"
	"github.com/devoverflow/backend/internal/handlers"
	"github.com/devoverflow/backend/internal/middleware"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Initialize database
	db := database.New()

	// Create unified handler
	handler := handlers.NewHandler(db.GetDB())

	// Create server instance
	newServer := &Server{
		db:      db,
		handler: handler,
	}

	// Configure Gin router
	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

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

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)
		api.POST("/logout", s.handler.Auth.Logout)

		// Public reads carry the viewer's identity when a token is present
		public := api.Group("")
		public.Use(middleware.OptionalAuthMiddleware())
		{
			public.GET("/questions", s.handler.Question.GetQuestions)
			public.GET("/questions/:id", s.handler.Question.GetQuestion)
			public.GET("/questions/:id/answers", s.handler.Answer.GetAnswers)
			public.GET("/questions/:id/comments", s.handler.Comment.GetQuestionComments)
			public.GET("/answers/:id", s.handler.Answer.GetAnswer)
			public.GET("/answers/:id/comments", s.handler.Comment.GetAnswerComments)
			public.GET("/tags", s.handler.Tag.GetTags)
			public.GET("/tags/:slug", s.handler.Tag.GetTag)
			public.GET("/users", s.handler.User.GetUsers)
			public.GET("/users/:id", s.handler.User.GetUserProfile)
			public.GET("/users/:id/questions", s.handler.User.GetUserQuestions)
			public.GET("/users/:id/answers", s.handler.User.GetUserAnswers)
			public.GET("/search", s.handler.Search.Search)
			public.GET("/stats", s.handler.Stats.GetStats)
		}

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/me", s.handler.Auth.GetMe)

			protected.POST("/questions", s.handler.Question.CreateQuestion)
			protected.PUT("/questions/:id", s.handler.Question.UpdateQuestion)
			protected.DELETE("/questions/:id", s.handler.Question.DeleteQuestion)
			protected.POST("/questions/:id/vote", s.handler.Question.VoteQuestion)
			protected.POST("/questions/:id/answers", s.handler.Answer.CreateAnswer)
			protected.POST("/questions/:id/comments", s.handler.Comment.CreateQuestionComment)

			protected.PUT("/answers/:id", s.handler.Answer.UpdateAnswer)
			protected.DELETE("/answers/:id", s.handler.Answer.DeleteAnswer)
			protected.POST("/answers/:id/vote", s.handler.Answer.VoteAnswer)
			protected.POST("/answers/:id/accept", s.handler.Answer.AcceptAnswer)
			protected.POST("/answers/:id/comments", s.handler.Comment.CreateAnswerComment)

			protected.PUT("/comments/:id", s.handler.Comment.UpdateComment)
			protected.DELETE("/comments/:id", s.handler.Comment.DeleteComment)

			protected.PUT("/users/:id/profile", s.handler.User.UpdateUserProfile)

			protected.POST("/tags", s.handler.Tag.CreateTag)
		}

		// Moderation console
		admin := api.Group("/admin")
		{
			admin.POST("/auth/login", s.handler.Admin.Login)
			admin.POST("/auth/logout", s.handler.Admin.Logout)

			guarded := admin.Group("")
			guarded.Use(middleware.AdminAuthMiddleware(s.db.GetDB()))
			{
				guarded.GET("/users", s.handler.Admin.GetUsers)
				guarded.POST("/users/:id/ban", s.handler.Admin.BanUser)
			}
		}
	}

	return r
}
