package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/devoverflow/backend/internal/middleware"
	"github.com/devoverflow/backend/internal/models"
)

const testPassword = "password123"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Named shared-cache memory DB so the connection pool sees one schema.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Question{},
		&models.Answer{},
		&models.Comment{},
		&models.Tag{},
		&models.AdminSession{},
	)
	require.NoError(t, err, "migrate test database")

	return db
}

func newTestRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	h := NewHandler(db)
	r := gin.New()

	api := r.Group("/api")
	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)

	public := api.Group("")
	public.Use(middleware.OptionalAuthMiddleware())
	{
		public.GET("/questions", h.Question.GetQuestions)
		public.GET("/questions/:id", h.Question.GetQuestion)
		public.GET("/questions/:id/answers", h.Answer.GetAnswers)
		public.GET("/questions/:id/comments", h.Comment.GetQuestionComments)
		public.GET("/answers/:id", h.Answer.GetAnswer)
		public.GET("/tags", h.Tag.GetTags)
		public.GET("/tags/:slug", h.Tag.GetTag)
		public.GET("/users/:id", h.User.GetUserProfile)
		public.GET("/search", h.Search.Search)
		public.GET("/stats", h.Stats.GetStats)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/me", h.Auth.GetMe)
		protected.POST("/questions", h.Question.CreateQuestion)
		protected.PUT("/questions/:id", h.Question.UpdateQuestion)
		protected.DELETE("/questions/:id", h.Question.DeleteQuestion)
		protected.POST("/questions/:id/vote", h.Question.VoteQuestion)
		protected.POST("/questions/:id/answers", h.Answer.CreateAnswer)
		protected.POST("/questions/:id/comments", h.Comment.CreateQuestionComment)
		protected.POST("/answers/:id/vote", h.Answer.VoteAnswer)
		protected.POST("/answers/:id/accept", h.Answer.AcceptAnswer)
		protected.DELETE("/answers/:id", h.Answer.DeleteAnswer)
		protected.POST("/tags", h.Tag.CreateTag)
		protected.PUT("/comments/:id", h.Comment.UpdateComment)
		protected.DELETE("/comments/:id", h.Comment.DeleteComment)
		protected.PUT("/users/:id/profile", h.User.UpdateUserProfile)
	}

	admin := api.Group("/admin")
	admin.POST("/auth/login", h.Admin.Login)
	guarded := admin.Group("")
	guarded.Use(middleware.AdminAuthMiddleware(db))
	{
		guarded.GET("/users", h.Admin.GetUsers)
		guarded.POST("/users/:id/ban", h.Admin.BanUser)
	}

	return r
}

func createTestUser(t *testing.T, db *gorm.DB, username string, reputation int) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username:   username,
		Email:      username + "@example.com",
		Password:   string(hash),
		Reputation: reputation,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func authToken(t *testing.T, user models.User) string {
	t.Helper()
	token, err := generateToken(&user)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "decode response: %s", w.Body.String())
	return out
}
