package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler combines all handler types
type Handler struct {
	Auth     *AuthHandler
	Question *QuestionHandler
	Answer   *AnswerHandler
	Comment  *CommentHandler
	Tag      *TagHandler
	User     *UserHandler
	Search   *SearchHandler
	Stats    *StatsHandler
	Admin    *AdminHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(db),
		Question: NewQuestionHandler(db),
		Answer:   NewAnswerHandler(db),
		Comment:  NewCommentHandler(db),
		Tag:      NewTagHandler(db),
		User:     NewUserHandler(db),
		Search:   NewSearchHandler(db),
		Stats:    NewStatsHandler(db),
		Admin:    NewAdminHandler(db),
	}
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
