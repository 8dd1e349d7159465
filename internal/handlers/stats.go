package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devoverflow/backend/internal/models"
)

type StatsHandler struct {
	db *gorm.DB
}

func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{db: db}
}

// GetStats returns community-wide counts
func (h *StatsHandler) GetStats(c *gin.Context) {
	var questions, answers, users, tags int64
	h.db.Model(&models.Question{}).Count(&questions)
	h.db.Model(&models.Answer{}).Count(&answers)
	h.db.Model(&models.User{}).Count(&users)
	h.db.Model(&models.Tag{}).Count(&tags)

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"questions": questions,
			"answers":   answers,
			"users":     users,
			"tags":      tags,
		},
	})
}
