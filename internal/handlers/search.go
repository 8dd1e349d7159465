package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devoverflow/backend/internal/models"
)

type SearchHandler struct {
	db *gorm.DB
}

func NewSearchHandler(db *gorm.DB) *SearchHandler {
	return &SearchHandler{db: db}
}

// Search runs a global substring search across questions, users, and tags
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		query = c.Query("query")
	}
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}
	if len(query) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query must be at least 2 characters"})
		return
	}

	searchType := c.DefaultQuery("type", "all")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	pattern := "%" + query + "%"
	results := gin.H{}
	total := 0

	if searchType == "all" || searchType == "questions" {
		var questions []models.Question
		h.db.Where("LOWER(title) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?)", pattern, pattern).
			Preload("User").Preload("Tags").
			Order("votes desc, created_at desc").Limit(limit).Find(&questions)

		items := []gin.H{}
		for _, q := range questions {
			var answerCount int64
			h.db.Model(&models.Answer{}).Where("question_id = ?", q.ID).Count(&answerCount)
			items = append(items, gin.H{
				"id":           q.ID,
				"title":        q.Title,
				"content":      q.Content,
				"votes":        q.Votes,
				"views":        q.Views,
				"status":       q.Status,
				"user":         q.User,
				"tags":         q.Tags,
				"answer_count": answerCount,
				"created_at":   q.CreatedAt,
			})
		}
		results["questions"] = items
		total += len(items)
	}

	if searchType == "all" || searchType == "users" {
		var users []models.User
		h.db.Where("LOWER(username) LIKE LOWER(?) OR LOWER(bio) LIKE LOWER(?)", pattern, pattern).
			Order("reputation desc").Limit(limit).Find(&users)

		items := []gin.H{}
		for _, u := range users {
			items = append(items, gin.H{
				"id":         u.ID,
				"username":   u.Username,
				"avatar":     u.Avatar,
				"bio":        u.Bio,
				"reputation": u.Reputation,
				"created_at": u.CreatedAt,
			})
		}
		results["users"] = items
		total += len(items)
	}

	if searchType == "all" || searchType == "tags" {
		var tags []models.Tag
		h.db.Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern).
			Order("usage_count desc").Limit(limit).Find(&tags)
		results["tags"] = tags
		total += len(tags)
	}

	c.JSON(http.StatusOK, gin.H{
		"query":         query,
		"type":          searchType,
		"total_results": total,
		"results":       results,
	})
}
