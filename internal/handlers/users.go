package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devoverflow/backend/internal/models"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// GetUsers lists community members sorted by reputation
func (h *UserHandler) GetUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := h.db.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(username) LIKE LOWER(?)", pattern)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Order("reputation desc, created_at asc").
		Offset((page - 1) * limit).Limit(limit).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	responses := []gin.H{}
	for _, u := range users {
		responses = append(responses, gin.H{
			"id":         u.ID,
			"username":   u.Username,
			"avatar":     u.Avatar,
			"bio":        u.Bio,
			"reputation": u.Reputation,
			"created_at": u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"users": responses,
		"pagination": gin.H{
			"current_page": page,
			"total_users":  total,
			"limit":        limit,
		},
	})
}

// GetUserProfile returns a user's public profile with activity counts
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var questionCount, answerCount, acceptedCount int64
	h.db.Model(&models.Question{}).Where("author_id = ?", user.ID).Count(&questionCount)
	h.db.Model(&models.Answer{}).Where("author_id = ?", user.ID).Count(&answerCount)
	h.db.Model(&models.Answer{}).Where("author_id = ? AND is_accepted = ?", user.ID, true).Count(&acceptedCount)

	var questions []models.Question
	h.db.Where("author_id = ?", user.ID).Preload("Tags").
		Order("created_at desc").Limit(10).Find(&questions)

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":             user.ID,
			"username":       user.Username,
			"avatar":         user.Avatar,
			"bio":            user.Bio,
			"reputation":     user.Reputation,
			"created_at":     user.CreatedAt,
			"last_active_at": user.LastActiveAt,
		},
		"question_count": questionCount,
		"answer_count":   answerCount,
		"accepted_count": acceptedCount,
		"questions":      questions,
	})
}

// UpdateUserProfile updates the caller's own profile (PROTECTED)
func (h *UserHandler) UpdateUserProfile(c *gin.Context) {
	userID := c.Param("id")

	authUserID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if strconv.Itoa(authUserID) != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only update your own profile"})
		return
	}

	var input struct {
		Username *string `json:"username"`
		Bio      *string `json:"bio"`
		Avatar   *string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if input.Username != nil {
		username := *input.Username
		if len(username) < 3 || len(username) > 30 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be between 3 and 30 characters"})
			return
		}
		var existing models.User
		if err := h.db.Where("username = ? AND id <> ?", username, user.ID).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
			return
		}
		user.Username = username
	}

	if input.Bio != nil {
		if len(*input.Bio) > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bio cannot exceed 500 characters"})
			return
		}
		user.Bio = *input.Bio
	}

	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}

	user.LastActiveAt = time.Now()
	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"avatar":     user.Avatar,
			"bio":        user.Bio,
			"reputation": user.Reputation,
		},
	})
}

// GetUserQuestions returns all questions by a user
func (h *UserHandler) GetUserQuestions(c *gin.Context) {
	userID := c.Param("id")

	var questions []models.Question
	if err := h.db.Where("author_id = ?", userID).Preload("User").Preload("Tags").
		Order("created_at desc").Find(&questions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user questions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// GetUserAnswers returns all answers by a user
func (h *UserHandler) GetUserAnswers(c *gin.Context) {
	userID := c.Param("id")

	var answers []models.Answer
	if err := h.db.Where("author_id = ?", userID).Preload("User").
		Order("created_at desc").Find(&answers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user answers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answers": answers})
}
