package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devoverflow/backend/internal/models"
	"github.com/devoverflow/backend/internal/scoring"
)

type QuestionHandler struct {
	db *gorm.DB
}

func NewQuestionHandler(db *gorm.DB) *QuestionHandler {
	return &QuestionHandler{db: db}
}

func (h *QuestionHandler) answerCount(questionID int) int {
	var n int64
	h.db.Model(&models.Answer{}).Where("question_id = ?", questionID).Count(&n)
	return int(n)
}

// GetQuestions returns a paginated question list with sorting and filters
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := h.db.Model(&models.Question{})

	if tagSlug := c.Query("tag"); tagSlug != "" {
		var tag models.Tag
		if err := h.db.Where("slug = ?", tagSlug).First(&tag).Error; err == nil {
			query = query.Where(
				"id IN (?)",
				h.db.Table("question_tags").Select("question_id").Where("tag_id = ?", tag.ID),
			)
		}
	}

	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?)", pattern, pattern)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	sort := c.DefaultQuery("sort", "newest")
	order := "created_at desc"
	switch sort {
	case "oldest":
		order = "created_at asc"
	case "popular":
		order = "votes desc, views desc"
	case "views":
		order = "views desc"
	case "active":
		order = "updated_at desc"
	case "unanswered":
		query = query.Where("(SELECT COUNT(*) FROM answers WHERE answers.question_id = questions.id) = 0")
	}

	var total int64
	query.Count(&total)

	var questions []models.Question
	if err := query.Preload("User").Preload("Tags").
		Order(order).Offset((page - 1) * limit).Limit(limit).
		Find(&questions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch questions"})
		return
	}

	responses := []gin.H{}
	for _, q := range questions {
		responses = append(responses, gin.H{
			"id":           q.ID,
			"title":        q.Title,
			"content":      q.Content,
			"author_id":    q.AuthorID,
			"user":         q.User,
			"tags":         q.Tags,
			"views":        q.Views,
			"votes":        q.Votes,
			"status":       q.Status,
			"answer_count": h.answerCount(q.ID),
			"created_at":   q.CreatedAt,
			"updated_at":   q.UpdatedAt,
		})
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, gin.H{
		"questions": responses,
		"pagination": gin.H{
			"current_page":    page,
			"total_pages":     totalPages,
			"total_questions": total,
			"limit":           limit,
			"has_more":        page < totalPages,
		},
	})
}

// CreateQuestion creates a new question (PROTECTED - requires authentication)
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.IsBanned {
		c.JSON(http.StatusForbidden, gin.H{"error": "Your account has been banned. You cannot post questions."})
		return
	}

	var input struct {
		Title   string   `json:"title" binding:"required"`
		Content string   `json:"content" binding:"required"`
		Tags    []string `json:"tags"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content are required"})
		return
	}

	if len(input.Title) < 10 || len(input.Title) > 200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title must be between 10 and 200 characters"})
		return
	}
	if len(input.Content) < 30 || len(input.Content) > 10000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content must be between 30 and 10000 characters"})
		return
	}

	tags, err := upsertTags(h.db, input.Tags)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process tags"})
		return
	}

	question := models.Question{
		Title:    input.Title,
		Content:  input.Content,
		AuthorID: userID,
		Tags:     tags,
		Status:   models.StatusOpen,
	}

	if err := h.db.Create(&question).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create question"})
		return
	}

	h.db.Model(&user).UpdateColumn("last_active_at", time.Now())
	h.db.Preload("User").Preload("Tags").First(&question, question.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Question created successfully",
		"question": question,
	})
}

// GetQuestion returns a single question with its answers
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	questionID := c.Param("id")

	var question models.Question
	if err := h.db.Preload("User").Preload("Tags").First(&question, questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	userID, authed := extractUserID(c)

	// View counting skips the author viewing their own question
	if !authed || userID != question.AuthorID {
		question.Views++
		h.db.Model(&question).UpdateColumn("views", question.Views)
	}

	var answers []models.Answer
	h.db.Where("question_id = ?", question.ID).Preload("User").
		Order("votes desc, created_at desc").Find(&answers)

	response := gin.H{
		"id":                 question.ID,
		"title":              question.Title,
		"content":            question.Content,
		"author_id":          question.AuthorID,
		"user":               question.User,
		"tags":               question.Tags,
		"views":              question.Views,
		"votes":              question.Votes,
		"status":             question.Status,
		"accepted_answer_id": question.AcceptedAnswerID,
		"answers":            answers,
		"is_author":          authed && userID == question.AuthorID,
		"created_at":         question.CreatedAt,
		"updated_at":         question.UpdatedAt,
	}
	if authed {
		response["has_voted"] = gin.H{
			"upvoted":   question.UpvoterIDs.Contains(userID),
			"downvoted": question.DownvoterIDs.Contains(userID),
		}
	}

	c.JSON(http.StatusOK, response)
}

// UpdateQuestion updates a question (PROTECTED - requires ownership)
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	questionID := c.Param("id")

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var question models.Question
	if err := h.db.First(&question, questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	if question.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own questions"})
		return
	}

	if input.Title != "" {
		if len(input.Title) < 10 || len(input.Title) > 200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title must be between 10 and 200 characters"})
			return
		}
		question.Title = input.Title
	}
	if input.Content != "" {
		if len(input.Content) < 30 || len(input.Content) > 10000 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Content must be between 30 and 10000 characters"})
			return
		}
		question.Content = input.Content
	}

	if input.Tags != nil {
		tags, err := upsertTags(h.db, input.Tags)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process tags"})
			return
		}
		if err := h.db.Model(&question).Association("Tags").Replace(tags); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tags"})
			return
		}
	}

	if err := h.db.Save(&question).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update question"})
		return
	}

	h.db.Preload("User").Preload("Tags").First(&question, question.ID)
	c.JSON(http.StatusOK, gin.H{
		"message":  "Question updated successfully",
		"question": question,
	})
}

// DeleteQuestion deletes a question with its answers and comments
// (PROTECTED - requires ownership)
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID := c.Param("id")

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var question models.Question
	if err := h.db.First(&question, questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	if question.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own questions"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var answerIDs []int
		if err := tx.Model(&models.Answer{}).Where("question_id = ?", question.ID).
			Pluck("id", &answerIDs).Error; err != nil {
			return err
		}
		if len(answerIDs) > 0 {
			if err := tx.Where("parent_type = ? AND parent_id IN ?", models.ParentTypeAnswer, answerIDs).
				Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("question_id = ?", question.ID).Delete(&models.Answer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("parent_type = ? AND parent_id = ?", models.ParentTypeQuestion, question.ID).
			Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&question).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&question).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete question"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// VoteQuestion applies an upvote/downvote/remove action on a question
// (PROTECTED - requires authentication)
func (h *QuestionHandler) VoteQuestion(c *gin.Context) {
	questionID := c.Param("id")

	voterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		VoteType string `json:"vote_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": `Invalid vote type. Use "upvote", "downvote", or "remove"`})
		return
	}

	var question models.Question
	if err := h.db.First(&question, questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	var author models.User
	if err := h.db.First(&author, question.AuthorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question author not found"})
		return
	}

	result, err := scoring.ApplyVote(&question.VoteState, question.AuthorID, voterID,
		scoring.Action(input.VoteType), scoring.QuestionPoints)
	if err != nil {
		switch {
		case errors.Is(err, scoring.ErrSelfVote):
			c.JSON(http.StatusForbidden, gin.H{"error": "You cannot vote on your own question"})
		case errors.Is(err, scoring.ErrInvalidAction):
			c.JSON(http.StatusBadRequest, gin.H{"error": `Invalid vote type. Use "upvote", "downvote", or "remove"`})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record vote"})
		}
		return
	}

	scoring.ApplyReputation(&author, result.ReputationDelta)

	// Entity and author rows commit together or not at all.
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&question).Error; err != nil {
			return err
		}
		return tx.Save(&author).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record vote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vote recorded successfully",
		"question": gin.H{
			"id":            question.ID,
			"votes":         result.Votes,
			"has_upvoted":   result.State == scoring.VoterUpvoted,
			"has_downvoted": result.State == scoring.VoterDownvoted,
		},
		"author_reputation": author.Reputation,
	})
}
