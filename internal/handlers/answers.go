package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devoverflow/backend/internal/models"
	"github.com/devoverflow/backend/internal/scoring"
)

type AnswerHandler struct {
	db *gorm.DB
}

func NewAnswerHandler(db *gorm.DB) *AnswerHandler {
	return &AnswerHandler{db: db}
}

// CreateAnswer posts an answer to a question (PROTECTED)
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	questionID := c.Param("id")

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
		c.JSON(http.StatusForbidden, gin.H{"error": "Your account has been banned. You cannot post answers."})
		return
	}

	var input struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}
	if len(input.Content) < 20 || len(input.Content) > 10000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content must be between 20 and 10000 characters"})
		return
	}

	var question models.Question
	if err := h.db.First(&question, questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	if question.Status == models.StatusClosed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot answer a closed question"})
		return
	}

	answer := models.Answer{
		Content:    input.Content,
		AuthorID:   userID,
		QuestionID: question.ID,
	}

	if err := h.db.Create(&answer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create answer"})
		return
	}

	// New activity bumps the question
	h.db.Model(&question).UpdateColumn("updated_at", time.Now())
	h.db.Model(&user).UpdateColumn("last_active_at", time.Now())

	h.db.Preload("User").First(&answer, answer.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Answer created successfully",
		"answer":  answer,
	})
}

// GetAnswers returns all answers for a question
func (h *AnswerHandler) GetAnswers(c *gin.Context) {
	questionID := c.Param("id")

	order := "votes desc, created_at desc"
	switch c.DefaultQuery("sort", "votes") {
	case "oldest":
		order = "created_at asc"
	case "newest":
		order = "created_at desc"
	}

	var answers []models.Answer
	if err := h.db.Where("question_id = ?", questionID).Preload("User").
		Order(order).Find(&answers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch answers"})
		return
	}

	userID, authed := extractUserID(c)

	responses := []gin.H{}
	for _, a := range answers {
		responses = append(responses, gin.H{
			"id":          a.ID,
			"content":     a.Content,
			"author_id":   a.AuthorID,
			"question_id": a.QuestionID,
			"user":        a.User,
			"votes":       a.Votes,
			"is_accepted": a.IsAccepted,
			"is_author":   authed && userID == a.AuthorID,
			"created_at":  a.CreatedAt,
			"updated_at":  a.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"answers": responses})
}

// GetAnswer returns a single answer
func (h *AnswerHandler) GetAnswer(c *gin.Context) {
	answerID := c.Param("id")

	var answer models.Answer
	if err := h.db.Preload("User").First(&answer, answerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	userID, authed := extractUserID(c)

	response := gin.H{
		"id":          answer.ID,
		"content":     answer.Content,
		"author_id":   answer.AuthorID,
		"question_id": answer.QuestionID,
		"user":        answer.User,
		"votes":       answer.Votes,
		"is_accepted": answer.IsAccepted,
		"is_author":   authed && userID == answer.AuthorID,
		"created_at":  answer.CreatedAt,
		"updated_at":  answer.UpdatedAt,
	}
	if authed {
		response["has_voted"] = gin.H{
			"upvoted":   answer.UpvoterIDs.Contains(userID),
			"downvoted": answer.DownvoterIDs.Contains(userID),
		}
	}

	c.JSON(http.StatusOK, response)
}

// UpdateAnswer updates an answer (PROTECTED - requires ownership)
func (h *AnswerHandler) UpdateAnswer(c *gin.Context) {
	answerID := c.Param("id")

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.Content) < 20 || len(input.Content) > 10000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content must be between 20 and 10000 characters"})
		return
	}

	var answer models.Answer
	if err := h.db.First(&answer, answerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	if answer.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own answers"})
		return
	}

	answer.Content = input.Content
	if err := h.db.Save(&answer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update answer"})
		return
	}

	h.db.Preload("User").First(&answer, answer.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Answer updated successfully",
		"answer":  answer,
	})
}

// DeleteAnswer deletes an answer (PROTECTED - requires ownership). Deleting
// the accepted answer reopens the question.
func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	answerID := c.Param("id")

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var answer models.Answer
	if err := h.db.First(&answer, answerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	if answer.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own answers"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var question models.Question
		if err := tx.First(&question, answer.QuestionID).Error; err == nil {
			if question.AcceptedAnswerID != nil && *question.AcceptedAnswerID == answer.ID {
				question.AcceptedAnswerID = nil
				question.Status = models.StatusOpen
				if err := tx.Save(&question).Error; err != nil {
					return err
				}
			}
		}
		if err := tx.Where("parent_type = ? AND parent_id = ?", models.ParentTypeAnswer, answer.ID).
			Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&answer).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete answer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Answer deleted successfully"})
}

// VoteAnswer applies an upvote/downvote/remove action on an answer
// (PROTECTED - requires authentication)
func (h *AnswerHandler) VoteAnswer(c *gin.Context) {
	answerID := c.Param("id")

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

	var answer models.Answer
	if err := h.db.First(&answer, answerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	var author models.User
	if err := h.db.First(&author, answer.AuthorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer author not found"})
		return
	}

	result, err := scoring.ApplyVote(&answer.VoteState, answer.AuthorID, voterID,
		scoring.Action(input.VoteType), scoring.AnswerPoints)
	if err != nil {
		switch {
		case errors.Is(err, scoring.ErrSelfVote):
			c.JSON(http.StatusForbidden, gin.H{"error": "You cannot vote on your own answer"})
		case errors.Is(err, scoring.ErrInvalidAction):
			c.JSON(http.StatusBadRequest, gin.H{"error": `Invalid vote type. Use "upvote", "downvote", or "remove"`})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record vote"})
		}
		return
	}

	scoring.ApplyReputation(&author, result.ReputationDelta)

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&answer).Error; err != nil {
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
		"answer": gin.H{
			"id":            answer.ID,
			"votes":         result.Votes,
			"has_upvoted":   result.State == scoring.VoterUpvoted,
			"has_downvoted": result.State == scoring.VoterDownvoted,
		},
		"author_reputation": author.Reputation,
	})
}

// AcceptAnswer toggles acceptance of an answer (PROTECTED - question author
// only). Accepting while another answer is accepted displaces it: its author
// loses the acceptance points before the new author gains them.
func (h *AnswerHandler) AcceptAnswer(c *gin.Context) {
	answerID := c.Param("id")

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var answer models.Answer
	if err := h.db.First(&answer, answerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	var question models.Question
	if err := h.db.First(&question, answer.QuestionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	outcome, err := scoring.ToggleAccept(&question, &answer, userID)
	if err != nil {
		switch {
		case errors.Is(err, scoring.ErrNotQuestionAuthor):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the question author can accept answers"})
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		}
		return
	}

	var answerAuthor models.User
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if outcome.DisplacedAnswerID != nil {
			var previous models.Answer
			if err := tx.First(&previous, *outcome.DisplacedAnswerID).Error; err == nil {
				previous.IsAccepted = false
				if err := tx.Save(&previous).Error; err != nil {
					return err
				}
				var previousAuthor models.User
				if err := tx.First(&previousAuthor, previous.AuthorID).Error; err == nil {
					scoring.ApplyReputation(&previousAuthor, -scoring.AcceptedAnswerPoints)
					if err := tx.Save(&previousAuthor).Error; err != nil {
						return err
					}
				}
			}
		}

		// Read the author after any displacement so back-to-back accepts of
		// the same user's answers net out correctly.
		if err := tx.First(&answerAuthor, answer.AuthorID).Error; err != nil {
			return err
		}
		scoring.ApplyReputation(&answerAuthor, outcome.ReputationDelta)

		if err := tx.Save(&answerAuthor).Error; err != nil {
			return err
		}
		if err := tx.Save(&answer).Error; err != nil {
			return err
		}
		return tx.Save(&question).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Answer author not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept answer"})
		return
	}

	message := "Answer marked as accepted"
	if !outcome.Accepted {
		message = "Answer unmarked as accepted"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"answer": gin.H{
			"id":          answer.ID,
			"is_accepted": answer.IsAccepted,
		},
		"question": gin.H{
			"id":                 question.ID,
			"status":             question.Status,
			"accepted_answer_id": question.AcceptedAnswerID,
		},
		"author_reputation": answerAuthor.Reputation,
	})
}
