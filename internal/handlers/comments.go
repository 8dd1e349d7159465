package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devoverflow/backend/internal/models"
)

type CommentHandler struct {
	db *gorm.DB
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{db: db}
}

func (h *CommentHandler) parentExists(parentType string, parentID string) bool {
	var err error
	switch parentType {
	case models.ParentTypeQuestion:
		err = h.db.First(&models.Question{}, parentID).Error
	case models.ParentTypeAnswer:
		err = h.db.First(&models.Answer{}, parentID).Error
	default:
		return false
	}
	return err == nil
}

func (h *CommentHandler) createComment(c *gin.Context, parentType string) {
	parentID := c.Param("id")

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
	if len(input.Content) < 5 || len(input.Content) > 1000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment must be between 5 and 1000 characters"})
		return
	}

	if !h.parentExists(parentType, parentID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Parent not found"})
		return
	}

	id, err := strconv.Atoi(parentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	comment := models.Comment{
		Content:    input.Content,
		AuthorID:   userID,
		ParentType: parentType,
		ParentID:   id,
	}

	if err := h.db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	h.db.Preload("User").First(&comment, comment.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment created successfully",
		"comment": comment,
	})
}

func (h *CommentHandler) listComments(c *gin.Context, parentType string) {
	parentID := c.Param("id")

	var comments []models.Comment
	if err := h.db.Where("parent_type = ? AND parent_id = ?", parentType, parentID).
		Preload("User").Order("created_at asc").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// CreateQuestionComment posts a comment on a question (PROTECTED)
func (h *CommentHandler) CreateQuestionComment(c *gin.Context) {
	h.createComment(c, models.ParentTypeQuestion)
}

// GetQuestionComments lists a question's comments
func (h *CommentHandler) GetQuestionComments(c *gin.Context) {
	h.listComments(c, models.ParentTypeQuestion)
}

// CreateAnswerComment posts a comment on an answer (PROTECTED)
func (h *CommentHandler) CreateAnswerComment(c *gin.Context) {
	h.createComment(c, models.ParentTypeAnswer)
}

// GetAnswerComments lists an answer's comments
func (h *CommentHandler) GetAnswerComments(c *gin.Context) {
	h.listComments(c, models.ParentTypeAnswer)
}

// UpdateComment updates a comment (PROTECTED - requires ownership)
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	commentID := c.Param("id")

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
	if len(input.Content) < 5 || len(input.Content) > 1000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment must be between 5 and 1000 characters"})
		return
	}

	var comment models.Comment
	if err := h.db.First(&comment, commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if comment.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own comments"})
		return
	}

	comment.Content = input.Content
	if err := h.db.Save(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}

	h.db.Preload("User").First(&comment, comment.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Comment updated successfully",
		"comment": comment,
	})
}

// DeleteComment deletes a comment (PROTECTED - requires ownership)
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID := c.Param("id")

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var comment models.Comment
	if err := h.db.First(&comment, commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if comment.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own comments"})
		return
	}

	if err := h.db.Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
