package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devoverflow/backend/internal/models"
)

type TagHandler struct {
	db *gorm.DB
}

func NewTagHandler(db *gorm.DB) *TagHandler {
	return &TagHandler{db: db}
}

var slugSpaces = regexp.MustCompile(`\s+`)

func slugify(name string) string {
	return slugSpaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// upsertTags resolves tag names to rows, creating missing tags and bumping
// usage counts on existing ones.
func upsertTags(db *gorm.DB, names []string) ([]models.Tag, error) {
	var tags []models.Tag
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}

		var tag models.Tag
		err := db.Where("name = ?", name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tag = models.Tag{
				Name:       name,
				Slug:       slugify(name),
				UsageCount: 1,
			}
			if err := db.Create(&tag).Error; err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		} else {
			tag.UsageCount++
			if err := db.Save(&tag).Error; err != nil {
				return nil, err
			}
		}

		tags = append(tags, tag)
	}
	return tags, nil
}

// GetTags returns all tags with sorting and search
func (h *TagHandler) GetTags(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	query := h.db.Model(&models.Tag{})

	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}

	order := "usage_count desc"
	switch c.DefaultQuery("sort", "popular") {
	case "name":
		order = "name asc"
	case "newest":
		order = "created_at desc"
	}

	var tags []models.Tag
	if err := query.Order(order).Limit(limit).Find(&tags).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tags"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tags":  tags,
		"total": len(tags),
	})
}

// CreateTag creates a tag explicitly (normally tags are created implicitly
// when used on a question)
func (h *TagHandler) CreateTag(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tag name is required"})
		return
	}

	name := strings.ToLower(strings.TrimSpace(input.Name))
	if name == "" || len(name) > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tag name must be between 1 and 50 characters"})
		return
	}

	var existing models.Tag
	if err := h.db.Where("name = ?", name).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Tag already exists"})
		return
	}

	tag := models.Tag{
		Name:        name,
		Slug:        slugify(name),
		Description: input.Description,
		Icon:        input.Icon,
	}
	if err := h.db.Create(&tag).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tag"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tag created successfully",
		"tag":     tag,
	})
}

// GetTag returns one tag with its questions
func (h *TagHandler) GetTag(c *gin.Context) {
	slug := c.Param("slug")

	var tag models.Tag
	if err := h.db.Where("slug = ?", slug).First(&tag).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
		return
	}

	var questions []models.Question
	h.db.Preload("User").Preload("Tags").
		Where("id IN (?)", h.db.Table("question_tags").Select("question_id").Where("tag_id = ?", tag.ID)).
		Order("created_at desc").Find(&questions)

	c.JSON(http.StatusOK, gin.H{
		"tag":       tag,
		"questions": questions,
	})
}
