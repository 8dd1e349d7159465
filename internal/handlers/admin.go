package handlers

import (
	"crypto/subtle"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devoverflow/backend/internal/models"
)

type AdminHandler struct {
	db *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

const adminSessionDuration = 12 * time.Hour

// Login authenticates the moderation console against ADMIN_USERNAME and
// ADMIN_PASSWORD and issues an opaque session token cookie.
func (h *AdminHandler) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	wantUser := os.Getenv("ADMIN_USERNAME")
	wantPass := os.Getenv("ADMIN_PASSWORD")
	if wantUser == "" || wantPass == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Admin access is not configured"})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(input.Username), []byte(wantUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(input.Password), []byte(wantPass)) == 1
	if !userOK || !passOK {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	session := models.AdminSession{
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(adminSessionDuration),
	}
	if err := h.db.Create(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.SetCookie("admin_token", session.Token, int(adminSessionDuration.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Admin login successful"})
}

// Logout revokes the current admin session.
func (h *AdminHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie("admin_token"); err == nil && token != "" {
		h.db.Where("token = ?", token).Delete(&models.AdminSession{})
	}
	c.SetCookie("admin_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetUsers lists all users for moderation (ADMIN)
func (h *AdminHandler) GetUsers(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("created_at desc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	responses := []gin.H{}
	for _, u := range users {
		responses = append(responses, gin.H{
			"id":             u.ID,
			"username":       u.Username,
			"email":          u.Email,
			"reputation":     u.Reputation,
			"is_banned":      u.IsBanned,
			"banned_at":      u.BannedAt,
			"created_at":     u.CreatedAt,
			"last_active_at": u.LastActiveAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": responses})
}

// BanUser toggles a user's banned state (ADMIN)
func (h *AdminHandler) BanUser(c *gin.Context) {
	userID := c.Param("id")

	var input struct {
		Action string `json:"action" binding:"required,oneof=ban unban"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if input.Action == "ban" {
		now := time.Now()
		user.IsBanned = true
		user.BannedAt = &now
	} else {
		user.IsBanned = false
		user.BannedAt = nil
	}

	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user status"})
		return
	}

	message := "User banned successfully"
	if input.Action == "unban" {
		message = "User unbanned successfully"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"is_banned": user.IsBanned,
			"banned_at": user.BannedAt,
		},
	})
}
