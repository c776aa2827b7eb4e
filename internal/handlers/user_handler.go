package handlers

import (
	"net/http"

	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/models"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

type UserHandler struct {
	Users *store.Store[models.User]
}

type UserRequest struct {
	ID         string   `json:"id"`
	Username   string   `json:"username" binding:"required"`
	Email      string   `json:"email"`
	Password   string   `json:"password"` // required on create, optional on update
	Role       string   `json:"role" binding:"required"`
	Privileges []string `json:"privileges"`
}

// --- GET: /api/users (admin only) ---
func (h *UserHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.Users.All())
}

// --- POST: /api/users (admin only, create or update) ---
func (h *UserHandler) Save(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	switch req.Role {
	case models.RoleAdmin, models.RoleManager, models.RoleStaff:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}

	user := models.User{
		ID:         req.ID,
		Username:   req.Username,
		Email:      req.Email,
		Role:       req.Role,
		Privileges: datatypes.JSONSlice[string](req.Privileges),
	}

	if user.ID == "" {
		// New user: a password is mandatory
		if req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
			return
		}
		user.ID = uuid.NewString()
	} else if existing, found := h.Users.GetByID(user.ID); found {
		user.PasswordHash = existing.PasswordHash
		user.CreatedAt = existing.CreatedAt
	}

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user.PasswordHash = string(hash)
	}

	if err := h.Users.Save(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// --- DELETE: /api/users/:id (admin only) ---
func (h *UserHandler) Delete(c *gin.Context) {
	// An admin cannot delete their own account while logged in
	if c.GetString("userID") == c.Param("id") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account"})
		return
	}
	if err := h.Users.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
