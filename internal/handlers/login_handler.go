package handlers

import (
	"net/http"

	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/auth"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/models"
	"github.com/regalenterprisesin/regal-jan-seva-erp-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler owns login/logout/session. All user lookups go through the
// session gate, which in turn only talks to the synchronizing user store.
type AuthHandler struct {
	Gate   *auth.SessionGate
	Tokens *auth.Tokens
	Users  *store.Store[models.User]
}

// --- POST: /login ---
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginRequest
	// 1. Validate Input JSON
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// 2. Check credentials. Wrong password and unknown user look identical.
	user, err := h.Gate.Login(input.Username, input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist session"})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// 3. Generate JWT Token
	token, err := h.Tokens.Generate(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"role":       user.Role,
		"username":   user.Username,
		"privileges": user.Privileges,
	})
}

// --- GET: /api/session ---
func (h *AuthHandler) Session(c *gin.Context) {
	user := h.Gate.Current()
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// --- POST: /api/logout ---
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Gate.Set(nil); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// --- POST: /register (only when ALLOW_REGISTRATION=true) ---
func (h *AuthHandler) Register(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// Usernames are unique across the collection
	for _, existing := range h.Users.All() {
		if existing.Username == input.Username {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleAdmin, // registration is a bootstrap door, admin only
	}

	if err := h.Users.Save(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully!"})
}
