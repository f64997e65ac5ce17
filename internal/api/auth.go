package api

import (
	"net/http"

	"chatbot-api/backend/internal/models"
	"chatbot-api/backend/internal/service"
	"chatbot-api/backend/pkg/logger"
	"chatbot-api/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	users  *service.UserService
	logger *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *service.UserService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{users: users, logger: log}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Error binding JSON for register", "error", err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid registration payload"})
		return
	}

	user, err := h.users.Register(&req)
	if err != nil {
		switch err {
		case service.ErrUsernameTaken:
			c.JSON(http.StatusConflict, gin.H{"error": "Username already registered"})
		case service.ErrEmailTaken:
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		default:
			h.logger.LogError(err, "Error creating user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user account"})
		}
		return
	}

	c.JSON(http.StatusCreated, user.ToResponse())
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Error binding JSON for login", "error", err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid login payload"})
		return
	}

	user, token, err := h.users.Login(&req)
	if err != nil {
		switch err {
		case service.ErrInvalidCredentials:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username or password"})
		default:
			h.logger.LogError(err, "Error during login")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during login"})
		}
		return
	}

	h.logger.Info("User logged in", "user_id", user.ID, "username", user.Username)

	c.JSON(http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Me returns the current authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	user, err := h.users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User no longer exists"})
		default:
			h.logger.LogError(err, "Error getting user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	c.JSON(http.StatusOK, user.ToResponse())
}
