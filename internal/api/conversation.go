package api

import (
	"net/http"
	"strconv"

	"chatbot-api/backend/internal/service"
	"chatbot-api/backend/pkg/logger"
	"chatbot-api/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// ConversationHandler handles conversation listing and retrieval
type ConversationHandler struct {
	conversations *service.ConversationService
	logger        *logger.Logger
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversations *service.ConversationService, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{conversations: conversations, logger: log}
}

// List returns the authenticated user's conversations, most recent first
func (h *ConversationHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	summaries, err := h.conversations.List(c.Request.Context(), userID)
	if err != nil {
		h.logger.LogError(err, "Error listing conversations", "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list conversations"})
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// Create creates a new empty conversation
func (h *ConversationHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conversation, err := h.conversations.Create(c.Request.Context(), userID)
	if err != nil {
		h.logger.LogError(err, "Error creating conversation", "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conversation"})
		return
	}

	c.JSON(http.StatusCreated, conversation.ToResponse())
}

// Get returns one conversation with its messages in creation order
func (h *ConversationHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Conversation ID must be a number"})
		return
	}

	conversation, err := h.conversations.Get(c.Request.Context(), userID, uint(id))
	if err != nil {
		switch err {
		case service.ErrConversationNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		default:
			h.logger.LogError(err, "Error getting conversation", "user_id", userID, "conversation_id", id)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve conversation"})
		}
		return
	}

	c.JSON(http.StatusOK, conversation.ToResponse())
}
