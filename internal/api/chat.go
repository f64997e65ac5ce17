package api

import (
	"net/http"

	"chatbot-api/backend/internal/models"
	"chatbot-api/backend/internal/service"
	"chatbot-api/backend/pkg/logger"
	"chatbot-api/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles chat turns
type ChatHandler struct {
	chat   *service.ChatService
	logger *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *service.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: log}
}

// Chat runs one turn against the completion provider. Provider failures are
// absorbed by the orchestrator and come back as a normal assistant message,
// so this endpoint only errors when input is invalid or persistence fails.
func (h *ChatHandler) Chat(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Message is required"})
		return
	}

	resp, err := h.chat.Chat(c.Request.Context(), userID, &req)
	if err != nil {
		switch err {
		case service.ErrConversationNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		default:
			h.logger.LogError(err, "Error handling chat turn", "user_id", userID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process chat message"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
