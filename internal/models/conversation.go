package models

import (
	"time"
	"unicode/utf8"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultTitle is the placeholder title before the first user message arrives
const DefaultTitle = "New Conversation"

// titleMaxLen bounds the derived title length, in runes
const titleMaxLen = 50

// Conversation represents a message thread owned by a user
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []Message `json:"messages,omitempty"`
}

// Message represents one turn within a conversation
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"index;not null" json:"conversation_id"`
	Role           string    `gorm:"not null" json:"role"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationSummary is the list-view shape of a conversation
type ConversationSummary struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConversationResponse is the detail-view shape of a conversation
type ConversationResponse struct {
	ID        uint              `json:"id"`
	Title     string            `json:"title"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Messages  []MessageResponse `json:"messages"`
}

// MessageResponse is the wire shape of a message
type MessageResponse struct {
	ID        uint      `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatRequest is the request structure for a chat turn
type ChatRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID uint   `json:"conversation_id"`
}

// ChatResponse is the response structure for a chat turn
type ChatResponse struct {
	Message        string `json:"message"`
	ConversationID uint   `json:"conversation_id"`
	MessageID      uint   `json:"message_id"`
}

// DeriveTitle builds a conversation title from the first user message,
// truncating long content to a readable prefix
func DeriveTitle(content string) string {
	if utf8.RuneCountInString(content) <= titleMaxLen {
		return content
	}
	runes := []rune(content)
	return string(runes[:titleMaxLen]) + "..."
}

// ToSummary converts a Conversation to its list-view shape
func (c *Conversation) ToSummary() ConversationSummary {
	return ConversationSummary{
		ID:        c.ID,
		Title:     c.Title,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToResponse converts a Conversation with its messages to the detail shape
func (c *Conversation) ToResponse() ConversationResponse {
	messages := make([]MessageResponse, len(c.Messages))
	for i, m := range c.Messages {
		messages[i] = MessageResponse{
			ID:        m.ID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		}
	}
	return ConversationResponse{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Messages:  messages,
	}
}
