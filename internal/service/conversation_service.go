package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chatbot-api/backend/internal/models"
	"chatbot-api/backend/pkg/cache"

	"gorm.io/gorm"
)

// ErrConversationNotFound covers both a missing conversation and one owned by
// a different user, so existence is never leaked across accounts.
var ErrConversationNotFound = errors.New("conversation not found")

// ConversationService handles conversation and message persistence, always
// scoped to the owning user
type ConversationService struct {
	db    *gorm.DB
	cache cache.Store
}

// NewConversationService creates a new conversation service
func NewConversationService(db *gorm.DB, store cache.Store) *ConversationService {
	return &ConversationService{db: db, cache: store}
}

func listCacheKey(userID uint) string {
	return fmt.Sprintf("conversations:user:%d", userID)
}

// List returns the user's conversations, most recently updated first
func (s *ConversationService) List(ctx context.Context, userID uint) ([]models.ConversationSummary, error) {
	cacheKey := listCacheKey(userID)

	if s.cache != nil {
		if cached, found := s.cache.Get(ctx, cacheKey); found {
			var summaries []models.ConversationSummary
			if err := json.Unmarshal([]byte(cached), &summaries); err == nil {
				return summaries, nil
			}
		}
	}

	var conversations []models.Conversation
	if err := s.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&conversations).Error; err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, len(conversations))
	for i, c := range conversations {
		summaries[i] = c.ToSummary()
	}

	if s.cache != nil {
		if data, err := json.Marshal(summaries); err == nil {
			s.cache.Set(ctx, cacheKey, string(data))
		}
	}

	return summaries, nil
}

// Create creates an empty conversation with the placeholder title
func (s *ConversationService) Create(ctx context.Context, userID uint) (*models.Conversation, error) {
	conversation := models.Conversation{
		UserID: userID,
		Title:  models.DefaultTitle,
	}

	if err := s.db.Create(&conversation).Error; err != nil {
		return nil, err
	}

	s.invalidateList(ctx, userID)
	return &conversation, nil
}

// Get returns a conversation with its messages in creation order. The query
// filters by both conversation id and owning user, so a conversation owned by
// someone else looks identical to a missing one.
func (s *ConversationService) Get(ctx context.Context, userID, conversationID uint) (*models.Conversation, error) {
	var conversation models.Conversation
	result := s.db.
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("id = ? AND user_id = ?", conversationID, userID).
		First(&conversation)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, result.Error
	}

	return &conversation, nil
}

// AppendMessage appends one turn to a conversation and bumps its updated_at.
// The first user message also sets the conversation title.
func (s *ConversationService) AppendMessage(ctx context.Context, conversation *models.Conversation, role, content string) (*models.Message, error) {
	message := models.Message{
		ConversationID: conversation.ID,
		Role:           role,
		Content:        content,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Message{}).Where("conversation_id = ?", conversation.ID).Count(&count).Error; err != nil {
			return err
		}

		if err := tx.Create(&message).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{"updated_at": time.Now()}
		if count == 0 && role == models.RoleUser {
			conversation.Title = models.DeriveTitle(content)
			updates["title"] = conversation.Title
		}

		return tx.Model(&models.Conversation{}).Where("id = ?", conversation.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	conversation.Messages = append(conversation.Messages, message)
	conversation.UpdatedAt = message.CreatedAt

	s.invalidateList(ctx, conversation.UserID)
	return &message, nil
}

func (s *ConversationService) invalidateList(ctx context.Context, userID uint) {
	if s.cache != nil {
		s.cache.Delete(ctx, listCacheKey(userID))
	}
}
