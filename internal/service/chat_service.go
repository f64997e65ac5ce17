package service

import (
	"context"
	"time"

	"chatbot-api/backend/ai"
	"chatbot-api/backend/internal/models"
	"chatbot-api/backend/pkg/logger"
	"chatbot-api/backend/pkg/observability"
	"chatbot-api/backend/pkg/resilience"
)

// ChatServiceConfig holds orchestration settings
type ChatServiceConfig struct {
	// HistoryLimit bounds how many turns of context are sent to the
	// provider; older turns are dropped first.
	HistoryLimit int
	// FallbackMessage is persisted as the assistant turn when the provider
	// call fails.
	FallbackMessage string
}

// ChatService orchestrates one chat turn: resolve the target conversation,
// durably persist the user's message, call the completion provider, and
// persist the reply (or the fallback) as the assistant turn.
type ChatService struct {
	conversations *ConversationService
	completer     ai.Completer
	breaker       *resilience.CircuitBreaker
	metrics       *observability.Metrics
	log           *logger.Logger
	config        ChatServiceConfig
}

// NewChatService creates a new chat orchestrator
func NewChatService(
	conversations *ConversationService,
	completer ai.Completer,
	breaker *resilience.CircuitBreaker,
	metrics *observability.Metrics,
	log *logger.Logger,
	config ChatServiceConfig,
) *ChatService {
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = 50
	}
	if config.FallbackMessage == "" {
		config.FallbackMessage = "Sorry, I couldn't generate a response right now. Please try again."
	}
	return &ChatService{
		conversations: conversations,
		completer:     completer,
		breaker:       breaker,
		metrics:       metrics,
		log:           log,
		config:        config,
	}
}

// resolution tags whether the chat turn targets an existing conversation or
// had to create one, keeping the implicit-create side effect explicit.
type resolution struct {
	Conversation *models.Conversation
	Created      bool
}

func (s *ChatService) resolveConversation(ctx context.Context, userID, conversationID uint) (*resolution, error) {
	if conversationID != 0 {
		conversation, err := s.conversations.Get(ctx, userID, conversationID)
		if err != nil {
			return nil, err
		}
		return &resolution{Conversation: conversation}, nil
	}

	conversation, err := s.conversations.Create(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &resolution{Conversation: conversation, Created: true}, nil
}

// Chat runs one turn of the conversation. The user's message is persisted
// before the provider is called, so a provider failure never loses input;
// the failure surfaces as exactly one fallback assistant turn.
func (s *ChatService) Chat(ctx context.Context, userID uint, req *models.ChatRequest) (*models.ChatResponse, error) {
	resolved, err := s.resolveConversation(ctx, userID, req.ConversationID)
	if err != nil {
		return nil, err
	}
	conversation := resolved.Conversation

	if _, err := s.conversations.AppendMessage(ctx, conversation, models.RoleUser, req.Message); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ChatRequests.Add(ctx, 1)
	}

	reply := s.generateReply(ctx, conversation)

	assistantMessage, err := s.conversations.AppendMessage(ctx, conversation, models.RoleAssistant, reply)
	if err != nil {
		return nil, err
	}

	return &models.ChatResponse{
		Message:        reply,
		ConversationID: conversation.ID,
		MessageID:      assistantMessage.ID,
	}, nil
}

// generateReply calls the provider through the circuit breaker and downgrades
// any failure to the fallback message, logging the underlying cause.
func (s *ChatService) generateReply(ctx context.Context, conversation *models.Conversation) string {
	turns := s.buildContext(conversation)

	var reply string
	start := time.Now()
	err := s.breaker.Execute(func() error {
		var completeErr error
		reply, completeErr = s.completer.Complete(ctx, turns)
		return completeErr
	})
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.ProviderLatency.Record(ctx, elapsed.Seconds())
	}

	if err != nil {
		if s.metrics != nil {
			s.metrics.ProviderFailures.Add(ctx, 1)
		}
		s.log.LogError(err, "Completion provider call failed",
			"conversation_id", conversation.ID,
			"latency_ms", elapsed.Milliseconds(),
		)
		return s.config.FallbackMessage
	}

	return reply
}

// buildContext maps the conversation history to provider turns, keeping only
// the most recent HistoryLimit turns
func (s *ChatService) buildContext(conversation *models.Conversation) []ai.Turn {
	messages := conversation.Messages
	if len(messages) > s.config.HistoryLimit {
		messages = messages[len(messages)-s.config.HistoryLimit:]
	}

	turns := make([]ai.Turn, len(messages))
	for i, m := range messages {
		turns[i] = ai.Turn{Role: m.Role, Content: m.Content}
	}
	return turns
}
