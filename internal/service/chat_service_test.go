package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"chatbot-api/backend/ai"
	"chatbot-api/backend/internal/models"
	"chatbot-api/backend/pkg/resilience"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCompleter records the turns it receives and returns canned replies
type stubCompleter struct {
	replies  []string
	err      error
	calls    int
	lastSent []ai.Turn
}

func (s *stubCompleter) Complete(_ context.Context, turns []ai.Turn) (string, error) {
	s.calls++
	s.lastSent = turns
	if s.err != nil {
		return "", s.err
	}
	reply := fmt.Sprintf("reply %d", s.calls)
	if len(s.replies) >= s.calls {
		reply = s.replies[s.calls-1]
	}
	return reply, nil
}

func newChatFixture(t *testing.T, completer ai.Completer, cfg ChatServiceConfig) (*ChatService, *ConversationService, *models.User) {
	t.Helper()

	db := newTestDB(t)
	users := newTestUserService(t, db)
	conversations := NewConversationService(db, nil)
	log := newTestLogger()
	breaker := resilience.NewCircuitBreaker(resilience.DefaultConfig("test-provider"), log)

	chat := NewChatService(conversations, completer, breaker, nil, log, cfg)
	user := createTestUser(t, users, "alice")
	return chat, conversations, user
}

func TestChatCreatesConversationWhenNoneGiven(t *testing.T) {
	completer := &stubCompleter{replies: []string{"Hello, Alice!"}}
	chat, conversations, user := newChatFixture(t, completer, ChatServiceConfig{})
	ctx := context.Background()

	resp, err := chat.Chat(ctx, user.ID, &models.ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.NotZero(t, resp.ConversationID)
	assert.Equal(t, "Hello, Alice!", resp.Message)
	assert.NotZero(t, resp.MessageID)

	loaded, err := conversations.Get(ctx, user.ID, resp.ConversationID)
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, models.RoleUser, loaded.Messages[0].Role)
	assert.Equal(t, "hi", loaded.Messages[0].Content)
	assert.Equal(t, models.RoleAssistant, loaded.Messages[1].Role)
	assert.Equal(t, "hi", loaded.Title)
}

func TestChatContinuesExistingConversation(t *testing.T) {
	completer := &stubCompleter{}
	chat, conversations, user := newChatFixture(t, completer, ChatServiceConfig{})
	ctx := context.Background()

	first, err := chat.Chat(ctx, user.ID, &models.ChatRequest{Message: "first question"})
	require.NoError(t, err)

	second, err := chat.Chat(ctx, user.ID, &models.ChatRequest{
		Message:        "second question",
		ConversationID: first.ConversationID,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ConversationID, second.ConversationID)

	loaded, err := conversations.Get(ctx, user.ID, first.ConversationID)
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 4)
	wantRoles := []string{models.RoleUser, models.RoleAssistant, models.RoleUser, models.RoleAssistant}
	for i, m := range loaded.Messages {
		assert.Equal(t, wantRoles[i], m.Role)
	}

	// The second call saw the full history plus the new user turn
	assert.Len(t, completer.lastSent, 3)
}

func TestChatRejectsForeignConversation(t *testing.T) {
	completer := &stubCompleter{}
	chat, conversations, user := newChatFixture(t, completer, ChatServiceConfig{})
	ctx := context.Background()

	foreign, err := conversations.Create(ctx, user.ID+1)
	require.NoError(t, err)

	_, err = chat.Chat(ctx, user.ID, &models.ChatRequest{
		Message:        "hi",
		ConversationID: foreign.ID,
	})
	assert.ErrorIs(t, err, ErrConversationNotFound)
	assert.Zero(t, completer.calls)
}

func TestChatProviderFailureKeepsUserTurn(t *testing.T) {
	completer := &stubCompleter{err: &ai.ProviderError{Err: errors.New("rate limited")}}
	chat, conversations, user := newChatFixture(t, completer, ChatServiceConfig{
		FallbackMessage: "Something went wrong.",
	})
	ctx := context.Background()

	resp, err := chat.Chat(ctx, user.ID, &models.ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Something went wrong.", resp.Message)

	loaded, err := conversations.Get(ctx, user.ID, resp.ConversationID)
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, models.RoleUser, loaded.Messages[0].Role)
	assert.Equal(t, "hi", loaded.Messages[0].Content)
	assert.Equal(t, models.RoleAssistant, loaded.Messages[1].Role)
	assert.Equal(t, "Something went wrong.", loaded.Messages[1].Content)
}

func TestChatHistoryBounded(t *testing.T) {
	completer := &stubCompleter{}
	chat, _, user := newChatFixture(t, completer, ChatServiceConfig{HistoryLimit: 4})
	ctx := context.Background()

	first, err := chat.Chat(ctx, user.ID, &models.ChatRequest{Message: "turn 1"})
	require.NoError(t, err)

	for i := 2; i <= 5; i++ {
		_, err := chat.Chat(ctx, user.ID, &models.ChatRequest{
			Message:        fmt.Sprintf("turn %d", i),
			ConversationID: first.ConversationID,
		})
		require.NoError(t, err)
	}

	// Only the most recent turns were sent, oldest dropped first
	require.Len(t, completer.lastSent, 4)
	assert.Equal(t, "turn 5", completer.lastSent[3].Content)
}
