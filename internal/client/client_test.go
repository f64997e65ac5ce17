package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(filepath.Join(t.TempDir(), "session.json"))
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]any{})
	}))
	defer server.Close()

	session := newTestSession(t)
	require.NoError(t, session.Store("tok-123", 1, "alice"))

	c := New(server.URL, session)
	_, err := c.ListConversations()
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClientClearsSessionOn401(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	session := newTestSession(t)
	require.NoError(t, session.Store("stale-token", 1, "alice"))

	c := New(server.URL, session)
	_, err := c.ListConversations()
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, session.Authenticated())
}

func TestSessionPersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	first := NewSession(path)
	require.NoError(t, first.Store("tok", 7, "bob"))

	second := NewSession(path)
	assert.True(t, second.Authenticated())
	assert.Equal(t, "tok", second.Token)
	assert.Equal(t, uint(7), second.UserID)
	assert.Equal(t, "bob", second.Username)
}

func TestSessionClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := NewSession(path)
	require.NoError(t, s.Store("tok", 1, "alice"))
	s.Clear()

	reloaded := NewSession(path)
	assert.False(t, reloaded.Authenticated())
}
