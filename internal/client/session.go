// Package client implements the API client and session handling used by the
// terminal chat frontend.
package client

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Session is the single source of truth for the bearer token and the
// authenticated user on the client side. It persists to disk so a login
// survives restarts, and is cleared whenever the server answers 401.
type Session struct {
	Token    string `json:"token"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`

	path string
}

// NewSession loads a session from the given path, or returns an empty
// session when none is stored
func NewSession(path string) *Session {
	s := &Session{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, s); err != nil {
		return &Session{path: path}
	}
	s.path = path
	return s
}

// DefaultSessionPath returns the per-user session file location
func DefaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "chatbot", "session.json")
}

// Authenticated reports whether a token is present
func (s *Session) Authenticated() bool {
	return s.Token != ""
}

// Store records a login and persists it
func (s *Session) Store(token string, userID uint, username string) error {
	s.Token = token
	s.UserID = userID
	s.Username = username
	return s.save()
}

// Clear drops the session, reverting the client to the unauthenticated state
func (s *Session) Clear() {
	s.Token = ""
	s.UserID = 0
	s.Username = ""
	_ = os.Remove(s.path)
}

func (s *Session) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
