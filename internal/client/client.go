package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"chatbot-api/backend/internal/models"
)

// ErrUnauthorized is returned when the server rejects the session token.
// The session has already been cleared when this error surfaces.
var ErrUnauthorized = errors.New("unauthorized")

// Client is the REST client for the chatbot API. Every request carries the
// session token; any 401 clears the session before the error is returned.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

// New creates a new API client
func New(baseURL string, session *Session) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		session:    session,
	}
}

// Session exposes the client's session state
func (c *Client) Session() *Session {
	return c.session
}

// Register creates an account
func (c *Client) Register(username, email, password string) (*models.UserResponse, error) {
	var user models.UserResponse
	err := c.do(http.MethodPost, "/auth/register", models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and stores the issued token in the session
func (c *Client) Login(username, password string) error {
	var token models.TokenResponse
	err := c.do(http.MethodPost, "/auth/login", models.LoginRequest{
		Username: username,
		Password: password,
	}, &token)
	if err != nil {
		return err
	}

	// Resolve the user behind the fresh token before persisting
	c.session.Token = token.AccessToken
	me, err := c.Me()
	if err != nil {
		c.session.Clear()
		return err
	}

	return c.session.Store(token.AccessToken, me.ID, me.Username)
}

// Me returns the authenticated user's profile
func (c *Client) Me() (*models.UserResponse, error) {
	var user models.UserResponse
	if err := c.do(http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListConversations returns the user's conversations, most recent first
func (c *Client) ListConversations() ([]models.ConversationSummary, error) {
	var summaries []models.ConversationSummary
	if err := c.do(http.MethodGet, "/conversations", nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// CreateConversation creates a new empty conversation
func (c *Client) CreateConversation() (*models.ConversationResponse, error) {
	var conversation models.ConversationResponse
	if err := c.do(http.MethodPost, "/conversations", nil, &conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetConversation returns one conversation with its messages
func (c *Client) GetConversation(id uint) (*models.ConversationResponse, error) {
	var conversation models.ConversationResponse
	if err := c.do(http.MethodGet, fmt.Sprintf("/conversations/%d", id), nil, &conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}

// Chat sends one message, optionally continuing an existing conversation
func (c *Client) Chat(message string, conversationID uint) (*models.ChatResponse, error) {
	var resp models.ChatResponse
	err := c.do(http.MethodPost, "/chat", models.ChatRequest{
		Message:        message,
		ConversationID: conversationID,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.session.Clear()
		return ErrUnauthorized
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return apiError(resp.StatusCode, respBody)
	}

	if out != nil {
		return json.Unmarshal(respBody, out)
	}
	return nil
}

func apiError(status int, body []byte) error {
	var payload struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != nil {
		switch e := payload.Error.(type) {
		case string:
			return fmt.Errorf("server returned %d: %s", status, e)
		case map[string]any:
			if msg, ok := e["message"].(string); ok {
				return fmt.Errorf("server returned %d: %s", status, msg)
			}
		}
	}
	return fmt.Errorf("server returned %d", status)
}
