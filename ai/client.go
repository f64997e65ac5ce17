// Package ai implements the client for the remote completion provider
// (OpenAI chat completions API).
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Turn is one role-tagged message sent to the provider
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ProviderError wraps any failure of the remote completion call: transport
// errors, non-2xx statuses, malformed responses. Callers downgrade it to a
// fallback assistant turn; it is never exposed raw to clients.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("completion provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Completer generates one reply turn from an ordered list of role-tagged turns
type Completer interface {
	Complete(ctx context.Context, turns []Turn) (string, error)
}

// CompleterFunc adapts a plain function to the Completer interface
type CompleterFunc func(ctx context.Context, turns []Turn) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, turns []Turn) (string, error) {
	return f(ctx, turns)
}

// Config holds provider client settings
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Client calls the OpenAI chat completions endpoint
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new provider client
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, errors.New("provider API key is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}
	if config.Model == "" {
		config.Model = "gpt-3.5-turbo"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

type completionRequest struct {
	Model       string  `json:"model"`
	Messages    []Turn  `json:"messages"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends the conversation turns to the provider and returns the
// assistant's reply
func (c *Client) Complete(ctx context.Context, turns []Turn) (string, error) {
	requestBody := completionRequest{
		Model:       c.config.Model,
		Messages:    turns,
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", &ProviderError{Err: fmt.Errorf("marshaling request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &ProviderError{Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ProviderError{Err: fmt.Errorf("making API request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Err: fmt.Errorf("reading response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{Err: fmt.Errorf("API request failed with status code %d: %s", resp.StatusCode, string(body))}
	}

	var completion completionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", &ProviderError{Err: fmt.Errorf("unmarshaling response: %w", err)}
	}

	if completion.Error != nil {
		return "", &ProviderError{Err: fmt.Errorf("API error: %s", completion.Error.Message)}
	}

	if len(completion.Choices) == 0 {
		return "", &ProviderError{Err: errors.New("no response generated")}
	}

	return completion.Choices[0].Message.Content, nil
}
