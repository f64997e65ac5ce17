// Package secrets resolves sensitive configuration (JWT signing key,
// provider API key) from Vault when available, falling back to environment
// variables for local development.
package secrets

import (
	"context"
	"errors"
	"os"

	"chatbot-api/backend/pkg/logger"
)

// ErrSecretNotFound is returned when a secret is absent from the source
var ErrSecretNotFound = errors.New("secret not found")

// Manager provides access to secrets from a backing source
type Manager interface {
	// GetSecret retrieves a secret by key
	GetSecret(ctx context.Context, key string) (string, error)

	// GetSecretWithDefault retrieves a secret with a default value if not found
	GetSecretWithDefault(ctx context.Context, key, defaultValue string) string
}

// New creates a secrets manager. Uses Vault when VAULT_ADDR is set, otherwise
// reads from the environment.
func New(log *logger.Logger) (Manager, error) {
	if os.Getenv("VAULT_ADDR") != "" {
		return NewVaultManager(log)
	}
	return &EnvManager{}, nil
}

// EnvManager reads secrets from environment variables
type EnvManager struct{}

// GetSecret retrieves a secret from the environment
func (m *EnvManager) GetSecret(_ context.Context, key string) (string, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return "", ErrSecretNotFound
	}
	return value, nil
}

// GetSecretWithDefault retrieves a secret with a default value if not found
func (m *EnvManager) GetSecretWithDefault(ctx context.Context, key, defaultValue string) string {
	value, err := m.GetSecret(ctx, key)
	if err != nil {
		return defaultValue
	}
	return value
}
