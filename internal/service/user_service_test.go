package service

import (
	"context"
	"testing"

	"chatbot-api/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	users := newTestUserService(t, db)

	user := createTestUser(t, users, "alice")
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	// The stored password must be a hash, never the plaintext
	assert.NotEqual(t, "secret123", user.Password)

	loggedIn, token, err := users.Login(&models.LoginRequest{
		Username: "alice",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	users := newTestUserService(t, db)

	original := createTestUser(t, users, "alice")

	_, err := users.Register(&models.RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "password99",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// The existing record is untouched
	var stored models.User
	require.NoError(t, db.First(&stored, original.ID).Error)
	assert.Equal(t, original.Email, stored.Email)
	assert.Equal(t, original.Password, stored.Password)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	users := newTestUserService(t, db)

	createTestUser(t, users, "alice")

	_, err := users.Register(&models.RegisterRequest{
		Username: "bob",
		Email:    "alice@example.com",
		Password: "password99",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	users := newTestUserService(t, db)

	createTestUser(t, users, "alice")

	_, _, err := users.Login(&models.LoginRequest{
		Username: "alice",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	db := newTestDB(t)
	users := newTestUserService(t, db)

	_, _, err := users.Login(&models.LoginRequest{
		Username: "nobody",
		Password: "whatever1",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetUserByID(t *testing.T) {
	db := newTestDB(t)
	users := newTestUserService(t, db)
	ctx := context.Background()

	user := createTestUser(t, users, "alice")

	found, err := users.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)

	// Second lookup is served from cache
	cached, err := users.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, found.Username, cached.Username)

	_, err = users.GetUserByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
