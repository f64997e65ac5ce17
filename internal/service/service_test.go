package service

import (
	"path/filepath"
	"testing"
	"time"

	"chatbot-api/backend/internal/models"
	"chatbot-api/backend/pkg/cache"
	"chatbot-api/backend/pkg/jwt"
	"chatbot-api/backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Conversation{}, &models.Message{}))
	return db
}

func newTestLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error"})
}

func newTestUserService(t *testing.T, db *gorm.DB) *UserService {
	t.Helper()
	jwtService := jwt.NewService("test-secret", time.Hour)
	store := cache.NewMemoryStore(time.Minute, 0, 100)
	return NewUserService(db, jwtService, store)
}

func createTestUser(t *testing.T, users *UserService, username string) *models.User {
	t.Helper()
	user, err := users.Register(&models.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return user
}
