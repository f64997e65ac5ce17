package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"chatbot-api/backend/internal/models"
	"chatbot-api/backend/pkg/cache"
	"chatbot-api/backend/pkg/jwt"

	"gorm.io/gorm"
)

var (
	ErrUsernameTaken      = errors.New("username already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// UserService handles registration, login, and profile lookups
type UserService struct {
	db    *gorm.DB
	jwt   *jwt.Service
	cache cache.Store
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB, jwtService *jwt.Service, store cache.Store) *UserService {
	return &UserService{db: db, jwt: jwtService, cache: store}
}

// Register creates a new user. The password is hashed by the model's
// BeforeCreate hook; the stored hash never leaves this layer.
func (s *UserService) Register(req *models.RegisterRequest) (*models.User, error) {
	var existing models.User
	if result := s.db.Where("username = ?", req.Username).First(&existing); result.RowsAffected > 0 {
		return nil, ErrUsernameTaken
	}
	if result := s.db.Where("email = ?", req.Email).First(&existing); result.RowsAffected > 0 {
		return nil, ErrEmailTaken
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// Login verifies credentials and issues a session token
func (s *UserService) Login(req *models.LoginRequest) (*models.User, string, error) {
	var user models.User
	result := s.db.Where("username = ?", req.Username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", result.Error
	}

	if !models.CheckPasswordHash(req.Password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// GetUserByID retrieves a user by ID, read-through cached. Profiles are
// immutable after registration so the cache never goes stale.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	cacheKey := fmt.Sprintf("user:%d", id)

	if s.cache != nil {
		if cached, found := s.cache.Get(ctx, cacheKey); found {
			var user models.User
			if err := json.Unmarshal([]byte(cached), &user); err == nil {
				return &user, nil
			}
		}
	}

	var user models.User
	result := s.db.First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	if s.cache != nil {
		if data, err := json.Marshal(user); err == nil {
			s.cache.Set(ctx, cacheKey, string(data))
		}
	}

	return &user, nil
}
