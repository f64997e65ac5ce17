package di

import (
	"fmt"

	"chatbot-api/backend/ai"
	"chatbot-api/backend/internal/service"
	"chatbot-api/backend/pkg/cache"
	"chatbot-api/backend/pkg/config"
	"chatbot-api/backend/pkg/jwt"
	"chatbot-api/backend/pkg/logger"
	"chatbot-api/backend/pkg/observability"
	"chatbot-api/backend/pkg/resilience"

	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	DB                  *gorm.DB
	Config              *config.Config
	Logger              *logger.Logger
	JWTService          *jwt.Service
	Cache               cache.Store
	Metrics             *observability.Metrics
	Provider            ai.Completer
	ProviderBreaker     *resilience.CircuitBreaker
	UserService         *service.UserService
	ConversationService *service.ConversationService
	ChatService         *service.ChatService
}

// Options carries dependencies that callers may override, mainly for tests
type Options struct {
	// Provider replaces the real completion client when set
	Provider ai.Completer
	// Metrics is optional; nil disables instrument recording
	Metrics *observability.Metrics
	// JWTSecret overrides the configured signing secret when non-empty
	JWTSecret string
}

// New creates a new dependency injection container
func New(db *gorm.DB, cfg *config.Config, log *logger.Logger, opts Options) (*Container, error) {
	secret := cfg.JWT.Secret
	if opts.JWTSecret != "" {
		secret = opts.JWTSecret
	}
	jwtService := jwt.NewService(secret, cfg.JWT.Expiry)

	store := cache.NewStore(cfg, log)

	provider := opts.Provider
	if provider == nil {
		client, err := ai.NewClient(ai.Config{
			APIKey:      cfg.OpenAI.APIKey,
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.OpenAI.Model,
			MaxTokens:   cfg.OpenAI.MaxTokens,
			Temperature: cfg.OpenAI.Temperature,
			Timeout:     cfg.OpenAI.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create provider client: %w", err)
		}
		provider = client
	}

	breaker := resilience.NewCircuitBreaker(resilience.DefaultConfig("completion-provider"), log)

	userService := service.NewUserService(db, jwtService, store)
	conversationService := service.NewConversationService(db, store)
	chatService := service.NewChatService(conversationService, provider, breaker, opts.Metrics, log, service.ChatServiceConfig{
		HistoryLimit:    cfg.Chat.HistoryLimit,
		FallbackMessage: cfg.Chat.FallbackMessage,
	})

	return &Container{
		DB:                  db,
		Config:              cfg,
		Logger:              log,
		JWTService:          jwtService,
		Cache:               store,
		Metrics:             opts.Metrics,
		Provider:            provider,
		ProviderBreaker:     breaker,
		UserService:         userService,
		ConversationService: conversationService,
		ChatService:         chatService,
	}, nil
}
