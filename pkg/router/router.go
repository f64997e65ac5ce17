package router

import (
	"context"
	"net/http"
	"time"

	"chatbot-api/backend/internal/api"
	"chatbot-api/backend/pkg/cache"
	"chatbot-api/backend/pkg/config"
	"chatbot-api/backend/pkg/di"
	"chatbot-api/backend/pkg/errors"
	"chatbot-api/backend/pkg/health"
	"chatbot-api/backend/pkg/logger"
	"chatbot-api/backend/pkg/middleware"
	"chatbot-api/backend/pkg/observability"
	"chatbot-api/backend/pkg/validator"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Config    *config.Config
	Health    *health.Checker
}

// New creates a new router with the given container
func New(container *di.Container) *Router {
	cfg := container.Config

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Logger first so every request gets a request-scoped logger
	engine.Use(logger.Middleware(container.Logger))
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())
	engine.Use(corsMiddleware())

	rateLimiterOpts := middleware.DefaultRateLimiterOptions()
	rateLimiterOpts.Limit = rate.Limit(cfg.Security.RateLimit)
	rateLimiterOpts.Burst = cfg.Security.RateLimitBurst
	rateLimiter := middleware.NewRateLimiter(container.Logger, rateLimiterOpts)
	engine.Use(rateLimiter.Middleware())

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Config:    cfg,
		Health:    newHealthChecker(container),
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	jwtAuth := middleware.JWTAuth(r.Container.JWTService)

	authHandler := api.NewAuthHandler(r.Container.UserService, r.Logger)
	conversationHandler := api.NewConversationHandler(r.Container.ConversationService, r.Logger)
	chatHandler := api.NewChatHandler(r.Container.ChatService, r.Logger)

	// Root liveness line
	r.Engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Chatbot API is running!"})
	})

	r.Engine.GET("/health", r.Health.Handler())

	if r.Config.Observability.MetricsEnabled {
		r.Engine.GET("/metrics", observability.MetricsHandler())
	}

	// Public auth routes
	auth := r.Engine.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", jwtAuth, authHandler.Me)
	}

	// Protected routes (require authentication)
	protected := r.Engine.Group("/")
	protected.Use(jwtAuth)
	{
		protected.GET("/conversations", conversationHandler.List)
		protected.POST("/conversations", conversationHandler.Create)
		protected.GET("/conversations/:id", conversationHandler.Get)
		protected.POST("/chat", chatHandler.Chat)
	}
}

// AddOpenAPIValidation enables request validation against an OpenAPI schema
func (r *Router) AddOpenAPIValidation(schemaPath string) error {
	v, err := validator.NewOpenAPIValidator(schemaPath)
	if err != nil {
		return err
	}
	r.Engine.Use(v.Middleware())
	return nil
}

func newHealthChecker(container *di.Container) *health.Checker {
	checker := health.NewChecker(container.Logger)

	checker.RegisterCheck("database", func() (health.Status, string, error) {
		if err := config.TestConnection(container.DB); err != nil {
			return health.StatusDown, "Database unreachable", err
		}
		return health.StatusUp, "Database reachable", nil
	})

	if redisStore, ok := container.Cache.(*cache.RedisStore); ok {
		checker.RegisterCheck("redis", func() (health.Status, string, error) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := redisStore.Ping(ctx); err != nil {
				return health.StatusDegraded, "Redis unreachable, cache disabled", err
			}
			return health.StatusUp, "Redis reachable", nil
		})
	}

	return checker
}

// corsMiddleware echoes the request origin and handles preflight requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, Authorization, Origin")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
