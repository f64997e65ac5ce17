package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatbot-api/backend/internal/models"
	"chatbot-api/backend/pkg/config"
	"chatbot-api/backend/pkg/di"
	"chatbot-api/backend/pkg/logger"
	"chatbot-api/backend/pkg/observability"
	"chatbot-api/backend/pkg/router"
	"chatbot-api/backend/pkg/secrets"
)

func main() {
	cfg := config.New()

	logConfig := logger.DefaultConfig()
	logConfig.Level = cfg.Logging.Level
	logConfig.JSON = cfg.Logging.Format != "text"

	log := logger.New(logConfig)
	logger.SetGlobal(log)

	log.Info("Starting chatbot API", "env", cfg.Server.Env)

	// Resolve sensitive settings through the secrets manager; falls back to
	// the environment when Vault is not configured
	secretsManager, err := secrets.New(log)
	if err != nil {
		log.LogError(err, "Failed to initialize secrets manager")
		os.Exit(1)
	}
	ctx := context.Background()
	cfg.JWT.Secret = secretsManager.GetSecretWithDefault(ctx, "JWT_SECRET", cfg.JWT.Secret)
	cfg.OpenAI.APIKey = secretsManager.GetSecretWithDefault(ctx, "OPENAI_API_KEY", cfg.OpenAI.APIKey)

	db, err := config.NewDB()
	if err != nil {
		log.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Conversation{}, &models.Message{}); err != nil {
		log.LogError(err, "Failed to migrate database")
		os.Exit(1)
	}

	// Composite index backing the ordered-history query
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_conversation_created ON messages(conversation_id, created_at)").Error; err != nil {
		log.LogError(err, "Failed to create message index")
	}

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		_, m, err := observability.SetupMetrics("chatbot-api")
		if err != nil {
			log.LogError(err, "Failed to initialize metrics")
			os.Exit(1)
		}
		metrics = m
	}

	if cfg.Observability.TracingEnabled {
		shutdown, err := observability.SetupTracing("chatbot-api")
		if err != nil {
			log.LogError(err, "Failed to initialize tracing")
			os.Exit(1)
		}
		defer shutdown(context.Background())
	}

	container, err := di.New(db, cfg, log, di.Options{Metrics: metrics})
	if err != nil {
		log.LogError(err, "Failed to initialize dependency container")
		os.Exit(1)
	}

	r := router.New(container)

	// Must be installed before the routes are registered
	if cfg.OpenAPISchemaPath != "" {
		if err := r.AddOpenAPIValidation(cfg.OpenAPISchemaPath); err != nil {
			log.LogError(err, "Failed to load OpenAPI schema", "path", cfg.OpenAPISchemaPath)
			os.Exit(1)
		}
	}

	r.SetupRoutes()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r.Engine,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogError(err, "Server failed to start")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.LogError(err, "Server forced to shutdown")
	}

	log.Info("Server exited gracefully")
}
