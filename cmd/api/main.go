package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/smartcook/backend/config"
	"github.com/smartcook/backend/internal/api"
	"github.com/smartcook/backend/internal/assistant"
	"github.com/smartcook/backend/internal/database"
	"github.com/smartcook/backend/internal/logging"
	"github.com/smartcook/backend/internal/middleware"
	"github.com/smartcook/backend/internal/router"
	"github.com/smartcook/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Redis backs caching and rate limiting; the server runs without it.
	redisConn := connectRedis(cfg, logger)

	recipes := service.NewRecipeService(db)
	chats := service.NewChatService(db)

	llm, err := service.NewLLMService(cfg, redisConn, logger)
	if err != nil {
		logger.Fatal("failed to initialize generation service", zap.Error(err))
	}

	pipeline := assistant.New(recipes, llm, assistant.Config{
		QuickKeywords: cfg.Assistant.QuickKeywords,
		QuickLimit:    cfg.Assistant.QuickLimit,
	}, logger)

	chatHandler := api.NewChatHandler(pipeline, chats, cfg.Assistant.HistoryLimit, logger)
	recipeHandler := api.NewRecipeHandler(recipes, cfg.Assistant.QuickLimit, logger)

	var chatLimiter *middleware.RateLimiter
	if redisConn != nil && cfg.RateLimit.Enabled {
		chatLimiter = middleware.NewChatRateLimiter(redisConn, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	engine := router.SetupRouter(chatHandler, recipeHandler, chatLimiter, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		errChan <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func connectRedis(cfg *config.Config, logger *zap.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	client, err := database.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("redis unavailable, continuing without cache and rate limiting", zap.Error(err))
		return nil
	}
	return client
}
