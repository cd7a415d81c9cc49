package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kbchat/internal/api"
	"kbchat/internal/api/handlers"
	"kbchat/internal/rag"
	"kbchat/internal/repository"
	"kbchat/internal/service"
	"kbchat/pkg/auth"
	"kbchat/pkg/config"
	"kbchat/pkg/logger"
	"kbchat/pkg/postgres"

	"go.uber.org/zap"
)

// @title Knowledge-Base Chatbot API
// @version 1.0
// @description Vietnamese IT-support chatbot answering from a curated knowledge base with Wikipedia fallback

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting knowledge-base chatbot service",
		zap.String("retrieval_mode", cfg.Retrieval.Mode),
	)

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	knowledgeRepo := repository.NewKnowledgeRepository(db, appLogger)
	chatRepo := repository.NewChatRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize retrieval engine and services
	wikiService := service.NewWikiService(&cfg.Wiki, appLogger)
	engine := rag.NewEngine(knowledgeRepo, wikiService, &cfg.Retrieval, &cfg.Wiki, appLogger)

	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	chatService := service.NewChatService(engine, chatRepo, userRepo, appLogger)
	userService := service.NewUserService(userRepo, appLogger)
	knowledgeService := service.NewKnowledgeService(knowledgeRepo, appLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	chatHandler := handlers.NewChatHandler(chatService, appLogger)
	adminHandler := handlers.NewAdminHandler(userService, knowledgeService, appLogger)

	// Setup router
	app := api.SetupRouter(authHandler, chatHandler, adminHandler, jwtManager, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
