package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"kbchat/internal/models"
	"kbchat/internal/repository"
	"kbchat/pkg/auth"
	"kbchat/pkg/config"
	"kbchat/pkg/logger"
	"kbchat/pkg/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	appLogger.Info("Starting database seeding...")

	if err := ensureSchema(ctx, db); err != nil {
		appLogger.Fatal("Failed to create schema", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db, appLogger)
	knowledgeRepo := repository.NewKnowledgeRepository(db, appLogger)

	if err := seedAdmin(ctx, userRepo, appLogger); err != nil {
		appLogger.Fatal("Failed to seed admin user", zap.Error(err))
	}

	seedFile := filepath.Join("cmd", "seed", "knowledge.json")
	if err := seedKnowledge(ctx, seedFile, knowledgeRepo, appLogger); err != nil {
		appLogger.Fatal("Failed to seed knowledge base", zap.Error(err))
	}

	appLogger.Info("Database seeding completed successfully!")
}

func ensureSchema(ctx context.Context, db *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			email VARCHAR(100) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS knowledge (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			content TEXT NOT NULL,
			keywords TEXT,
			intent VARCHAR(50),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS chat_history (
			id BIGSERIAL PRIMARY KEY,
			conversation_id BIGINT NOT NULL,
			user_id UUID NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			is_pinned BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_history_user ON chat_history (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_history_conversation ON chat_history (conversation_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}

	return nil
}

func seedAdmin(ctx context.Context, userRepo *repository.UserRepository, appLogger *zap.Logger) error {
	username := getEnv("ADMIN_USERNAME", "admin")

	if existing, _ := userRepo.GetByUsername(ctx, username); existing != nil {
		appLogger.Info("Admin user already exists", zap.String("username", username))
		return nil
	}

	hashed, err := auth.HashPassword(getEnv("ADMIN_PASSWORD", "admin123"))
	if err != nil {
		return err
	}

	now := time.Now()
	admin := &models.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     getEnv("ADMIN_EMAIL", "admin@example.com"),
		Password:  hashed,
		IsAdmin:   true,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	appLogger.Info("Created admin user", zap.String("username", username))
	return nil
}

type seedDocument struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Keywords string `json:"keywords"`
	Intent   string `json:"intent"`
}

func seedKnowledge(ctx context.Context, seedFile string, knowledgeRepo *repository.KnowledgeRepository, appLogger *zap.Logger) error {
	existing, err := knowledgeRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		appLogger.Info("Knowledge base already populated, skipping",
			zap.Int("documents", len(existing)),
		)
		return nil
	}

	data, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var docs []seedDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	now := time.Now()
	for _, doc := range docs {
		entry := &models.Knowledge{
			Title:     doc.Title,
			Content:   doc.Content,
			Keywords:  doc.Keywords,
			Intent:    doc.Intent,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := knowledgeRepo.Create(ctx, entry); err != nil {
			return fmt.Errorf("failed to insert %q: %w", doc.Title, err)
		}
	}

	appLogger.Info("Added sample knowledge", zap.Int("documents", len(docs)))
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
