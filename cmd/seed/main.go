package main

import (
	"context"
	"os"
	"time"

	"github.com/varshinivarma16/booksbackend/internal/config"
	"github.com/varshinivarma16/booksbackend/internal/database"
	"github.com/varshinivarma16/booksbackend/internal/resource/repository"
	"github.com/varshinivarma16/booksbackend/internal/stocks"
	"github.com/varshinivarma16/booksbackend/internal/users"
	"github.com/varshinivarma16/booksbackend/pkg/logger"
)

// seed fills an empty database with sample market lists and the demo login
// accounts, then exits.
func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if cfg.MongoDB.URI == "" {
		logger.Fatalf("MONGODB_URI is required for seeding")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDB.Database)

	if err := stocks.Seed(ctx, repository.NewMongoBackend(db)); err != nil {
		logger.Fatalf("seed stocks: %v", err)
	}
	repo, err := users.NewMongoUserRepository(ctx, db.Collection("users"))
	if err != nil {
		logger.Fatalf("users repository: %v", err)
	}
	if err := users.NewService(repo).Seed(ctx); err != nil {
		logger.Fatalf("seed users: %v", err)
	}
	logger.Infof("seeded database %s", cfg.MongoDB.Database)
}
