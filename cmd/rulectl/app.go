package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/rule-engine/config"
	"github.com/finance-tracker/rule-engine/internal/infra/db"
	"github.com/finance-tracker/rule-engine/internal/infra/dependency"
	"github.com/finance-tracker/rule-engine/internal/integration/persistence/model"
)

// app bundles the wired dependencies and the connections they need closed.
type app struct {
	*dependency.Injector
	database    *db.Database
	redisClient *redis.Client
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.Load()

	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := database.AutoMigrate(&model.TransactionRuleModel{}, &model.TransactionModel{}); err != nil {
		_ = database.Close()
		return nil, err
	}

	// The Redis tracker keeps CLI runs from overlapping with runs started through the API.
	var redisClient *redis.Client
	if cfg.Batch.Tracker == dependency.TrackerRedis {
		redisClient, err = dependency.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			_ = database.Close()
			return nil, err
		}
	}

	injector, err := dependency.NewInjector(cfg, database.DB(), database.HealthCheck, redisClient)
	if err != nil {
		_ = database.Close()
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, err
	}

	return &app{
		Injector:    injector,
		database:    database,
		redisClient: redisClient,
	}, nil
}

func (a *app) Close() {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			slog.Error("failed to close redis connection", "error", err)
		}
	}
	if err := a.database.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
}
