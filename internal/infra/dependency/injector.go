// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/finance-tracker/rule-engine/config"
	"github.com/finance-tracker/rule-engine/internal/application/adapter"
	batchapply "github.com/finance-tracker/rule-engine/internal/application/usecase/batch_apply"
	"github.com/finance-tracker/rule-engine/internal/application/usecase/transaction"
	transactionrule "github.com/finance-tracker/rule-engine/internal/application/usecase/transaction_rule"
	"github.com/finance-tracker/rule-engine/internal/domain/ruleengine"
	"github.com/finance-tracker/rule-engine/internal/infra/server/router"
	"github.com/finance-tracker/rule-engine/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/rule-engine/internal/integration/entrypoint/middleware"
	"github.com/finance-tracker/rule-engine/internal/integration/persistence"
	"github.com/finance-tracker/rule-engine/internal/integration/tracker"
)

const (
	// TrackerMemory keeps batch runs in process memory.
	TrackerMemory = "memory"
	// TrackerRedis keeps batch runs in Redis.
	TrackerRedis = "redis"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Router *router.Router

	RuleRepo    adapter.TransactionRuleRepository
	Coordinator *batchapply.Coordinator
	Tracker     batchapply.BatchRunTracker
	Cancels     *batchapply.CancelRegistry
	StartBatch  *batchapply.StartBatchApplyUseCase
	ListRules   *transactionrule.ListTransactionRulesUseCase
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient is only used when the Redis tracker is configured.
func NewInjector(cfg *config.Config, db *gorm.DB, dbHealthChecker controller.HealthChecker, redisClient *redis.Client) (*Injector, error) {
	// Create repositories
	ruleRepo := persistence.NewTransactionRuleRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	historyRepo := persistence.NewTransactionHistoryRepository(db)

	// Create rule engine
	matcher := ruleengine.NewMatcher()
	applier := ruleengine.NewApplier()
	engine := ruleengine.NewEngine(matcher, applier)
	coordinator := batchapply.NewCoordinator(matcher, applier, historyRepo, cfg.Batch.PageSize, cfg.Batch.ProgressInterval)

	// Create batch run tracking
	var runTracker batchapply.BatchRunTracker
	var trackerHealthChecker controller.HealthChecker
	switch cfg.Batch.Tracker {
	case TrackerMemory, "":
		runTracker = batchapply.NewInMemoryBatchRunTracker()
	case TrackerRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("redis tracker configured without a redis client")
		}
		redisTracker := tracker.NewRedisBatchRunTracker(redisClient, cfg.Batch.RunTTL)
		runTracker = redisTracker
		trackerHealthChecker = redisTracker.HealthCheck
	default:
		return nil, fmt.Errorf("unsupported batch tracker %q", cfg.Batch.Tracker)
	}
	cancels := batchapply.NewCancelRegistry()

	// Create rule use cases
	listRulesUseCase := transactionrule.NewListTransactionRulesUseCase(ruleRepo)
	getRuleUseCase := transactionrule.NewGetTransactionRuleUseCase(ruleRepo)
	createRuleUseCase := transactionrule.NewCreateTransactionRuleUseCase(ruleRepo)
	updateRuleUseCase := transactionrule.NewUpdateTransactionRuleUseCase(ruleRepo)
	deleteRuleUseCase := transactionrule.NewDeleteTransactionRuleUseCase(ruleRepo)
	reorderRulesUseCase := transactionrule.NewReorderTransactionRulesUseCase(ruleRepo)
	previewRulesUseCase := transactionrule.NewPreviewRulesUseCase(ruleRepo, engine)

	// Create transaction use cases
	ingestTransactionUseCase := transaction.NewIngestTransactionUseCase(transactionRepo, ruleRepo, engine)
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(transactionRepo)
	getTransactionUseCase := transaction.NewGetTransactionUseCase(transactionRepo)

	// Create batch apply use cases
	startBatchUseCase := batchapply.NewStartBatchApplyUseCase(ruleRepo, coordinator, runTracker, cancels)
	batchStatusUseCase := batchapply.NewGetBatchStatusUseCase(runTracker)
	cancelBatchUseCase := batchapply.NewCancelBatchApplyUseCase(runTracker, cancels)

	// Create controllers
	healthController := controller.NewHealthController(dbHealthChecker, trackerHealthChecker)

	transactionRuleController := controller.NewTransactionRuleController(
		listRulesUseCase,
		getRuleUseCase,
		createRuleUseCase,
		updateRuleUseCase,
		deleteRuleUseCase,
		reorderRulesUseCase,
		previewRulesUseCase,
	)

	transactionController := controller.NewTransactionController(
		ingestTransactionUseCase,
		listTransactionsUseCase,
		getTransactionUseCase,
	)

	batchRunController := controller.NewBatchRunController(
		startBatchUseCase,
		batchStatusUseCase,
		cancelBatchUseCase,
	)

	// Create middleware
	batchRateLimiter := middleware.NewRateLimiterWithConfig(cfg.Batch.StartsPerMinute, 1*time.Minute)

	// Create router
	r := router.NewRouter(healthController, transactionRuleController, transactionController, batchRunController, batchRateLimiter)

	return &Injector{
		Config:      cfg,
		DB:          db,
		Router:      r,
		RuleRepo:    ruleRepo,
		Coordinator: coordinator,
		Tracker:     runTracker,
		Cancels:     cancels,
		StartBatch:  startBatchUseCase,
		ListRules:   listRulesUseCase,
	}, nil
}

// NewRedisClient opens a Redis client from configuration and verifies the connection.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// Shutdown cancels the batch runs executing in this process and waits for them to
// record their final state, or until ctx expires.
func (i *Injector) Shutdown(ctx context.Context) error {
	i.Cancels.CancelAll()

	done := make(chan struct{})
	go func() {
		i.StartBatch.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("batch runs still finishing: %w", ctx.Err())
	}
}
