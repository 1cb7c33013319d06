// Package tracker implements batch run tracking backed by Redis.
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	batchapply "github.com/finance-tracker/rule-engine/internal/application/usecase/batch_apply"
	"github.com/finance-tracker/rule-engine/internal/domain/entity"
	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
)

const (
	runKeyPrefix  = "rule-engine:batch-run:"
	lockKeyPrefix = "rule-engine:batch-rule:"
)

// releaseLock deletes the rule lock only while it still belongs to the run.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisBatchRunTracker stores batch runs in Redis so every API instance sees the same state.
type RedisBatchRunTracker struct {
	client *redis.Client
	ttl    time.Duration
}

var _ batchapply.BatchRunTracker = (*RedisBatchRunTracker)(nil)

// NewRedisBatchRunTracker creates a new Redis-backed tracker. Run snapshots and rule locks
// expire after ttl so a crashed process cannot block a rule forever.
func NewRedisBatchRunTracker(client *redis.Client, ttl time.Duration) *RedisBatchRunTracker {
	return &RedisBatchRunTracker{
		client: client,
		ttl:    ttl,
	}
}

// Begin takes the rule lock and stores the first snapshot.
func (t *RedisBatchRunTracker) Begin(ctx context.Context, run *entity.BatchRun) error {
	acquired, err := t.client.SetNX(ctx, lockKey(run.RuleID), run.ID.String(), t.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to lock rule: %w", err)
	}
	if !acquired {
		return domainerror.ErrBatchAlreadyRunning
	}

	if err := t.Save(ctx, run); err != nil {
		_ = t.client.Del(ctx, lockKey(run.RuleID)).Err()
		return err
	}
	return nil
}

// Save stores a snapshot of the run.
func (t *RedisBatchRunTracker) Save(ctx context.Context, run *entity.BatchRun) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode batch run: %w", err)
	}

	if err := t.client.Set(ctx, runKey(run.ID), payload, t.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save batch run: %w", err)
	}
	return nil
}

// Finish stores the final snapshot and releases the rule lock.
func (t *RedisBatchRunTracker) Finish(ctx context.Context, run *entity.BatchRun) error {
	if err := t.Save(ctx, run); err != nil {
		return err
	}

	if err := releaseLock.Run(ctx, t.client, []string{lockKey(run.RuleID)}, run.ID.String()).Err(); err != nil {
		return fmt.Errorf("failed to release rule lock: %w", err)
	}
	return nil
}

// Get returns the latest snapshot of a run.
func (t *RedisBatchRunTracker) Get(ctx context.Context, runID uuid.UUID) (*entity.BatchRun, error) {
	payload, err := t.client.Get(ctx, runKey(runID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domainerror.ErrBatchRunNotFound
		}
		return nil, fmt.Errorf("failed to get batch run: %w", err)
	}

	var run entity.BatchRun
	if err := json.Unmarshal(payload, &run); err != nil {
		return nil, fmt.Errorf("failed to decode batch run: %w", err)
	}
	return &run, nil
}

// ActiveRunID returns the run holding the rule lock, if any.
func (t *RedisBatchRunTracker) ActiveRunID(ctx context.Context, ruleID uuid.UUID) (uuid.UUID, bool, error) {
	value, err := t.client.Get(ctx, lockKey(ruleID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("failed to read rule lock: %w", err)
	}

	runID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("invalid rule lock value: %w", err)
	}
	return runID, true, nil
}

func runKey(runID uuid.UUID) string {
	return runKeyPrefix + runID.String()
}

func lockKey(ruleID uuid.UUID) string {
	return lockKeyPrefix + ruleID.String() + ":active"
}

// HealthCheck reports whether Redis answers a ping.
func (t *RedisBatchRunTracker) HealthCheck(ctx context.Context) bool {
	return t.client.Ping(ctx).Err() == nil
}
