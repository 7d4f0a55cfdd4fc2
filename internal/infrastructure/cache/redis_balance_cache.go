package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/tripled/backend/internal/domain/ledger"
	"github.com/tripled/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const balanceKeyPrefix = "balance:branch:"

// NewRedisClient creates a Redis client from configuration and verifies
// the connection before returning it.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// RedisBalanceCache caches derived branch balances in Redis. Balances are
// expensive to compute (a SUM over the transaction table) and are read on
// every dashboard load, so they are cached with a short TTL and invalidated
// whenever a transaction, payment, or commission payout touches the branch.
//
// The cache is best-effort: Redis failures degrade to a cache miss and the
// caller recomputes from the database.
type RedisBalanceCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisBalanceCache creates a balance cache backed by an existing Redis client.
func NewRedisBalanceCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisBalanceCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisBalanceCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("balance-cache"),
	}
}

// Get returns the cached balance for a branch, or (nil, false) on a miss.
func (c *RedisBalanceCache) Get(ctx context.Context, branchID uuid.UUID) (*ledger.BranchBalance, bool) {
	data, err := c.client.Get(ctx, balanceKeyPrefix+branchID.String()).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("balance cache read failed", zap.String("branch_id", branchID.String()), zap.Error(err))
		}
		return nil, false
	}

	var balance ledger.BranchBalance
	if err := json.Unmarshal(data, &balance); err != nil {
		c.logger.Warn("corrupt balance cache entry", zap.String("branch_id", branchID.String()), zap.Error(err))
		return nil, false
	}

	return &balance, true
}

// Set stores a branch balance with the configured TTL.
func (c *RedisBalanceCache) Set(ctx context.Context, balance *ledger.BranchBalance) {
	data, err := json.Marshal(balance)
	if err != nil {
		c.logger.Warn("failed to encode balance", zap.String("branch_id", balance.BranchID.String()), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, balanceKeyPrefix+balance.BranchID.String(), data, c.ttl).Err(); err != nil {
		c.logger.Warn("balance cache write failed", zap.String("branch_id", balance.BranchID.String()), zap.Error(err))
	}
}

// Invalidate drops the cached balance for a branch.
func (c *RedisBalanceCache) Invalidate(ctx context.Context, branchID uuid.UUID) {
	if err := c.client.Del(ctx, balanceKeyPrefix+branchID.String()).Err(); err != nil {
		c.logger.Warn("balance cache invalidation failed", zap.String("branch_id", branchID.String()), zap.Error(err))
	}
}
