package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tripled/backend/internal/domain/ledger"
)

// InMemoryBalanceCache is a process-local balance cache for single-instance
// deployments and tests. Entries expire after the configured TTL.
type InMemoryBalanceCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]balanceEntry
	ttl     time.Duration
}

type balanceEntry struct {
	balance   ledger.BranchBalance
	expiresAt time.Time
}

// NewInMemoryBalanceCache creates an in-memory balance cache with the given TTL.
func NewInMemoryBalanceCache(ttl time.Duration) *InMemoryBalanceCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &InMemoryBalanceCache{
		entries: make(map[uuid.UUID]balanceEntry),
		ttl:     ttl,
	}
}

// Get returns the cached balance for a branch, or (nil, false) on a miss.
func (c *InMemoryBalanceCache) Get(_ context.Context, branchID uuid.UUID) (*ledger.BranchBalance, bool) {
	c.mu.RLock()
	entry, ok := c.entries[branchID]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}

	balance := entry.balance
	return &balance, true
}

// Set stores a branch balance with the configured TTL.
func (c *InMemoryBalanceCache) Set(_ context.Context, balance *ledger.BranchBalance) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[balance.BranchID] = balanceEntry{
		balance:   *balance,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Invalidate drops the cached balance for a branch.
func (c *InMemoryBalanceCache) Invalidate(_ context.Context, branchID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, branchID)
}
