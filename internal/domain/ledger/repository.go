package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/shared"
)

// TransactionFilter defines filtering options for ledger entry queries
type TransactionFilter struct {
	shared.Filter
	BranchID   *uuid.UUID
	CategoryID *uuid.UUID
	Type       *TransactionType
	FromDate   *time.Time
	ToDate     *time.Time
}

// BranchRepository defines the interface for branch persistence
type BranchRepository interface {
	// FindByID finds a branch by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Branch, error)

	// FindByIDForUpdate finds a branch by ID holding a row lock for the
	// duration of the surrounding transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Branch, error)

	// FindMain finds the active main branch
	FindMain(ctx context.Context) (*Branch, error)

	// FindMainForUpdate finds the active main branch holding a row lock
	FindMainForUpdate(ctx context.Context) (*Branch, error)

	// FindAll finds all branches with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Branch, error)

	// Save creates or updates a branch
	Save(ctx context.Context, branch *Branch) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, branch *Branch) error

	// Delete deletes a branch
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts branches
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// SumByType sums committed transaction amounts for a branch by type.
	// Balance derivation is always income sum minus expenditure sum.
	SumByType(ctx context.Context, branchID uuid.UUID, txType TransactionType) (decimal.Decimal, error)

	// GetBalance returns the derived income/expenditure totals for a branch
	GetBalance(ctx context.Context, branchID uuid.UUID) (*BranchBalance, error)
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindByName finds a category by its exact name
	FindByName(ctx context.Context, name string) (*Category, error)

	// FindSystemCategory finds a system category by name and kind
	FindSystemCategory(ctx context.Context, name string, kind CategoryKind) (*Category, error)

	// FindAll finds all categories with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)

	// FindByKind finds categories of a kind, optionally scoped to a branch type
	FindByKind(ctx context.Context, kind CategoryKind, branchType *BranchType) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete deletes a category
	Delete(ctx context.Context, id uuid.UUID) error

	// CountTransactions counts ledger entries referencing the category
	CountTransactions(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

// TransactionRepository defines the interface for ledger entry persistence
type TransactionRepository interface {
	// FindByID finds a transaction by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// FindByIDForUpdate finds a transaction by ID holding a row lock.
	// Edits and deletes read under the lock so the balance guard works
	// from the committed amount, not a stale snapshot.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// FindAll finds transactions with filtering
	FindAll(ctx context.Context, filter TransactionFilter) ([]Transaction, error)

	// FindByAllocation finds the entries written by a fund allocation
	FindByAllocation(ctx context.Context, allocationID uuid.UUID) ([]Transaction, error)

	// Save creates or updates a transaction
	Save(ctx context.Context, tx *Transaction) error

	// Delete deletes a transaction
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts transactions with filtering
	Count(ctx context.Context, filter TransactionFilter) (int64, error)
}

// FundAllocationRepository defines the interface for allocation persistence.
// There is deliberately no Delete: allocations are corrected by reversal.
type FundAllocationRepository interface {
	// FindByID finds an allocation by ID
	FindByID(ctx context.Context, id uuid.UUID) (*FundAllocation, error)

	// FindByIDForUpdate finds an allocation by ID holding a row lock
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*FundAllocation, error)

	// FindAll finds allocations with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]FundAllocation, error)

	// FindByBranch finds allocations sent or received by a branch
	FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]FundAllocation, error)

	// Save creates or updates an allocation
	Save(ctx context.Context, allocation *FundAllocation) error

	// Count counts allocations
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsForBranch reports whether a branch has any allocation history,
	// sent or received, in any active state
	ExistsForBranch(ctx context.Context, branchID uuid.UUID) (bool, error)
}
