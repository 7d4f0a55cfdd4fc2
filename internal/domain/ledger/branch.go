package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/shared"
	"github.com/tripled/backend/internal/domain/shared/valueobject"
)

// BranchType distinguishes the single main branch from sub branches
type BranchType string

const (
	BranchTypeMain BranchType = "MAIN"
	BranchTypeSub  BranchType = "SUB"
)

// IsValid checks if the type is a valid BranchType
func (t BranchType) IsValid() bool {
	return t == BranchTypeMain || t == BranchTypeSub
}

// String returns the string representation of BranchType
func (t BranchType) String() string {
	return string(t)
}

// Branch represents an operating location that keeps its own ledger.
// The balance of a branch is never stored: it is derived from committed
// transactions on demand. AllocatedFunds tracks how much the main branch
// has transferred to a sub branch, as separate bookkeeping from the
// ledger itself.
type Branch struct {
	shared.BaseAggregateRoot
	Name           string          `json:"name"`
	Location       string          `json:"location"`
	State          string          `json:"state"`
	Address        string          `json:"address"`
	Type           BranchType      `json:"type"`
	AllocatedFunds decimal.Decimal `json:"allocated_funds"`
	IsActive       bool            `json:"is_active"`
	CreatedBy      *uuid.UUID      `json:"created_by"`
}

// NewBranch creates a new branch
func NewBranch(name, location, state, address string, branchType BranchType) (*Branch, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Branch name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Branch name cannot exceed 100 characters")
	}
	if !branchType.IsValid() {
		return nil, shared.NewDomainError("INVALID_BRANCH_TYPE", "Branch type must be MAIN or SUB")
	}

	branch := &Branch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Location:          location,
		State:             state,
		Address:           address,
		Type:              branchType,
		AllocatedFunds:    decimal.Zero,
		IsActive:          true,
	}

	branch.AddDomainEvent(NewBranchCreatedEvent(branch))

	return branch, nil
}

// Update updates the branch details
func (b *Branch) Update(name, location, state, address string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Branch name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Branch name cannot exceed 100 characters")
	}

	b.Name = name
	b.Location = location
	b.State = state
	b.Address = address
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBranchUpdatedEvent(b))

	return nil
}

// Deactivate deactivates the branch
func (b *Branch) Deactivate() error {
	if !b.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Branch is already inactive")
	}
	if b.Type == BranchTypeMain {
		return shared.NewProtectedRecordError("branch", "the main branch cannot be deactivated")
	}

	b.IsActive = false
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// Activate reactivates the branch
func (b *Branch) Activate() {
	if b.IsActive {
		return
	}
	b.IsActive = true
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// IncreaseAllocatedFunds records funds allocated to this branch
func (b *Branch) IncreaseAllocatedFunds(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidAmountError(amount, "allocated amount must be positive")
	}
	b.AllocatedFunds = b.AllocatedFunds.Add(amount)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// DecreaseAllocatedFunds reverses previously allocated funds
func (b *Branch) DecreaseAllocatedFunds(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidAmountError(amount, "reversed amount must be positive")
	}
	b.AllocatedFunds = b.AllocatedFunds.Sub(amount)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// IsMain returns true if this is the main branch
func (b *Branch) IsMain() bool {
	return b.Type == BranchTypeMain
}

// GetAllocatedFundsMoney returns the allocated funds as Money
func (b *Branch) GetAllocatedFundsMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(b.AllocatedFunds)
}

// SetCreatedBy records the user who created the branch
func (b *Branch) SetCreatedBy(userID uuid.UUID) {
	b.CreatedBy = &userID
}

// BranchBalance is a read model pairing a branch with its derived totals.
// Balance is always Income minus Expenditure over committed transactions.
type BranchBalance struct {
	BranchID    uuid.UUID       `json:"branch_id"`
	Income      decimal.Decimal `json:"income"`
	Expenditure decimal.Decimal `json:"expenditure"`
}

// Balance returns income minus expenditure
func (b BranchBalance) Balance() decimal.Decimal {
	return b.Income.Sub(b.Expenditure)
}

// BalanceMoney returns the derived balance as Money
func (b BranchBalance) BalanceMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(b.Balance())
}
