package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/shared"
	"github.com/tripled/backend/internal/domain/shared/valueobject"
)

// AlreadyReversedError is returned when reversing an allocation that has
// already been reversed
type AlreadyReversedError struct {
	AllocationID uuid.UUID
}

// Error implements the error interface
func (e *AlreadyReversedError) Error() string {
	return fmt.Sprintf("allocation %s has already been reversed", e.AllocationID)
}

// Code returns the stable error code for HTTP mapping
func (e *AlreadyReversedError) Code() string {
	return "ALREADY_REVERSED"
}

// FundAllocation moves funds from the main branch to a sub branch. An
// allocation is never deleted: mistakes are corrected by a compensating
// allocation in the opposite direction, which carries ReversalOfID
// pointing back at the original.
type FundAllocation struct {
	shared.BaseAggregateRoot
	FromBranchID uuid.UUID       `json:"from_branch_id"`
	ToBranchID   uuid.UUID       `json:"to_branch_id"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	AllocatedBy  *uuid.UUID      `json:"allocated_by"`
	AllocatedAt  time.Time       `json:"allocated_at"`
	IsActive     bool            `json:"is_active"`
	ReversalOfID *uuid.UUID      `json:"reversal_of_id"`
}

// NewFundAllocation creates a new fund allocation
func NewFundAllocation(fromBranchID, toBranchID uuid.UUID, amount decimal.Decimal, description string) (*FundAllocation, error) {
	if fromBranchID == uuid.Nil || toBranchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Both branches are required")
	}
	if fromBranchID == toBranchID {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Cannot allocate funds from a branch to itself")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidAmountError(amount, "allocation amount must be positive")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}

	allocation := &FundAllocation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FromBranchID:      fromBranchID,
		ToBranchID:        toBranchID,
		Amount:            amount,
		Description:       description,
		AllocatedAt:       time.Now(),
		IsActive:          true,
	}

	allocation.AddDomainEvent(NewFundsAllocatedEvent(allocation))

	return allocation, nil
}

// NewReversalAllocation creates the compensating allocation for the
// original: branches swapped, same amount, back-link set. The original
// must still be active.
func NewReversalAllocation(original *FundAllocation, reason string) (*FundAllocation, error) {
	if original == nil {
		return nil, shared.NewDomainError("INVALID_ALLOCATION", "Original allocation is required")
	}
	if !original.IsActive {
		return nil, &AlreadyReversedError{AllocationID: original.ID}
	}
	if original.IsReversal() {
		return nil, shared.NewDomainError("INVALID_STATE", "A reversal allocation cannot itself be reversed")
	}

	description := reason
	if description == "" {
		description = fmt.Sprintf("Reversal of allocation %s", original.ID)
	}

	reversal := &FundAllocation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FromBranchID:      original.ToBranchID,
		ToBranchID:        original.FromBranchID,
		Amount:            original.Amount,
		Description:       description,
		AllocatedAt:       time.Now(),
		IsActive:          true,
		ReversalOfID:      &original.ID,
	}

	reversal.AddDomainEvent(NewAllocationReversedEvent(original, reversal))

	return reversal, nil
}

// MarkReversed deactivates the original allocation after its reversal has
// been written
func (a *FundAllocation) MarkReversed() error {
	if !a.IsActive {
		return &AlreadyReversedError{AllocationID: a.ID}
	}
	a.IsActive = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// IsReversal returns true if this allocation compensates another
func (a *FundAllocation) IsReversal() bool {
	return a.ReversalOfID != nil
}

// GetAmountMoney returns the amount as Money
func (a *FundAllocation) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(a.Amount)
}

// SetAllocatedBy records the user who made the allocation
func (a *FundAllocation) SetAllocatedBy(userID uuid.UUID) {
	a.AllocatedBy = &userID
}
