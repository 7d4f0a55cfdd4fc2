package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/shared"
)

// BranchCreatedEvent is raised when a new branch is created
type BranchCreatedEvent struct {
	shared.BaseDomainEvent
	BranchID   uuid.UUID  `json:"branch_id"`
	Name       string     `json:"name"`
	BranchType BranchType `json:"branch_type"`
}

// EventType returns the event type name
func (e *BranchCreatedEvent) EventType() string {
	return "BranchCreated"
}

// NewBranchCreatedEvent creates a new BranchCreatedEvent
func NewBranchCreatedEvent(branch *Branch) *BranchCreatedEvent {
	return &BranchCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BranchCreated", "Branch", branch.ID),
		BranchID:        branch.ID,
		Name:            branch.Name,
		BranchType:      branch.Type,
	}
}

// BranchUpdatedEvent is raised when branch details change
type BranchUpdatedEvent struct {
	shared.BaseDomainEvent
	BranchID uuid.UUID `json:"branch_id"`
	Name     string    `json:"name"`
}

// EventType returns the event type name
func (e *BranchUpdatedEvent) EventType() string {
	return "BranchUpdated"
}

// NewBranchUpdatedEvent creates a new BranchUpdatedEvent
func NewBranchUpdatedEvent(branch *Branch) *BranchUpdatedEvent {
	return &BranchUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BranchUpdated", "Branch", branch.ID),
		BranchID:        branch.ID,
		Name:            branch.Name,
	}
}

// FundsAllocatedEvent is raised when funds are allocated to a sub branch
type FundsAllocatedEvent struct {
	shared.BaseDomainEvent
	AllocationID uuid.UUID       `json:"allocation_id"`
	FromBranchID uuid.UUID       `json:"from_branch_id"`
	ToBranchID   uuid.UUID       `json:"to_branch_id"`
	Amount       decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *FundsAllocatedEvent) EventType() string {
	return "FundsAllocated"
}

// NewFundsAllocatedEvent creates a new FundsAllocatedEvent
func NewFundsAllocatedEvent(allocation *FundAllocation) *FundsAllocatedEvent {
	return &FundsAllocatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("FundsAllocated", "FundAllocation", allocation.ID),
		AllocationID:    allocation.ID,
		FromBranchID:    allocation.FromBranchID,
		ToBranchID:      allocation.ToBranchID,
		Amount:          allocation.Amount,
	}
}

// AllocationReversedEvent is raised when an allocation is reversed by a
// compensating allocation
type AllocationReversedEvent struct {
	shared.BaseDomainEvent
	OriginalID uuid.UUID       `json:"original_id"`
	ReversalID uuid.UUID       `json:"reversal_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *AllocationReversedEvent) EventType() string {
	return "AllocationReversed"
}

// NewAllocationReversedEvent creates a new AllocationReversedEvent
func NewAllocationReversedEvent(original, reversal *FundAllocation) *AllocationReversedEvent {
	return &AllocationReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AllocationReversed", "FundAllocation", original.ID),
		OriginalID:      original.ID,
		ReversalID:      reversal.ID,
		Amount:          original.Amount,
	}
}
