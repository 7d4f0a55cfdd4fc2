package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/shared"
)

// TransactionRecordedEvent is raised when a ledger entry is recorded
type TransactionRecordedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	BranchID      uuid.UUID       `json:"branch_id"`
	Type          TransactionType `json:"transaction_type"`
	Amount        decimal.Decimal `json:"amount"`
	CategoryID    uuid.UUID       `json:"category_id"`
	Date          time.Time       `json:"date"`
}

// EventType returns the event type name
func (e *TransactionRecordedEvent) EventType() string {
	return "TransactionRecorded"
}

// NewTransactionRecordedEvent creates a new TransactionRecordedEvent
func NewTransactionRecordedEvent(tx *Transaction) *TransactionRecordedEvent {
	return &TransactionRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TransactionRecorded", "Transaction", tx.ID),
		TransactionID:   tx.ID,
		BranchID:        tx.BranchID,
		Type:            tx.Type,
		Amount:          tx.Amount,
		CategoryID:      tx.CategoryID,
		Date:            tx.Date,
	}
}

// TransactionUpdatedEvent is raised when a ledger entry is edited
type TransactionUpdatedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	BranchID      uuid.UUID       `json:"branch_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *TransactionUpdatedEvent) EventType() string {
	return "TransactionUpdated"
}

// NewTransactionUpdatedEvent creates a new TransactionUpdatedEvent
func NewTransactionUpdatedEvent(tx *Transaction) *TransactionUpdatedEvent {
	return &TransactionUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("TransactionUpdated", "Transaction", tx.ID),
		TransactionID:   tx.ID,
		BranchID:        tx.BranchID,
		Amount:          tx.Amount,
	}
}
