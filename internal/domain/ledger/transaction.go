package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/shared"
	"github.com/tripled/backend/internal/domain/shared/valueobject"
)

// TransactionType determines whether a transaction adds to or draws from
// a branch balance
type TransactionType string

const (
	TransactionTypeIncome      TransactionType = "INCOME"
	TransactionTypeExpenditure TransactionType = "EXPENDITURE"
)

// IsValid checks if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpenditure
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// CategoryKind returns the category kind this transaction type requires
func (t TransactionType) CategoryKind() CategoryKind {
	if t == TransactionTypeIncome {
		return CategoryKindIncome
	}
	return CategoryKindExpenditure
}

// Transaction is a single ledger entry against a branch. Entries written
// by a fund allocation carry FundAllocationID and may never be edited or
// deleted directly; corrections happen through compensating entries.
type Transaction struct {
	shared.BaseAggregateRoot
	BranchID         uuid.UUID       `json:"branch_id"`
	Type             TransactionType `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description"`
	Date             time.Time       `json:"date"`
	CategoryID       uuid.UUID       `json:"category_id"`
	FundAllocationID *uuid.UUID      `json:"fund_allocation_id"`
	CreatedBy        *uuid.UUID      `json:"created_by"`
}

// NewTransaction creates a new ledger transaction
func NewTransaction(
	branchID uuid.UUID,
	txType TransactionType,
	amount decimal.Decimal,
	description string,
	date time.Time,
	categoryID uuid.UUID,
) (*Transaction, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Transaction type must be INCOME or EXPENDITURE")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidAmountError(amount, "transaction amount must be positive")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Transaction date is required")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}

	tx := &Transaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BranchID:          branchID,
		Type:              txType,
		Amount:            amount,
		Description:       description,
		Date:              date,
		CategoryID:        categoryID,
	}

	tx.AddDomainEvent(NewTransactionRecordedEvent(tx))

	return tx, nil
}

// NewAllocationTransaction creates a protected ledger entry written on
// behalf of a fund allocation
func NewAllocationTransaction(
	branchID uuid.UUID,
	txType TransactionType,
	amount decimal.Decimal,
	description string,
	categoryID uuid.UUID,
	allocationID uuid.UUID,
) (*Transaction, error) {
	tx, err := NewTransaction(branchID, txType, amount, description, time.Now(), categoryID)
	if err != nil {
		return nil, err
	}
	if allocationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ALLOCATION", "Allocation ID cannot be empty")
	}
	tx.FundAllocationID = &allocationID
	return tx, nil
}

// Update changes a transaction's mutable fields. Protected entries reject
// the change outright; balance implications are checked by the service
// with the branch row locked.
func (t *Transaction) Update(amount decimal.Decimal, description string, date time.Time, categoryID uuid.UUID) error {
	if t.IsProtected() {
		return shared.NewProtectedRecordError("transaction", "entries written by a fund allocation can only be corrected by a reversal")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidAmountError(amount, "transaction amount must be positive")
	}
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Transaction date is required")
	}
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}

	t.Amount = amount
	t.Description = description
	t.Date = date
	t.CategoryID = categoryID
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTransactionUpdatedEvent(t))

	return nil
}

// IsProtected returns true if the entry was written by a fund allocation.
// The service additionally treats entries in a system category as
// protected.
func (t *Transaction) IsProtected() bool {
	return t.FundAllocationID != nil
}

// IsIncome returns true for income entries
func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

// IsExpenditure returns true for expenditure entries
func (t *Transaction) IsExpenditure() bool {
	return t.Type == TransactionTypeExpenditure
}

// GetAmountMoney returns the amount as Money
func (t *Transaction) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(t.Amount)
}

// SetCreatedBy records the user who recorded the transaction
func (t *Transaction) SetCreatedBy(userID uuid.UUID) {
	t.CreatedBy = &userID
}
