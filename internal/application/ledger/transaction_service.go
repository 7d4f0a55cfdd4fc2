package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/ledger"
	"github.com/tripled/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TransactionService provides application-level ledger entry operations.
// Every balance-changing path runs inside a database transaction with
// the branch row locked, so two concurrent expenditures cannot both pass
// the overdraft guard.
type TransactionService struct {
	txRepo       ledger.TransactionRepository
	branchRepo   ledger.BranchRepository
	categoryRepo ledger.CategoryRepository
	txManager    shared.TransactionManager
	balanceCache BalanceCache
	logger       *zap.Logger
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	txRepo ledger.TransactionRepository,
	branchRepo ledger.BranchRepository,
	categoryRepo ledger.CategoryRepository,
	txManager shared.TransactionManager,
	balanceCache BalanceCache,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		txRepo:       txRepo,
		branchRepo:   branchRepo,
		categoryRepo: categoryRepo,
		txManager:    txManager,
		balanceCache: balanceCache,
		logger:       logger,
	}
}

// TransactionResponse represents a ledger entry in API responses
type TransactionResponse struct {
	ID               uuid.UUID       `json:"id"`
	BranchID         uuid.UUID       `json:"branch_id"`
	Type             string          `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description"`
	Date             time.Time       `json:"date"`
	CategoryID       uuid.UUID       `json:"category_id"`
	FundAllocationID *uuid.UUID      `json:"fund_allocation_id,omitempty"`
	Protected        bool            `json:"protected"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// RecordTransactionRequest represents a request to record a ledger entry
type RecordTransactionRequest struct {
	BranchID    uuid.UUID       `json:"branch_id" binding:"required"`
	Type        string          `json:"type" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Date        time.Time       `json:"date" binding:"required"`
	CategoryID  uuid.UUID       `json:"category_id" binding:"required"`
	CreatedBy   *uuid.UUID      `json:"-"`
}

// UpdateTransactionRequest represents a request to edit a ledger entry
type UpdateTransactionRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Date        time.Time       `json:"date" binding:"required"`
	CategoryID  uuid.UUID       `json:"category_id" binding:"required"`
}

// RecordTransaction records a ledger entry against a branch. For
// expenditures the branch row is locked and the balance recomputed
// before the entry is allowed, so the balance can never go negative.
func (s *TransactionService) RecordTransaction(ctx context.Context, req RecordTransactionRequest) (*TransactionResponse, error) {
	txType := ledger.TransactionType(req.Type)
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Transaction type must be INCOME or EXPENDITURE")
	}

	var response *TransactionResponse
	err := s.txManager.Execute(ctx, func(ctx context.Context) error {
		branch, err := s.branchRepo.FindByIDForUpdate(ctx, req.BranchID)
		if err != nil {
			return err
		}
		if !branch.IsActive {
			return shared.NewDomainError("INVALID_STATE", "Cannot record transactions against an inactive branch")
		}

		category, err := s.categoryRepo.FindByID(ctx, req.CategoryID)
		if err != nil {
			return err
		}
		if err := s.validateCategory(category, txType, branch); err != nil {
			return err
		}

		if txType == ledger.TransactionTypeExpenditure {
			if err := s.guardSufficientFunds(ctx, branch.ID, req.Amount); err != nil {
				return err
			}
		}

		tx, err := ledger.NewTransaction(req.BranchID, txType, req.Amount, req.Description, req.Date, req.CategoryID)
		if err != nil {
			return err
		}
		if req.CreatedBy != nil {
			tx.SetCreatedBy(*req.CreatedBy)
		}

		if err := s.txRepo.Save(ctx, tx); err != nil {
			return err
		}

		response = toTransactionResponse(tx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBalance(ctx, req.BranchID)

	s.logger.Info("transaction recorded",
		zap.String("transaction_id", response.ID.String()),
		zap.String("branch_id", req.BranchID.String()),
		zap.String("type", req.Type),
		zap.String("amount", req.Amount.String()))

	return response, nil
}

// GetTransaction returns a ledger entry by ID
func (s *TransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(tx), nil
}

// ListTransactions returns ledger entries with filtering
func (s *TransactionService) ListTransactions(ctx context.Context, filter ledger.TransactionFilter) (*shared.Paginated[TransactionResponse], error) {
	txs, err := s.txRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.txRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]TransactionResponse, len(txs))
	for i := range txs {
		items[i] = *toTransactionResponse(&txs[i])
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateTransaction edits a ledger entry. Protected entries are
// rejected; otherwise the edit is only allowed when the branch balance
// stays non-negative after the change.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id uuid.UUID, req UpdateTransactionRequest) (*TransactionResponse, error) {
	var response *TransactionResponse
	err := s.txManager.Execute(ctx, func(ctx context.Context) error {
		// Lock the entry row before reading its amount: a concurrent
		// edit must not leave the balance guard working from a stale
		// snapshot of what this entry contributes.
		tx, err := s.txRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := s.guardNotProtected(ctx, tx); err != nil {
			return err
		}

		if _, err := s.branchRepo.FindByIDForUpdate(ctx, tx.BranchID); err != nil {
			return err
		}

		category, err := s.categoryRepo.FindByID(ctx, req.CategoryID)
		if err != nil {
			return err
		}
		if category.Kind != tx.Type.CategoryKind() {
			return shared.NewDomainError("CATEGORY_KIND_MISMATCH", "Category kind does not match the transaction type")
		}
		if category.IsSystem {
			return shared.NewProtectedRecordError("category", "system categories cannot be assigned directly")
		}

		// Reject any edit whose resulting balance would go negative.
		balance, err := s.branchRepo.GetBalance(ctx, tx.BranchID)
		if err != nil {
			return err
		}
		withoutOld := balance.Balance().Sub(s.effectOf(tx.Type, tx.Amount))
		hypothetical := withoutOld.Add(s.effectOf(tx.Type, req.Amount))
		if hypothetical.IsNegative() {
			if tx.Type == ledger.TransactionTypeExpenditure {
				return shared.NewInsufficientFundsError(req.Amount, withoutOld)
			}
			// Shrinking an income entry below what has been spent.
			return shared.NewInsufficientFundsError(tx.Amount.Sub(req.Amount), balance.Balance())
		}

		if err := tx.Update(req.Amount, req.Description, req.Date, req.CategoryID); err != nil {
			return err
		}

		if err := s.txRepo.Save(ctx, tx); err != nil {
			return err
		}

		response = toTransactionResponse(tx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBalance(ctx, response.BranchID)
	return response, nil
}

// DeleteTransaction deletes a ledger entry. Protected entries are
// rejected, and removing an income entry must not push the balance
// negative.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	var branchID uuid.UUID
	err := s.txManager.Execute(ctx, func(ctx context.Context) error {
		tx, err := s.txRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := s.guardNotProtected(ctx, tx); err != nil {
			return err
		}

		if _, err := s.branchRepo.FindByIDForUpdate(ctx, tx.BranchID); err != nil {
			return err
		}

		if tx.Type == ledger.TransactionTypeIncome {
			balance, err := s.branchRepo.GetBalance(ctx, tx.BranchID)
			if err != nil {
				return err
			}
			if balance.Balance().Sub(tx.Amount).IsNegative() {
				return shared.NewInsufficientFundsError(tx.Amount, balance.Balance())
			}
		}

		branchID = tx.BranchID
		return s.txRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.invalidateBalance(ctx, branchID)
	s.logger.Info("transaction deleted", zap.String("transaction_id", id.String()))
	return nil
}

// guardSufficientFunds recomputes the balance and rejects amounts above it
func (s *TransactionService) guardSufficientFunds(ctx context.Context, branchID uuid.UUID, amount decimal.Decimal) error {
	balance, err := s.branchRepo.GetBalance(ctx, branchID)
	if err != nil {
		return err
	}
	if amount.GreaterThan(balance.Balance()) {
		return shared.NewInsufficientFundsError(amount, balance.Balance())
	}
	return nil
}

// guardNotProtected rejects edits to allocation-written entries and
// entries in a system category
func (s *TransactionService) guardNotProtected(ctx context.Context, tx *ledger.Transaction) error {
	if tx.IsProtected() {
		return shared.NewProtectedRecordError("transaction", "entries written by a fund allocation can only be corrected by a reversal")
	}
	category, err := s.categoryRepo.FindByID(ctx, tx.CategoryID)
	if err != nil {
		return err
	}
	if category.IsSystem {
		return shared.NewProtectedRecordError("transaction", "entries in a system category cannot be changed directly")
	}
	return nil
}

// effectOf returns the signed balance contribution of an amount under a
// type: income adds, expenditure subtracts
func (s *TransactionService) effectOf(txType ledger.TransactionType, amount decimal.Decimal) decimal.Decimal {
	if txType == ledger.TransactionTypeIncome {
		return amount
	}
	return amount.Neg()
}

func (s *TransactionService) validateCategory(category *ledger.Category, txType ledger.TransactionType, branch *ledger.Branch) error {
	if !category.IsActive {
		return shared.NewDomainError("INVALID_CATEGORY", "Category is inactive")
	}
	if category.IsSystem {
		return shared.NewProtectedRecordError("category", "system categories cannot be assigned directly")
	}
	if category.Kind != txType.CategoryKind() {
		return shared.NewDomainError("CATEGORY_KIND_MISMATCH", "Category kind does not match the transaction type")
	}
	if !category.AppliesTo(branch.Type) {
		return shared.NewDomainError("CATEGORY_SCOPE_MISMATCH", "Category is not available to this branch type")
	}
	return nil
}

func (s *TransactionService) invalidateBalance(ctx context.Context, branchID uuid.UUID) {
	if s.balanceCache != nil {
		s.balanceCache.Invalidate(ctx, branchID)
	}
}

func toTransactionResponse(tx *ledger.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:               tx.ID,
		BranchID:         tx.BranchID,
		Type:             tx.Type.String(),
		Amount:           tx.Amount,
		Description:      tx.Description,
		Date:             tx.Date,
		CategoryID:       tx.CategoryID,
		FundAllocationID: tx.FundAllocationID,
		Protected:        tx.IsProtected(),
		CreatedAt:        tx.CreatedAt,
		UpdatedAt:        tx.UpdatedAt,
		Version:          tx.Version,
	}
}
