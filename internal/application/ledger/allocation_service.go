package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/ledger"
	"github.com/tripled/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AllocationService moves funds between branches. Every allocation and
// every reversal is one database transaction covering the allocation
// row, the paired protected ledger entries and the receiving branch's
// allocated-funds bookkeeping: either all of it commits or none.
type AllocationService struct {
	allocationRepo ledger.FundAllocationRepository
	txRepo         ledger.TransactionRepository
	branchRepo     ledger.BranchRepository
	txManager      shared.TransactionManager
	systemCats     ledger.SystemCategories
	balanceCache   BalanceCache
	logger         *zap.Logger
}

// NewAllocationService creates a new AllocationService
func NewAllocationService(
	allocationRepo ledger.FundAllocationRepository,
	txRepo ledger.TransactionRepository,
	branchRepo ledger.BranchRepository,
	txManager shared.TransactionManager,
	systemCats ledger.SystemCategories,
	balanceCache BalanceCache,
	logger *zap.Logger,
) *AllocationService {
	return &AllocationService{
		allocationRepo: allocationRepo,
		txRepo:         txRepo,
		branchRepo:     branchRepo,
		txManager:      txManager,
		systemCats:     systemCats,
		balanceCache:   balanceCache,
		logger:         logger,
	}
}

// AllocationResponse represents a fund allocation in API responses
type AllocationResponse struct {
	ID           uuid.UUID       `json:"id"`
	FromBranchID uuid.UUID       `json:"from_branch_id"`
	ToBranchID   uuid.UUID       `json:"to_branch_id"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	AllocatedAt  time.Time       `json:"allocated_at"`
	IsActive     bool            `json:"is_active"`
	ReversalOfID *uuid.UUID      `json:"reversal_of_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// AllocateRequest represents a request to allocate funds to a branch
type AllocateRequest struct {
	ToBranchID  uuid.UUID       `json:"to_branch_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	AllocatedBy *uuid.UUID      `json:"-"`
}

// ReverseRequest represents a request to reverse an allocation
type ReverseRequest struct {
	Reason     string     `json:"reason"`
	ReversedBy *uuid.UUID `json:"-"`
}

// Allocate transfers funds from the main branch to a sub branch. The
// main branch is the implicit source; the transfer writes a protected
// expenditure on it and a protected income on the receiver.
func (s *AllocationService) Allocate(ctx context.Context, req AllocateRequest) (*AllocationResponse, error) {
	if err := s.systemCats.Validate(); err != nil {
		return nil, err
	}

	var response *AllocationResponse
	err := s.txManager.Execute(ctx, func(ctx context.Context) error {
		main, err := s.branchRepo.FindMainForUpdate(ctx)
		if err != nil {
			return err
		}
		to, err := s.branchRepo.FindByIDForUpdate(ctx, req.ToBranchID)
		if err != nil {
			return err
		}
		if !to.IsActive {
			return shared.NewDomainError("INVALID_STATE", "Cannot allocate funds to an inactive branch")
		}

		balance, err := s.branchRepo.GetBalance(ctx, main.ID)
		if err != nil {
			return err
		}
		if req.Amount.GreaterThan(balance.Balance()) {
			return shared.NewInsufficientFundsError(req.Amount, balance.Balance())
		}

		allocation, err := ledger.NewFundAllocation(main.ID, to.ID, req.Amount, req.Description)
		if err != nil {
			return err
		}
		if req.AllocatedBy != nil {
			allocation.SetAllocatedBy(*req.AllocatedBy)
		}
		if err := s.allocationRepo.Save(ctx, allocation); err != nil {
			return err
		}
		if allocation.ID == uuid.Nil {
			return shared.NewIdentityAssignmentError("fund allocation")
		}

		if err := s.writeAllocationPair(ctx, allocation, main.ID, to.ID, to.Name, main.Name, req.AllocatedBy); err != nil {
			return err
		}

		if err := to.IncreaseAllocatedFunds(req.Amount); err != nil {
			return err
		}
		if err := s.branchRepo.SaveWithLock(ctx, to); err != nil {
			return err
		}

		response = toAllocationResponse(allocation)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, response.FromBranchID, response.ToBranchID)

	s.logger.Info("funds allocated",
		zap.String("allocation_id", response.ID.String()),
		zap.String("to_branch_id", req.ToBranchID.String()),
		zap.String("amount", req.Amount.String()))

	return response, nil
}

// Reverse compensates an active allocation: a new allocation in the
// opposite direction, paired protected entries, and the original
// deactivated. The original rows are never touched beyond the active
// flag.
func (s *AllocationService) Reverse(ctx context.Context, allocationID uuid.UUID, req ReverseRequest) (*AllocationResponse, error) {
	if err := s.systemCats.Validate(); err != nil {
		return nil, err
	}

	var response *AllocationResponse
	err := s.txManager.Execute(ctx, func(ctx context.Context) error {
		original, err := s.allocationRepo.FindByIDForUpdate(ctx, allocationID)
		if err != nil {
			return err
		}

		// Lock both branches in the same order as Allocate.
		if _, err := s.branchRepo.FindByIDForUpdate(ctx, original.FromBranchID); err != nil {
			return err
		}
		to, err := s.branchRepo.FindByIDForUpdate(ctx, original.ToBranchID)
		if err != nil {
			return err
		}

		// The receiving branch must still hold the funds being recalled.
		balance, err := s.branchRepo.GetBalance(ctx, original.ToBranchID)
		if err != nil {
			return err
		}
		if original.Amount.GreaterThan(balance.Balance()) {
			return shared.NewInsufficientFundsError(original.Amount, balance.Balance())
		}

		reversal, err := ledger.NewReversalAllocation(original, req.Reason)
		if err != nil {
			return err
		}
		if req.ReversedBy != nil {
			reversal.SetAllocatedBy(*req.ReversedBy)
		}
		if err := s.allocationRepo.Save(ctx, reversal); err != nil {
			return err
		}
		if reversal.ID == uuid.Nil {
			return shared.NewIdentityAssignmentError("fund allocation reversal")
		}

		// The reversal's expenditure lands on the branch that received
		// the original allocation.
		if err := s.writeAllocationPair(ctx, reversal, original.ToBranchID, original.FromBranchID, "", "", req.ReversedBy); err != nil {
			return err
		}

		if err := to.DecreaseAllocatedFunds(original.Amount); err != nil {
			return err
		}
		if err := s.branchRepo.SaveWithLock(ctx, to); err != nil {
			return err
		}

		if err := original.MarkReversed(); err != nil {
			return err
		}
		if err := s.allocationRepo.Save(ctx, original); err != nil {
			return err
		}

		response = toAllocationResponse(reversal)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, response.FromBranchID, response.ToBranchID)

	s.logger.Info("allocation reversed",
		zap.String("original_id", allocationID.String()),
		zap.String("reversal_id", response.ID.String()))

	return response, nil
}

// Delete always fails: allocations are part of the audit trail and are
// corrected by reversal only.
func (s *AllocationService) Delete(ctx context.Context, allocationID uuid.UUID) error {
	return shared.NewProtectedRecordError("fund allocation", "allocations are never deleted; use a reversal")
}

// GetAllocation returns an allocation by ID
func (s *AllocationService) GetAllocation(ctx context.Context, id uuid.UUID) (*AllocationResponse, error) {
	allocation, err := s.allocationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAllocationResponse(allocation), nil
}

// ListAllocations returns allocations with pagination
func (s *AllocationService) ListAllocations(ctx context.Context, filter shared.Filter) (*shared.Paginated[AllocationResponse], error) {
	allocations, err := s.allocationRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.allocationRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]AllocationResponse, len(allocations))
	for i := range allocations {
		items[i] = *toAllocationResponse(&allocations[i])
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// writeAllocationPair writes the protected expenditure/income pair for
// an allocation (or reversal) and verifies both rows got identities.
func (s *AllocationService) writeAllocationPair(
	ctx context.Context,
	allocation *ledger.FundAllocation,
	fromBranchID, toBranchID uuid.UUID,
	toName, fromName string,
	actor *uuid.UUID,
) error {
	outDesc := fmt.Sprintf("Fund allocation %s (outgoing)", allocation.ID)
	if toName != "" {
		outDesc = fmt.Sprintf("Fund allocation to %s", toName)
	}
	expenditure, err := ledger.NewAllocationTransaction(
		fromBranchID,
		ledger.TransactionTypeExpenditure,
		allocation.Amount,
		outDesc,
		s.systemCats.AllocationExpenditureID,
		allocation.ID,
	)
	if err != nil {
		return err
	}
	if actor != nil {
		expenditure.SetCreatedBy(*actor)
	}
	if err := s.txRepo.Save(ctx, expenditure); err != nil {
		return err
	}
	if expenditure.ID == uuid.Nil {
		return shared.NewIdentityAssignmentError("allocation expenditure entry")
	}

	inDesc := fmt.Sprintf("Fund allocation %s (incoming)", allocation.ID)
	if fromName != "" {
		inDesc = fmt.Sprintf("Fund allocation from %s", fromName)
	}
	income, err := ledger.NewAllocationTransaction(
		toBranchID,
		ledger.TransactionTypeIncome,
		allocation.Amount,
		inDesc,
		s.systemCats.AllocationIncomeID,
		allocation.ID,
	)
	if err != nil {
		return err
	}
	if actor != nil {
		income.SetCreatedBy(*actor)
	}
	if err := s.txRepo.Save(ctx, income); err != nil {
		return err
	}
	if income.ID == uuid.Nil {
		return shared.NewIdentityAssignmentError("allocation income entry")
	}

	return nil
}

func (s *AllocationService) invalidate(ctx context.Context, branchIDs ...uuid.UUID) {
	if s.balanceCache == nil {
		return
	}
	for _, id := range branchIDs {
		s.balanceCache.Invalidate(ctx, id)
	}
}

func toAllocationResponse(allocation *ledger.FundAllocation) *AllocationResponse {
	return &AllocationResponse{
		ID:           allocation.ID,
		FromBranchID: allocation.FromBranchID,
		ToBranchID:   allocation.ToBranchID,
		Amount:       allocation.Amount,
		Description:  allocation.Description,
		AllocatedAt:  allocation.AllocatedAt,
		IsActive:     allocation.IsActive,
		ReversalOfID: allocation.ReversalOfID,
		CreatedAt:    allocation.CreatedAt,
	}
}
