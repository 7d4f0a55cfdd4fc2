package realty

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/ledger"
	"github.com/tripled/backend/internal/domain/realty"
	"github.com/tripled/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BalanceInvalidator evicts a branch's cached balance after a write
// that changes it
type BalanceInvalidator interface {
	Invalidate(ctx context.Context, branchID uuid.UUID)
}

// CommissionService pays out earned commissions. A payout is money
// leaving the company, so marking a commission paid writes an
// expenditure on the main branch ledger in the same transaction; the
// payout fails if the main branch cannot cover it.
type CommissionService struct {
	commissionRepo realty.CommissionRepository
	realtorRepo    realty.RealtorRepository
	branchRepo     ledger.BranchRepository
	txRepo         ledger.TransactionRepository
	txManager      shared.TransactionManager
	systemCats     ledger.SystemCategories
	balanceCache   BalanceInvalidator
	logger         *zap.Logger
}

// NewCommissionService creates a new CommissionService
func NewCommissionService(
	commissionRepo realty.CommissionRepository,
	realtorRepo realty.RealtorRepository,
	branchRepo ledger.BranchRepository,
	txRepo ledger.TransactionRepository,
	txManager shared.TransactionManager,
	systemCats ledger.SystemCategories,
	balanceCache BalanceInvalidator,
	logger *zap.Logger,
) *CommissionService {
	return &CommissionService{
		commissionRepo: commissionRepo,
		realtorRepo:    realtorRepo,
		branchRepo:     branchRepo,
		txRepo:         txRepo,
		txManager:      txManager,
		systemCats:     systemCats,
		balanceCache:   balanceCache,
		logger:         logger,
	}
}

// CommissionResponse represents a commission in API responses
type CommissionResponse struct {
	ID                uuid.UUID       `json:"id"`
	RealtorID         uuid.UUID       `json:"realtor_id"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	PropertyReference string          `json:"property_reference"`
	Tier              string          `json:"tier"`
	IsPaid            bool            `json:"is_paid"`
	PaidDate          *time.Time      `json:"paid_date,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// PayAllResult reports the outcome of a bulk payout
type PayAllResult struct {
	RealtorID uuid.UUID       `json:"realtor_id"`
	PaidCount int             `json:"paid_count"`
	TotalPaid decimal.Decimal `json:"total_paid"`
}

// CommissionSummary carries a realtor's commission totals
type CommissionSummary struct {
	RealtorID uuid.UUID       `json:"realtor_id"`
	Total     decimal.Decimal `json:"total"`
	Paid      decimal.Decimal `json:"paid"`
	Unpaid    decimal.Decimal `json:"unpaid"`
}

// GetCommission returns a commission by ID
func (s *CommissionService) GetCommission(ctx context.Context, id uuid.UUID) (*CommissionResponse, error) {
	commission, err := s.commissionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCommissionResponse(commission), nil
}

// ListCommissions returns commissions with filtering
func (s *CommissionService) ListCommissions(ctx context.Context, filter realty.CommissionFilter) (*shared.Paginated[CommissionResponse], error) {
	commissions, err := s.commissionRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.commissionRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]CommissionResponse, len(commissions))
	for i := range commissions {
		items[i] = *toCommissionResponse(&commissions[i])
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// GetSummary returns a realtor's paid and unpaid commission totals,
// derived from the commission rows
func (s *CommissionService) GetSummary(ctx context.Context, realtorID uuid.UUID) (*CommissionSummary, error) {
	if _, err := s.realtorRepo.FindByID(ctx, realtorID); err != nil {
		return nil, err
	}

	paid := true
	paidSum, err := s.commissionRepo.SumByRealtor(ctx, realtorID, &paid)
	if err != nil {
		return nil, err
	}
	unpaid := false
	unpaidSum, err := s.commissionRepo.SumByRealtor(ctx, realtorID, &unpaid)
	if err != nil {
		return nil, err
	}

	return &CommissionSummary{
		RealtorID: realtorID,
		Total:     paidSum.Add(unpaidSum),
		Paid:      paidSum,
		Unpaid:    unpaidSum,
	}, nil
}

// MarkPaid pays out a single commission. The operation is one-way and
// idempotent: paying an already-paid commission returns it unchanged
// without touching the ledger or the realtor's totals.
func (s *CommissionService) MarkPaid(ctx context.Context, commissionID uuid.UUID, paidBy *uuid.UUID) (*CommissionResponse, error) {
	if err := s.systemCats.Validate(); err != nil {
		return nil, err
	}

	var response *CommissionResponse
	var mainBranchID uuid.UUID
	err := s.txManager.Execute(ctx, func(ctx context.Context) error {
		// Lock the commission row first: a concurrent payout of the
		// same commission must observe is_paid after this one commits,
		// not a stale snapshot.
		commission, err := s.commissionRepo.FindByIDForUpdate(ctx, commissionID)
		if err != nil {
			return err
		}
		if commission.IsPaid {
			response = toCommissionResponse(commission)
			return nil
		}

		realtor, err := s.realtorRepo.FindByIDForUpdate(ctx, commission.RealtorID)
		if err != nil {
			return err
		}
		main, err := s.branchRepo.FindMainForUpdate(ctx)
		if err != nil {
			return err
		}

		if err := s.guardMainBalance(ctx, main.ID, commission.Amount); err != nil {
			return err
		}

		if !commission.MarkAsPaid() {
			response = toCommissionResponse(commission)
			return nil
		}
		if err := s.commissionRepo.Save(ctx, commission); err != nil {
			return err
		}

		description := fmt.Sprintf("Commission payout to %s (%s)", realtor.FullName(), commission.PropertyReference)
		if err := s.writePayoutEntry(ctx, main.ID, commission.Amount, description, paidBy); err != nil {
			return err
		}

		if err := realtor.RecordCommissionPaid(commission.Amount); err != nil {
			return err
		}
		if err := s.realtorRepo.SaveWithLock(ctx, realtor); err != nil {
			return err
		}

		mainBranchID = main.ID
		response = toCommissionResponse(commission)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if mainBranchID != uuid.Nil {
		s.invalidate(ctx, mainBranchID)
		s.logger.Info("commission paid",
			zap.String("commission_id", commissionID.String()),
			zap.String("amount", response.Amount.String()))
	}

	return response, nil
}

// PayAll pays out every unpaid commission a realtor has, as a single
// ledger expenditure for the combined total. Nothing to pay is not an
// error: the result reports zero.
func (s *CommissionService) PayAll(ctx context.Context, realtorID uuid.UUID, paidBy *uuid.UUID) (*PayAllResult, error) {
	if err := s.systemCats.Validate(); err != nil {
		return nil, err
	}

	var result *PayAllResult
	var mainBranchID uuid.UUID
	err := s.txManager.Execute(ctx, func(ctx context.Context) error {
		realtor, err := s.realtorRepo.FindByIDForUpdate(ctx, realtorID)
		if err != nil {
			return err
		}

		unpaid, err := s.commissionRepo.FindUnpaidByRealtor(ctx, realtorID)
		if err != nil {
			return err
		}
		if len(unpaid) == 0 {
			result = &PayAllResult{RealtorID: realtorID, PaidCount: 0, TotalPaid: decimal.Zero}
			return nil
		}

		total := decimal.Zero
		for i := range unpaid {
			total = total.Add(unpaid[i].Amount)
		}

		main, err := s.branchRepo.FindMainForUpdate(ctx)
		if err != nil {
			return err
		}
		if err := s.guardMainBalance(ctx, main.ID, total); err != nil {
			return err
		}

		paidCount := 0
		for i := range unpaid {
			if !unpaid[i].MarkAsPaid() {
				continue
			}
			if err := s.commissionRepo.Save(ctx, &unpaid[i]); err != nil {
				return err
			}
			paidCount++
		}

		description := fmt.Sprintf("Commission payout to %s (%d commissions)", realtor.FullName(), paidCount)
		if err := s.writePayoutEntry(ctx, main.ID, total, description, paidBy); err != nil {
			return err
		}

		if err := realtor.RecordCommissionPaid(total); err != nil {
			return err
		}
		if err := s.realtorRepo.SaveWithLock(ctx, realtor); err != nil {
			return err
		}

		mainBranchID = main.ID
		result = &PayAllResult{RealtorID: realtorID, PaidCount: paidCount, TotalPaid: total}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if mainBranchID != uuid.Nil {
		s.invalidate(ctx, mainBranchID)
		s.logger.Info("commissions paid in bulk",
			zap.String("realtor_id", realtorID.String()),
			zap.Int("count", result.PaidCount),
			zap.String("total", result.TotalPaid.String()))
	}

	return result, nil
}

// guardMainBalance checks the main branch can cover a payout
func (s *CommissionService) guardMainBalance(ctx context.Context, mainBranchID uuid.UUID, amount decimal.Decimal) error {
	balance, err := s.branchRepo.GetBalance(ctx, mainBranchID)
	if err != nil {
		return err
	}
	if amount.GreaterThan(balance.Balance()) {
		return shared.NewInsufficientFundsError(amount, balance.Balance())
	}
	return nil
}

// writePayoutEntry records the payout as a main-branch expenditure in
// the system commission category
func (s *CommissionService) writePayoutEntry(ctx context.Context, mainBranchID uuid.UUID, amount decimal.Decimal, description string, actor *uuid.UUID) error {
	entry, err := ledger.NewTransaction(
		mainBranchID,
		ledger.TransactionTypeExpenditure,
		amount,
		description,
		time.Now(),
		s.systemCats.CommissionExpenditureID,
	)
	if err != nil {
		return err
	}
	if actor != nil {
		entry.SetCreatedBy(*actor)
	}
	if err := s.txRepo.Save(ctx, entry); err != nil {
		return err
	}
	if entry.ID == uuid.Nil {
		return shared.NewIdentityAssignmentError("commission payout entry")
	}
	return nil
}

func (s *CommissionService) invalidate(ctx context.Context, branchID uuid.UUID) {
	if s.balanceCache != nil {
		s.balanceCache.Invalidate(ctx, branchID)
	}
}

func toCommissionResponse(commission *realty.Commission) *CommissionResponse {
	return &CommissionResponse{
		ID:                commission.ID,
		RealtorID:         commission.RealtorID,
		Amount:            commission.Amount,
		Description:       commission.Description,
		PropertyReference: commission.PropertyReference,
		Tier:              commission.Tier.String(),
		IsPaid:            commission.IsPaid,
		PaidDate:          commission.PaidDate,
		CreatedAt:         commission.CreatedAt,
	}
}
