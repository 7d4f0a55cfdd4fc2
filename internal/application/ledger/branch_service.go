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

// BalanceCache caches derived branch balances on the read path. Any
// write to a branch's ledger must invalidate its entry.
type BalanceCache interface {
	Get(ctx context.Context, branchID uuid.UUID) (*ledger.BranchBalance, bool)
	Set(ctx context.Context, balance *ledger.BranchBalance)
	Invalidate(ctx context.Context, branchID uuid.UUID)
}

// BranchService provides application-level branch operations
type BranchService struct {
	branchRepo     ledger.BranchRepository
	allocationRepo ledger.FundAllocationRepository
	balanceCache   BalanceCache
	logger         *zap.Logger
}

// NewBranchService creates a new BranchService
func NewBranchService(
	branchRepo ledger.BranchRepository,
	allocationRepo ledger.FundAllocationRepository,
	balanceCache BalanceCache,
	logger *zap.Logger,
) *BranchService {
	return &BranchService{
		branchRepo:     branchRepo,
		allocationRepo: allocationRepo,
		balanceCache:   balanceCache,
		logger:         logger,
	}
}

// BranchResponse represents a branch in API responses
type BranchResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Location       string          `json:"location"`
	State          string          `json:"state"`
	Address        string          `json:"address"`
	Type           string          `json:"type"`
	AllocatedFunds decimal.Decimal `json:"allocated_funds"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// BranchBalanceResponse carries the derived balance of a branch
type BranchBalanceResponse struct {
	BranchID    uuid.UUID       `json:"branch_id"`
	Income      decimal.Decimal `json:"income"`
	Expenditure decimal.Decimal `json:"expenditure"`
	Balance     decimal.Decimal `json:"balance"`
}

// CreateBranchRequest represents a request to create a branch
type CreateBranchRequest struct {
	Name      string     `json:"name" binding:"required"`
	Location  string     `json:"location"`
	State     string     `json:"state"`
	Address   string     `json:"address"`
	Type      string     `json:"type" binding:"required"`
	CreatedBy *uuid.UUID `json:"-"`
}

// UpdateBranchRequest represents a request to update a branch
type UpdateBranchRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
	State    string `json:"state"`
	Address  string `json:"address"`
}

// CreateBranch creates a new branch. Only one active main branch may
// exist at a time.
func (s *BranchService) CreateBranch(ctx context.Context, req CreateBranchRequest) (*BranchResponse, error) {
	branchType := ledger.BranchType(req.Type)

	if branchType == ledger.BranchTypeMain {
		existing, err := s.branchRepo.FindMain(ctx)
		if err != nil && err != shared.ErrNotFound {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("MAIN_BRANCH_EXISTS", "An active main branch already exists")
		}
	}

	branch, err := ledger.NewBranch(req.Name, req.Location, req.State, req.Address, branchType)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		branch.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.branchRepo.Save(ctx, branch); err != nil {
		return nil, err
	}

	s.logger.Info("branch created",
		zap.String("branch_id", branch.ID.String()),
		zap.String("name", branch.Name),
		zap.String("type", branch.Type.String()))

	return toBranchResponse(branch), nil
}

// GetBranch returns a branch by ID
func (s *BranchService) GetBranch(ctx context.Context, id uuid.UUID) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// GetBalance returns the derived balance of a branch. The balance is
// computed from committed transactions, with a cache in front for the
// read path only.
func (s *BranchService) GetBalance(ctx context.Context, branchID uuid.UUID) (*BranchBalanceResponse, error) {
	if s.balanceCache != nil {
		if cached, ok := s.balanceCache.Get(ctx, branchID); ok {
			return toBalanceResponse(cached), nil
		}
	}

	if _, err := s.branchRepo.FindByID(ctx, branchID); err != nil {
		return nil, err
	}

	balance, err := s.branchRepo.GetBalance(ctx, branchID)
	if err != nil {
		return nil, err
	}

	if s.balanceCache != nil {
		s.balanceCache.Set(ctx, balance)
	}

	return toBalanceResponse(balance), nil
}

// ListBranches returns branches with pagination
func (s *BranchService) ListBranches(ctx context.Context, filter shared.Filter) (*shared.Paginated[BranchResponse], error) {
	branches, err := s.branchRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.branchRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]BranchResponse, len(branches))
	for i := range branches {
		items[i] = *toBranchResponse(&branches[i])
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateBranch updates branch details
func (s *BranchService) UpdateBranch(ctx context.Context, id uuid.UUID, req UpdateBranchRequest) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := branch.Update(req.Name, req.Location, req.State, req.Address); err != nil {
		return nil, err
	}

	if err := s.branchRepo.SaveWithLock(ctx, branch); err != nil {
		return nil, err
	}

	return toBranchResponse(branch), nil
}

// DeleteBranch deletes a branch. The main branch and any branch with
// allocation history, sent or received, are protected.
func (s *BranchService) DeleteBranch(ctx context.Context, id uuid.UUID) error {
	branch, err := s.branchRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if branch.IsMain() {
		return shared.NewProtectedRecordError("branch", "the main branch cannot be deleted")
	}

	hasAllocations, err := s.allocationRepo.ExistsForBranch(ctx, id)
	if err != nil {
		return err
	}
	if hasAllocations {
		return shared.NewProtectedRecordError("branch", "branches with allocation history cannot be deleted; deactivate instead")
	}

	if err := s.branchRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.balanceCache != nil {
		s.balanceCache.Invalidate(ctx, id)
	}

	s.logger.Info("branch deleted", zap.String("branch_id", id.String()))
	return nil
}

// DeactivateBranch deactivates a branch
func (s *BranchService) DeactivateBranch(ctx context.Context, id uuid.UUID) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := branch.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.branchRepo.SaveWithLock(ctx, branch); err != nil {
		return nil, err
	}

	return toBranchResponse(branch), nil
}

func toBranchResponse(branch *ledger.Branch) *BranchResponse {
	return &BranchResponse{
		ID:             branch.ID,
		Name:           branch.Name,
		Location:       branch.Location,
		State:          branch.State,
		Address:        branch.Address,
		Type:           branch.Type.String(),
		AllocatedFunds: branch.AllocatedFunds,
		IsActive:       branch.IsActive,
		CreatedAt:      branch.CreatedAt,
		UpdatedAt:      branch.UpdatedAt,
		Version:        branch.Version,
	}
}

func toBalanceResponse(balance *ledger.BranchBalance) *BranchBalanceResponse {
	return &BranchBalanceResponse{
		BranchID:    balance.BranchID,
		Income:      balance.Income,
		Expenditure: balance.Expenditure,
		Balance:     balance.Balance(),
	}
}
