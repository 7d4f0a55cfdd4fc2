package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/tripled/backend/internal/domain/ledger"
	"github.com/tripled/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// passthroughTxManager runs the closure directly, standing in for a real
// database transaction in service tests.
type passthroughTxManager struct{}

func (passthroughTxManager) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockBranchRepository is a mock implementation of ledger.BranchRepository
type MockBranchRepository struct {
	mock.Mock
}

func (m *MockBranchRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Branch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Branch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindMain(ctx context.Context) (*ledger.Branch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindMainForUpdate(ctx context.Context) (*ledger.Branch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.Branch, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ledger.Branch), args.Error(1)
}

func (m *MockBranchRepository) Save(ctx context.Context, branch *ledger.Branch) error {
	args := m.Called(ctx, branch)
	return args.Error(0)
}

func (m *MockBranchRepository) SaveWithLock(ctx context.Context, branch *ledger.Branch) error {
	args := m.Called(ctx, branch)
	return args.Error(0)
}

func (m *MockBranchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBranchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBranchRepository) SumByType(ctx context.Context, branchID uuid.UUID, txType ledger.TransactionType) (decimal.Decimal, error) {
	args := m.Called(ctx, branchID, txType)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBranchRepository) GetBalance(ctx context.Context, branchID uuid.UUID) (*ledger.BranchBalance, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.BranchBalance), args.Error(1)
}

// MockCategoryRepository is a mock implementation of ledger.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, name string) (*ledger.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindSystemCategory(ctx context.Context, name string, kind ledger.CategoryKind) (*ledger.Category, error) {
	args := m.Called(ctx, name, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.Category, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ledger.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByKind(ctx context.Context, kind ledger.CategoryKind, branchType *ledger.BranchType) ([]ledger.Category, error) {
	args := m.Called(ctx, kind, branchType)
	return args.Get(0).([]ledger.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *ledger.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) CountTransactions(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionRepository is a mock implementation of ledger.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAll(ctx context.Context, filter ledger.TransactionFilter) ([]ledger.Transaction, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByAllocation(ctx context.Context, allocationID uuid.UUID) ([]ledger.Transaction, error) {
	args := m.Called(ctx, allocationID)
	return args.Get(0).([]ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, tx *ledger.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTransactionRepository) Count(ctx context.Context, filter ledger.TransactionFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockFundAllocationRepository is a mock implementation of ledger.FundAllocationRepository
type MockFundAllocationRepository struct {
	mock.Mock
}

func (m *MockFundAllocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.FundAllocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.FundAllocation), args.Error(1)
}

func (m *MockFundAllocationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ledger.FundAllocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.FundAllocation), args.Error(1)
}

func (m *MockFundAllocationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.FundAllocation, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ledger.FundAllocation), args.Error(1)
}

func (m *MockFundAllocationRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]ledger.FundAllocation, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).([]ledger.FundAllocation), args.Error(1)
}

func (m *MockFundAllocationRepository) Save(ctx context.Context, allocation *ledger.FundAllocation) error {
	args := m.Called(ctx, allocation)
	return args.Error(0)
}

func (m *MockFundAllocationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFundAllocationRepository) ExistsForBranch(ctx context.Context, branchID uuid.UUID) (bool, error) {
	args := m.Called(ctx, branchID)
	return args.Bool(0), args.Error(1)
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
