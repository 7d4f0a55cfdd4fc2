package realty

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/tripled/backend/internal/domain/ledger"
	"github.com/tripled/backend/internal/domain/realty"
	"github.com/tripled/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// passthroughTxManager runs the closure directly, standing in for a real
// database transaction in service tests.
type passthroughTxManager struct{}

func (passthroughTxManager) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockRealtorRepository is a mock implementation of realty.RealtorRepository
type MockRealtorRepository struct {
	mock.Mock
}

func (m *MockRealtorRepository) FindByID(ctx context.Context, id uuid.UUID) (*realty.Realtor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*realty.Realtor), args.Error(1)
}

func (m *MockRealtorRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*realty.Realtor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*realty.Realtor), args.Error(1)
}

func (m *MockRealtorRepository) FindByReferralCode(ctx context.Context, code string) (*realty.Realtor, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*realty.Realtor), args.Error(1)
}

func (m *MockRealtorRepository) ExistsByReferralCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockRealtorRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockRealtorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]realty.Realtor, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]realty.Realtor), args.Error(1)
}

func (m *MockRealtorRepository) FindBySponsor(ctx context.Context, sponsorID uuid.UUID) ([]realty.Realtor, error) {
	args := m.Called(ctx, sponsorID)
	return args.Get(0).([]realty.Realtor), args.Error(1)
}

func (m *MockRealtorRepository) Save(ctx context.Context, realtor *realty.Realtor) error {
	args := m.Called(ctx, realtor)
	return args.Error(0)
}

func (m *MockRealtorRepository) SaveWithLock(ctx context.Context, realtor *realty.Realtor) error {
	args := m.Called(ctx, realtor)
	return args.Error(0)
}

func (m *MockRealtorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRealtorRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockPropertySaleRepository is a mock implementation of realty.PropertySaleRepository
type MockPropertySaleRepository struct {
	mock.Mock
}

func (m *MockPropertySaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*realty.PropertySale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*realty.PropertySale), args.Error(1)
}

func (m *MockPropertySaleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*realty.PropertySale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*realty.PropertySale), args.Error(1)
}

func (m *MockPropertySaleRepository) FindByReference(ctx context.Context, reference string) (*realty.PropertySale, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*realty.PropertySale), args.Error(1)
}

func (m *MockPropertySaleRepository) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	args := m.Called(ctx, reference)
	return args.Bool(0), args.Error(1)
}

func (m *MockPropertySaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]realty.PropertySale, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]realty.PropertySale), args.Error(1)
}

func (m *MockPropertySaleRepository) FindByRealtor(ctx context.Context, realtorID uuid.UUID, filter shared.Filter) ([]realty.PropertySale, error) {
	args := m.Called(ctx, realtorID, filter)
	return args.Get(0).([]realty.PropertySale), args.Error(1)
}

func (m *MockPropertySaleRepository) Save(ctx context.Context, sale *realty.PropertySale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockPropertySaleRepository) SaveWithLock(ctx context.Context, sale *realty.PropertySale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockPropertySaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockPaymentRepository is a mock implementation of realty.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*realty.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*realty.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]realty.Payment, error) {
	args := m.Called(ctx, saleID)
	return args.Get(0).([]realty.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *realty.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) SumBySale(ctx context.Context, saleID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, saleID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockCommissionRepository is a mock implementation of realty.CommissionRepository
type MockCommissionRepository struct {
	mock.Mock
}

func (m *MockCommissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*realty.Commission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*realty.Commission), args.Error(1)
}

func (m *MockCommissionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*realty.Commission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*realty.Commission), args.Error(1)
}

func (m *MockCommissionRepository) FindAll(ctx context.Context, filter realty.CommissionFilter) ([]realty.Commission, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]realty.Commission), args.Error(1)
}

func (m *MockCommissionRepository) FindUnpaidByRealtor(ctx context.Context, realtorID uuid.UUID) ([]realty.Commission, error) {
	args := m.Called(ctx, realtorID)
	return args.Get(0).([]realty.Commission), args.Error(1)
}

func (m *MockCommissionRepository) Save(ctx context.Context, commission *realty.Commission) error {
	args := m.Called(ctx, commission)
	return args.Error(0)
}

func (m *MockCommissionRepository) Count(ctx context.Context, filter realty.CommissionFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommissionRepository) SumByRealtor(ctx context.Context, realtorID uuid.UUID, isPaid *bool) (decimal.Decimal, error) {
	args := m.Called(ctx, realtorID, isPaid)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockBranchRepository is a mock implementation of ledger.BranchRepository,
// used by the commission payout path
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

func testLogger() *zap.Logger {
	return zap.NewNop()
}
