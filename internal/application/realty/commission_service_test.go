package realty

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tripled/backend/internal/domain/ledger"
	"github.com/tripled/backend/internal/domain/realty"
	"github.com/tripled/backend/internal/domain/shared"
)

type recordingInvalidator struct {
	branchIDs []uuid.UUID
}

func (r *recordingInvalidator) Invalidate(_ context.Context, branchID uuid.UUID) {
	r.branchIDs = append(r.branchIDs, branchID)
}

func testSystemCategories() ledger.SystemCategories {
	return ledger.SystemCategories{
		AllocationExpenditureID: uuid.New(),
		AllocationIncomeID:      uuid.New(),
		CommissionExpenditureID: uuid.New(),
	}
}

func newMainBranch(t *testing.T) *ledger.Branch {
	t.Helper()
	branch, err := ledger.NewBranch("Head Office", "Ikeja", "Lagos", "", ledger.BranchTypeMain)
	require.NoError(t, err)
	return branch
}

func mainBalanceOf(branchID uuid.UUID, income, expenditure int64) *ledger.BranchBalance {
	return &ledger.BranchBalance{
		BranchID:    branchID,
		Income:      decimal.NewFromInt(income),
		Expenditure: decimal.NewFromInt(expenditure),
	}
}

func newTestCommission(t *testing.T, realtorID uuid.UUID, amount int64) *realty.Commission {
	t.Helper()
	commission, err := realty.NewCommission(
		realtorID,
		decimal.NewFromInt(amount),
		"Direct commission on sale AB12CD34EF56",
		"AB12CD34EF56",
		realty.CommissionTierRealtor,
	)
	require.NoError(t, err)
	return commission
}

func newCommissionService(
	commissionRepo *MockCommissionRepository,
	realtorRepo *MockRealtorRepository,
	branchRepo *MockBranchRepository,
	txRepo *MockTransactionRepository,
	cats ledger.SystemCategories,
	cache BalanceInvalidator,
) *CommissionService {
	return NewCommissionService(commissionRepo, realtorRepo, branchRepo, txRepo, passthroughTxManager{}, cats, cache, testLogger())
}

func TestCommissionService_MarkPaid(t *testing.T) {
	commissionRepo := new(MockCommissionRepository)
	realtorRepo := new(MockRealtorRepository)
	branchRepo := new(MockBranchRepository)
	txRepo := new(MockTransactionRepository)
	cats := testSystemCategories()
	cache := &recordingInvalidator{}
	service := newCommissionService(commissionRepo, realtorRepo, branchRepo, txRepo, cats, cache)

	realtor := newTestRealtor(t, "emeka", "33333333")
	require.NoError(t, realtor.AddCommission(decimal.NewFromInt(50000)))
	commission := newTestCommission(t, realtor.ID, 50000)
	main := newMainBranch(t)

	commissionRepo.On("FindByIDForUpdate", mock.Anything, commission.ID).Return(commission, nil)
	realtorRepo.On("FindByIDForUpdate", mock.Anything, realtor.ID).Return(realtor, nil)
	branchRepo.On("FindMainForUpdate", mock.Anything).Return(main, nil)
	branchRepo.On("GetBalance", mock.Anything, main.ID).Return(mainBalanceOf(main.ID, 2000000, 500000), nil)
	commissionRepo.On("Save", mock.Anything, commission).Return(nil)
	txRepo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.Transaction")).Return(nil)
	realtorRepo.On("SaveWithLock", mock.Anything, realtor).Return(nil)

	resp, err := service.MarkPaid(context.Background(), commission.ID, nil)

	require.NoError(t, err)
	assert.True(t, resp.IsPaid)
	require.NotNil(t, resp.PaidDate)
	assert.True(t, realtor.PaidCommission.Equal(decimal.NewFromInt(50000)))

	// The payout is an expenditure on the main branch ledger.
	entry := txRepo.Calls[0].Arguments.Get(1).(*ledger.Transaction)
	assert.Equal(t, main.ID, entry.BranchID)
	assert.Equal(t, ledger.TransactionTypeExpenditure, entry.Type)
	assert.Equal(t, cats.CommissionExpenditureID, entry.CategoryID)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(50000)))

	require.Len(t, cache.branchIDs, 1)
	assert.Equal(t, main.ID, cache.branchIDs[0])
}

func TestCommissionService_MarkPaid_AlreadyPaidIsNoOp(t *testing.T) {
	commissionRepo := new(MockCommissionRepository)
	realtorRepo := new(MockRealtorRepository)
	branchRepo := new(MockBranchRepository)
	txRepo := new(MockTransactionRepository)
	cache := &recordingInvalidator{}
	service := newCommissionService(commissionRepo, realtorRepo, branchRepo, txRepo, testSystemCategories(), cache)

	realtor := newTestRealtor(t, "emeka", "33333333")
	commission := newTestCommission(t, realtor.ID, 50000)
	require.True(t, commission.MarkAsPaid())

	commissionRepo.On("FindByIDForUpdate", mock.Anything, commission.ID).Return(commission, nil)

	resp, err := service.MarkPaid(context.Background(), commission.ID, nil)

	require.NoError(t, err)
	assert.True(t, resp.IsPaid)
	commissionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	txRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	realtorRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	assert.Empty(t, cache.branchIDs)
}

func TestCommissionService_MarkPaid_ConcurrentPayoutLoserWritesNothing(t *testing.T) {
	// Two payouts of the same commission race. The winner commits first;
	// the loser's locked read then sees the row already paid and must not
	// write a second ledger entry or bump the realtor's totals again.
	commissionRepo := new(MockCommissionRepository)
	realtorRepo := new(MockRealtorRepository)
	branchRepo := new(MockBranchRepository)
	txRepo := new(MockTransactionRepository)
	cache := &recordingInvalidator{}
	service := newCommissionService(commissionRepo, realtorRepo, branchRepo, txRepo, testSystemCategories(), cache)

	realtor := newTestRealtor(t, "emeka", "33333333")
	require.NoError(t, realtor.AddCommission(decimal.NewFromInt(100000)))
	require.NoError(t, realtor.RecordCommissionPaid(decimal.NewFromInt(50000)))

	stored := newTestCommission(t, realtor.ID, 50000)
	require.True(t, stored.MarkAsPaid())

	commissionRepo.On("FindByIDForUpdate", mock.Anything, stored.ID).Return(stored, nil)

	resp, err := service.MarkPaid(context.Background(), stored.ID, nil)

	require.NoError(t, err)
	assert.True(t, resp.IsPaid)
	commissionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	txRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	realtorRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	assert.True(t, realtor.PaidCommission.Equal(decimal.NewFromInt(50000)))
	assert.Empty(t, cache.branchIDs)
}

func TestCommissionService_MarkPaid_InsufficientMainBalance(t *testing.T) {
	commissionRepo := new(MockCommissionRepository)
	realtorRepo := new(MockRealtorRepository)
	branchRepo := new(MockBranchRepository)
	txRepo := new(MockTransactionRepository)
	service := newCommissionService(commissionRepo, realtorRepo, branchRepo, txRepo, testSystemCategories(), nil)

	realtor := newTestRealtor(t, "emeka", "33333333")
	commission := newTestCommission(t, realtor.ID, 50000)
	main := newMainBranch(t)

	commissionRepo.On("FindByIDForUpdate", mock.Anything, commission.ID).Return(commission, nil)
	realtorRepo.On("FindByIDForUpdate", mock.Anything, realtor.ID).Return(realtor, nil)
	branchRepo.On("FindMainForUpdate", mock.Anything).Return(main, nil)
	branchRepo.On("GetBalance", mock.Anything, main.ID).Return(mainBalanceOf(main.ID, 100000, 70000), nil)

	_, err := service.MarkPaid(context.Background(), commission.ID, nil)

	var fundsErr *shared.InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	assert.True(t, fundsErr.Shortfall().Equal(decimal.NewFromInt(20000)))
	assert.False(t, commission.IsPaid)
	txRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCommissionService_MarkPaid_MissingSystemCategories(t *testing.T) {
	service := newCommissionService(new(MockCommissionRepository), new(MockRealtorRepository), new(MockBranchRepository), new(MockTransactionRepository), ledger.SystemCategories{}, nil)

	_, err := service.MarkPaid(context.Background(), uuid.New(), nil)

	require.Error(t, err)
	assert.Equal(t, "MISSING_SYSTEM_CATEGORY", serviceErrCode(err))
}

func TestCommissionService_PayAll(t *testing.T) {
	commissionRepo := new(MockCommissionRepository)
	realtorRepo := new(MockRealtorRepository)
	branchRepo := new(MockBranchRepository)
	txRepo := new(MockTransactionRepository)
	cats := testSystemCategories()
	cache := &recordingInvalidator{}
	service := newCommissionService(commissionRepo, realtorRepo, branchRepo, txRepo, cats, cache)

	realtor := newTestRealtor(t, "emeka", "33333333")
	require.NoError(t, realtor.AddCommission(decimal.NewFromInt(80000)))
	main := newMainBranch(t)

	first := newTestCommission(t, realtor.ID, 50000)
	second := newTestCommission(t, realtor.ID, 30000)

	realtorRepo.On("FindByIDForUpdate", mock.Anything, realtor.ID).Return(realtor, nil)
	commissionRepo.On("FindUnpaidByRealtor", mock.Anything, realtor.ID).Return([]realty.Commission{*first, *second}, nil)
	branchRepo.On("FindMainForUpdate", mock.Anything).Return(main, nil)
	branchRepo.On("GetBalance", mock.Anything, main.ID).Return(mainBalanceOf(main.ID, 2000000, 500000), nil)
	commissionRepo.On("Save", mock.Anything, mock.AnythingOfType("*realty.Commission")).Return(nil)
	txRepo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.Transaction")).Return(nil)
	realtorRepo.On("SaveWithLock", mock.Anything, realtor).Return(nil)

	result, err := service.PayAll(context.Background(), realtor.ID, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, result.PaidCount)
	assert.True(t, result.TotalPaid.Equal(decimal.NewFromInt(80000)))
	assert.True(t, realtor.PaidCommission.Equal(decimal.NewFromInt(80000)))

	// One aggregate ledger entry for the combined total, not one per
	// commission.
	txRepo.AssertNumberOfCalls(t, "Save", 1)
	entry := txRepo.Calls[0].Arguments.Get(1).(*ledger.Transaction)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(80000)))
	assert.Equal(t, cats.CommissionExpenditureID, entry.CategoryID)
}

func TestCommissionService_PayAll_NothingUnpaid(t *testing.T) {
	commissionRepo := new(MockCommissionRepository)
	realtorRepo := new(MockRealtorRepository)
	branchRepo := new(MockBranchRepository)
	txRepo := new(MockTransactionRepository)
	cache := &recordingInvalidator{}
	service := newCommissionService(commissionRepo, realtorRepo, branchRepo, txRepo, testSystemCategories(), cache)

	realtor := newTestRealtor(t, "emeka", "33333333")
	realtorRepo.On("FindByIDForUpdate", mock.Anything, realtor.ID).Return(realtor, nil)
	commissionRepo.On("FindUnpaidByRealtor", mock.Anything, realtor.ID).Return([]realty.Commission{}, nil)

	result, err := service.PayAll(context.Background(), realtor.ID, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, result.PaidCount)
	assert.True(t, result.TotalPaid.IsZero())
	branchRepo.AssertNotCalled(t, "FindMainForUpdate", mock.Anything)
	txRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Empty(t, cache.branchIDs)
}

func TestCommissionService_PayAll_InsufficientForTotal(t *testing.T) {
	commissionRepo := new(MockCommissionRepository)
	realtorRepo := new(MockRealtorRepository)
	branchRepo := new(MockBranchRepository)
	txRepo := new(MockTransactionRepository)
	service := newCommissionService(commissionRepo, realtorRepo, branchRepo, txRepo, testSystemCategories(), nil)

	realtor := newTestRealtor(t, "emeka", "33333333")
	main := newMainBranch(t)
	first := newTestCommission(t, realtor.ID, 50000)
	second := newTestCommission(t, realtor.ID, 30000)

	realtorRepo.On("FindByIDForUpdate", mock.Anything, realtor.ID).Return(realtor, nil)
	commissionRepo.On("FindUnpaidByRealtor", mock.Anything, realtor.ID).Return([]realty.Commission{*first, *second}, nil)
	branchRepo.On("FindMainForUpdate", mock.Anything).Return(main, nil)
	// Covers one commission, not both.
	branchRepo.On("GetBalance", mock.Anything, main.ID).Return(mainBalanceOf(main.ID, 60000, 0), nil)

	_, err := service.PayAll(context.Background(), realtor.ID, nil)

	var fundsErr *shared.InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	assert.True(t, fundsErr.Shortfall().Equal(decimal.NewFromInt(20000)))
	commissionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCommissionService_GetSummary(t *testing.T) {
	commissionRepo := new(MockCommissionRepository)
	realtorRepo := new(MockRealtorRepository)
	service := newCommissionService(commissionRepo, realtorRepo, new(MockBranchRepository), new(MockTransactionRepository), testSystemCategories(), nil)

	realtor := newTestRealtor(t, "emeka", "33333333")
	realtorRepo.On("FindByID", mock.Anything, realtor.ID).Return(realtor, nil)
	commissionRepo.On("SumByRealtor", mock.Anything, realtor.ID, mock.MatchedBy(func(p *bool) bool { return p != nil && *p })).
		Return(decimal.NewFromInt(80000), nil)
	commissionRepo.On("SumByRealtor", mock.Anything, realtor.ID, mock.MatchedBy(func(p *bool) bool { return p != nil && !*p })).
		Return(decimal.NewFromInt(20000), nil)

	summary, err := service.GetSummary(context.Background(), realtor.ID)

	require.NoError(t, err)
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(100000)))
	assert.True(t, summary.Paid.Equal(decimal.NewFromInt(80000)))
	assert.True(t, summary.Unpaid.Equal(decimal.NewFromInt(20000)))
}
