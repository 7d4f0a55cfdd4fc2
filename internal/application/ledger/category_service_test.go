package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tripled/backend/internal/domain/ledger"
	"github.com/tripled/backend/internal/domain/shared"
)

func TestCategoryService_CreateCategory(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	service := NewCategoryService(categoryRepo, testLogger())

	categoryRepo.On("FindByName", mock.Anything, "Legal Fees").Return(nil, shared.ErrNotFound)
	categoryRepo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.Category")).Return(nil)

	resp, err := service.CreateCategory(context.Background(), CreateCategoryRequest{
		Name:  "Legal Fees",
		Kind:  "EXPENDITURE",
		Scope: "ALL",
	})

	require.NoError(t, err)
	assert.Equal(t, "Legal Fees", resp.Name)
	assert.False(t, resp.IsSystem)
}

func TestCategoryService_CreateCategory_DuplicateName(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	service := NewCategoryService(categoryRepo, testLogger())

	existing := newTestCategory(t, ledger.CategoryKindExpenditure)
	categoryRepo.On("FindByName", mock.Anything, existing.Name).Return(existing, nil)

	_, err := service.CreateCategory(context.Background(), CreateCategoryRequest{
		Name:  existing.Name,
		Kind:  "EXPENDITURE",
		Scope: "ALL",
	})

	require.Error(t, err)
	assert.Equal(t, "ALREADY_EXISTS", serviceErrCode(err))
}

func TestCategoryService_DeleteCategory_SystemProtected(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	service := NewCategoryService(categoryRepo, testLogger())

	systemCat, err := ledger.NewSystemCategory(ledger.SystemCategoryRealtorCommission, ledger.CategoryKindExpenditure)
	require.NoError(t, err)

	categoryRepo.On("FindByID", mock.Anything, systemCat.ID).Return(systemCat, nil)

	err = service.DeleteCategory(context.Background(), systemCat.ID)

	var protectedErr *shared.ProtectedRecordError
	require.ErrorAs(t, err, &protectedErr)
	categoryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCategoryService_DeleteCategory_WithHistoryProtected(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	service := NewCategoryService(categoryRepo, testLogger())

	category := newTestCategory(t, ledger.CategoryKindExpenditure)
	categoryRepo.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	categoryRepo.On("CountTransactions", mock.Anything, category.ID).Return(int64(3), nil)

	err := service.DeleteCategory(context.Background(), category.ID)

	var protectedErr *shared.ProtectedRecordError
	require.ErrorAs(t, err, &protectedErr)
	categoryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCategoryService_DeleteCategory_UnusedAllowed(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	service := NewCategoryService(categoryRepo, testLogger())

	category := newTestCategory(t, ledger.CategoryKindExpenditure)
	categoryRepo.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	categoryRepo.On("CountTransactions", mock.Anything, category.ID).Return(int64(0), nil)
	categoryRepo.On("Delete", mock.Anything, category.ID).Return(nil)

	require.NoError(t, service.DeleteCategory(context.Background(), category.ID))
	categoryRepo.AssertExpectations(t)
}

func TestCategoryService_UpdateCategory_SystemProtected(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	service := NewCategoryService(categoryRepo, testLogger())

	systemCat, err := ledger.NewSystemCategory(ledger.SystemCategoryFundAllocation, ledger.CategoryKindIncome)
	require.NoError(t, err)

	categoryRepo.On("FindByID", mock.Anything, systemCat.ID).Return(systemCat, nil)

	_, err = service.UpdateCategory(context.Background(), systemCat.ID, UpdateCategoryRequest{
		Name:  "Renamed",
		Scope: "ALL",
	})

	var protectedErr *shared.ProtectedRecordError
	require.ErrorAs(t, err, &protectedErr)
	categoryRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCategoryService_DeactivateCategory(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	service := NewCategoryService(categoryRepo, testLogger())

	category := newTestCategory(t, ledger.CategoryKindIncome)
	categoryRepo.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	categoryRepo.On("Save", mock.Anything, category).Return(nil)

	resp, err := service.DeactivateCategory(context.Background(), category.ID)

	require.NoError(t, err)
	assert.False(t, resp.IsActive)
}
