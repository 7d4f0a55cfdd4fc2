package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/ledger"
	"github.com/tripled/backend/internal/domain/shared"
	"github.com/tripled/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBranchRepository implements ledger.BranchRepository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// FindByID finds a branch by its ID
func (r *GormBranchRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Branch, error) {
	var model models.BranchModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a branch by ID holding a row lock until the
// surrounding transaction commits
func (r *GormBranchRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Branch, error) {
	var model models.BranchModel
	if err := dbFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindMain finds the active main branch
func (r *GormBranchRepository) FindMain(ctx context.Context) (*ledger.Branch, error) {
	var model models.BranchModel
	if err := dbFromContext(ctx, r.db).
		Where("type = ? AND is_active = ?", ledger.BranchTypeMain.String(), true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindMainForUpdate finds the active main branch holding a row lock
func (r *GormBranchRepository) FindMainForUpdate(ctx context.Context) (*ledger.Branch, error) {
	var model models.BranchModel
	if err := dbFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("type = ? AND is_active = ?", ledger.BranchTypeMain.String(), true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all branches matching the filter
func (r *GormBranchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.Branch, error) {
	var branchModels []models.BranchModel
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&models.BranchModel{}), filter)

	if err := query.Find(&branchModels).Error; err != nil {
		return nil, err
	}

	branches := make([]ledger.Branch, len(branchModels))
	for i, model := range branchModels {
		branches[i] = *model.ToDomain()
	}
	return branches, nil
}

// Save creates or updates a branch
func (r *GormBranchRepository) Save(ctx context.Context, branch *ledger.Branch) error {
	model := models.BranchModelFromDomain(branch)
	return dbFromContext(ctx, r.db).Save(model).Error
}

// SaveWithLock saves a branch with optimistic locking (version check).
// Returns an error if the version has changed under us.
func (r *GormBranchRepository) SaveWithLock(ctx context.Context, branch *ledger.Branch) error {
	model := models.BranchModelFromDomain(branch)
	result := dbFromContext(ctx, r.db).
		Model(model).
		Where("id = ? AND version = ?", branch.ID, branch.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The branch record has been modified by another transaction")
	}
	return nil
}

// Delete deletes a branch
func (r *GormBranchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&models.BranchModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts branches matching the filter
func (r *GormBranchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(dbFromContext(ctx, r.db).Model(&models.BranchModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumByType sums committed transaction amounts for a branch by type
func (r *GormBranchRepository) SumByType(ctx context.Context, branchID uuid.UUID, txType ledger.TransactionType) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := dbFromContext(ctx, r.db).
		Model(&models.TransactionModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("branch_id = ? AND type = ?", branchID, txType.String()).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// GetBalance returns the derived income/expenditure totals for a branch.
// The balance is never stored; it is always this derivation.
func (r *GormBranchRepository) GetBalance(ctx context.Context, branchID uuid.UUID) (*ledger.BranchBalance, error) {
	income, err := r.SumByType(ctx, branchID, ledger.TransactionTypeIncome)
	if err != nil {
		return nil, err
	}
	expenditure, err := r.SumByType(ctx, branchID, ledger.TransactionTypeExpenditure)
	if err != nil {
		return nil, err
	}
	return &ledger.BranchBalance{
		BranchID:    branchID,
		Income:      income,
		Expenditure: expenditure,
	}, nil
}

func (r *GormBranchRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)
	query = applyPagination(query, filter)
	return applySort(query, filter, BranchSortFields, "created_at")
}

func (r *GormBranchRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR location ILIKE ? OR state ILIKE ?", pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "state":
			query = query.Where("state = ?", value)
		}
	}
	return query
}

// Ensure GormBranchRepository implements BranchRepository
var _ ledger.BranchRepository = (*GormBranchRepository)(nil)
