package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tripled/backend/internal/domain/ledger"
	"github.com/tripled/backend/internal/domain/shared"
	"github.com/tripled/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCategoryRepository implements ledger.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Category, error) {
	var model models.CategoryModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a category by its exact name
func (r *GormCategoryRepository) FindByName(ctx context.Context, name string) (*ledger.Category, error) {
	var model models.CategoryModel
	if err := dbFromContext(ctx, r.db).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindSystemCategory finds a system category by name and kind
func (r *GormCategoryRepository) FindSystemCategory(ctx context.Context, name string, kind ledger.CategoryKind) (*ledger.Category, error) {
	var model models.CategoryModel
	if err := dbFromContext(ctx, r.db).
		Where("name = ? AND kind = ? AND is_system = ?", name, kind.String(), true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all categories matching the filter
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.Category, error) {
	var categoryModels []models.CategoryModel
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&models.CategoryModel{}), filter)

	if err := query.Find(&categoryModels).Error; err != nil {
		return nil, err
	}

	categories := make([]ledger.Category, len(categoryModels))
	for i, model := range categoryModels {
		categories[i] = *model.ToDomain()
	}
	return categories, nil
}

// FindByKind finds categories of a kind, optionally restricted to those a
// branch type may use
func (r *GormCategoryRepository) FindByKind(ctx context.Context, kind ledger.CategoryKind, branchType *ledger.BranchType) ([]ledger.Category, error) {
	query := dbFromContext(ctx, r.db).
		Model(&models.CategoryModel{}).
		Where("kind = ? AND is_active = ?", kind.String(), true)

	if branchType != nil {
		query = query.Where("scope IN ?", []string{string(ledger.CategoryScopeAll), branchType.String()})
	}

	var categoryModels []models.CategoryModel
	if err := query.Order("name ASC").Find(&categoryModels).Error; err != nil {
		return nil, err
	}

	categories := make([]ledger.Category, len(categoryModels))
	for i, model := range categoryModels {
		categories[i] = *model.ToDomain()
	}
	return categories, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *ledger.Category) error {
	model := models.CategoryModelFromDomain(category)
	return dbFromContext(ctx, r.db).Save(model).Error
}

// Delete deletes a category
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&models.CategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountTransactions counts ledger entries referencing the category
func (r *GormCategoryRepository) CountTransactions(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).
		Model(&models.TransactionModel{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCategoryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
		case "scope":
			query = query.Where("scope = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "is_system":
			query = query.Where("is_system = ?", value)
		}
	}
	query = applyPagination(query, filter)
	return applySort(query, filter, CategorySortFields, "name")
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ ledger.CategoryRepository = (*GormCategoryRepository)(nil)
