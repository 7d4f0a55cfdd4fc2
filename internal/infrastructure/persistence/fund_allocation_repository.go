package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tripled/backend/internal/domain/ledger"
	"github.com/tripled/backend/internal/domain/shared"
	"github.com/tripled/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFundAllocationRepository implements ledger.FundAllocationRepository
// using GORM. There is no Delete: allocations are corrected by reversal.
type GormFundAllocationRepository struct {
	db *gorm.DB
}

// NewGormFundAllocationRepository creates a new GormFundAllocationRepository
func NewGormFundAllocationRepository(db *gorm.DB) *GormFundAllocationRepository {
	return &GormFundAllocationRepository{db: db}
}

// FindByID finds an allocation by its ID
func (r *GormFundAllocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.FundAllocation, error) {
	var model models.FundAllocationModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds an allocation by ID holding a row lock
func (r *GormFundAllocationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ledger.FundAllocation, error) {
	var model models.FundAllocationModel
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

// FindAll finds allocations matching the filter
func (r *GormFundAllocationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.FundAllocation, error) {
	var allocationModels []models.FundAllocationModel
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&models.FundAllocationModel{}), filter)
	query = applyPagination(query, filter)
	query = applySort(query, filter, AllocationSortFields, "allocated_at")

	if err := query.Find(&allocationModels).Error; err != nil {
		return nil, err
	}

	allocations := make([]ledger.FundAllocation, len(allocationModels))
	for i, model := range allocationModels {
		allocations[i] = *model.ToDomain()
	}
	return allocations, nil
}

// FindByBranch finds allocations sent or received by a branch
func (r *GormFundAllocationRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]ledger.FundAllocation, error) {
	var allocationModels []models.FundAllocationModel
	query := dbFromContext(ctx, r.db).
		Model(&models.FundAllocationModel{}).
		Where("from_branch_id = ? OR to_branch_id = ?", branchID, branchID)
	query = applyPagination(query, filter)
	query = applySort(query, filter, AllocationSortFields, "allocated_at")

	if err := query.Find(&allocationModels).Error; err != nil {
		return nil, err
	}

	allocations := make([]ledger.FundAllocation, len(allocationModels))
	for i, model := range allocationModels {
		allocations[i] = *model.ToDomain()
	}
	return allocations, nil
}

// Save creates or updates an allocation
func (r *GormFundAllocationRepository) Save(ctx context.Context, allocation *ledger.FundAllocation) error {
	model := models.FundAllocationModelFromDomain(allocation)
	return dbFromContext(ctx, r.db).Save(model).Error
}

// Count counts allocations matching the filter
func (r *GormFundAllocationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&models.FundAllocationModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsForBranch reports whether a branch has any allocation history
func (r *GormFundAllocationRepository) ExistsForBranch(ctx context.Context, branchID uuid.UUID) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).
		Model(&models.FundAllocationModel{}).
		Where("from_branch_id = ? OR to_branch_id = ?", branchID, branchID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormFundAllocationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "from_branch_id":
			query = query.Where("from_branch_id = ?", value)
		case "to_branch_id":
			query = query.Where("to_branch_id = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}
	return query
}

// Ensure GormFundAllocationRepository implements FundAllocationRepository
var _ ledger.FundAllocationRepository = (*GormFundAllocationRepository)(nil)
