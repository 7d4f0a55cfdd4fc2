package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/realty"
	"github.com/tripled/backend/internal/domain/shared"
	"github.com/tripled/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCommissionRepository implements realty.CommissionRepository using GORM.
// Commissions are a permanent earnings record and are never deleted.
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewGormCommissionRepository creates a new GormCommissionRepository
func NewGormCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// FindByID finds a commission by its ID
func (r *GormCommissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*realty.Commission, error) {
	var model models.CommissionModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a commission by ID holding a row lock for the
// duration of the surrounding transaction
func (r *GormCommissionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*realty.Commission, error) {
	var model models.CommissionModel
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

// FindAll finds commissions matching the filter
func (r *GormCommissionRepository) FindAll(ctx context.Context, filter realty.CommissionFilter) ([]realty.Commission, error) {
	var commissionModels []models.CommissionModel
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&models.CommissionModel{}), filter)
	query = applyPagination(query, filter.Filter)
	query = applySort(query, filter.Filter, CommissionSortFields, "created_at")

	if err := query.Find(&commissionModels).Error; err != nil {
		return nil, err
	}

	commissions := make([]realty.Commission, len(commissionModels))
	for i, model := range commissionModels {
		commissions[i] = *model.ToDomain()
	}
	return commissions, nil
}

// FindUnpaidByRealtor finds a realtor's unpaid commissions, oldest first
func (r *GormCommissionRepository) FindUnpaidByRealtor(ctx context.Context, realtorID uuid.UUID) ([]realty.Commission, error) {
	var commissionModels []models.CommissionModel
	if err := dbFromContext(ctx, r.db).
		Where("realtor_id = ? AND is_paid = ?", realtorID, false).
		Order("created_at ASC").
		Find(&commissionModels).Error; err != nil {
		return nil, err
	}

	commissions := make([]realty.Commission, len(commissionModels))
	for i, model := range commissionModels {
		commissions[i] = *model.ToDomain()
	}
	return commissions, nil
}

// Save creates or updates a commission
func (r *GormCommissionRepository) Save(ctx context.Context, commission *realty.Commission) error {
	model := models.CommissionModelFromDomain(commission)
	return dbFromContext(ctx, r.db).Save(model).Error
}

// Count counts commissions matching the filter
func (r *GormCommissionRepository) Count(ctx context.Context, filter realty.CommissionFilter) (int64, error) {
	var count int64
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&models.CommissionModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumByRealtor sums commission amounts for a realtor, optionally restricted
// to paid or unpaid
func (r *GormCommissionRepository) SumByRealtor(ctx context.Context, realtorID uuid.UUID, isPaid *bool) (decimal.Decimal, error) {
	query := dbFromContext(ctx, r.db).
		Model(&models.CommissionModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("realtor_id = ?", realtorID)
	if isPaid != nil {
		query = query.Where("is_paid = ?", *isPaid)
	}

	var sum decimal.Decimal
	if err := query.Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *GormCommissionRepository) applyFilter(query *gorm.DB, filter realty.CommissionFilter) *gorm.DB {
	if filter.RealtorID != nil {
		query = query.Where("realtor_id = ?", *filter.RealtorID)
	}
	if filter.Tier != nil {
		query = query.Where("tier = ?", filter.Tier.String())
	}
	if filter.IsPaid != nil {
		query = query.Where("is_paid = ?", *filter.IsPaid)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("description ILIKE ? OR property_reference ILIKE ?", pattern, pattern)
	}
	return query
}

// Ensure GormCommissionRepository implements CommissionRepository
var _ realty.CommissionRepository = (*GormCommissionRepository)(nil)
