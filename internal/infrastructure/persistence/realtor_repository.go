package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/tripled/backend/internal/domain/realty"
	"github.com/tripled/backend/internal/domain/shared"
	"github.com/tripled/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRealtorRepository implements realty.RealtorRepository using GORM
type GormRealtorRepository struct {
	db *gorm.DB
}

// NewGormRealtorRepository creates a new GormRealtorRepository
func NewGormRealtorRepository(db *gorm.DB) *GormRealtorRepository {
	return &GormRealtorRepository{db: db}
}

// FindByID finds a realtor by its ID
func (r *GormRealtorRepository) FindByID(ctx context.Context, id uuid.UUID) (*realty.Realtor, error) {
	var model models.RealtorModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a realtor by ID holding a row lock. The cascade
// locks every chain member before writing commissions.
func (r *GormRealtorRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*realty.Realtor, error) {
	var model models.RealtorModel
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

// FindByReferralCode finds a realtor by referral code
func (r *GormRealtorRepository) FindByReferralCode(ctx context.Context, code string) (*realty.Realtor, error) {
	var model models.RealtorModel
	if err := dbFromContext(ctx, r.db).Where("referral_code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByReferralCode reports whether a referral code is already taken
func (r *GormRealtorRepository) ExistsByReferralCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).
		Model(&models.RealtorModel{}).
		Where("referral_code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByEmail reports whether a realtor with the email exists
func (r *GormRealtorRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var count int64
	if err := dbFromContext(ctx, r.db).
		Model(&models.RealtorModel{}).
		Where("email = ?", strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds realtors matching the filter
func (r *GormRealtorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]realty.Realtor, error) {
	var realtorModels []models.RealtorModel
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&models.RealtorModel{}), filter)
	query = applyPagination(query, filter)
	query = applySort(query, filter, RealtorSortFields, "created_at")

	if err := query.Find(&realtorModels).Error; err != nil {
		return nil, err
	}

	realtors := make([]realty.Realtor, len(realtorModels))
	for i, model := range realtorModels {
		realtors[i] = *model.ToDomain()
	}
	return realtors, nil
}

// FindBySponsor finds the realtors directly sponsored by a realtor
func (r *GormRealtorRepository) FindBySponsor(ctx context.Context, sponsorID uuid.UUID) ([]realty.Realtor, error) {
	var realtorModels []models.RealtorModel
	if err := dbFromContext(ctx, r.db).
		Where("sponsor_id = ?", sponsorID).
		Order("created_at ASC").
		Find(&realtorModels).Error; err != nil {
		return nil, err
	}

	realtors := make([]realty.Realtor, len(realtorModels))
	for i, model := range realtorModels {
		realtors[i] = *model.ToDomain()
	}
	return realtors, nil
}

// Save creates or updates a realtor
func (r *GormRealtorRepository) Save(ctx context.Context, realtor *realty.Realtor) error {
	model := models.RealtorModelFromDomain(realtor)
	return dbFromContext(ctx, r.db).Save(model).Error
}

// SaveWithLock saves a realtor with optimistic locking (version check)
func (r *GormRealtorRepository) SaveWithLock(ctx context.Context, realtor *realty.Realtor) error {
	model := models.RealtorModelFromDomain(realtor)
	result := dbFromContext(ctx, r.db).
		Model(model).
		Where("id = ? AND version = ?", realtor.ID, realtor.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The realtor record has been modified by another transaction")
	}
	return nil
}

// Delete deletes a realtor
func (r *GormRealtorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&models.RealtorModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts realtors matching the filter
func (r *GormRealtorRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&models.RealtorModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormRealtorRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR referral_code ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "sponsor_id":
			query = query.Where("sponsor_id = ?", value)
		}
	}
	return query
}

// Ensure GormRealtorRepository implements RealtorRepository
var _ realty.RealtorRepository = (*GormRealtorRepository)(nil)
