package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tripled/backend/internal/domain/realty"
	"github.com/tripled/backend/internal/domain/shared"
	"github.com/tripled/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPropertySaleRepository implements realty.PropertySaleRepository using GORM
type GormPropertySaleRepository struct {
	db *gorm.DB
}

// NewGormPropertySaleRepository creates a new GormPropertySaleRepository
func NewGormPropertySaleRepository(db *gorm.DB) *GormPropertySaleRepository {
	return &GormPropertySaleRepository{db: db}
}

// FindByID finds a property sale by its ID
func (r *GormPropertySaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*realty.PropertySale, error) {
	var model models.PropertySaleModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a property sale by ID holding a row lock, so that
// concurrent payments against the same sale serialize
func (r *GormPropertySaleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*realty.PropertySale, error) {
	var model models.PropertySaleModel
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

// FindByReference finds a property sale by its reference number
func (r *GormPropertySaleRepository) FindByReference(ctx context.Context, reference string) (*realty.PropertySale, error) {
	var model models.PropertySaleModel
	if err := dbFromContext(ctx, r.db).Where("reference_number = ?", reference).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByReference reports whether a reference number is already taken
func (r *GormPropertySaleRepository) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).
		Model(&models.PropertySaleModel{}).
		Where("reference_number = ?", reference).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds property sales matching the filter
func (r *GormPropertySaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]realty.PropertySale, error) {
	var saleModels []models.PropertySaleModel
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&models.PropertySaleModel{}), filter)
	query = applyPagination(query, filter)
	query = applySort(query, filter, SaleSortFields, "sale_date")

	if err := query.Find(&saleModels).Error; err != nil {
		return nil, err
	}

	sales := make([]realty.PropertySale, len(saleModels))
	for i, model := range saleModels {
		sales[i] = *model.ToDomain()
	}
	return sales, nil
}

// FindByRealtor finds the sales credited to a realtor
func (r *GormPropertySaleRepository) FindByRealtor(ctx context.Context, realtorID uuid.UUID, filter shared.Filter) ([]realty.PropertySale, error) {
	var saleModels []models.PropertySaleModel
	query := dbFromContext(ctx, r.db).
		Model(&models.PropertySaleModel{}).
		Where("realtor_id = ?", realtorID)
	query = applyPagination(query, filter)
	query = applySort(query, filter, SaleSortFields, "sale_date")

	if err := query.Find(&saleModels).Error; err != nil {
		return nil, err
	}

	sales := make([]realty.PropertySale, len(saleModels))
	for i, model := range saleModels {
		sales[i] = *model.ToDomain()
	}
	return sales, nil
}

// Save creates or updates a property sale
func (r *GormPropertySaleRepository) Save(ctx context.Context, sale *realty.PropertySale) error {
	model := models.PropertySaleModelFromDomain(sale)
	return dbFromContext(ctx, r.db).Save(model).Error
}

// SaveWithLock saves a property sale with optimistic locking (version check)
func (r *GormPropertySaleRepository) SaveWithLock(ctx context.Context, sale *realty.PropertySale) error {
	model := models.PropertySaleModelFromDomain(sale)
	result := dbFromContext(ctx, r.db).
		Model(model).
		Where("id = ? AND version = ?", sale.ID, sale.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The property sale record has been modified by another transaction")
	}
	return nil
}

// Count counts property sales matching the filter
func (r *GormPropertySaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&models.PropertySaleModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPropertySaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"reference_number ILIKE ? OR description ILIKE ? OR client_name ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	for key, value := range filter.Filters {
		switch key {
		case "realtor_id":
			query = query.Where("realtor_id = ?", value)
		case "from_date":
			query = query.Where("sale_date >= ?", value)
		case "to_date":
			query = query.Where("sale_date <= ?", value)
		}
	}
	return query
}

// Ensure GormPropertySaleRepository implements PropertySaleRepository
var _ realty.PropertySaleRepository = (*GormPropertySaleRepository)(nil)
