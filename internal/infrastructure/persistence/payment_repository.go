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
)

// GormPaymentRepository implements realty.PaymentRepository using GORM.
// Payments are append-only: Save always inserts, and there is no delete.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*realty.Payment, error) {
	var model models.PaymentModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySale finds all payments against a sale, oldest first
func (r *GormPaymentRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]realty.Payment, error) {
	var paymentModels []models.PaymentModel
	if err := dbFromContext(ctx, r.db).
		Where("property_sale_id = ?", saleID).
		Order("payment_date ASC, created_at ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	payments := make([]realty.Payment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments, nil
}

// Save inserts a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *realty.Payment) error {
	model := models.PaymentModelFromDomain(payment)
	return dbFromContext(ctx, r.db).Create(model).Error
}

// SumBySale sums all payment amounts against a sale
func (r *GormPaymentRepository) SumBySale(ctx context.Context, saleID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := dbFromContext(ctx, r.db).
		Model(&models.PaymentModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("property_sale_id = ?", saleID).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ realty.PaymentRepository = (*GormPaymentRepository)(nil)
