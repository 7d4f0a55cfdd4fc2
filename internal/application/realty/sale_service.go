package realty

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/realty"
	"github.com/tripled/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const maxReferenceAttempts = 5

// SaleService provides application-level property sale operations
type SaleService struct {
	saleRepo    realty.PropertySaleRepository
	realtorRepo realty.RealtorRepository
	logger      *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(
	saleRepo realty.PropertySaleRepository,
	realtorRepo realty.RealtorRepository,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		saleRepo:    saleRepo,
		realtorRepo: realtorRepo,
		logger:      logger,
	}
}

// SaleResponse represents a property sale in API responses
type SaleResponse struct {
	ID              uuid.UUID       `json:"id"`
	ReferenceNumber string          `json:"reference_number"`
	Description     string          `json:"description"`
	ClientName      string          `json:"client_name"`
	ClientPhone     string          `json:"client_phone,omitempty"`
	ClientEmail     string          `json:"client_email,omitempty"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	BalanceDue      decimal.Decimal `json:"balance_due"`
	Discount        decimal.Decimal `json:"discount"`
	IsFullyPaid     bool            `json:"is_fully_paid"`
	RealtorID       uuid.UUID       `json:"realtor_id"`
	RealtorPct      decimal.Decimal `json:"realtor_pct"`
	SponsorPct      decimal.Decimal `json:"sponsor_pct"`
	UplinePct       decimal.Decimal `json:"upline_pct"`
	SaleDate        time.Time       `json:"sale_date"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// CreateSaleRequest represents a request to record a property sale
type CreateSaleRequest struct {
	Description  string          `json:"description"`
	ClientName   string          `json:"client_name" binding:"required"`
	ClientPhone  string          `json:"client_phone"`
	ClientEmail  string          `json:"client_email"`
	SellingPrice decimal.Decimal `json:"selling_price" binding:"required"`
	RealtorID    uuid.UUID       `json:"realtor_id" binding:"required"`
	RealtorPct   decimal.Decimal `json:"realtor_pct"`
	SponsorPct   decimal.Decimal `json:"sponsor_pct"`
	UplinePct    decimal.Decimal `json:"upline_pct"`
	CreatedBy    *uuid.UUID      `json:"-"`
}

// ApplyDiscountRequest represents a request to discount a sale
type ApplyDiscountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CreateSale records a property sale with a generated reference number.
// The commission percentages are frozen on the sale at creation; later
// policy changes never touch existing sales.
func (s *SaleService) CreateSale(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	realtor, err := s.realtorRepo.FindByID(ctx, req.RealtorID)
	if err != nil {
		return nil, err
	}
	if !realtor.IsActive {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot record a sale for an inactive realtor")
	}

	reference, err := s.generateUniqueReference(ctx)
	if err != nil {
		return nil, err
	}

	sale, err := realty.NewPropertySale(
		reference,
		req.Description,
		req.ClientName,
		req.SellingPrice,
		req.RealtorID,
		req.RealtorPct, req.SponsorPct, req.UplinePct,
	)
	if err != nil {
		return nil, err
	}
	sale.SetClientContact(req.ClientPhone, req.ClientEmail)
	if req.CreatedBy != nil {
		sale.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}

	s.logger.Info("property sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("reference", sale.ReferenceNumber),
		zap.String("selling_price", sale.SellingPrice.String()))

	return toSaleResponse(sale), nil
}

// GetSale returns a sale by ID
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// GetSaleByReference returns a sale by its reference number
func (s *SaleService) GetSaleByReference(ctx context.Context, reference string) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// ListSales returns sales with pagination
func (s *SaleService) ListSales(ctx context.Context, filter shared.Filter) (*shared.Paginated[SaleResponse], error) {
	sales, err := s.saleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.saleRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]SaleResponse, len(sales))
	for i := range sales {
		items[i] = *toSaleResponse(&sales[i])
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListSalesByRealtor returns a realtor's sales
func (s *SaleService) ListSalesByRealtor(ctx context.Context, realtorID uuid.UUID, filter shared.Filter) ([]SaleResponse, error) {
	sales, err := s.saleRepo.FindByRealtor(ctx, realtorID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]SaleResponse, len(sales))
	for i := range sales {
		items[i] = *toSaleResponse(&sales[i])
	}
	return items, nil
}

// ApplyDiscount lowers a sale's selling price. The domain rejects a
// discount below what the client has already paid.
func (s *SaleService) ApplyDiscount(ctx context.Context, id uuid.UUID, req ApplyDiscountRequest) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := sale.ApplyDiscount(req.Amount); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}

	s.logger.Info("discount applied",
		zap.String("sale_id", sale.ID.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("new_price", sale.SellingPrice.String()))

	return toSaleResponse(sale), nil
}

// generateUniqueReference generates sale references until one is free
func (s *SaleService) generateUniqueReference(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		reference := realty.GenerateSaleReference()
		taken, err := s.saleRepo.ExistsByReference(ctx, reference)
		if err != nil {
			return "", err
		}
		if !taken {
			return reference, nil
		}
	}
	return "", shared.NewDomainError("REFERENCE_GENERATION_FAILED", "Could not generate a unique sale reference")
}

func toSaleResponse(sale *realty.PropertySale) *SaleResponse {
	return &SaleResponse{
		ID:              sale.ID,
		ReferenceNumber: sale.ReferenceNumber,
		Description:     sale.Description,
		ClientName:      sale.ClientName,
		ClientPhone:     sale.ClientPhone,
		ClientEmail:     sale.ClientEmail,
		OriginalPrice:   sale.OriginalPrice,
		SellingPrice:    sale.SellingPrice,
		AmountPaid:      sale.AmountPaid,
		BalanceDue:      sale.BalanceDue(),
		Discount:        sale.Discount,
		IsFullyPaid:     sale.IsFullyPaid(),
		RealtorID:       sale.RealtorID,
		RealtorPct:      sale.RealtorPct,
		SponsorPct:      sale.SponsorPct,
		UplinePct:       sale.UplinePct,
		SaleDate:        sale.SaleDate,
		CreatedAt:       sale.CreatedAt,
		UpdatedAt:       sale.UpdatedAt,
		Version:         sale.Version,
	}
}
