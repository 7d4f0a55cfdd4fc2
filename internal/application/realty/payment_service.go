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

// PaymentService records client payments and runs the commission
// cascade. A payment, the sale's recomputed running total and every
// commission the cascade grants commit in one database transaction:
// a failure anywhere rolls the whole payment back.
type PaymentService struct {
	paymentRepo    realty.PaymentRepository
	saleRepo       realty.PropertySaleRepository
	realtorRepo    realty.RealtorRepository
	commissionRepo realty.CommissionRepository
	txManager      shared.TransactionManager
	logger         *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo realty.PaymentRepository,
	saleRepo realty.PropertySaleRepository,
	realtorRepo realty.RealtorRepository,
	commissionRepo realty.CommissionRepository,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo:    paymentRepo,
		saleRepo:       saleRepo,
		realtorRepo:    realtorRepo,
		commissionRepo: commissionRepo,
		txManager:      txManager,
		logger:         logger,
	}
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID             uuid.UUID       `json:"id"`
	PropertySaleID uuid.UUID       `json:"property_sale_id"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentDate    time.Time       `json:"payment_date"`
	Method         string          `json:"method"`
	Reference      string          `json:"reference,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// RecordPaymentRequest represents a request to record a client payment
type RecordPaymentRequest struct {
	SaleID      uuid.UUID       `json:"sale_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate time.Time       `json:"payment_date"`
	Method      string          `json:"method" binding:"required"`
	Reference   string          `json:"reference"`
	Notes       string          `json:"notes"`
	ReceivedBy  *uuid.UUID      `json:"-"`
}

// RecordPaymentResult carries the payment together with the sale state
// and commissions it produced
type RecordPaymentResult struct {
	Payment     PaymentResponse      `json:"payment"`
	Sale        SaleResponse         `json:"sale"`
	Commissions []CommissionResponse `json:"commissions"`
}

// RecordPayment records a client payment against a sale and cascades
// commissions on the payment amount. The sale row is locked first; the
// running total is then recomputed from the payment rows rather than
// incremented, so a drifted AmountPaid heals itself here. Only the new
// payment's amount is cascaded, never the running total.
func (s *PaymentService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*RecordPaymentResult, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidAmountError(req.Amount, "payment amount must be positive")
	}

	var result *RecordPaymentResult
	err := s.txManager.Execute(ctx, func(ctx context.Context) error {
		sale, err := s.saleRepo.FindByIDForUpdate(ctx, req.SaleID)
		if err != nil {
			return err
		}

		if req.Amount.GreaterThan(sale.BalanceDue()) {
			return shared.NewDomainError("OVERPAYMENT", "Payment exceeds the outstanding balance on the sale")
		}

		payment, err := realty.NewPayment(sale.ID, req.Amount, req.PaymentDate, realty.PaymentMethod(req.Method), req.Reference, req.Notes)
		if err != nil {
			return err
		}
		if req.ReceivedBy != nil {
			payment.ReceivedBy = req.ReceivedBy
		}
		if err := s.paymentRepo.Save(ctx, payment); err != nil {
			return err
		}
		if payment.ID == uuid.Nil {
			return shared.NewIdentityAssignmentError("payment")
		}

		total, err := s.paymentRepo.SumBySale(ctx, sale.ID)
		if err != nil {
			return err
		}
		if err := sale.ApplyRecomputedAmountPaid(total); err != nil {
			return err
		}
		if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
			return err
		}

		commissions, err := s.cascade(ctx, sale, req.Amount)
		if err != nil {
			return err
		}

		result = &RecordPaymentResult{
			Payment:     *toPaymentResponse(payment),
			Sale:        *toSaleResponse(sale),
			Commissions: commissions,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("sale_id", req.SaleID.String()),
		zap.String("amount", req.Amount.String()),
		zap.Int("commissions_granted", len(result.Commissions)))

	return result, nil
}

// ListPayments returns all payments against a sale, oldest first
func (s *PaymentService) ListPayments(ctx context.Context, saleID uuid.UUID) ([]PaymentResponse, error) {
	if _, err := s.saleRepo.FindByID(ctx, saleID); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}

	items := make([]PaymentResponse, len(payments))
	for i := range payments {
		items[i] = *toPaymentResponse(&payments[i])
	}
	return items, nil
}

// cascade loads the commission chain with row locks, plans the grants
// for the payment delta, and writes a commission per grant.
func (s *PaymentService) cascade(ctx context.Context, sale *realty.PropertySale, delta decimal.Decimal) ([]CommissionResponse, error) {
	realtor, err := s.realtorRepo.FindByIDForUpdate(ctx, sale.RealtorID)
	if err != nil {
		return nil, err
	}

	var sponsor, upline *realty.Realtor
	if realtor.SponsorID != nil {
		sponsor, err = s.lockChainMember(ctx, *realtor.SponsorID)
		if err != nil {
			return nil, err
		}
	}
	if sponsor != nil && sponsor.SponsorID != nil {
		upline, err = s.lockChainMember(ctx, *sponsor.SponsorID)
		if err != nil {
			return nil, err
		}
	}

	grants, err := realty.PlanCascade(sale, delta, realtor, sponsor, upline)
	if err != nil {
		return nil, err
	}

	responses := make([]CommissionResponse, 0, len(grants))
	for _, grant := range grants {
		commission, err := realty.NewCommission(
			grant.Recipient.ID,
			grant.Amount,
			grant.Description(sale.ReferenceNumber),
			sale.ReferenceNumber,
			grant.Tier,
		)
		if err != nil {
			return nil, err
		}
		if err := s.commissionRepo.Save(ctx, commission); err != nil {
			return nil, err
		}
		if commission.ID == uuid.Nil {
			return nil, shared.NewIdentityAssignmentError("commission")
		}

		if err := grant.Recipient.AddCommission(grant.Amount); err != nil {
			return nil, err
		}
		if err := s.realtorRepo.SaveWithLock(ctx, grant.Recipient); err != nil {
			return nil, err
		}

		responses = append(responses, *toCommissionResponse(commission))
	}
	return responses, nil
}

// lockChainMember loads a cascade recipient with a row lock. A chain
// member that has been deleted breaks the link silently rather than
// failing the payment.
func (s *PaymentService) lockChainMember(ctx context.Context, id uuid.UUID) (*realty.Realtor, error) {
	member, err := s.realtorRepo.FindByIDForUpdate(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return member, nil
}

func toPaymentResponse(payment *realty.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:             payment.ID,
		PropertySaleID: payment.PropertySaleID,
		Amount:         payment.Amount,
		PaymentDate:    payment.PaymentDate,
		Method:         string(payment.Method),
		Reference:      payment.Reference,
		Notes:          payment.Notes,
		CreatedAt:      payment.CreatedAt,
	}
}
