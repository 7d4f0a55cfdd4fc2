package realty

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/shared"
)

// RealtorRegisteredEvent is raised when a realtor is registered
type RealtorRegisteredEvent struct {
	shared.BaseDomainEvent
	RealtorID    uuid.UUID  `json:"realtor_id"`
	FullName     string     `json:"full_name"`
	ReferralCode string     `json:"referral_code"`
	SponsorID    *uuid.UUID `json:"sponsor_id,omitempty"`
}

// EventType returns the event type name
func (e *RealtorRegisteredEvent) EventType() string {
	return "RealtorRegistered"
}

// NewRealtorRegisteredEvent creates a new RealtorRegisteredEvent
func NewRealtorRegisteredEvent(realtor *Realtor) *RealtorRegisteredEvent {
	return &RealtorRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("RealtorRegistered", "Realtor", realtor.ID),
		RealtorID:       realtor.ID,
		FullName:        realtor.FullName(),
		ReferralCode:    realtor.ReferralCode,
		SponsorID:       realtor.SponsorID,
	}
}

// RealtorPromotedEvent is raised when a realtor becomes an executive
type RealtorPromotedEvent struct {
	shared.BaseDomainEvent
	RealtorID uuid.UUID     `json:"realtor_id"`
	Status    RealtorStatus `json:"status"`
}

// EventType returns the event type name
func (e *RealtorPromotedEvent) EventType() string {
	return "RealtorPromoted"
}

// NewRealtorPromotedEvent creates a new RealtorPromotedEvent
func NewRealtorPromotedEvent(realtor *Realtor) *RealtorPromotedEvent {
	return &RealtorPromotedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("RealtorPromoted", "Realtor", realtor.ID),
		RealtorID:       realtor.ID,
		Status:          realtor.Status,
	}
}

// CommissionEarnedEvent is raised when the cascade writes a commission
type CommissionEarnedEvent struct {
	shared.BaseDomainEvent
	CommissionID      uuid.UUID       `json:"commission_id"`
	RealtorID         uuid.UUID       `json:"realtor_id"`
	Amount            decimal.Decimal `json:"amount"`
	Tier              CommissionTier  `json:"tier"`
	PropertyReference string          `json:"property_reference"`
}

// EventType returns the event type name
func (e *CommissionEarnedEvent) EventType() string {
	return "CommissionEarned"
}

// NewCommissionEarnedEvent creates a new CommissionEarnedEvent
func NewCommissionEarnedEvent(commission *Commission) *CommissionEarnedEvent {
	return &CommissionEarnedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("CommissionEarned", "Commission", commission.ID),
		CommissionID:      commission.ID,
		RealtorID:         commission.RealtorID,
		Amount:            commission.Amount,
		Tier:              commission.Tier,
		PropertyReference: commission.PropertyReference,
	}
}

// CommissionPaidEvent is raised when a commission is marked paid
type CommissionPaidEvent struct {
	shared.BaseDomainEvent
	CommissionID uuid.UUID       `json:"commission_id"`
	RealtorID    uuid.UUID       `json:"realtor_id"`
	Amount       decimal.Decimal `json:"amount"`
	PaidDate     time.Time       `json:"paid_date"`
}

// EventType returns the event type name
func (e *CommissionPaidEvent) EventType() string {
	return "CommissionPaid"
}

// NewCommissionPaidEvent creates a new CommissionPaidEvent
func NewCommissionPaidEvent(commission *Commission) *CommissionPaidEvent {
	paidDate := time.Now()
	if commission.PaidDate != nil {
		paidDate = *commission.PaidDate
	}
	return &CommissionPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CommissionPaid", "Commission", commission.ID),
		CommissionID:    commission.ID,
		RealtorID:       commission.RealtorID,
		Amount:          commission.Amount,
		PaidDate:        paidDate,
	}
}

// PropertySaleCreatedEvent is raised when a sale is recorded
type PropertySaleCreatedEvent struct {
	shared.BaseDomainEvent
	SaleID          uuid.UUID       `json:"sale_id"`
	ReferenceNumber string          `json:"reference_number"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	RealtorID       uuid.UUID       `json:"realtor_id"`
}

// EventType returns the event type name
func (e *PropertySaleCreatedEvent) EventType() string {
	return "PropertySaleCreated"
}

// NewPropertySaleCreatedEvent creates a new PropertySaleCreatedEvent
func NewPropertySaleCreatedEvent(sale *PropertySale) *PropertySaleCreatedEvent {
	return &PropertySaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PropertySaleCreated", "PropertySale", sale.ID),
		SaleID:          sale.ID,
		ReferenceNumber: sale.ReferenceNumber,
		SellingPrice:    sale.SellingPrice,
		RealtorID:       sale.RealtorID,
	}
}

// PaymentRecordedEvent is raised after a payment and its cascade commit
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentID   uuid.UUID       `json:"payment_id"`
	SaleID      uuid.UUID       `json:"sale_id"`
	Amount      decimal.Decimal `json:"amount"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	FullyPaid   bool            `json:"fully_paid"`
	PaymentDate time.Time       `json:"payment_date"`
}

// EventType returns the event type name
func (e *PaymentRecordedEvent) EventType() string {
	return "PaymentRecorded"
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(payment *Payment, sale *PropertySale) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PaymentRecorded", "PropertySale", sale.ID),
		PaymentID:       payment.ID,
		SaleID:          sale.ID,
		Amount:          payment.Amount,
		AmountPaid:      sale.AmountPaid,
		FullyPaid:       sale.IsFullyPaid(),
		PaymentDate:     payment.PaymentDate,
	}
}
