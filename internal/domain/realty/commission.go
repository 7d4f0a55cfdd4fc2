package realty

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/shared"
	"github.com/tripled/backend/internal/domain/shared/valueobject"
)

// CommissionTier records which leg of the cascade produced a commission
type CommissionTier string

const (
	CommissionTierRealtor CommissionTier = "REALTOR"
	CommissionTierSponsor CommissionTier = "SPONSOR"
	CommissionTierUpline  CommissionTier = "UPLINE"
)

// IsValid checks if the tier is a valid CommissionTier
func (t CommissionTier) IsValid() bool {
	return t == CommissionTierRealtor || t == CommissionTierSponsor || t == CommissionTierUpline
}

// String returns the string representation of CommissionTier
func (t CommissionTier) String() string {
	return string(t)
}

// Commission is a single cascade payout owed to a realtor. Commissions
// are only ever created by the payment cascade, move from unpaid to paid
// exactly once, and are never deleted.
type Commission struct {
	shared.BaseAggregateRoot
	RealtorID         uuid.UUID       `json:"realtor_id"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	PropertyReference string          `json:"property_reference"`
	Tier              CommissionTier  `json:"tier"`
	IsPaid            bool            `json:"is_paid"`
	PaidDate          *time.Time      `json:"paid_date"`
}

// NewCommission creates a new unpaid commission
func NewCommission(realtorID uuid.UUID, amount decimal.Decimal, description, propertyReference string, tier CommissionTier) (*Commission, error) {
	if realtorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REALTOR", "Realtor ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidAmountError(amount, "commission amount must be positive")
	}
	if !tier.IsValid() {
		return nil, shared.NewDomainError("INVALID_TIER", "Commission tier must be REALTOR, SPONSOR or UPLINE")
	}

	commission := &Commission{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RealtorID:         realtorID,
		Amount:            amount,
		Description:       description,
		PropertyReference: propertyReference,
		Tier:              tier,
		IsPaid:            false,
	}

	commission.AddDomainEvent(NewCommissionEarnedEvent(commission))

	return commission, nil
}

// MarkAsPaid flips the commission to paid. Returns true when the state
// changed, false when it was already paid; calling twice never double
// counts.
func (c *Commission) MarkAsPaid() bool {
	if c.IsPaid {
		return false
	}
	now := time.Now()
	c.IsPaid = true
	c.PaidDate = &now
	c.UpdatedAt = now
	c.IncrementVersion()
	c.AddDomainEvent(NewCommissionPaidEvent(c))
	return true
}

// GetAmountMoney returns the amount as Money
func (c *Commission) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(c.Amount)
}
