package realty

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/shared"
	"github.com/tripled/backend/internal/domain/shared/valueobject"
)

var oneHundred = decimal.NewFromInt(100)

// PropertySale tracks a sale, its payment history and the commission
// percentages the cascade applies to each payment. AmountPaid is a
// running sum of payments: it is recomputed from the payment rows on
// every payment so a drifted value heals itself.
type PropertySale struct {
	shared.BaseAggregateRoot
	ReferenceNumber string          `json:"reference_number"`
	Description     string          `json:"description"`
	ClientName      string          `json:"client_name"`
	ClientPhone     string          `json:"client_phone"`
	ClientEmail     string          `json:"client_email"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	Discount        decimal.Decimal `json:"discount"`
	RealtorID       uuid.UUID       `json:"realtor_id"`
	RealtorPct      decimal.Decimal `json:"realtor_pct"`
	SponsorPct      decimal.Decimal `json:"sponsor_pct"`
	UplinePct       decimal.Decimal `json:"upline_pct"`
	SaleDate        time.Time       `json:"sale_date"`
	CreatedBy       *uuid.UUID      `json:"created_by"`
}

// NewPropertySale creates a new property sale
func NewPropertySale(
	referenceNumber string,
	description string,
	clientName string,
	sellingPrice decimal.Decimal,
	realtorID uuid.UUID,
	realtorPct, sponsorPct, uplinePct decimal.Decimal,
) (*PropertySale, error) {
	if referenceNumber == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference number cannot be empty")
	}
	if clientName == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client name is required")
	}
	if sellingPrice.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidAmountError(sellingPrice, "selling price must be positive")
	}
	if realtorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REALTOR", "Realtor ID cannot be empty")
	}
	if err := validatePercentages(realtorPct, sponsorPct, uplinePct); err != nil {
		return nil, err
	}

	sale := &PropertySale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReferenceNumber:   referenceNumber,
		Description:       description,
		ClientName:        clientName,
		OriginalPrice:     sellingPrice,
		SellingPrice:      sellingPrice,
		AmountPaid:        decimal.Zero,
		Discount:          decimal.Zero,
		RealtorID:         realtorID,
		RealtorPct:        realtorPct,
		SponsorPct:        sponsorPct,
		UplinePct:         uplinePct,
		SaleDate:          time.Now(),
	}

	sale.AddDomainEvent(NewPropertySaleCreatedEvent(sale))

	return sale, nil
}

func validatePercentages(realtorPct, sponsorPct, uplinePct decimal.Decimal) error {
	for _, pct := range []decimal.Decimal{realtorPct, sponsorPct, uplinePct} {
		if pct.IsNegative() || pct.GreaterThan(oneHundred) {
			return shared.NewDomainError("INVALID_PERCENTAGE", "Each commission percentage must be between 0 and 100")
		}
	}
	if realtorPct.Add(sponsorPct).Add(uplinePct).GreaterThan(oneHundred) {
		return shared.NewDomainError("INVALID_PERCENTAGE", "Commission percentages cannot sum above 100")
	}
	return nil
}

// SetClientContact sets the optional client contact fields
func (s *PropertySale) SetClientContact(phone, email string) {
	s.ClientPhone = phone
	s.ClientEmail = email
	s.UpdatedAt = time.Now()
}

// ApplyDiscount lowers the selling price by the given amount
func (s *PropertySale) ApplyDiscount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidAmountError(amount, "discount must be positive")
	}
	discounted := s.SellingPrice.Sub(amount)
	if discounted.LessThan(s.AmountPaid) {
		return shared.NewDomainError("INVALID_STATE", "Discount would drop the price below what has already been paid")
	}
	s.Discount = s.Discount.Add(amount)
	s.SellingPrice = discounted
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// ApplyRecomputedAmountPaid replaces AmountPaid with the authoritative
// sum over payment rows. This is the only way AmountPaid changes.
func (s *PropertySale) ApplyRecomputedAmountPaid(total decimal.Decimal) error {
	if total.IsNegative() {
		return shared.NewInvalidAmountError(total, "recomputed amount paid cannot be negative")
	}
	s.AmountPaid = total
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// BalanceDue returns selling price minus amount paid
func (s *PropertySale) BalanceDue() decimal.Decimal {
	return s.SellingPrice.Sub(s.AmountPaid)
}

// BalanceDueMoney returns the balance due as Money
func (s *PropertySale) BalanceDueMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(s.BalanceDue())
}

// IsFullyPaid returns true when nothing is left to pay
func (s *PropertySale) IsFullyPaid() bool {
	return s.BalanceDue().LessThanOrEqual(decimal.Zero)
}

// SetCreatedBy records the user who recorded the sale
func (s *PropertySale) SetCreatedBy(userID uuid.UUID) {
	s.CreatedBy = &userID
}

// GenerateSaleReference produces a 12-character upper-case hex reference.
// Uniqueness is enforced by the database; the service retries on the
// unlikely collision.
func GenerateSaleReference() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:12])
}

// PaymentMethod is how a client paid
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCheque   PaymentMethod = "CHEQUE"
	PaymentMethodPOS      PaymentMethod = "POS"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCheque, PaymentMethodPOS:
		return true
	}
	return false
}

// Payment is a single client payment against a sale. Payments are
// append-only: there is no update or delete path.
type Payment struct {
	shared.BaseEntity
	PropertySaleID uuid.UUID       `json:"property_sale_id"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentDate    time.Time       `json:"payment_date"`
	Method         PaymentMethod   `json:"method"`
	Reference      string          `json:"reference"`
	Notes          string          `json:"notes"`
	ReceivedBy     *uuid.UUID      `json:"received_by"`
}

// NewPayment creates a new payment against a sale
func NewPayment(saleID uuid.UUID, amount decimal.Decimal, paymentDate time.Time, method PaymentMethod, reference, notes string) (*Payment, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidAmountError(amount, "payment amount must be positive")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", method))
	}

	return &Payment{
		BaseEntity:     shared.NewBaseEntity(),
		PropertySaleID: saleID,
		Amount:         amount,
		PaymentDate:    paymentDate,
		Method:         method,
		Reference:      reference,
		Notes:          notes,
	}, nil
}

// GetAmountMoney returns the amount as Money
func (p *Payment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(p.Amount)
}
