package realty

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/shared"
	"github.com/tripled/backend/internal/domain/shared/valueobject"
)

// RealtorStatus distinguishes regular realtors from executives
type RealtorStatus string

const (
	RealtorStatusRegular   RealtorStatus = "REGULAR"
	RealtorStatusExecutive RealtorStatus = "EXECUTIVE"
)

// IsValid checks if the status is a valid RealtorStatus
func (s RealtorStatus) IsValid() bool {
	return s == RealtorStatusRegular || s == RealtorStatusExecutive
}

// String returns the string representation of RealtorStatus
func (s RealtorStatus) String() string {
	return string(s)
}

// Realtor represents a commission-earning sales agent. Each realtor owns
// a unique 8-digit referral code. The sponsor link is resolved once from
// the sponsor's code at registration and cached as SponsorID; changing a
// code later never relinks existing realtors.
type Realtor struct {
	shared.BaseAggregateRoot
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Address         string          `json:"address"`
	BankName        string          `json:"bank_name"`
	AccountNumber   string          `json:"account_number"`
	AccountName     string          `json:"account_name"`
	ReferralCode    string          `json:"referral_code"`
	SponsorCode     string          `json:"sponsor_code"`
	SponsorID       *uuid.UUID      `json:"sponsor_id"`
	Status          RealtorStatus   `json:"status"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	PaidCommission  decimal.Decimal `json:"paid_commission"`
	IsActive        bool            `json:"is_active"`
	CreatedBy       *uuid.UUID      `json:"created_by"`
}

// NewRealtor creates a new realtor with the given referral code. Code
// uniqueness is the caller's responsibility (the service retries on
// collision).
func NewRealtor(firstName, lastName, email, phone, referralCode string) (*Realtor, error) {
	if firstName == "" || lastName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}
	if !IsValidReferralCode(referralCode) {
		return nil, shared.NewDomainError("INVALID_REFERRAL_CODE", "Referral code must be exactly 8 digits")
	}

	realtor := &Realtor{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FirstName:         firstName,
		LastName:          lastName,
		Email:             email,
		Phone:             phone,
		ReferralCode:      referralCode,
		Status:            RealtorStatusRegular,
		TotalCommission:   decimal.Zero,
		PaidCommission:    decimal.Zero,
		IsActive:          true,
	}

	realtor.AddDomainEvent(NewRealtorRegisteredEvent(realtor))

	return realtor, nil
}

// FullName returns the realtor's display name
func (r *Realtor) FullName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}

// LinkSponsor caches the resolved sponsor. The code is kept as entered
// even when it resolves to nobody.
func (r *Realtor) LinkSponsor(sponsorCode string, sponsorID *uuid.UUID) error {
	if sponsorID != nil && *sponsorID == r.ID {
		return shared.NewDomainError("INVALID_SPONSOR", "A realtor cannot sponsor themselves")
	}
	r.SponsorCode = sponsorCode
	r.SponsorID = sponsorID
	r.UpdatedAt = time.Now()
	return nil
}

// UpdateContact updates the realtor's contact details
func (r *Realtor) UpdateContact(email, phone, address string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}
	r.Email = email
	r.Phone = phone
	r.Address = address
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// UpdateBankDetails updates the payout account
func (r *Realtor) UpdateBankDetails(bankName, accountNumber, accountName string) {
	r.BankName = bankName
	r.AccountNumber = accountNumber
	r.AccountName = accountName
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// Promote elevates the realtor to executive status
func (r *Realtor) Promote() error {
	if r.Status == RealtorStatusExecutive {
		return shared.NewDomainError("INVALID_STATE", "Realtor is already an executive")
	}
	r.Status = RealtorStatusExecutive
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewRealtorPromotedEvent(r))
	return nil
}

// Demote returns an executive to regular status
func (r *Realtor) Demote() error {
	if r.Status == RealtorStatusRegular {
		return shared.NewDomainError("INVALID_STATE", "Realtor is not an executive")
	}
	r.Status = RealtorStatusRegular
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// AddCommission increments the lifetime commission total. Called by the
// cascade when a commission row is written for this realtor.
func (r *Realtor) AddCommission(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidAmountError(amount, "commission amount must be positive")
	}
	r.TotalCommission = r.TotalCommission.Add(amount)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// RecordCommissionPaid increments the paid total when a commission is
// marked paid. Paid can never exceed total.
func (r *Realtor) RecordCommissionPaid(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidAmountError(amount, "paid amount must be positive")
	}
	newPaid := r.PaidCommission.Add(amount)
	if newPaid.GreaterThan(r.TotalCommission) {
		return shared.NewDomainError("INVALID_STATE", "Paid commission cannot exceed total commission")
	}
	r.PaidCommission = newPaid
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// UnpaidCommission returns total minus paid, never negative
func (r *Realtor) UnpaidCommission() decimal.Decimal {
	unpaid := r.TotalCommission.Sub(r.PaidCommission)
	if unpaid.IsNegative() {
		return decimal.Zero
	}
	return unpaid
}

// UnpaidCommissionMoney returns the unpaid commission as Money
func (r *Realtor) UnpaidCommissionMoney() valueobject.Money {
	return valueobject.NewMoneyNGN(r.UnpaidCommission())
}

// Deactivate deactivates the realtor
func (r *Realtor) Deactivate() error {
	if !r.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Realtor is already inactive")
	}
	r.IsActive = false
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// SetCreatedBy records the user who registered the realtor
func (r *Realtor) SetCreatedBy(userID uuid.UUID) {
	r.CreatedBy = &userID
}

// IsValidReferralCode reports whether a code is exactly 8 digits
func IsValidReferralCode(code string) bool {
	if len(code) != 8 {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return code[0] != '0'
}

// GenerateReferralCode produces a random 8-digit referral code. Callers
// must check for collisions against existing realtors and retry.
func GenerateReferralCode() (string, error) {
	// Codes range 10000000..99999999 so the leading digit is never zero.
	n, err := rand.Int(rand.Reader, big.NewInt(90000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate referral code: %w", err)
	}
	return fmt.Sprintf("%08d", n.Int64()+10000000), nil
}
