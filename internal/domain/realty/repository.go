package realty

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/shared"
)

// CommissionFilter defines filtering options for commission queries
type CommissionFilter struct {
	shared.Filter
	RealtorID *uuid.UUID
	Tier      *CommissionTier
	IsPaid    *bool
	FromDate  *time.Time
	ToDate    *time.Time
}

// RealtorRepository defines the interface for realtor persistence
type RealtorRepository interface {
	// FindByID finds a realtor by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Realtor, error)

	// FindByIDForUpdate finds a realtor by ID holding a row lock
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Realtor, error)

	// FindByReferralCode finds a realtor by referral code
	FindByReferralCode(ctx context.Context, code string) (*Realtor, error)

	// ExistsByReferralCode reports whether a code is already taken
	ExistsByReferralCode(ctx context.Context, code string) (bool, error)

	// ExistsByEmail reports whether a realtor with the email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// FindAll finds realtors with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Realtor, error)

	// FindBySponsor finds the realtors directly sponsored by a realtor
	FindBySponsor(ctx context.Context, sponsorID uuid.UUID) ([]Realtor, error)

	// Save creates or updates a realtor
	Save(ctx context.Context, realtor *Realtor) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, realtor *Realtor) error

	// Delete deletes a realtor
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts realtors
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// PropertySaleRepository defines the interface for sale persistence
type PropertySaleRepository interface {
	// FindByID finds a sale by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PropertySale, error)

	// FindByIDForUpdate finds a sale by ID holding a row lock for the
	// duration of the surrounding transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PropertySale, error)

	// FindByReference finds a sale by its reference number
	FindByReference(ctx context.Context, reference string) (*PropertySale, error)

	// ExistsByReference reports whether a reference number is taken
	ExistsByReference(ctx context.Context, reference string) (bool, error)

	// FindAll finds sales with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]PropertySale, error)

	// FindByRealtor finds sales belonging to a realtor
	FindByRealtor(ctx context.Context, realtorID uuid.UUID, filter shared.Filter) ([]PropertySale, error)

	// Save creates or updates a sale
	Save(ctx context.Context, sale *PropertySale) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, sale *PropertySale) error

	// Count counts sales
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// PaymentRepository defines the interface for payment persistence.
// Payments are append-only: no update or delete methods exist.
type PaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindBySale finds all payments against a sale, oldest first
	FindBySale(ctx context.Context, saleID uuid.UUID) ([]Payment, error)

	// Save creates a payment
	Save(ctx context.Context, payment *Payment) error

	// SumBySale sums all payment amounts against a sale. This is the
	// authoritative source for a sale's AmountPaid.
	SumBySale(ctx context.Context, saleID uuid.UUID) (decimal.Decimal, error)
}

// CommissionRepository defines the interface for commission persistence.
// Commissions are never deleted.
type CommissionRepository interface {
	// FindByID finds a commission by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Commission, error)

	// FindByIDForUpdate finds a commission by ID holding a row lock.
	// Payouts read under the lock so the is_paid check is authoritative.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Commission, error)

	// FindAll finds commissions with filtering
	FindAll(ctx context.Context, filter CommissionFilter) ([]Commission, error)

	// FindUnpaidByRealtor finds a realtor's unpaid commissions
	FindUnpaidByRealtor(ctx context.Context, realtorID uuid.UUID) ([]Commission, error)

	// Save creates or updates a commission
	Save(ctx context.Context, commission *Commission) error

	// Count counts commissions with filtering
	Count(ctx context.Context, filter CommissionFilter) (int64, error)

	// SumByRealtor sums commission amounts for a realtor, optionally
	// restricted to paid or unpaid
	SumByRealtor(ctx context.Context, realtorID uuid.UUID, isPaid *bool) (decimal.Decimal, error)
}
