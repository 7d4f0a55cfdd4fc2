package realty

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/shared"
)

// CommissionGrant is one leg of a planned cascade: who gets how much,
// and for which tier.
type CommissionGrant struct {
	Recipient *Realtor
	Tier      CommissionTier
	Amount    decimal.Decimal
}

// Description returns the ledger description for the grant
func (g CommissionGrant) Description(saleReference string) string {
	switch g.Tier {
	case CommissionTierRealtor:
		return fmt.Sprintf("Direct commission on sale %s", saleReference)
	case CommissionTierSponsor:
		return fmt.Sprintf("Sponsor override on sale %s", saleReference)
	default:
		return fmt.Sprintf("Upline override on sale %s", saleReference)
	}
}

// PlanCascade computes the three-tier commission split for a payment
// delta: the selling realtor's cut, the sponsor's cut and the upline's
// cut, each as delta x pct / 100. Tiers with no recipient or a zero cut
// are skipped. Only the payment delta is cascaded, never the running
// total, so paying 100 then 50 grants exactly what a single 150 payment
// would.
func PlanCascade(sale *PropertySale, delta decimal.Decimal, realtor, sponsor, upline *Realtor) ([]CommissionGrant, error) {
	if sale == nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale is required")
	}
	if realtor == nil {
		return nil, shared.NewDomainError("INVALID_REALTOR", "Selling realtor is required")
	}
	if delta.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidAmountError(delta, "cascade delta must be positive")
	}
	if realtor.ID != sale.RealtorID {
		return nil, shared.NewDomainError("INVALID_REALTOR", "Realtor does not own this sale")
	}

	grants := make([]CommissionGrant, 0, 3)

	if cut := cutOf(delta, sale.RealtorPct); cut.IsPositive() {
		grants = append(grants, CommissionGrant{Recipient: realtor, Tier: CommissionTierRealtor, Amount: cut})
	}

	if sponsor != nil {
		if cut := cutOf(delta, sale.SponsorPct); cut.IsPositive() {
			grants = append(grants, CommissionGrant{Recipient: sponsor, Tier: CommissionTierSponsor, Amount: cut})
		}
	}

	// The upline tier only exists through the sponsor chain.
	if sponsor != nil && upline != nil {
		if cut := cutOf(delta, sale.UplinePct); cut.IsPositive() {
			grants = append(grants, CommissionGrant{Recipient: upline, Tier: CommissionTierUpline, Amount: cut})
		}
	}

	return grants, nil
}

func cutOf(delta, pct decimal.Decimal) decimal.Decimal {
	return delta.Mul(pct).Div(oneHundred)
}
