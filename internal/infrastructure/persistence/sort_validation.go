package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting
// to DESC. Sort input comes from query strings and is never interpolated
// into SQL unchecked.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of
// allowed columns. Returns defaultField when the input is empty or not
// whitelisted.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// BranchSortFields contains allowed sort columns for branches
var BranchSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"name":            true,
	"location":        true,
	"state":           true,
	"type":            true,
	"allocated_funds": true,
	"is_active":       true,
}

// CategorySortFields contains allowed sort columns for categories
var CategorySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"kind":       true,
	"scope":      true,
	"is_active":  true,
	"is_system":  true,
}

// TransactionSortFields contains allowed sort columns for ledger entries
var TransactionSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"branch_id":   true,
	"type":        true,
	"amount":      true,
	"date":        true,
	"category_id": true,
}

// AllocationSortFields contains allowed sort columns for fund allocations
var AllocationSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"from_branch_id": true,
	"to_branch_id":   true,
	"amount":         true,
	"allocated_at":   true,
	"is_active":      true,
}

// RealtorSortFields contains allowed sort columns for realtors
var RealtorSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"first_name":       true,
	"last_name":        true,
	"email":            true,
	"referral_code":    true,
	"status":           true,
	"total_commission": true,
	"paid_commission":  true,
	"is_active":        true,
}

// SaleSortFields contains allowed sort columns for property sales
var SaleSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"reference_number": true,
	"client_name":      true,
	"selling_price":    true,
	"amount_paid":      true,
	"realtor_id":       true,
	"sale_date":        true,
}

// CommissionSortFields contains allowed sort columns for commissions
var CommissionSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"realtor_id":         true,
	"amount":             true,
	"property_reference": true,
	"tier":               true,
	"is_paid":            true,
	"paid_date":          true,
}

// UserSortFields contains allowed sort columns for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"email":         true,
	"display_name":  true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}
