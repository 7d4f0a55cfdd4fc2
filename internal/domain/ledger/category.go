package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/tripled/backend/internal/domain/shared"
)

// CategoryKind determines which side of the ledger a category belongs to
type CategoryKind string

const (
	CategoryKindIncome      CategoryKind = "INCOME"
	CategoryKindExpenditure CategoryKind = "EXPENDITURE"
)

// IsValid checks if the kind is a valid CategoryKind
func (k CategoryKind) IsValid() bool {
	return k == CategoryKindIncome || k == CategoryKindExpenditure
}

// String returns the string representation of CategoryKind
func (k CategoryKind) String() string {
	return string(k)
}

// CategoryScope restricts which branch types may use a category
type CategoryScope string

const (
	CategoryScopeMain CategoryScope = "MAIN"
	CategoryScopeSub  CategoryScope = "SUB"
	CategoryScopeAll  CategoryScope = "ALL"
)

// IsValid checks if the scope is a valid CategoryScope
func (s CategoryScope) IsValid() bool {
	return s == CategoryScopeMain || s == CategoryScopeSub || s == CategoryScopeAll
}

// String returns the string representation of CategoryScope
func (s CategoryScope) String() string {
	return string(s)
}

// Names of the categories the system manages itself. Transactions written
// by fund allocations and commission payouts land in these.
const (
	SystemCategoryFundAllocation    = "Fund Allocation"
	SystemCategoryRealtorCommission = "Realtor Commissions"
)

// Category classifies ledger transactions. System categories are created
// by migration seeding, carry IsSystem=true, and are immutable: the flag
// is what protects them, never their display name.
type Category struct {
	shared.BaseAggregateRoot
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Kind        CategoryKind  `json:"kind"`
	Scope       CategoryScope `json:"scope"`
	IsActive    bool          `json:"is_active"`
	IsSystem    bool          `json:"is_system"`
	CreatedBy   *uuid.UUID    `json:"created_by"`
}

// NewCategory creates a new user-managed category
func NewCategory(name, description string, kind CategoryKind, scope CategoryScope) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Category kind must be INCOME or EXPENDITURE")
	}
	if !scope.IsValid() {
		return nil, shared.NewDomainError("INVALID_SCOPE", "Category scope must be MAIN, SUB or ALL")
	}

	category := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Kind:              kind,
		Scope:             scope,
		IsActive:          true,
		IsSystem:          false,
	}

	category.AddDomainEvent(NewCategoryCreatedEvent(category))

	return category, nil
}

// NewSystemCategory creates a system-managed category. Only migration
// seeding should call this.
func NewSystemCategory(name string, kind CategoryKind) (*Category, error) {
	category, err := NewCategory(name, "Managed by the system", kind, CategoryScopeAll)
	if err != nil {
		return nil, err
	}
	category.IsSystem = true
	return category, nil
}

// Update updates the category details
func (c *Category) Update(name, description string, scope CategoryScope) error {
	if c.IsSystem {
		return shared.NewProtectedRecordError("category", "system categories cannot be modified")
	}
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	if !scope.IsValid() {
		return shared.NewDomainError("INVALID_SCOPE", "Category scope must be MAIN, SUB or ALL")
	}

	c.Name = name
	c.Description = description
	c.Scope = scope
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Deactivate hides the category from new transactions. Offered instead of
// delete when a category has transaction history.
func (c *Category) Deactivate() error {
	if c.IsSystem {
		return shared.NewProtectedRecordError("category", "system categories cannot be deactivated")
	}
	if !c.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Category is already inactive")
	}

	c.IsActive = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Activate re-enables the category
func (c *Category) Activate() {
	if c.IsActive {
		return
	}
	c.IsActive = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// AppliesTo reports whether the category may be used by the given branch type
func (c *Category) AppliesTo(branchType BranchType) bool {
	switch c.Scope {
	case CategoryScopeAll:
		return true
	case CategoryScopeMain:
		return branchType == BranchTypeMain
	case CategoryScopeSub:
		return branchType == BranchTypeSub
	}
	return false
}

// SetCreatedBy records the user who created the category
func (c *Category) SetCreatedBy(userID uuid.UUID) {
	c.CreatedBy = &userID
}

// SystemCategories holds the IDs of the pre-seeded system categories,
// resolved once at startup and injected into the services that write
// system transactions.
type SystemCategories struct {
	AllocationExpenditureID uuid.UUID
	AllocationIncomeID      uuid.UUID
	CommissionExpenditureID uuid.UUID
}

// Validate checks that every system category was resolved
func (s SystemCategories) Validate() error {
	if s.AllocationExpenditureID == uuid.Nil || s.AllocationIncomeID == uuid.Nil || s.CommissionExpenditureID == uuid.Nil {
		return shared.NewDomainError("MISSING_SYSTEM_CATEGORY", "System categories are not seeded; run migrations first")
	}
	return nil
}
