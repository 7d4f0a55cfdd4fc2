package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/ledger"
)

// BranchModel is the persistence model for ledger.Branch
type BranchModel struct {
	AggregateModel
	Name           string          `gorm:"size:100;not null"`
	Location       string          `gorm:"size:255"`
	State          string          `gorm:"size:100"`
	Address        string          `gorm:"size:500"`
	Type           string          `gorm:"size:10;not null;index"`
	AllocatedFunds decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	IsActive       bool            `gorm:"not null;default:true"`
	CreatedBy      *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for BranchModel
func (BranchModel) TableName() string {
	return "branches"
}

// ToDomain converts the model to a domain Branch
func (m *BranchModel) ToDomain() *ledger.Branch {
	return &ledger.Branch{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Location:          m.Location,
		State:             m.State,
		Address:           m.Address,
		Type:              ledger.BranchType(m.Type),
		AllocatedFunds:    m.AllocatedFunds,
		IsActive:          m.IsActive,
		CreatedBy:         m.CreatedBy,
	}
}

// BranchModelFromDomain converts a domain Branch to its model
func BranchModelFromDomain(b *ledger.Branch) *BranchModel {
	model := &BranchModel{
		Name:           b.Name,
		Location:       b.Location,
		State:          b.State,
		Address:        b.Address,
		Type:           b.Type.String(),
		AllocatedFunds: b.AllocatedFunds,
		IsActive:       b.IsActive,
		CreatedBy:      b.CreatedBy,
	}
	model.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return model
}

// CategoryModel is the persistence model for ledger.Category
type CategoryModel struct {
	AggregateModel
	Name        string     `gorm:"size:100;not null;uniqueIndex:idx_categories_name_kind"`
	Description string     `gorm:"size:500"`
	Kind        string     `gorm:"size:15;not null;uniqueIndex:idx_categories_name_kind"`
	Scope       string     `gorm:"size:5;not null"`
	IsActive    bool       `gorm:"not null;default:true"`
	IsSystem    bool       `gorm:"not null;default:false"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for CategoryModel
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the model to a domain Category
func (m *CategoryModel) ToDomain() *ledger.Category {
	return &ledger.Category{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Kind:              ledger.CategoryKind(m.Kind),
		Scope:             ledger.CategoryScope(m.Scope),
		IsActive:          m.IsActive,
		IsSystem:          m.IsSystem,
		CreatedBy:         m.CreatedBy,
	}
}

// CategoryModelFromDomain converts a domain Category to its model
func CategoryModelFromDomain(c *ledger.Category) *CategoryModel {
	model := &CategoryModel{
		Name:        c.Name,
		Description: c.Description,
		Kind:        c.Kind.String(),
		Scope:       c.Scope.String(),
		IsActive:    c.IsActive,
		IsSystem:    c.IsSystem,
		CreatedBy:   c.CreatedBy,
	}
	model.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return model
}

// TransactionModel is the persistence model for ledger.Transaction
type TransactionModel struct {
	AggregateModel
	BranchID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type             string          `gorm:"size:15;not null;index"`
	Amount           decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Description      string          `gorm:"size:500;not null"`
	Date             time.Time       `gorm:"not null;index"`
	CategoryID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	FundAllocationID *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedBy        *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for TransactionModel
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the model to a domain Transaction
func (m *TransactionModel) ToDomain() *ledger.Transaction {
	return &ledger.Transaction{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		BranchID:          m.BranchID,
		Type:              ledger.TransactionType(m.Type),
		Amount:            m.Amount,
		Description:       m.Description,
		Date:              m.Date,
		CategoryID:        m.CategoryID,
		FundAllocationID:  m.FundAllocationID,
		CreatedBy:         m.CreatedBy,
	}
}

// TransactionModelFromDomain converts a domain Transaction to its model
func TransactionModelFromDomain(t *ledger.Transaction) *TransactionModel {
	model := &TransactionModel{
		BranchID:         t.BranchID,
		Type:             t.Type.String(),
		Amount:           t.Amount,
		Description:      t.Description,
		Date:             t.Date,
		CategoryID:       t.CategoryID,
		FundAllocationID: t.FundAllocationID,
		CreatedBy:        t.CreatedBy,
	}
	model.FromDomainAggregateRoot(t.BaseAggregateRoot)
	return model
}

// FundAllocationModel is the persistence model for ledger.FundAllocation
type FundAllocationModel struct {
	AggregateModel
	FromBranchID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ToBranchID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount       decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Description  string          `gorm:"size:500"`
	AllocatedBy  *uuid.UUID      `gorm:"type:uuid"`
	AllocatedAt  time.Time       `gorm:"not null"`
	IsActive     bool            `gorm:"not null;default:true"`
	ReversalOfID *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for FundAllocationModel
func (FundAllocationModel) TableName() string {
	return "fund_allocations"
}

// ToDomain converts the model to a domain FundAllocation
func (m *FundAllocationModel) ToDomain() *ledger.FundAllocation {
	return &ledger.FundAllocation{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		FromBranchID:      m.FromBranchID,
		ToBranchID:        m.ToBranchID,
		Amount:            m.Amount,
		Description:       m.Description,
		AllocatedBy:       m.AllocatedBy,
		AllocatedAt:       m.AllocatedAt,
		IsActive:          m.IsActive,
		ReversalOfID:      m.ReversalOfID,
	}
}

// FundAllocationModelFromDomain converts a domain FundAllocation to its model
func FundAllocationModelFromDomain(a *ledger.FundAllocation) *FundAllocationModel {
	model := &FundAllocationModel{
		FromBranchID: a.FromBranchID,
		ToBranchID:   a.ToBranchID,
		Amount:       a.Amount,
		Description:  a.Description,
		AllocatedBy:  a.AllocatedBy,
		AllocatedAt:  a.AllocatedAt,
		IsActive:     a.IsActive,
		ReversalOfID: a.ReversalOfID,
	}
	model.FromDomainAggregateRoot(a.BaseAggregateRoot)
	return model
}
