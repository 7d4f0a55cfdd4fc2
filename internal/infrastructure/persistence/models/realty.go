package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tripled/backend/internal/domain/realty"
)

// RealtorModel is the persistence model for realty.Realtor
type RealtorModel struct {
	AggregateModel
	FirstName       string          `gorm:"size:100;not null"`
	LastName        string          `gorm:"size:100;not null"`
	Email           string          `gorm:"size:255;not null;uniqueIndex"`
	Phone           string          `gorm:"size:50"`
	Address         string          `gorm:"size:500"`
	BankName        string          `gorm:"size:100"`
	AccountNumber   string          `gorm:"size:50"`
	AccountName     string          `gorm:"size:255"`
	ReferralCode    string          `gorm:"size:8;not null;uniqueIndex"`
	SponsorCode     string          `gorm:"size:8"`
	SponsorID       *uuid.UUID      `gorm:"type:uuid;index"`
	Status          string          `gorm:"size:15;not null"`
	TotalCommission decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	PaidCommission  decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	IsActive        bool            `gorm:"not null;default:true"`
	CreatedBy       *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for RealtorModel
func (RealtorModel) TableName() string {
	return "realtors"
}

// ToDomain converts the model to a domain Realtor
func (m *RealtorModel) ToDomain() *realty.Realtor {
	return &realty.Realtor{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Email:             m.Email,
		Phone:             m.Phone,
		Address:           m.Address,
		BankName:          m.BankName,
		AccountNumber:     m.AccountNumber,
		AccountName:       m.AccountName,
		ReferralCode:      m.ReferralCode,
		SponsorCode:       m.SponsorCode,
		SponsorID:         m.SponsorID,
		Status:            realty.RealtorStatus(m.Status),
		TotalCommission:   m.TotalCommission,
		PaidCommission:    m.PaidCommission,
		IsActive:          m.IsActive,
		CreatedBy:         m.CreatedBy,
	}
}

// RealtorModelFromDomain converts a domain Realtor to its model
func RealtorModelFromDomain(r *realty.Realtor) *RealtorModel {
	model := &RealtorModel{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		Phone:           r.Phone,
		Address:         r.Address,
		BankName:        r.BankName,
		AccountNumber:   r.AccountNumber,
		AccountName:     r.AccountName,
		ReferralCode:    r.ReferralCode,
		SponsorCode:     r.SponsorCode,
		SponsorID:       r.SponsorID,
		Status:          r.Status.String(),
		TotalCommission: r.TotalCommission,
		PaidCommission:  r.PaidCommission,
		IsActive:        r.IsActive,
		CreatedBy:       r.CreatedBy,
	}
	model.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return model
}

// PropertySaleModel is the persistence model for realty.PropertySale
type PropertySaleModel struct {
	AggregateModel
	ReferenceNumber string          `gorm:"size:12;not null;uniqueIndex"`
	Description     string          `gorm:"size:500"`
	ClientName      string          `gorm:"size:255;not null"`
	ClientPhone     string          `gorm:"size:50"`
	ClientEmail     string          `gorm:"size:255"`
	OriginalPrice   decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	SellingPrice    decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	AmountPaid      decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	Discount        decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	RealtorID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	RealtorPct      decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	SponsorPct      decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	UplinePct       decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	SaleDate        time.Time       `gorm:"not null;index"`
	CreatedBy       *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for PropertySaleModel
func (PropertySaleModel) TableName() string {
	return "property_sales"
}

// ToDomain converts the model to a domain PropertySale
func (m *PropertySaleModel) ToDomain() *realty.PropertySale {
	return &realty.PropertySale{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ReferenceNumber:   m.ReferenceNumber,
		Description:       m.Description,
		ClientName:        m.ClientName,
		ClientPhone:       m.ClientPhone,
		ClientEmail:       m.ClientEmail,
		OriginalPrice:     m.OriginalPrice,
		SellingPrice:      m.SellingPrice,
		AmountPaid:        m.AmountPaid,
		Discount:          m.Discount,
		RealtorID:         m.RealtorID,
		RealtorPct:        m.RealtorPct,
		SponsorPct:        m.SponsorPct,
		UplinePct:         m.UplinePct,
		SaleDate:          m.SaleDate,
		CreatedBy:         m.CreatedBy,
	}
}

// PropertySaleModelFromDomain converts a domain PropertySale to its model
func PropertySaleModelFromDomain(s *realty.PropertySale) *PropertySaleModel {
	model := &PropertySaleModel{
		ReferenceNumber: s.ReferenceNumber,
		Description:     s.Description,
		ClientName:      s.ClientName,
		ClientPhone:     s.ClientPhone,
		ClientEmail:     s.ClientEmail,
		OriginalPrice:   s.OriginalPrice,
		SellingPrice:    s.SellingPrice,
		AmountPaid:      s.AmountPaid,
		Discount:        s.Discount,
		RealtorID:       s.RealtorID,
		RealtorPct:      s.RealtorPct,
		SponsorPct:      s.SponsorPct,
		UplinePct:       s.UplinePct,
		SaleDate:        s.SaleDate,
		CreatedBy:       s.CreatedBy,
	}
	model.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return model
}

// PaymentModel is the persistence model for realty.Payment. Payments are
// append-only rows; they carry no version column.
type PaymentModel struct {
	BaseModel
	PropertySaleID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	PaymentDate    time.Time       `gorm:"not null"`
	Method         string          `gorm:"size:10;not null"`
	Reference      string          `gorm:"size:100"`
	Notes          string          `gorm:"size:500"`
	ReceivedBy     *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for PaymentModel
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the model to a domain Payment
func (m *PaymentModel) ToDomain() *realty.Payment {
	return &realty.Payment{
		BaseEntity:     m.BaseModel.ToDomain(),
		PropertySaleID: m.PropertySaleID,
		Amount:         m.Amount,
		PaymentDate:    m.PaymentDate,
		Method:         realty.PaymentMethod(m.Method),
		Reference:      m.Reference,
		Notes:          m.Notes,
		ReceivedBy:     m.ReceivedBy,
	}
}

// PaymentModelFromDomain converts a domain Payment to its model
func PaymentModelFromDomain(p *realty.Payment) *PaymentModel {
	model := &PaymentModel{
		PropertySaleID: p.PropertySaleID,
		Amount:         p.Amount,
		PaymentDate:    p.PaymentDate,
		Method:         string(p.Method),
		Reference:      p.Reference,
		Notes:          p.Notes,
		ReceivedBy:     p.ReceivedBy,
	}
	model.FromDomainBaseEntity(p.BaseEntity)
	return model
}

// CommissionModel is the persistence model for realty.Commission
type CommissionModel struct {
	AggregateModel
	RealtorID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount            decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Description       string          `gorm:"size:500"`
	PropertyReference string          `gorm:"size:12;index"`
	Tier              string          `gorm:"size:10;not null"`
	IsPaid            bool            `gorm:"not null;default:false;index"`
	PaidDate          *time.Time
}

// TableName returns the table name for CommissionModel
func (CommissionModel) TableName() string {
	return "commissions"
}

// ToDomain converts the model to a domain Commission
func (m *CommissionModel) ToDomain() *realty.Commission {
	return &realty.Commission{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		RealtorID:         m.RealtorID,
		Amount:            m.Amount,
		Description:       m.Description,
		PropertyReference: m.PropertyReference,
		Tier:              realty.CommissionTier(m.Tier),
		IsPaid:            m.IsPaid,
		PaidDate:          m.PaidDate,
	}
}

// CommissionModelFromDomain converts a domain Commission to its model
func CommissionModelFromDomain(c *realty.Commission) *CommissionModel {
	model := &CommissionModel{
		RealtorID:         c.RealtorID,
		Amount:            c.Amount,
		Description:       c.Description,
		PropertyReference: c.PropertyReference,
		Tier:              c.Tier.String(),
		IsPaid:            c.IsPaid,
		PaidDate:          c.PaidDate,
	}
	model.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return model
}
