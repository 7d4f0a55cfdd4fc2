package models

import (
	"time"

	"github.com/tripled/backend/internal/domain/identity"
)

// UserModel is the persistence model for identity.User
type UserModel struct {
	AggregateModel
	Username       string `gorm:"size:50;not null;uniqueIndex"`
	Email          string `gorm:"size:255;index"`
	Phone          string `gorm:"size:50"`
	PasswordHash   string `gorm:"size:255;not null"`
	DisplayName    string `gorm:"size:100"`
	Role           string `gorm:"size:30;not null;index"`
	Status         string `gorm:"size:15;not null"`
	LastLoginAt    *time.Time
	LastLoginIP    string `gorm:"size:45"`
	FailedAttempts int    `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// TableName returns the table name for UserModel
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Username:          m.Username,
		Email:             m.Email,
		Phone:             m.Phone,
		PasswordHash:      m.PasswordHash,
		DisplayName:       m.DisplayName,
		Role:              identity.UserRole(m.Role),
		Status:            identity.UserStatus(m.Status),
		LastLoginAt:       m.LastLoginAt,
		LastLoginIP:       m.LastLoginIP,
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
	}
}

// UserModelFromDomain converts a domain User to its model
func UserModelFromDomain(u *identity.User) *UserModel {
	model := &UserModel{
		Username:       u.Username,
		Email:          u.Email,
		Phone:          u.Phone,
		PasswordHash:   u.PasswordHash,
		DisplayName:    u.DisplayName,
		Role:           u.Role.String(),
		Status:         string(u.Status),
		LastLoginAt:    u.LastLoginAt,
		LastLoginIP:    u.LastLoginIP,
		FailedAttempts: u.FailedAttempts,
		LockedUntil:    u.LockedUntil,
	}
	model.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return model
}
