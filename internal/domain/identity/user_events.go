package identity

import (
	"github.com/google/uuid"
	"github.com/tripled/backend/internal/domain/shared"
)

// UserCreatedEvent is raised when a new user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     UserRole  `json:"role"`
}

// EventType returns the event type name
func (e *UserCreatedEvent) EventType() string {
	return "UserCreated"
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("UserCreated", "User", user.ID),
		UserID:          user.ID,
		Username:        user.Username,
		Role:            user.Role,
	}
}

// UserDeactivatedEvent is raised when a user is deactivated
type UserDeactivatedEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

// EventType returns the event type name
func (e *UserDeactivatedEvent) EventType() string {
	return "UserDeactivated"
}

// NewUserDeactivatedEvent creates a new UserDeactivatedEvent
func NewUserDeactivatedEvent(user *User) *UserDeactivatedEvent {
	return &UserDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("UserDeactivated", "User", user.ID),
		UserID:          user.ID,
		Username:        user.Username,
	}
}
