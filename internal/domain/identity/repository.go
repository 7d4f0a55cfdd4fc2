package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/tripled/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll finds users with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// FindByRole finds users holding a role
	FindByRole(ctx context.Context, role UserRole) ([]User, error)

	// ExistsByUsername reports whether a username is taken
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// Delete deletes a user
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts users
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
