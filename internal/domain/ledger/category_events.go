package ledger

import (
	"github.com/google/uuid"
	"github.com/tripled/backend/internal/domain/shared"
)

// CategoryCreatedEvent is raised when a new category is created
type CategoryCreatedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID    `json:"category_id"`
	Name       string       `json:"name"`
	Kind       CategoryKind `json:"kind"`
}

// EventType returns the event type name
func (e *CategoryCreatedEvent) EventType() string {
	return "CategoryCreated"
}

// NewCategoryCreatedEvent creates a new CategoryCreatedEvent
func NewCategoryCreatedEvent(category *Category) *CategoryCreatedEvent {
	return &CategoryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CategoryCreated", "Category", category.ID),
		CategoryID:      category.ID,
		Name:            category.Name,
		Kind:            category.Kind,
	}
}
