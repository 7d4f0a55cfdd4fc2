package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tripled/backend/internal/domain/ledger"
	"github.com/tripled/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoryService provides application-level category operations
type CategoryService struct {
	categoryRepo ledger.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo ledger.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Kind        string    `json:"kind"`
	Scope       string    `json:"scope"`
	IsActive    bool      `json:"is_active"`
	IsSystem    bool      `json:"is_system"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Kind        string     `json:"kind" binding:"required"`
	Scope       string     `json:"scope" binding:"required"`
	CreatedBy   *uuid.UUID `json:"-"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Scope       string `json:"scope" binding:"required"`
}

// CreateCategory creates a new category. Names are unique regardless of
// kind, so a category cannot shadow one of the system categories.
func (s *CategoryService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	existing, err := s.categoryRepo.FindByName(ctx, req.Name)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A category with this name already exists")
	}

	category, err := ledger.NewCategory(req.Name, req.Description, ledger.CategoryKind(req.Kind), ledger.CategoryScope(req.Scope))
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		category.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category created",
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name),
		zap.String("kind", category.Kind.String()))

	return toCategoryResponse(category), nil
}

// GetCategory returns a category by ID
func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// ListCategories returns categories, optionally narrowed to a kind and
// the branch type they apply to
func (s *CategoryService) ListCategories(ctx context.Context, kind *ledger.CategoryKind, branchType *ledger.BranchType) ([]CategoryResponse, error) {
	var categories []ledger.Category
	var err error

	if kind != nil {
		categories, err = s.categoryRepo.FindByKind(ctx, *kind, branchType)
	} else {
		categories, err = s.categoryRepo.FindAll(ctx, shared.DefaultFilter())
	}
	if err != nil {
		return nil, err
	}

	items := make([]CategoryResponse, len(categories))
	for i := range categories {
		items[i] = *toCategoryResponse(&categories[i])
	}
	return items, nil
}

// UpdateCategory updates a category. System categories reject the change
// in the domain layer.
func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category.IsSystem {
		return nil, shared.NewProtectedRecordError("category", "system categories cannot be modified")
	}

	if req.Name != category.Name {
		existing, err := s.categoryRepo.FindByName(ctx, req.Name)
		if err != nil && err != shared.ErrNotFound {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A category with this name already exists")
		}
	}

	if err := category.Update(req.Name, req.Description, ledger.CategoryScope(req.Scope)); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	return toCategoryResponse(category), nil
}

// DeleteCategory deletes a category. System categories and categories
// with ledger history are protected; the latter should be deactivated.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if category.IsSystem {
		return shared.NewProtectedRecordError("category", "system categories cannot be deleted")
	}

	count, err := s.categoryRepo.CountTransactions(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewProtectedRecordError("category", "categories with recorded transactions cannot be deleted; deactivate instead")
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("category deleted", zap.String("category_id", id.String()))
	return nil
}

// DeactivateCategory deactivates a category so it no longer accepts new
// entries while keeping its history intact
func (s *CategoryService) DeactivateCategory(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := category.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	return toCategoryResponse(category), nil
}

func toCategoryResponse(category *ledger.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		Kind:        category.Kind.String(),
		Scope:       category.Scope.String(),
		IsActive:    category.IsActive,
		IsSystem:    category.IsSystem,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}
