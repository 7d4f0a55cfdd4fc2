package handler

import (
	"github.com/gin-gonic/gin"

	ledgerapp "github.com/tripled/backend/internal/application/ledger"
	"github.com/tripled/backend/internal/domain/ledger"
)

// CategoryHandler handles transaction category endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *ledgerapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *ledgerapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// Create creates a category
// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req ledgerapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.CreatedBy = actorID(c)

	category, err := h.categoryService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, category)
}

// Get returns a category by ID
// GET /api/v1/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// List returns categories, optionally filtered by kind and by the
// branch type they are scoped to
// GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	var kind *ledger.CategoryKind
	if k := c.Query("kind"); k != "" {
		v := ledger.CategoryKind(k)
		kind = &v
	}

	var branchType *ledger.BranchType
	if bt := c.Query("branch_type"); bt != "" {
		v := ledger.BranchType(bt)
		branchType = &v
	}

	categories, err := h.categoryService.ListCategories(c.Request.Context(), kind, branchType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, categories)
}

// Update updates a category
// PUT /api/v1/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req ledgerapp.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// Deactivate deactivates a category
// POST /api/v1/categories/:id/deactivate
func (h *CategoryHandler) Deactivate(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	category, err := h.categoryService.DeactivateCategory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// Delete removes an unused category
// DELETE /api/v1/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
