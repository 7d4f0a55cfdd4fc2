package handler

import (
	"github.com/gin-gonic/gin"

	ledgerapp "github.com/tripled/backend/internal/application/ledger"
)

// BranchHandler handles branch endpoints
type BranchHandler struct {
	BaseHandler
	branchService *ledgerapp.BranchService
}

// NewBranchHandler creates a new BranchHandler
func NewBranchHandler(branchService *ledgerapp.BranchService) *BranchHandler {
	return &BranchHandler{branchService: branchService}
}

// Create creates a branch
// POST /api/v1/branches
func (h *BranchHandler) Create(c *gin.Context) {
	var req ledgerapp.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.CreatedBy = actorID(c)

	branch, err := h.branchService.CreateBranch(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, branch)
}

// Get returns a branch by ID
// GET /api/v1/branches/:id
func (h *BranchHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	branch, err := h.branchService.GetBranch(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, branch)
}

// GetBalance returns a branch's derived balance
// GET /api/v1/branches/:id/balance
func (h *BranchHandler) GetBalance(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	balance, err := h.branchService.GetBalance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}

// List returns branches with pagination
// GET /api/v1/branches
func (h *BranchHandler) List(c *gin.Context) {
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	if branchType := c.Query("type"); branchType != "" {
		filter.Filters["type"] = branchType
	}
	if isActive := c.Query("is_active"); isActive != "" {
		filter.Filters["is_active"] = isActive == "true"
	}

	result, err := h.branchService.ListBranches(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update updates a branch's details
// PUT /api/v1/branches/:id
func (h *BranchHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req ledgerapp.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	branch, err := h.branchService.UpdateBranch(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, branch)
}

// Deactivate deactivates a branch
// POST /api/v1/branches/:id/deactivate
func (h *BranchHandler) Deactivate(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	branch, err := h.branchService.DeactivateBranch(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, branch)
}

// Delete removes a branch with no ledger history
// DELETE /api/v1/branches/:id
func (h *BranchHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.branchService.DeleteBranch(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
