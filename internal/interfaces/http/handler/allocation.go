package handler

import (
	"github.com/gin-gonic/gin"

	ledgerapp "github.com/tripled/backend/internal/application/ledger"
)

// AllocationHandler handles fund allocation endpoints
type AllocationHandler struct {
	BaseHandler
	allocationService *ledgerapp.AllocationService
}

// NewAllocationHandler creates a new AllocationHandler
func NewAllocationHandler(allocationService *ledgerapp.AllocationService) *AllocationHandler {
	return &AllocationHandler{allocationService: allocationService}
}

// Allocate transfers funds from the main branch to a sub branch
// POST /api/v1/allocations
func (h *AllocationHandler) Allocate(c *gin.Context) {
	var req ledgerapp.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.AllocatedBy = actorID(c)

	allocation, err := h.allocationService.Allocate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, allocation)
}

// Reverse reverses an allocation, returning the funds to the main branch
// POST /api/v1/allocations/:id/reverse
func (h *AllocationHandler) Reverse(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	// The reason is optional, so an empty body is fine
	var req ledgerapp.ReverseRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}
	req.ReversedBy = actorID(c)

	reversal, err := h.allocationService.Reverse(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, reversal)
}

// Get returns an allocation by ID
// GET /api/v1/allocations/:id
func (h *AllocationHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	allocation, err := h.allocationService.GetAllocation(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, allocation)
}

// List returns allocations with pagination
// GET /api/v1/allocations
func (h *AllocationHandler) List(c *gin.Context) {
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	if toBranchID := c.Query("to_branch_id"); toBranchID != "" {
		filter.Filters["to_branch_id"] = toBranchID
	}
	if isActive := c.Query("is_active"); isActive != "" {
		filter.Filters["is_active"] = isActive == "true"
	}

	result, err := h.allocationService.ListAllocations(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Delete removes an allocation and its ledger entries by reversing the
// transfer of funds
// DELETE /api/v1/allocations/:id
func (h *AllocationHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.allocationService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
