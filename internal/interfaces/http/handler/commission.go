package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	realtyapp "github.com/tripled/backend/internal/application/realty"
	"github.com/tripled/backend/internal/domain/realty"
)

// CommissionHandler handles commission endpoints
type CommissionHandler struct {
	BaseHandler
	commissionService *realtyapp.CommissionService
}

// NewCommissionHandler creates a new CommissionHandler
func NewCommissionHandler(commissionService *realtyapp.CommissionService) *CommissionHandler {
	return &CommissionHandler{commissionService: commissionService}
}

// Get returns a commission by ID
// GET /api/v1/commissions/:id
func (h *CommissionHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	commission, err := h.commissionService.GetCommission(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, commission)
}

// List returns commissions with filtering and pagination
// GET /api/v1/commissions
func (h *CommissionHandler) List(c *gin.Context) {
	base, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	filter := realty.CommissionFilter{Filter: base}

	if realtorID := c.Query("realtor_id"); realtorID != "" {
		id, err := uuid.Parse(realtorID)
		if err != nil {
			h.BadRequest(c, "Invalid realtor_id")
			return
		}
		filter.RealtorID = &id
	}
	if tier := c.Query("tier"); tier != "" {
		t := realty.CommissionTier(tier)
		filter.Tier = &t
	}
	if isPaid := c.Query("is_paid"); isPaid != "" {
		v := isPaid == "true"
		filter.IsPaid = &v
	}

	fromDate, ok := parseDateQuery(c.Query("from_date"))
	if !ok {
		h.BadRequest(c, "Invalid from_date")
		return
	}
	filter.FromDate = fromDate

	toDate, ok := parseDateQuery(c.Query("to_date"))
	if !ok {
		h.BadRequest(c, "Invalid to_date")
		return
	}
	filter.ToDate = toDate

	result, err := h.commissionService.ListCommissions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Summary returns a realtor's commission totals
// GET /api/v1/realtors/:id/commissions/summary
func (h *CommissionHandler) Summary(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	summary, err := h.commissionService.GetSummary(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// MarkPaid pays out a single commission
// POST /api/v1/commissions/:id/pay
func (h *CommissionHandler) MarkPaid(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	commission, err := h.commissionService.MarkPaid(c.Request.Context(), id, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, commission)
}

// PayAll pays out all of a realtor's unpaid commissions
// POST /api/v1/realtors/:id/commissions/pay-all
func (h *CommissionHandler) PayAll(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.commissionService.PayAll(c.Request.Context(), id, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
