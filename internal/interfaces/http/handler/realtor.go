package handler

import (
	"github.com/gin-gonic/gin"

	realtyapp "github.com/tripled/backend/internal/application/realty"
)

// RealtorHandler handles realtor network endpoints
type RealtorHandler struct {
	BaseHandler
	realtorService *realtyapp.RealtorService
}

// NewRealtorHandler creates a new RealtorHandler
func NewRealtorHandler(realtorService *realtyapp.RealtorService) *RealtorHandler {
	return &RealtorHandler{realtorService: realtorService}
}

// Create registers a realtor
// POST /api/v1/realtors
func (h *RealtorHandler) Create(c *gin.Context) {
	var req realtyapp.CreateRealtorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.CreatedBy = actorID(c)

	realtor, err := h.realtorService.CreateRealtor(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, realtor)
}

// Get returns a realtor by ID
// GET /api/v1/realtors/:id
func (h *RealtorHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	realtor, err := h.realtorService.GetRealtor(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, realtor)
}

// GetByCode returns a realtor by referral code
// GET /api/v1/realtors/by-code/:code
func (h *RealtorHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Referral code is required")
		return
	}

	realtor, err := h.realtorService.GetRealtorByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, realtor)
}

// List returns realtors with pagination
// GET /api/v1/realtors
func (h *RealtorHandler) List(c *gin.Context) {
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if isActive := c.Query("is_active"); isActive != "" {
		filter.Filters["is_active"] = isActive == "true"
	}
	if sponsorID := c.Query("sponsor_id"); sponsorID != "" {
		filter.Filters["sponsor_id"] = sponsorID
	}

	result, err := h.realtorService.ListRealtors(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Downline returns the realtors directly sponsored by a realtor
// GET /api/v1/realtors/:id/downline
func (h *RealtorHandler) Downline(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	downline, err := h.realtorService.GetDownline(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, downline)
}

// UpdateContact updates a realtor's contact details
// PUT /api/v1/realtors/:id/contact
func (h *RealtorHandler) UpdateContact(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req realtyapp.UpdateRealtorContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	realtor, err := h.realtorService.UpdateContact(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, realtor)
}

// UpdateBankDetails updates a realtor's payout account
// PUT /api/v1/realtors/:id/bank-details
func (h *RealtorHandler) UpdateBankDetails(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req realtyapp.UpdateBankDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	realtor, err := h.realtorService.UpdateBankDetails(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, realtor)
}

// ChangeSponsor moves a realtor under a different sponsor
// PUT /api/v1/realtors/:id/sponsor
func (h *RealtorHandler) ChangeSponsor(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req realtyapp.ChangeSponsorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	realtor, err := h.realtorService.ChangeSponsor(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, realtor)
}

// Promote elevates a realtor to executive status
// POST /api/v1/realtors/:id/promote
func (h *RealtorHandler) Promote(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	realtor, err := h.realtorService.Promote(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, realtor)
}

// Demote returns a realtor to regular status
// POST /api/v1/realtors/:id/demote
func (h *RealtorHandler) Demote(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	realtor, err := h.realtorService.Demote(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, realtor)
}

// Deactivate deactivates a realtor
// POST /api/v1/realtors/:id/deactivate
func (h *RealtorHandler) Deactivate(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	realtor, err := h.realtorService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, realtor)
}
