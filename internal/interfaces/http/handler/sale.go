package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	realtyapp "github.com/tripled/backend/internal/application/realty"
)

// SaleHandler handles property sale endpoints
type SaleHandler struct {
	BaseHandler
	saleService    *realtyapp.SaleService
	paymentService *realtyapp.PaymentService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *realtyapp.SaleService, paymentService *realtyapp.PaymentService) *SaleHandler {
	return &SaleHandler{
		saleService:    saleService,
		paymentService: paymentService,
	}
}

// Create records a property sale
// POST /api/v1/sales
func (h *SaleHandler) Create(c *gin.Context) {
	var req realtyapp.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.CreatedBy = actorID(c)

	sale, err := h.saleService.CreateSale(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// Get returns a sale by ID
// GET /api/v1/sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// GetByReference returns a sale by reference number
// GET /api/v1/sales/by-reference/:reference
func (h *SaleHandler) GetByReference(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		h.BadRequest(c, "Reference number is required")
		return
	}

	sale, err := h.saleService.GetSaleByReference(c.Request.Context(), reference)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// List returns sales with pagination
// GET /api/v1/sales
func (h *SaleHandler) List(c *gin.Context) {
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	if realtorID := c.Query("realtor_id"); realtorID != "" {
		filter.Filters["realtor_id"] = realtorID
	}
	if fromDate := c.Query("from_date"); fromDate != "" {
		filter.Filters["from_date"] = fromDate
	}
	if toDate := c.Query("to_date"); toDate != "" {
		filter.Filters["to_date"] = toDate
	}

	result, err := h.saleService.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListByRealtor returns the sales credited to a realtor
// GET /api/v1/realtors/:id/sales
func (h *SaleHandler) ListByRealtor(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	sales, err := h.saleService.ListSalesByRealtor(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sales)
}

// ApplyDiscount discounts a sale's selling price
// POST /api/v1/sales/:id/discount
func (h *SaleHandler) ApplyDiscount(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req realtyapp.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.saleService.ApplyDiscount(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// RecordPaymentBody is the request body for recording a payment. The
// sale is identified by the path, not the body.
type RecordPaymentBody struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate time.Time       `json:"payment_date"`
	Method      string          `json:"method" binding:"required"`
	Reference   string          `json:"reference"`
	Notes       string          `json:"notes"`
}

// RecordPayment records a client payment against a sale and triggers
// the commission cascade on the payment amount
// POST /api/v1/sales/:id/payments
func (h *SaleHandler) RecordPayment(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var body RecordPaymentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.paymentService.RecordPayment(c.Request.Context(), realtyapp.RecordPaymentRequest{
		SaleID:      id,
		Amount:      body.Amount,
		PaymentDate: body.PaymentDate,
		Method:      body.Method,
		Reference:   body.Reference,
		Notes:       body.Notes,
		ReceivedBy:  actorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ListPayments returns the payments recorded against a sale
// GET /api/v1/sales/:id/payments
func (h *SaleHandler) ListPayments(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payments)
}
