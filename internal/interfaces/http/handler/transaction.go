package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/tripled/backend/internal/application/ledger"
	"github.com/tripled/backend/internal/domain/ledger"
)

// TransactionHandler handles ledger entry endpoints
type TransactionHandler struct {
	BaseHandler
	transactionService *ledgerapp.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *ledgerapp.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// parseDateQuery parses a date query parameter, accepting either a bare
// date or a full RFC3339 timestamp
func parseDateQuery(value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, true
	}
	return nil, false
}

// Record records a ledger entry against a branch
// POST /api/v1/transactions
func (h *TransactionHandler) Record(c *gin.Context) {
	var req ledgerapp.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.CreatedBy = actorID(c)

	tx, err := h.transactionService.RecordTransaction(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tx)
}

// Get returns a ledger entry by ID
// GET /api/v1/transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	tx, err := h.transactionService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tx)
}

// List returns ledger entries with filtering and pagination
// GET /api/v1/transactions
func (h *TransactionHandler) List(c *gin.Context) {
	base, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	filter := ledger.TransactionFilter{Filter: base}

	if branchID := c.Query("branch_id"); branchID != "" {
		id, err := uuid.Parse(branchID)
		if err != nil {
			h.BadRequest(c, "Invalid branch_id")
			return
		}
		filter.BranchID = &id
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		id, err := uuid.Parse(categoryID)
		if err != nil {
			h.BadRequest(c, "Invalid category_id")
			return
		}
		filter.CategoryID = &id
	}
	if txType := c.Query("type"); txType != "" {
		t := ledger.TransactionType(txType)
		if !t.IsValid() {
			h.BadRequest(c, "Transaction type must be INCOME or EXPENDITURE")
			return
		}
		filter.Type = &t
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

	result, err := h.transactionService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update edits an unprotected ledger entry
// PUT /api/v1/transactions/:id
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req ledgerapp.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tx, err := h.transactionService.UpdateTransaction(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tx)
}

// Delete removes an unprotected ledger entry
// DELETE /api/v1/transactions/:id
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
