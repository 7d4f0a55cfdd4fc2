package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripled/backend/internal/domain/shared"
	"github.com/tripled/backend/internal/interfaces/http/dto"
)

func serveError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var base BaseHandler
	r := gin.New()
	r.GET("/boom", func(c *gin.Context) {
		base.HandleError(c, err)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func TestHandleError_DomainError(t *testing.T) {
	w := serveError(t, shared.NewDomainError("NOT_FOUND", "Branch not found"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Branch not found", resp.Error.Message)
}

func TestHandleError_OptimisticLockConflict(t *testing.T) {
	w := serveError(t, shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The branch record has been modified by another transaction"))

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, dto.ErrCodeConcurrencyConflict, resp.Error.Code)
}

func TestHandleError_TypedInsufficientFunds(t *testing.T) {
	err := shared.NewInsufficientFundsError(decimal.NewFromInt(500000), decimal.NewFromInt(120000))
	w := serveError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, dto.ErrCodeInsufficientFunds, resp.Error.Code)
}

func TestHandleError_TypedProtectedRecord(t *testing.T) {
	err := shared.NewProtectedRecordError("transaction", "allocation entries cannot be edited directly")
	w := serveError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, dto.ErrCodeProtectedRecord, resp.Error.Code)
}

func TestHandleError_UnknownErrorIsInternal(t *testing.T) {
	w := serveError(t, errors.New("database exploded"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "exploded")
}
