package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeInvalidAmount is used when a monetary amount fails validation
	ErrCodeInvalidAmount = "ERR_INVALID_AMOUNT"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	// ErrCodeAccountLocked is used when the account is locked out
	ErrCodeAccountLocked = "ERR_ACCOUNT_LOCKED"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientFunds is used when a branch balance cannot cover a debit
	ErrCodeInsufficientFunds = "ERR_INSUFFICIENT_FUNDS"
	// ErrCodeProtectedRecord is used when a delete would touch a protected record
	ErrCodeProtectedRecord = "ERR_PROTECTED_RECORD"
	// ErrCodeOverpayment is used when a payment exceeds the outstanding balance
	ErrCodeOverpayment = "ERR_OVERPAYMENT"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:    http.StatusBadRequest,
	ErrCodeInvalidAmount: http.StatusBadRequest,

	ErrCodeUnauthorized:  http.StatusUnauthorized,
	ErrCodeForbidden:     http.StatusForbidden,
	ErrCodeTokenExpired:  http.StatusUnauthorized,
	ErrCodeTokenInvalid:  http.StatusUnauthorized,
	ErrCodeAccountLocked: http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientFunds: http.StatusUnprocessableEntity,
	ErrCodeProtectedRecord:   http.StatusUnprocessableEntity,
	ErrCodeOverpayment:       http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized codes
// used on the wire
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":      ErrCodeNotFound,
	"USER_NOT_FOUND": ErrCodeNotFound,

	"ALREADY_EXISTS":        ErrCodeAlreadyExists,
	"MAIN_BRANCH_EXISTS":    ErrCodeAlreadyExists,
	"ALREADY_REVERSED":      ErrCodeConflict,
	"ALREADY_PAID":          ErrCodeConflict,
	"ALREADY_ACTIVE":        ErrCodeConflict,
	"ALREADY_DEACTIVATED":   ErrCodeConflict,
	"CONCURRENCY_CONFLICT":  ErrCodeConcurrencyConflict,
	"OPTIMISTIC_LOCK_ERROR": ErrCodeConcurrencyConflict,

	"INSUFFICIENT_FUNDS":          ErrCodeInsufficientFunds,
	"PROTECTED_RECORD":            ErrCodeProtectedRecord,
	"OVERPAYMENT":                 ErrCodeOverpayment,
	"INVALID_STATE":               ErrCodeInvalidState,
	"CATEGORY_KIND_MISMATCH":      ErrCodeBusinessRule,
	"CATEGORY_SCOPE_MISMATCH":     ErrCodeBusinessRule,
	"MISSING_SYSTEM_CATEGORY":     ErrCodeInternal,
	"IDENTITY_ASSIGNMENT":         ErrCodeInternal,
	"INTERNAL_ERROR":              ErrCodeInternal,
	"PASSWORD_HASH_ERROR":         ErrCodeInternal,
	"CODE_GENERATION_FAILED":      ErrCodeInternal,
	"REFERENCE_GENERATION_FAILED": ErrCodeInternal,

	"INVALID_AMOUNT": ErrCodeInvalidAmount,

	"UNAUTHORIZED":        ErrCodeUnauthorized,
	"INVALID_CREDENTIALS": ErrCodeUnauthorized,
	"TOKEN_INVALID":       ErrCodeTokenInvalid,
	"TOKEN_EXPIRED":       ErrCodeTokenExpired,
	"TOKEN_MAX_REFRESH":   ErrCodeTokenInvalid,
	"TOKEN_ERROR":         ErrCodeTokenInvalid,
	"ACCOUNT_LOCKED":      ErrCodeAccountLocked,
	"ACCOUNT_DEACTIVATED": ErrCodeForbidden,
	"ACCOUNT_INACTIVE":    ErrCodeForbidden,
	"USER_DEACTIVATED":    ErrCodeForbidden,
	"FORBIDDEN":           ErrCodeForbidden,
	"NOT_LOCKED":          ErrCodeInvalidState,
}

// NormalizeErrorCode converts a domain error code to the standardized
// format. Unmapped INVALID_* codes are treated as input validation
// failures; anything else unknown is returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeInvalidInput
	}
	return code
}
