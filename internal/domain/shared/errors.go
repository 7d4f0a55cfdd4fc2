package shared

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// InsufficientFundsError is returned when an expenditure or allocation
// exceeds the branch's available balance. It carries the amounts so the
// caller can report exactly how much is missing.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %s, available %s, shortfall %s",
		e.Required.StringFixed(2), e.Available.StringFixed(2), e.Shortfall().StringFixed(2))
}

// Shortfall returns how much the requested amount exceeds the available balance
func (e *InsufficientFundsError) Shortfall() decimal.Decimal {
	return e.Required.Sub(e.Available)
}

// Code returns the stable error code for HTTP mapping
func (e *InsufficientFundsError) Code() string {
	return "INSUFFICIENT_FUNDS"
}

// NewInsufficientFundsError creates an insufficient funds error
func NewInsufficientFundsError(required, available decimal.Decimal) *InsufficientFundsError {
	return &InsufficientFundsError{Required: required, Available: available}
}

// InvalidAmountError is returned when a monetary amount fails validation,
// such as a zero or negative transaction or payment amount.
type InvalidAmountError struct {
	Amount decimal.Decimal
	Reason string
}

// Error implements the error interface
func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %s: %s", e.Amount.StringFixed(2), e.Reason)
}

// Code returns the stable error code for HTTP mapping
func (e *InvalidAmountError) Code() string {
	return "INVALID_AMOUNT"
}

// NewInvalidAmountError creates an invalid amount error
func NewInvalidAmountError(amount decimal.Decimal, reason string) *InvalidAmountError {
	return &InvalidAmountError{Amount: amount, Reason: reason}
}

// ProtectedRecordError is returned when a delete would touch a record
// that the system depends on, such as a category referenced by a fund
// allocation or a system-managed category.
type ProtectedRecordError struct {
	Resource string
	Reason   string
}

// Error implements the error interface
func (e *ProtectedRecordError) Error() string {
	return fmt.Sprintf("%s is protected: %s", e.Resource, e.Reason)
}

// Code returns the stable error code for HTTP mapping
func (e *ProtectedRecordError) Code() string {
	return "PROTECTED_RECORD"
}

// NewProtectedRecordError creates a protected record error
func NewProtectedRecordError(resource, reason string) *ProtectedRecordError {
	return &ProtectedRecordError{Resource: resource, Reason: reason}
}

// IdentityAssignmentError signals that the persistence layer failed to
// assign an identifier before dependent rows were written. It is never
// recoverable within the request; the surrounding transaction must roll
// back.
type IdentityAssignmentError struct {
	Aggregate string
}

// Error implements the error interface
func (e *IdentityAssignmentError) Error() string {
	return fmt.Sprintf("identity was not assigned for %s before dependent writes", e.Aggregate)
}

// Code returns the stable error code for HTTP mapping
func (e *IdentityAssignmentError) Code() string {
	return "IDENTITY_ASSIGNMENT"
}

// NewIdentityAssignmentError creates an identity assignment error
func NewIdentityAssignmentError(aggregate string) *IdentityAssignmentError {
	return &IdentityAssignmentError{Aggregate: aggregate}
}
