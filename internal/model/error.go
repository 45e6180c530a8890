package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeInvalidPhone       = "INVALID_PHONE"
	ErrCodeInvalidDatetime    = "INVALID_DATETIME"
	ErrCodePickupDate         = "PICKUP_DATE_UNAVAILABLE"
	ErrCodePickupTime         = "PICKUP_TIME_UNAVAILABLE"
	ErrCodeEmptyOrder         = "EMPTY_ORDER"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeProductUnavailable = "PRODUCT_UNAVAILABLE"
	ErrCodeInsufficientStock  = "INSUFFICIENT_STOCK"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// DomainError carries a stable code alongside a user-facing message.
type DomainError struct {
	Code    string
	Message string
}

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

// NewInsufficientStockError names the product that could not be reserved.
func NewInsufficientStockError(productName string) *DomainError {
	return NewDomainError(ErrCodeInsufficientStock, fmt.Sprintf("Not enough stock for %s", productName))
}

// Common domain errors
var (
	ErrEmptyOrder         = NewDomainError(ErrCodeEmptyOrder, "Order must contain at least one item")
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidPhone       = NewDomainError(ErrCodeInvalidPhone, "Phone number must contain 11 digits starting with 7 (e.g. +79991234567)")
	ErrInvalidDatetime    = NewDomainError(ErrCodeInvalidDatetime, "Invalid date and time, use YYYY-MM-DD HH:MM:SS")
	ErrPickupDate         = NewDomainError(ErrCodePickupDate, "Pickup is available within the next 7 days, excluding Mondays")
	ErrPickupTime         = NewDomainError(ErrCodePickupTime, "Pickup is available from 9:00 to 15:30, at least 30 minutes from now")
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrProductUnavailable = NewDomainError(ErrCodeProductUnavailable, "Product is out of stock")
)
