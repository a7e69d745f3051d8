package service

import (
	"errors"
	"fmt"
)

// ValidationError rejects a request before any mutation happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrMissingLineItems rejects an order submission that carries no line item
// data at all. Submissions where every line turns out invalid still create an
// (empty) order; only the fully absent case is rejected.
var ErrMissingLineItems = &ValidationError{Field: "items", Message: "no items in order"}

// Sentinel lookup errors. NotFound conditions are recovered locally by the
// order path (skip the line, zero the credit) and only surface on the direct
// read endpoints.
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrOrderNotFound    = errors.New("order not found")
)
