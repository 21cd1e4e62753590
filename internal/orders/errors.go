// internal/orders/errors.go
package orders

import "fmt"

// NotFoundError marks a referenced entity that does not exist.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// ValidationError marks client input that violates a precondition.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}

// ConflictError marks a race lost to a concurrent request: stock exhausted,
// slot taken, or duplicate enrollment.
type ConflictError struct {
	Reason string
}

func (e ConflictError) Error() string {
	return e.Reason
}

var ErrEmptyOrder = ValidationError{Reason: "order must contain at least one item"}
