package order

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("order not found")

	ErrInvalidInput     = errors.New("invalid order input")
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrProductNotFound also covers an unreachable inventory service; the
	// stock lookup cannot tell the two apart.
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrOrchestrationFailure means the order could not be persisted. Nothing
	// downstream has been touched when it is returned.
	ErrOrchestrationFailure = errors.New("order could not be placed")
)

// InsufficientStockError reports the stock seen at check time.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
