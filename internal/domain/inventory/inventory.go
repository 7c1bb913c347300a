package inventory

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity   = errors.New("inventory: quantity must be greater than zero")
	ErrInsufficientStock = errors.New("inventory: insufficient stock")
)

// InsufficientStockError names the product whose counter could not cover the
// requested quantity. It matches ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	ProductID string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("inventory: insufficient stock for product %s", e.ProductID)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ReservationItem addresses one product's counters: the base stock plus the
// stock of every selected option.
type ReservationItem struct {
	ProductID string
	OptionIDs []string
	Quantity  int
}

// Ledger owns all stock mutation. Reserve decrements the base counter and
// every option counter of every item as one all-or-nothing group; no partial
// decrement may become visible to other callers, so both operations must run
// inside the caller's transaction. Release is the exact inverse and is not
// idempotent: callers must not release the same reservation twice.
type Ledger interface {
	Reserve(ctx context.Context, items []ReservationItem) error
	Release(ctx context.Context, items []ReservationItem) error
}
