package cart

import (
	"context"
	"errors"
)

var ErrInvalidQuantity = errors.New("cart: quantity must be greater than zero")

// Line is one pending selection: a product, a quantity and the chosen
// variant options.
type Line struct {
	ProductID string
	Quantity  int
	OptionIDs []string
}

// Repository exposes the read-then-clear view the order workflow consumes.
// Clear participates in the caller's transaction so the cart survives an
// aborted checkout untouched.
type Repository interface {
	Get(ctx context.Context, customerID string) ([]Line, error)
	Clear(ctx context.Context, customerID string) error
}
