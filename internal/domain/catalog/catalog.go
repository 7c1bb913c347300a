package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("catalog: not found")

type Product struct {
	ID      string
	Name    string
	Image   string
	Price   decimal.Decimal
	Stock   int
	Deleted bool
}

// OptionValue is one selectable variant value with its incremental price and
// its own stock counter.
type OptionValue struct {
	ID       string
	TypeName string
	Value    string
	Price    decimal.Decimal
	Stock    int
	Deleted  bool
}

// Repository is the read-side catalog boundary the workflow prices against.
type Repository interface {
	Product(ctx context.Context, id string) (*Product, error)
	OptionValue(ctx context.Context, id string) (*OptionValue, error)
}
