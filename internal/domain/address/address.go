package address

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("address: not found")

type Address struct {
	ID         string
	CustomerID string
	Street     string
	City       string
	State      string
	ZipCode    string
}

// Line renders the denormalized single-line form stored on an order.
func (a *Address) Line() string {
	return fmt.Sprintf("%s, %s, %s %s", a.Street, a.City, a.State, a.ZipCode)
}

// Repository scopes lookups to the owning customer: an address that exists
// but belongs to someone else is ErrNotFound.
type Repository interface {
	Find(ctx context.Context, id, customerID string) (*Address, error)
}
