package order

import "context"

type Repository interface {
	Insert(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	// FindByIDForCustomer returns ErrNotFound when the order exists but
	// belongs to another customer.
	FindByIDForCustomer(ctx context.Context, id, customerID string) (*Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}
