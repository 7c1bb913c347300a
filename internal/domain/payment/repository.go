package payment

import "context"

type Repository interface {
	Insert(ctx context.Context, payment *Payment) error
	FindByOrderID(ctx context.Context, orderID string) (*Payment, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}
