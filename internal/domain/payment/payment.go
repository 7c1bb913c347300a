package payment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("payment: not found")
	ErrInvalidTransition = errors.New("payment: invalid status transition")
	ErrUnknownMethod     = errors.New("payment: unknown method")
)

type Method string

const (
	MethodCash Method = "cash"
	MethodCard Method = "card"
)

// ParseMethod validates an externally supplied payment method identifier.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodCash, MethodCard:
		return Method(s), nil
	}
	return "", ErrUnknownMethod
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusRefunded  Status = "refunded"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Payment is the durable record tied 1:1 to an order. Amount always equals
// the order total and never changes after creation; only Status mutates.
type Payment struct {
	ID           string
	OrderID      string
	Method       Method
	GatewayTxnID string
	Status       Status
	Amount       decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func New(id, orderID string, method Method, status Status, gatewayTxnID string, amount decimal.Decimal) *Payment {
	now := time.Now().UTC()
	return &Payment{
		ID:           id,
		OrderID:      orderID,
		Method:       method,
		GatewayTxnID: gatewayTxnID,
		Status:       status,
		Amount:       amount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// MarkRefunded records a successful refund. Only a completed payment can be
// refunded.
func (p *Payment) MarkRefunded() error {
	if p.Status != StatusCompleted {
		return ErrInvalidTransition
	}
	p.Status = StatusRefunded
	p.touch()
	return nil
}

// MarkCancelled voids a payment that was never settled (e.g. unsettled cash).
func (p *Payment) MarkCancelled() error {
	if p.Status != StatusPending {
		return ErrInvalidTransition
	}
	p.Status = StatusCancelled
	p.touch()
	return nil
}

// ForceCompleted is used by the administrative completion path, which settles
// the payment without a gateway call.
func (p *Payment) ForceCompleted() error {
	switch p.Status {
	case StatusPending, StatusCompleted:
		p.Status = StatusCompleted
		p.touch()
		return nil
	}
	return ErrInvalidTransition
}

func (p *Payment) touch() {
	p.UpdatedAt = time.Now().UTC()
}
