package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// ChargeContext carries the identifiers a gateway attaches to a charge.
type ChargeContext struct {
	OrderID    string
	CustomerID string
}

// ChargeResult is what a gateway reports for a created charge. Status is the
// gateway's view of the payment (cash is always pending, a card may settle
// synchronously). ClientSecret is only set by gateways whose charge must be
// confirmed client-side.
type ChargeResult struct {
	GatewayTxnID string
	Status       Status
	ClientSecret string
}

type RefundContext struct {
	OrderID string
}

type RefundResult struct {
	RefundID string
	Amount   decimal.Decimal
	Status   string
}

// Gateway is one payment-method variant. A failed remote call is reported as
// an error; the caller treats it as fatal to the surrounding operation.
type Gateway interface {
	Method() Method
	CreatePayment(ctx context.Context, amount decimal.Decimal, cc ChargeContext) (*ChargeResult, error)
	ProcessRefund(ctx context.Context, gatewayTxnID string, amount decimal.Decimal, rc RefundContext) (*RefundResult, error)
}
