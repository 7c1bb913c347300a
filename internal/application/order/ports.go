package order

import (
	"context"

	"github.com/shopspring/decimal"

	dompayment "github.com/abdul-basit780/shop-ease-sub002/internal/domain/payment"
)

type IDGenerator interface {
	NewID() string
}

// Transactor runs fn inside one serializable transaction. Every store call
// made through the fn's context joins that transaction; returning an error
// aborts it and leaves no partial trace.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PaymentPort is the slice of the payment service the workflow consumes.
type PaymentPort interface {
	IsAvailable(method dompayment.Method) bool
	CreatePayment(ctx context.Context, method dompayment.Method, amount decimal.Decimal, cc dompayment.ChargeContext) (*dompayment.ChargeResult, error)
	ProcessRefund(ctx context.Context, method dompayment.Method, gatewayTxnID string, amount decimal.Decimal, rc dompayment.RefundContext) (*dompayment.RefundResult, error)
}
