package gateway

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/abdul-basit780/shop-ease-sub002/internal/domain/payment"
)

// CashGateway settles nothing: the charge is recorded pending and collected
// physically on delivery. It never performs I/O and never fails.
type CashGateway struct{}

func NewCashGateway() *CashGateway {
	return &CashGateway{}
}

func (g *CashGateway) Method() payment.Method { return payment.MethodCash }

func (g *CashGateway) CreatePayment(ctx context.Context, amount decimal.Decimal, cc payment.ChargeContext) (*payment.ChargeResult, error) {
	_ = ctx
	_ = amount
	_ = cc
	return &payment.ChargeResult{Status: payment.StatusPending}, nil
}

// ProcessRefund is never reached for cash: a pending cash payment is voided
// directly by the workflow without a gateway call.
func (g *CashGateway) ProcessRefund(ctx context.Context, gatewayTxnID string, amount decimal.Decimal, rc payment.RefundContext) (*payment.RefundResult, error) {
	return nil, errors.New("cash gateway: refunds are handled out of band")
}
