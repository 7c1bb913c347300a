package gateway

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-basit780/shop-ease-sub002/internal/domain/payment"
)

func TestCashGatewayChargesArePending(t *testing.T) {
	g := NewCashGateway()
	assert.Equal(t, payment.MethodCash, g.Method())

	res, err := g.CreatePayment(context.Background(), decimal.RequireFromString("35.98"), payment.ChargeContext{OrderID: "ord-1"})
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, res.Status)
	assert.Empty(t, res.GatewayTxnID)
	assert.Empty(t, res.ClientSecret)
}

func TestCashGatewayRefusesRefunds(t *testing.T) {
	g := NewCashGateway()
	_, err := g.ProcessRefund(context.Background(), "", decimal.Zero, payment.RefundContext{})
	assert.Error(t, err)
}
