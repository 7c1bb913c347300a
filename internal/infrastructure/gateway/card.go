package gateway

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/refund"

	"github.com/abdul-basit780/shop-ease-sub002/internal/domain/payment"
)

// CardGateway charges cards through Stripe payment intents. A failed or
// timed-out remote call is returned as an error and the caller aborts the
// surrounding operation.
type CardGateway struct {
	currency string
}

func NewCardGateway(apiKey, currency string) *CardGateway {
	stripe.Key = apiKey
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &CardGateway{currency: currency}
}

func (g *CardGateway) Method() payment.Method { return payment.MethodCard }

func (g *CardGateway) CreatePayment(ctx context.Context, amount decimal.Decimal, cc payment.ChargeContext) (*payment.ChargeResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(amount)),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("order_id", cc.OrderID)
	params.AddMetadata("customer_id", cc.CustomerID)

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("card gateway: create intent: %w", err)
	}

	status := payment.StatusPending
	if intent.Status == stripe.PaymentIntentStatusSucceeded {
		status = payment.StatusCompleted
	}

	return &payment.ChargeResult{
		GatewayTxnID: intent.ID,
		Status:       status,
		ClientSecret: intent.ClientSecret,
	}, nil
}

func (g *CardGateway) ProcessRefund(ctx context.Context, gatewayTxnID string, amount decimal.Decimal, rc payment.RefundContext) (*payment.RefundResult, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(gatewayTxnID),
		Amount:        stripe.Int64(toMinorUnits(amount)),
	}
	params.Context = ctx
	params.AddMetadata("order_id", rc.OrderID)

	r, err := refund.New(params)
	if err != nil {
		return nil, fmt.Errorf("card gateway: refund: %w", err)
	}

	return &payment.RefundResult{
		RefundID: r.ID,
		Amount:   amount,
		Status:   string(r.Status),
	}, nil
}

// toMinorUnits converts a 2dp decimal amount to the gateway's integer minor
// units (cents).
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
