package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPayment(status Status) *Payment {
	return New("pay-1", "ord-1", MethodCard, status, "pi_1", decimal.RequireFromString("35.98"))
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("cash")
	require.NoError(t, err)
	assert.Equal(t, MethodCash, m)

	_, err = ParseMethod("paypal")
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestMarkRefunded(t *testing.T) {
	pay := newPayment(StatusCompleted)
	require.NoError(t, pay.MarkRefunded())
	assert.Equal(t, StatusRefunded, pay.Status)

	// refunding twice or refunding an unsettled payment is rejected
	assert.ErrorIs(t, pay.MarkRefunded(), ErrInvalidTransition)
	assert.ErrorIs(t, newPayment(StatusPending).MarkRefunded(), ErrInvalidTransition)
}

func TestMarkCancelled(t *testing.T) {
	pay := newPayment(StatusPending)
	require.NoError(t, pay.MarkCancelled())
	assert.Equal(t, StatusCancelled, pay.Status)

	assert.ErrorIs(t, newPayment(StatusCompleted).MarkCancelled(), ErrInvalidTransition)
}

func TestForceCompleted(t *testing.T) {
	pay := newPayment(StatusPending)
	require.NoError(t, pay.ForceCompleted())
	assert.Equal(t, StatusCompleted, pay.Status)

	// idempotent on an already settled payment
	require.NoError(t, pay.ForceCompleted())
	assert.Equal(t, StatusCompleted, pay.Status)

	assert.ErrorIs(t, newPayment(StatusRefunded).ForceCompleted(), ErrInvalidTransition)
	assert.ErrorIs(t, newPayment(StatusCancelled).ForceCompleted(), ErrInvalidTransition)
}
