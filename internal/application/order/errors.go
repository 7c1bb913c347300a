package order

import "fmt"

// Code identifies a workflow rejection surfaced to the request layer.
type Code string

const (
	CodeEmptyCart          Code = "EmptyCart"
	CodeAddressNotFound    Code = "AddressNotFound"
	CodeProductUnavailable Code = "ProductUnavailable"
	CodeInsufficientStock  Code = "InsufficientStock"
	CodePaymentFailed      Code = "PaymentFailed"
	CodeOrderNotFound      Code = "OrderNotFound"
	CodeCannotCancel       Code = "CannotCancel"
	CodePaymentInfoMissing Code = "PaymentInfoMissing"
	CodeRefundFailed       Code = "RefundFailed"
	CodeInvalidStatus      Code = "InvalidStatus"
)

// Error is a coded business-rule rejection. It is returned before any side
// effect, or from inside the transaction boundary where returning it aborts
// the whole operation.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
