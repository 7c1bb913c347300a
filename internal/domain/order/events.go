package order

import "time"

// OrderConfirmedEvent is emitted after an order and its payment commit.
// Downstream consumers (e.g. the mail sender) pick it up from the
// notification topic; the workflow never waits on them.
type OrderConfirmedEvent struct {
	OrderID    string
	CustomerID string
	Total      string
	Method     string
	OccurredAt time.Time
}

func (OrderConfirmedEvent) EventName() string { return "order.confirmed" }

func NewOrderConfirmedEvent(o *Order, method string) OrderConfirmedEvent {
	return OrderConfirmedEvent{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Total:      o.Total.StringFixed(2),
		Method:     method,
		OccurredAt: time.Now().UTC(),
	}
}

// OrderCancelledEvent is emitted after a cancellation commits.
type OrderCancelledEvent struct {
	OrderID    string
	CustomerID string
	Refunded   bool
	OccurredAt time.Time
}

func (OrderCancelledEvent) EventName() string { return "order.cancelled" }

func NewOrderCancelledEvent(o *Order, refunded bool) OrderCancelledEvent {
	return OrderCancelledEvent{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Refunded:   refunded,
		OccurredAt: time.Now().UTC(),
	}
}

// OrderStatusChangedEvent is emitted after an administrative status update.
type OrderStatusChangedEvent struct {
	OrderID    string
	CustomerID string
	Status     string
	OccurredAt time.Time
}

func (OrderStatusChangedEvent) EventName() string { return "order.status_changed" }

func NewOrderStatusChangedEvent(o *Order) OrderStatusChangedEvent {
	return OrderStatusChangedEvent{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Status:     string(o.Status),
		OccurredAt: time.Now().UTC(),
	}
}
