package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("order: not found")
	ErrNoLines           = errors.New("order: at least one line is required")
	ErrInvalidQuantity   = errors.New("order: quantity must be greater than zero")
	ErrInvalidTransition = errors.New("order: invalid status transition")
	ErrNotCancellable    = errors.New("order: status does not permit cancellation")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ParseStatus validates an externally supplied status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", ErrInvalidTransition
}

// rank orders the forward lifecycle. Cancelled sits outside the chain.
var rank = map[Status]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusShipped:    2,
	StatusCompleted:  3,
}

// SelectedOption is a snapshot of a variant option at order time.
type SelectedOption struct {
	OptionID string
	TypeName string
	Value    string
	Price    decimal.Decimal
}

// Line is a snapshot of a cart line at order time. Unit price already includes
// the selected options' incremental prices, so later catalog edits never
// change what a historical order recorded.
type Line struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Image     string
	Options   []SelectedOption
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Order struct {
	ID         string
	CustomerID string
	Status     Status
	Total      decimal.Decimal
	Address    string
	Lines      []Line
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// New builds a pending order from line snapshots. The total is the sum of
// line subtotals rounded to two decimal places; tax and shipping are not
// computed at this layer.
func New(id, customerID, address string, lines []Line) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	total := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		total = total.Add(l.Subtotal())
	}

	now := time.Now().UTC()
	return &Order{
		ID:         id,
		CustomerID: customerID,
		Status:     StatusPending,
		Total:      total.Round(2),
		Address:    address,
		Lines:      lines,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// CanCancel reports whether cancellation is permitted from the current status.
func (o *Order) CanCancel() bool {
	return o.Status == StatusPending || o.Status == StatusProcessing
}

func (o *Order) Cancel() error {
	if !o.CanCancel() {
		return ErrNotCancellable
	}
	o.Status = StatusCancelled
	o.touch()
	return nil
}

// TransitionTo moves the order forward along
// pending -> processing -> shipped -> completed. Cancellation goes through
// Cancel, never through here; terminal states admit no transition.
func (o *Order) TransitionTo(next Status) error {
	if next == StatusCancelled {
		return ErrInvalidTransition
	}
	cur, ok := rank[o.Status]
	if !ok {
		return ErrInvalidTransition
	}
	target, ok := rank[next]
	if !ok || target <= cur {
		return ErrInvalidTransition
	}
	o.Status = next
	o.touch()
	return nil
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now().UTC()
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Lines = make([]Line, len(o.Lines))
	for i, l := range o.Lines {
		cl := l
		cl.Options = append([]SelectedOption(nil), l.Options...)
		clone.Lines[i] = cl
	}
	return &clone
}
