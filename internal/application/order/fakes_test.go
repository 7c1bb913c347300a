package order

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/abdul-basit780/shop-ease-sub002/internal/domain/address"
	"github.com/abdul-basit780/shop-ease-sub002/internal/domain/cart"
	"github.com/abdul-basit780/shop-ease-sub002/internal/domain/catalog"
	"github.com/abdul-basit780/shop-ease-sub002/internal/domain/inventory"
	"github.com/abdul-basit780/shop-ease-sub002/internal/domain/notification"
	domain "github.com/abdul-basit780/shop-ease-sub002/internal/domain/order"
	dompayment "github.com/abdul-basit780/shop-ease-sub002/internal/domain/payment"
)

// fixture holds all mutable state behind the workflow's ports. The fake
// transactor snapshots it before running the transactional closure and
// restores it when the closure fails, which makes abort semantics observable
// the same way a rolled-back database transaction would be.
type fixture struct {
	orders       map[string]*domain.Order
	payments     map[string]*dompayment.Payment
	productStock map[string]int
	optionStock  map[string]int
	products     map[string]*catalog.Product
	options      map[string]*catalog.OptionValue
	carts        map[string][]cart.Line
	addresses    map[string]*address.Address

	pay       *fakePaymentPort
	published []notification.Event
}

type txState struct {
	orders       map[string]*domain.Order
	payments     map[string]*dompayment.Payment
	productStock map[string]int
	optionStock  map[string]int
	carts        map[string][]cart.Line
}

func (f *fixture) snapshot() txState {
	s := txState{
		orders:       make(map[string]*domain.Order, len(f.orders)),
		payments:     make(map[string]*dompayment.Payment, len(f.payments)),
		productStock: make(map[string]int, len(f.productStock)),
		optionStock:  make(map[string]int, len(f.optionStock)),
		carts:        make(map[string][]cart.Line, len(f.carts)),
	}
	for k, v := range f.orders {
		s.orders[k] = v.Clone()
	}
	for k, v := range f.payments {
		clone := *v
		s.payments[k] = &clone
	}
	for k, v := range f.productStock {
		s.productStock[k] = v
	}
	for k, v := range f.optionStock {
		s.optionStock[k] = v
	}
	for k, v := range f.carts {
		s.carts[k] = append([]cart.Line(nil), v...)
	}
	return s
}

func (f *fixture) restore(s txState) {
	f.orders = s.orders
	f.payments = s.payments
	f.productStock = s.productStock
	f.optionStock = s.optionStock
	f.carts = s.carts
}

type fakeTx struct{ fx *fixture }

func (t *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := t.fx.snapshot()
	if err := fn(ctx); err != nil {
		t.fx.restore(snap)
		return err
	}
	return nil
}

type fakeOrderRepo struct{ fx *fixture }

func (r *fakeOrderRepo) Insert(_ context.Context, ord *domain.Order) error {
	r.fx.orders[ord.ID] = ord.Clone()
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	ord, ok := r.fx.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ord.Clone(), nil
}

func (r *fakeOrderRepo) FindByIDForCustomer(_ context.Context, id, customerID string) (*domain.Order, error) {
	ord, ok := r.fx.orders[id]
	if !ok || ord.CustomerID != customerID {
		return nil, domain.ErrNotFound
	}
	return ord.Clone(), nil
}

func (r *fakeOrderRepo) ListByCustomer(_ context.Context, customerID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, ord := range r.fx.orders {
		if ord.CustomerID == customerID {
			out = append(out, ord.Clone())
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id string, status domain.Status) error {
	ord, ok := r.fx.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	ord.Status = status
	return nil
}

type fakePaymentRepo struct{ fx *fixture }

func (r *fakePaymentRepo) Insert(_ context.Context, pay *dompayment.Payment) error {
	clone := *pay
	r.fx.payments[pay.ID] = &clone
	return nil
}

func (r *fakePaymentRepo) FindByOrderID(_ context.Context, orderID string) (*dompayment.Payment, error) {
	for _, pay := range r.fx.payments {
		if pay.OrderID == orderID {
			clone := *pay
			return &clone, nil
		}
	}
	return nil, dompayment.ErrNotFound
}

func (r *fakePaymentRepo) UpdateStatus(_ context.Context, id string, status dompayment.Status) error {
	pay, ok := r.fx.payments[id]
	if !ok {
		return dompayment.ErrNotFound
	}
	pay.Status = status
	return nil
}

type fakeLedger struct{ fx *fixture }

func (l *fakeLedger) Reserve(_ context.Context, items []inventory.ReservationItem) error {
	for _, item := range items {
		if l.fx.productStock[item.ProductID] < item.Quantity {
			return &inventory.InsufficientStockError{ProductID: item.ProductID}
		}
		l.fx.productStock[item.ProductID] -= item.Quantity
		for _, optID := range item.OptionIDs {
			if l.fx.optionStock[optID] < item.Quantity {
				return &inventory.InsufficientStockError{ProductID: item.ProductID}
			}
			l.fx.optionStock[optID] -= item.Quantity
		}
	}
	return nil
}

func (l *fakeLedger) Release(_ context.Context, items []inventory.ReservationItem) error {
	for _, item := range items {
		l.fx.productStock[item.ProductID] += item.Quantity
		for _, optID := range item.OptionIDs {
			l.fx.optionStock[optID] += item.Quantity
		}
	}
	return nil
}

type fakeCartRepo struct{ fx *fixture }

func (r *fakeCartRepo) Get(_ context.Context, customerID string) ([]cart.Line, error) {
	return append([]cart.Line(nil), r.fx.carts[customerID]...), nil
}

func (r *fakeCartRepo) Clear(_ context.Context, customerID string) error {
	delete(r.fx.carts, customerID)
	return nil
}

type fakeCatalog struct{ fx *fixture }

func (c *fakeCatalog) Product(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := c.fx.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	clone := *p
	clone.Stock = c.fx.productStock[id]
	return &clone, nil
}

func (c *fakeCatalog) OptionValue(_ context.Context, id string) (*catalog.OptionValue, error) {
	v, ok := c.fx.options[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	clone := *v
	clone.Stock = c.fx.optionStock[id]
	return &clone, nil
}

type fakeAddressRepo struct{ fx *fixture }

func (r *fakeAddressRepo) Find(_ context.Context, id, customerID string) (*address.Address, error) {
	a, ok := r.fx.addresses[id]
	if !ok || a.CustomerID != customerID {
		return nil, address.ErrNotFound
	}
	clone := *a
	return &clone, nil
}

type chargeCall struct {
	Method dompayment.Method
	Amount decimal.Decimal
	Ctx    dompayment.ChargeContext
}

type refundCall struct {
	Method dompayment.Method
	TxnID  string
	Amount decimal.Decimal
	Ctx    dompayment.RefundContext
}

type fakePaymentPort struct {
	available    map[dompayment.Method]bool
	chargeResult *dompayment.ChargeResult
	chargeErr    error
	refundResult *dompayment.RefundResult
	refundErr    error

	chargeCalls []chargeCall
	refundCalls []refundCall
}

func (p *fakePaymentPort) IsAvailable(method dompayment.Method) bool {
	return p.available[method]
}

func (p *fakePaymentPort) CreatePayment(_ context.Context, method dompayment.Method, amount decimal.Decimal, cc dompayment.ChargeContext) (*dompayment.ChargeResult, error) {
	p.chargeCalls = append(p.chargeCalls, chargeCall{Method: method, Amount: amount, Ctx: cc})
	if p.chargeErr != nil {
		return nil, p.chargeErr
	}
	res := *p.chargeResult
	return &res, nil
}

func (p *fakePaymentPort) ProcessRefund(_ context.Context, method dompayment.Method, txnID string, amount decimal.Decimal, rc dompayment.RefundContext) (*dompayment.RefundResult, error) {
	p.refundCalls = append(p.refundCalls, refundCall{Method: method, TxnID: txnID, Amount: amount, Ctx: rc})
	if p.refundErr != nil {
		return nil, p.refundErr
	}
	res := *p.refundResult
	return &res, nil
}

type fakePublisher struct{ fx *fixture }

func (p *fakePublisher) Publish(_ context.Context, e notification.Event) error {
	p.fx.published = append(p.fx.published, e)
	return nil
}

type seqIDs struct{ n int }

func (g *seqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}
