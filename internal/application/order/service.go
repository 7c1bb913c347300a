package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/abdul-basit780/shop-ease-sub002/internal/domain/address"
	"github.com/abdul-basit780/shop-ease-sub002/internal/domain/cart"
	"github.com/abdul-basit780/shop-ease-sub002/internal/domain/catalog"
	"github.com/abdul-basit780/shop-ease-sub002/internal/domain/inventory"
	"github.com/abdul-basit780/shop-ease-sub002/internal/domain/notification"
	domain "github.com/abdul-basit780/shop-ease-sub002/internal/domain/order"
	dompayment "github.com/abdul-basit780/shop-ease-sub002/internal/domain/payment"
	"github.com/abdul-basit780/shop-ease-sub002/internal/pkg/logging"
	"github.com/abdul-basit780/shop-ease-sub002/internal/pkg/metrics"
)

const (
	useCaseCreate       = "order.create"
	useCaseCancel       = "order.cancel"
	useCaseAdminCancel  = "order.admin_cancel"
	useCaseUpdateStatus = "order.update_status"
	spanPrefix          = "UC."
	publishTimeout      = 300 * time.Millisecond
)

// ErrValidation marks malformed input rejected before any side effect.
var ErrValidation = errors.New("validation")

func newValidation(msg string) error {
	return &validationError{msg: msg}
}

type validationError struct{ msg string }

func (e *validationError) Error() string { return "validation: " + e.msg }
func (e *validationError) Unwrap() error { return ErrValidation }

// Deps wires the collaborators of the order workflow. All stores resolve
// their querier from the context so that calls made inside Transactor.WithinTx
// join the same serializable transaction.
type Deps struct {
	Tx        Transactor
	Orders    domain.Repository
	Payments  dompayment.Repository
	Ledger    inventory.Ledger
	Carts     cart.Repository
	Catalog   catalog.Repository
	Addresses address.Repository
	Payment   PaymentPort
	IDs       IDGenerator
	Notifier  notification.Publisher

	GatewayTimeout time.Duration
	Metrics        *metrics.Workflow
}

// Service orchestrates order creation and cancellation: it is the only
// component allowed to combine stock movement, payment state and order state,
// and it does so inside a single transaction boundary per operation.
type Service struct {
	deps   Deps
	tracer trace.Tracer
}

func NewService(deps Deps) *Service {
	if deps.GatewayTimeout <= 0 {
		deps.GatewayTimeout = 10 * time.Second
	}
	return &Service{
		deps:   deps,
		tracer: otel.Tracer("order-workflow"),
	}
}

type CreateOrderInput struct {
	CustomerID string
	AddressID  string
	Method     string
}

type CreateOrderResult struct {
	Order *domain.Order
	// ClientSecret is set when the gateway requires client-side confirmation.
	ClientSecret string
}

// CreateOrder turns the customer's cart into a durable order. Steps 3–11 of
// the checkout run inside one serializable transaction: stock reservation,
// order and payment persistence and the cart clear either all commit or all
// vanish. The confirmation notification is emitted after commit and never
// awaited.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (_ *CreateOrderResult, err error) {
	ctx, span := s.tracer.Start(ctx, spanPrefix+"CreateOrder", trace.WithAttributes(
		attribute.String("use_case", useCaseCreate),
		attribute.String("order.customer_id", in.CustomerID),
	))
	start := time.Now()
	defer func() { s.finish(span, useCaseCreate, start, err) }()

	logger := logging.FromContext(ctx).With(zap.String("component", "order_workflow"))
	logger.Info("create_order_start",
		zap.String("customer_id", in.CustomerID),
		zap.String("address_id", in.AddressID),
		zap.String("method", in.Method),
	)

	if in.CustomerID == "" {
		return nil, newValidation("customer id is required")
	}
	if _, err := uuid.Parse(in.AddressID); err != nil {
		return nil, newValidation("address id is not a valid identifier")
	}
	method, merr := dompayment.ParseMethod(in.Method)
	if merr != nil {
		return nil, newValidation("payment method must be cash or card")
	}
	if !s.deps.Payment.IsAvailable(method) {
		return nil, newValidation("payment method is not available")
	}

	var (
		ord    *domain.Order
		charge *dompayment.ChargeResult
	)

	err = s.deps.Tx.WithinTx(ctx, func(ctx context.Context) error {
		cartLines, cerr := s.deps.Carts.Get(ctx, in.CustomerID)
		if cerr != nil {
			return cerr
		}
		if len(cartLines) == 0 {
			return newError(CodeEmptyCart, "cart is empty")
		}

		addr, aerr := s.deps.Addresses.Find(ctx, in.AddressID, in.CustomerID)
		if aerr != nil {
			if errors.Is(aerr, address.ErrNotFound) {
				return newError(CodeAddressNotFound, "address %s not found", in.AddressID)
			}
			return aerr
		}

		lines, reservation, lerr := s.resolveLines(ctx, cartLines)
		if lerr != nil {
			return lerr
		}

		if rerr := s.deps.Ledger.Reserve(ctx, reservation); rerr != nil {
			var short *inventory.InsufficientStockError
			if errors.As(rerr, &short) {
				return newError(CodeInsufficientStock, "insufficient stock for product %s", short.ProductID)
			}
			return rerr
		}

		entity, derr := domain.New(s.deps.IDs.NewID(), in.CustomerID, addr.Line(), lines)
		if derr != nil {
			return derr
		}
		if ierr := s.deps.Orders.Insert(ctx, entity); ierr != nil {
			return ierr
		}

		gwCtx, cancel := context.WithTimeout(ctx, s.deps.GatewayTimeout)
		defer cancel()
		res, perr := s.deps.Payment.CreatePayment(gwCtx, method, entity.Total, dompayment.ChargeContext{
			OrderID:    entity.ID,
			CustomerID: in.CustomerID,
		})
		if perr != nil {
			return newError(CodePaymentFailed, "%s", perr.Error())
		}

		pay := dompayment.New(s.deps.IDs.NewID(), entity.ID, method, res.Status, res.GatewayTxnID, entity.Total)
		if ierr := s.deps.Payments.Insert(ctx, pay); ierr != nil {
			return ierr
		}

		if cerr := s.deps.Carts.Clear(ctx, in.CustomerID); cerr != nil {
			return cerr
		}

		ord, charge = entity, res
		return nil
	})
	if err != nil {
		logger.Warn("create_order_rejected", zap.Error(err))
		return nil, err
	}

	logger.Info("create_order_success",
		zap.String("order_id", ord.ID),
		zap.String("total", ord.Total.StringFixed(2)),
	)
	span.SetAttributes(attribute.String("order.id", ord.ID))

	s.emit(ctx, domain.NewOrderConfirmedEvent(ord, string(method)))

	return &CreateOrderResult{Order: ord, ClientSecret: charge.ClientSecret}, nil
}

type CancelOrderResult struct {
	Order  *domain.Order
	Refund *dompayment.RefundResult
}

// CancelOrder reverses an order on behalf of the owning customer: refund (or
// void) the payment, release every reserved counter using the quantities the
// order snapshot recorded, and mark the order cancelled — atomically. A failed
// refund aborts the whole cancellation and leaves the order untouched.
func (s *Service) CancelOrder(ctx context.Context, customerID, orderID string) (_ *CancelOrderResult, err error) {
	ctx, span := s.tracer.Start(ctx, spanPrefix+"CancelOrder", trace.WithAttributes(
		attribute.String("use_case", useCaseCancel),
		attribute.String("order.id", orderID),
	))
	start := time.Now()
	defer func() { s.finish(span, useCaseCancel, start, err) }()

	if customerID == "" {
		return nil, newValidation("customer id is required")
	}
	return s.cancel(ctx, orderID, customerID, useCaseCancel)
}

// AdminCancelOrder is the unscoped variant used by back-office tooling.
func (s *Service) AdminCancelOrder(ctx context.Context, orderID string) (_ *CancelOrderResult, err error) {
	ctx, span := s.tracer.Start(ctx, spanPrefix+"AdminCancelOrder", trace.WithAttributes(
		attribute.String("use_case", useCaseAdminCancel),
		attribute.String("order.id", orderID),
	))
	start := time.Now()
	defer func() { s.finish(span, useCaseAdminCancel, start, err) }()

	return s.cancel(ctx, orderID, "", useCaseAdminCancel)
}

func (s *Service) cancel(ctx context.Context, orderID, customerID, useCase string) (*CancelOrderResult, error) {
	logger := logging.FromContext(ctx).With(
		zap.String("component", "order_workflow"),
		zap.String("use_case", useCase),
		zap.String("order_id", orderID),
	)

	var (
		ord      *domain.Order
		refund   *dompayment.RefundResult
		refunded bool
	)

	err := s.deps.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var ferr error
		if customerID != "" {
			ord, ferr = s.deps.Orders.FindByIDForCustomer(ctx, orderID, customerID)
		} else {
			ord, ferr = s.deps.Orders.FindByID(ctx, orderID)
		}
		if ferr != nil {
			if errors.Is(ferr, domain.ErrNotFound) {
				return newError(CodeOrderNotFound, "order %s not found", orderID)
			}
			return ferr
		}

		if !ord.CanCancel() {
			return newError(CodeCannotCancel, "order in status %s cannot be cancelled", ord.Status)
		}

		pay, perr := s.deps.Payments.FindByOrderID(ctx, ord.ID)
		if perr != nil {
			if errors.Is(perr, dompayment.ErrNotFound) {
				return newError(CodePaymentInfoMissing, "no payment recorded for order %s", ord.ID)
			}
			return perr
		}

		switch {
		case pay.Status == dompayment.StatusCompleted && pay.GatewayTxnID != "":
			gwCtx, cancel := context.WithTimeout(ctx, s.deps.GatewayTimeout)
			defer cancel()
			res, rerr := s.deps.Payment.ProcessRefund(gwCtx, pay.Method, pay.GatewayTxnID, pay.Amount, dompayment.RefundContext{OrderID: ord.ID})
			if rerr != nil {
				return newError(CodeRefundFailed, "%s", rerr.Error())
			}
			if terr := pay.MarkRefunded(); terr != nil {
				return terr
			}
			refund, refunded = res, true
		case pay.Status == dompayment.StatusCompleted:
			// Settled outside any gateway (collected cash); money moves back
			// out of band, the record still transitions.
			if terr := pay.MarkRefunded(); terr != nil {
				return terr
			}
		case pay.Status == dompayment.StatusPending:
			if terr := pay.MarkCancelled(); terr != nil {
				return terr
			}
		default:
			return newError(CodeCannotCancel, "payment in status %s cannot be reversed", pay.Status)
		}
		if uerr := s.deps.Payments.UpdateStatus(ctx, pay.ID, pay.Status); uerr != nil {
			return uerr
		}

		if rerr := s.deps.Ledger.Release(ctx, reservationFromLines(ord.Lines)); rerr != nil {
			return rerr
		}

		if cerr := ord.Cancel(); cerr != nil {
			return cerr
		}
		return s.deps.Orders.UpdateStatus(ctx, ord.ID, ord.Status)
	})
	if err != nil {
		logger.Warn("cancel_order_rejected", zap.Error(err))
		return nil, err
	}

	logger.Info("cancel_order_success", zap.Bool("refunded", refunded))

	s.emit(ctx, domain.NewOrderCancelledEvent(ord, refunded))

	return &CancelOrderResult{Order: ord, Refund: refund}, nil
}

type UpdateStatusResult struct {
	Order *domain.Order
}

// AdminUpdateStatus moves an order forward along its lifecycle. Moving it to
// completed additionally settles the payment record without a gateway call.
// Cancellation is not reachable through here.
func (s *Service) AdminUpdateStatus(ctx context.Context, orderID, status string) (_ *UpdateStatusResult, err error) {
	ctx, span := s.tracer.Start(ctx, spanPrefix+"AdminUpdateStatus", trace.WithAttributes(
		attribute.String("use_case", useCaseUpdateStatus),
		attribute.String("order.id", orderID),
	))
	start := time.Now()
	defer func() { s.finish(span, useCaseUpdateStatus, start, err) }()

	next, serr := domain.ParseStatus(status)
	if serr != nil {
		return nil, newError(CodeInvalidStatus, "unknown status %q", status)
	}

	var ord *domain.Order
	err = s.deps.Tx.WithinTx(ctx, func(ctx context.Context) error {
		entity, ferr := s.deps.Orders.FindByID(ctx, orderID)
		if ferr != nil {
			if errors.Is(ferr, domain.ErrNotFound) {
				return newError(CodeOrderNotFound, "order %s not found", orderID)
			}
			return ferr
		}

		if terr := entity.TransitionTo(next); terr != nil {
			return newError(CodeInvalidStatus, "cannot move order from %s to %s", entity.Status, next)
		}

		if next == domain.StatusCompleted {
			pay, perr := s.deps.Payments.FindByOrderID(ctx, entity.ID)
			if perr != nil {
				if errors.Is(perr, dompayment.ErrNotFound) {
					return newError(CodePaymentInfoMissing, "no payment recorded for order %s", entity.ID)
				}
				return perr
			}
			if ferr := pay.ForceCompleted(); ferr != nil {
				return newError(CodeInvalidStatus, "payment in status %s cannot be completed", pay.Status)
			}
			if uerr := s.deps.Payments.UpdateStatus(ctx, pay.ID, pay.Status); uerr != nil {
				return uerr
			}
		}

		if uerr := s.deps.Orders.UpdateStatus(ctx, entity.ID, entity.Status); uerr != nil {
			return uerr
		}
		ord = entity
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, domain.NewOrderStatusChangedEvent(ord))

	return &UpdateStatusResult{Order: ord}, nil
}

// Get returns one order scoped to the requesting customer.
func (s *Service) Get(ctx context.Context, customerID, orderID string) (*domain.Order, error) {
	ord, err := s.deps.Orders.FindByIDForCustomer(ctx, orderID, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, newError(CodeOrderNotFound, "order %s not found", orderID)
		}
		return nil, err
	}
	return ord, nil
}

// List returns the customer's orders, newest first.
func (s *Service) List(ctx context.Context, customerID string) ([]*domain.Order, error) {
	return s.deps.Orders.ListByCustomer(ctx, customerID)
}

// resolveLines prices and validates every cart line against the catalog,
// producing the snapshots to persist and the counters to reserve.
func (s *Service) resolveLines(ctx context.Context, cartLines []cart.Line) ([]domain.Line, []inventory.ReservationItem, error) {
	lines := make([]domain.Line, 0, len(cartLines))
	reservation := make([]inventory.ReservationItem, 0, len(cartLines))

	for _, cl := range cartLines {
		if cl.Quantity <= 0 {
			return nil, nil, newValidation("cart line quantity must be greater than zero")
		}

		product, err := s.deps.Catalog.Product(ctx, cl.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, nil, newError(CodeProductUnavailable, "product %s is no longer available", cl.ProductID)
			}
			return nil, nil, err
		}
		if product.Deleted {
			return nil, nil, newError(CodeProductUnavailable, "product %s is no longer available", product.Name)
		}

		unitPrice := product.Price
		effectiveStock := product.Stock
		options := make([]domain.SelectedOption, 0, len(cl.OptionIDs))
		for _, optID := range cl.OptionIDs {
			opt, oerr := s.deps.Catalog.OptionValue(ctx, optID)
			if oerr != nil {
				if errors.Is(oerr, catalog.ErrNotFound) {
					return nil, nil, newError(CodeProductUnavailable, "option for product %s is no longer available", product.Name)
				}
				return nil, nil, oerr
			}
			if opt.Deleted {
				return nil, nil, newError(CodeProductUnavailable, "option %s of product %s is no longer available", opt.Value, product.Name)
			}
			unitPrice = unitPrice.Add(opt.Price)
			if opt.Stock < effectiveStock {
				effectiveStock = opt.Stock
			}
			options = append(options, domain.SelectedOption{
				OptionID: opt.ID,
				TypeName: opt.TypeName,
				Value:    opt.Value,
				Price:    opt.Price,
			})
		}

		if cl.Quantity > effectiveStock {
			return nil, nil, newError(CodeInsufficientStock, "insufficient stock for product %s", product.Name)
		}

		lines = append(lines, domain.Line{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: unitPrice,
			Quantity:  cl.Quantity,
			Image:     product.Image,
			Options:   options,
		})
		reservation = append(reservation, inventory.ReservationItem{
			ProductID: cl.ProductID,
			OptionIDs: append([]string(nil), cl.OptionIDs...),
			Quantity:  cl.Quantity,
		})
	}

	return lines, reservation, nil
}

func reservationFromLines(lines []domain.Line) []inventory.ReservationItem {
	items := make([]inventory.ReservationItem, 0, len(lines))
	for _, l := range lines {
		optIDs := make([]string, 0, len(l.Options))
		for _, opt := range l.Options {
			optIDs = append(optIDs, opt.OptionID)
		}
		items = append(items, inventory.ReservationItem{
			ProductID: l.ProductID,
			OptionIDs: optIDs,
			Quantity:  l.Quantity,
		})
	}
	return items
}

// emit publishes a post-commit notification. The publish is bounded and its
// error is logged only; the workflow's outcome is already decided.
func (s *Service) emit(ctx context.Context, e notification.Event) {
	if s.deps.Notifier == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.deps.Notifier.Publish(pubCtx, e); err != nil {
		logging.FromContext(ctx).Warn("notification_publish_failed",
			zap.String("event", e.EventName()),
			zap.Error(err),
		)
	}
}

func (s *Service) finish(span trace.Span, useCase string, start time.Time, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
	s.deps.Metrics.Observe(useCase, start, err)
}
