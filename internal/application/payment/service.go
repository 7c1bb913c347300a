package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	domain "github.com/abdul-basit780/shop-ease-sub002/internal/domain/payment"
	"github.com/abdul-basit780/shop-ease-sub002/internal/pkg/logging"
	"go.uber.org/zap"
)

// Service selects a gateway variant by payment method and exposes a uniform
// create/refund contract. New methods are added by registering another
// gateway, not by branching on strings at the call sites.
type Service struct {
	gateways map[domain.Method]domain.Gateway
}

func NewService(gateways ...domain.Gateway) *Service {
	byMethod := make(map[domain.Method]domain.Gateway, len(gateways))
	for _, gw := range gateways {
		byMethod[gw.Method()] = gw
	}
	return &Service{gateways: byMethod}
}

// IsAvailable is a static configuration check; it performs no I/O.
func (s *Service) IsAvailable(method domain.Method) bool {
	_, ok := s.gateways[method]
	return ok
}

func (s *Service) CreatePayment(ctx context.Context, method domain.Method, amount decimal.Decimal, cc domain.ChargeContext) (*domain.ChargeResult, error) {
	gw, ok := s.gateways[method]
	if !ok {
		return nil, fmt.Errorf("payment: create: %w: %s", domain.ErrUnknownMethod, method)
	}

	logger := logging.FromContext(ctx).With(zap.String("component", "payment_service"))
	logger.Info("create_payment_start",
		zap.String("method", string(method)),
		zap.String("order_id", cc.OrderID),
		zap.String("amount", amount.StringFixed(2)),
	)

	result, err := gw.CreatePayment(ctx, amount, cc)
	if err != nil {
		logger.Error("create_payment_failed",
			zap.String("method", string(method)),
			zap.String("order_id", cc.OrderID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Info("create_payment_success",
		zap.String("order_id", cc.OrderID),
		zap.String("gateway_txn_id", result.GatewayTxnID),
		zap.String("status", string(result.Status)),
	)
	return result, nil
}

func (s *Service) ProcessRefund(ctx context.Context, method domain.Method, gatewayTxnID string, amount decimal.Decimal, rc domain.RefundContext) (*domain.RefundResult, error) {
	gw, ok := s.gateways[method]
	if !ok {
		return nil, fmt.Errorf("payment: refund: %w: %s", domain.ErrUnknownMethod, method)
	}

	logger := logging.FromContext(ctx).With(zap.String("component", "payment_service"))
	logger.Info("process_refund_start",
		zap.String("method", string(method)),
		zap.String("order_id", rc.OrderID),
		zap.String("gateway_txn_id", gatewayTxnID),
	)

	result, err := gw.ProcessRefund(ctx, gatewayTxnID, amount, rc)
	if err != nil {
		logger.Error("process_refund_failed",
			zap.String("order_id", rc.OrderID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Info("process_refund_success",
		zap.String("order_id", rc.OrderID),
		zap.String("refund_id", result.RefundID),
	)
	return result, nil
}
