package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domain "github.com/abdul-basit780/shop-ease-sub002/internal/domain/payment"
)

type PaymentStore struct {
	db *DB
}

func NewPaymentStore(db *DB) *PaymentStore {
	return &PaymentStore{db: db}
}

func (s *PaymentStore) Insert(ctx context.Context, pay *domain.Payment) error {
	var txnID sql.NullString
	if pay.GatewayTxnID != "" {
		txnID = sql.NullString{String: pay.GatewayTxnID, Valid: true}
	}

	_, err := s.db.querier(ctx).Exec(ctx, `
		INSERT INTO payments (id, order_id, method, gateway_txn_id, status, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		pay.ID, pay.OrderID, string(pay.Method), txnID, string(pay.Status), pay.Amount.StringFixed(2), pay.CreatedAt, pay.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("payment store: insert: %w", err)
	}
	return nil
}

func (s *PaymentStore) FindByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	var (
		pay    domain.Payment
		method string
		status string
		amount string
		txnID  sql.NullString
	)
	err := s.db.querier(ctx).QueryRow(ctx, `
		SELECT id, order_id, method, gateway_txn_id, status, amount::text, created_at, updated_at
		FROM payments
		WHERE order_id = $1`, orderID,
	).Scan(&pay.ID, &pay.OrderID, &method, &txnID, &status, &amount, &pay.CreatedAt, &pay.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("payment store: find by order: %w", err)
	}

	pay.Method = domain.Method(method)
	pay.Status = domain.Status(status)
	pay.GatewayTxnID = txnID.String
	if pay.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("payment store: parse amount: %w", err)
	}
	return &pay, nil
}

func (s *PaymentStore) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	tag, err := s.db.querier(ctx).Exec(ctx, `
		UPDATE payments SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("payment store: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
