package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domain "github.com/abdul-basit780/shop-ease-sub002/internal/domain/order"
)

type OrderStore struct {
	db *DB
}

func NewOrderStore(db *DB) *OrderStore {
	return &OrderStore{db: db}
}

func (s *OrderStore) Insert(ctx context.Context, ord *domain.Order) error {
	q := s.db.querier(ctx)

	_, err := q.Exec(ctx, `
		INSERT INTO orders (id, customer_id, status, total, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ord.ID, ord.CustomerID, string(ord.Status), ord.Total.StringFixed(2), ord.Address, ord.CreatedAt, ord.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("order store: insert order: %w", err)
	}

	for _, line := range ord.Lines {
		var lineID int64
		err := q.QueryRow(ctx, `
			INSERT INTO order_lines (order_id, product_id, name, unit_price, quantity, image)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			ord.ID, line.ProductID, line.Name, line.UnitPrice.StringFixed(2), line.Quantity, line.Image,
		).Scan(&lineID)
		if err != nil {
			return fmt.Errorf("order store: insert line: %w", err)
		}

		for _, opt := range line.Options {
			_, err := q.Exec(ctx, `
				INSERT INTO order_line_options (line_id, option_id, type_name, value, price)
				VALUES ($1, $2, $3, $4, $5)`,
				lineID, opt.OptionID, opt.TypeName, opt.Value, opt.Price.StringFixed(2),
			)
			if err != nil {
				return fmt.Errorf("order store: insert line option: %w", err)
			}
		}
	}

	return nil
}

func (s *OrderStore) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return s.find(ctx, `WHERE id = $1`, id)
}

func (s *OrderStore) FindByIDForCustomer(ctx context.Context, id, customerID string) (*domain.Order, error) {
	return s.find(ctx, `WHERE id = $1 AND customer_id = $2`, id, customerID)
}

func (s *OrderStore) find(ctx context.Context, where string, args ...any) (*domain.Order, error) {
	q := s.db.querier(ctx)

	ord, err := scanOrder(q.QueryRow(ctx, `
		SELECT id, customer_id, status, total::text, address, created_at, updated_at
		FROM orders `+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("order store: find: %w", err)
	}

	if err := s.loadLines(ctx, q, ord); err != nil {
		return nil, err
	}
	return ord, nil
}

func (s *OrderStore) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	q := s.db.querier(ctx)

	rows, err := q.Query(ctx, `
		SELECT id, customer_id, status, total::text, address, created_at, updated_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("order store: list: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("order store: list scan: %w", err)
		}
		orders = append(orders, ord)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order store: list rows: %w", err)
	}

	for _, ord := range orders {
		if err := s.loadLines(ctx, q, ord); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	tag, err := s.db.querier(ctx).Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("order store: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *OrderStore) loadLines(ctx context.Context, q Querier, ord *domain.Order) error {
	rows, err := q.Query(ctx, `
		SELECT id, product_id, name, unit_price::text, quantity, image
		FROM order_lines
		WHERE order_id = $1
		ORDER BY id`, ord.ID)
	if err != nil {
		return fmt.Errorf("order store: load lines: %w", err)
	}
	defer rows.Close()

	lineIdx := make(map[int64]int)
	for rows.Next() {
		var (
			lineID int64
			line   domain.Line
			price  string
		)
		if err := rows.Scan(&lineID, &line.ProductID, &line.Name, &price, &line.Quantity, &line.Image); err != nil {
			return fmt.Errorf("order store: scan line: %w", err)
		}
		if line.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return fmt.Errorf("order store: parse unit price: %w", err)
		}
		lineIdx[lineID] = len(ord.Lines)
		ord.Lines = append(ord.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("order store: line rows: %w", err)
	}

	optRows, err := q.Query(ctx, `
		SELECT o.line_id, o.option_id, o.type_name, o.value, o.price::text
		FROM order_line_options o
		JOIN order_lines l ON l.id = o.line_id
		WHERE l.order_id = $1
		ORDER BY o.id`, ord.ID)
	if err != nil {
		return fmt.Errorf("order store: load line options: %w", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var (
			lineID int64
			opt    domain.SelectedOption
			price  string
		)
		if err := optRows.Scan(&lineID, &opt.OptionID, &opt.TypeName, &opt.Value, &price); err != nil {
			return fmt.Errorf("order store: scan line option: %w", err)
		}
		if opt.Price, err = decimal.NewFromString(price); err != nil {
			return fmt.Errorf("order store: parse option price: %w", err)
		}
		if idx, ok := lineIdx[lineID]; ok {
			ord.Lines[idx].Options = append(ord.Lines[idx].Options, opt)
		}
	}
	return optRows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		ord    domain.Order
		status string
		total  string
	)
	if err := row.Scan(&ord.ID, &ord.CustomerID, &status, &total, &ord.Address, &ord.CreatedAt, &ord.UpdatedAt); err != nil {
		return nil, err
	}
	ord.Status = domain.Status(status)
	var err error
	if ord.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	return &ord, nil
}
