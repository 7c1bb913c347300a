package postgres

import (
	"context"
	"fmt"

	"github.com/abdul-basit780/shop-ease-sub002/internal/domain/cart"
)

type CartStore struct {
	db *DB
}

func NewCartStore(db *DB) *CartStore {
	return &CartStore{db: db}
}

func (s *CartStore) Get(ctx context.Context, customerID string) ([]cart.Line, error) {
	rows, err := s.db.querier(ctx).Query(ctx, `
		SELECT product_id, quantity, option_ids
		FROM cart_items
		WHERE customer_id = $1
		ORDER BY added_at`, customerID)
	if err != nil {
		return nil, fmt.Errorf("cart store: get: %w", err)
	}
	defer rows.Close()

	var lines []cart.Line
	for rows.Next() {
		var line cart.Line
		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.OptionIDs); err != nil {
			return nil, fmt.Errorf("cart store: scan: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cart store: rows: %w", err)
	}
	return lines, nil
}

// Clear removes the customer's pending selections. It runs inside the
// checkout transaction, so an aborted checkout leaves the cart intact.
func (s *CartStore) Clear(ctx context.Context, customerID string) error {
	_, err := s.db.querier(ctx).Exec(ctx, `
		DELETE FROM cart_items WHERE customer_id = $1`, customerID)
	if err != nil {
		return fmt.Errorf("cart store: clear: %w", err)
	}
	return nil
}
