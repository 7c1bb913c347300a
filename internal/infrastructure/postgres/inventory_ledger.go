package postgres

import (
	"context"
	"fmt"

	"github.com/abdul-basit780/shop-ease-sub002/internal/domain/inventory"
)

// InventoryLedger mutates stock counters with guarded single-statement
// updates. Both operations are expected to run inside the caller's
// serializable transaction: a failing item aborts the transaction, which is
// what makes the whole group all-or-nothing.
type InventoryLedger struct {
	db *DB
}

func NewInventoryLedger(db *DB) *InventoryLedger {
	return &InventoryLedger{db: db}
}

func (l *InventoryLedger) Reserve(ctx context.Context, items []inventory.ReservationItem) error {
	q := l.db.querier(ctx)

	for _, item := range items {
		if item.Quantity <= 0 {
			return inventory.ErrInvalidQuantity
		}

		tag, err := q.Exec(ctx, `
			UPDATE products
			SET stock = stock - $2, updated_at = now()
			WHERE id = $1 AND deleted = false AND stock >= $2`,
			item.ProductID, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("inventory ledger: reserve product %s: %w", item.ProductID, err)
		}
		if tag.RowsAffected() == 0 {
			return &inventory.InsufficientStockError{ProductID: item.ProductID}
		}

		for _, optionID := range item.OptionIDs {
			tag, err := q.Exec(ctx, `
				UPDATE product_options
				SET stock = stock - $2, updated_at = now()
				WHERE id = $1 AND deleted = false AND stock >= $2`,
				optionID, item.Quantity,
			)
			if err != nil {
				return fmt.Errorf("inventory ledger: reserve option %s: %w", optionID, err)
			}
			if tag.RowsAffected() == 0 {
				return &inventory.InsufficientStockError{ProductID: item.ProductID}
			}
		}
	}

	return nil
}

func (l *InventoryLedger) Release(ctx context.Context, items []inventory.ReservationItem) error {
	q := l.db.querier(ctx)

	for _, item := range items {
		if item.Quantity <= 0 {
			return inventory.ErrInvalidQuantity
		}

		tag, err := q.Exec(ctx, `
			UPDATE products
			SET stock = stock + $2, updated_at = now()
			WHERE id = $1`,
			item.ProductID, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("inventory ledger: release product %s: %w", item.ProductID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("inventory ledger: release product %s: row missing", item.ProductID)
		}

		for _, optionID := range item.OptionIDs {
			tag, err := q.Exec(ctx, `
				UPDATE product_options
				SET stock = stock + $2, updated_at = now()
				WHERE id = $1`,
				optionID, item.Quantity,
			)
			if err != nil {
				return fmt.Errorf("inventory ledger: release option %s: %w", optionID, err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("inventory ledger: release option %s: row missing", optionID)
			}
		}
	}

	return nil
}
