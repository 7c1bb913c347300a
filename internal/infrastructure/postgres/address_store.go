package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/abdul-basit780/shop-ease-sub002/internal/domain/address"
)

type AddressStore struct {
	db *DB
}

func NewAddressStore(db *DB) *AddressStore {
	return &AddressStore{db: db}
}

func (s *AddressStore) Find(ctx context.Context, id, customerID string) (*address.Address, error) {
	var a address.Address
	err := s.db.querier(ctx).QueryRow(ctx, `
		SELECT id, customer_id, street, city, state, zip_code
		FROM addresses
		WHERE id = $1 AND customer_id = $2`, id, customerID,
	).Scan(&a.ID, &a.CustomerID, &a.Street, &a.City, &a.State, &a.ZipCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, address.ErrNotFound
		}
		return nil, fmt.Errorf("address store: find: %w", err)
	}
	return &a, nil
}
