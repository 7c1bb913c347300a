package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/abdul-basit780/shop-ease-sub002/internal/domain/catalog"
)

type CatalogStore struct {
	db *DB
}

func NewCatalogStore(db *DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) Product(ctx context.Context, id string) (*catalog.Product, error) {
	var (
		p     catalog.Product
		price string
	)
	err := s.db.querier(ctx).QueryRow(ctx, `
		SELECT id, name, image, price::text, stock, deleted
		FROM products
		WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Image, &price, &p.Stock, &p.Deleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("catalog store: product: %w", err)
	}
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("catalog store: parse product price: %w", err)
	}
	return &p, nil
}

func (s *CatalogStore) OptionValue(ctx context.Context, id string) (*catalog.OptionValue, error) {
	var (
		v     catalog.OptionValue
		price string
	)
	err := s.db.querier(ctx).QueryRow(ctx, `
		SELECT id, type_name, value, price::text, stock, deleted
		FROM product_options
		WHERE id = $1`, id,
	).Scan(&v.ID, &v.TypeName, &v.Value, &price, &v.Stock, &v.Deleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("catalog store: option value: %w", err)
	}
	if v.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("catalog store: parse option price: %w", err)
	}
	return &v, nil
}
