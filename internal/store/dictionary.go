package store

import (
	"context"

	"github.com/salesboard/sales-dashboard/internal/dependency"
	"github.com/salesboard/sales-dashboard/internal/entity"
)

type dictionaryStore struct {
	*MYSQLStore
}

func (ms *MYSQLStore) Dictionary() dependency.Dictionary {
	return &dictionaryStore{MYSQLStore: ms}
}

func (ms *dictionaryStore) ListStores(ctx context.Context) ([]entity.Store, error) {
	query := `SELECT id, name FROM stores ORDER BY name`
	stores, err := QueryListNamed[entity.Store](ctx, ms.DB(), query, map[string]any{})
	if err != nil {
		return nil, &DataSourceError{Op: "list_stores", Err: err}
	}
	return stores, nil
}

func (ms *dictionaryStore) ListChannels(ctx context.Context) ([]entity.Channel, error) {
	query := `SELECT id, name FROM channels ORDER BY name`
	channels, err := QueryListNamed[entity.Channel](ctx, ms.DB(), query, map[string]any{})
	if err != nil {
		return nil, &DataSourceError{Op: "list_channels", Err: err}
	}
	return channels, nil
}

func (ms *dictionaryStore) ListPaymentTypes(ctx context.Context) ([]entity.PaymentType, error) {
	query := `SELECT id, description FROM payment_types ORDER BY description`
	types, err := QueryListNamed[entity.PaymentType](ctx, ms.DB(), query, map[string]any{})
	if err != nil {
		return nil, &DataSourceError{Op: "list_payment_types", Err: err}
	}
	return types, nil
}

func (ms *dictionaryStore) ListProducts(ctx context.Context) ([]entity.Product, error) {
	query := `SELECT id, name FROM products ORDER BY name`
	products, err := QueryListNamed[entity.Product](ctx, ms.DB(), query, map[string]any{})
	if err != nil {
		return nil, &DataSourceError{Op: "list_products", Err: err}
	}
	return products, nil
}
