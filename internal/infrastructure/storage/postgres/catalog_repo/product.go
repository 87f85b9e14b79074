package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockpile/internal/core/id"
	"stockpile/internal/core/types"
	"stockpile/internal/domain/catalogs/product"
	"stockpile/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

var _ product.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			productTable,
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}

// GetManyByIDs retrieves products by IDs in one query.
func (r *ProductRepo) GetManyByIDs(ctx context.Context, ids []id.ID) ([]*product.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := r.baseSelect().
		Where(squirrel.Eq{"id": ids})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*product.Product
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get many by ids: %w", err)
	}

	return items, nil
}

// ApplyStockDeltas shifts current_stock by the signed delta per product.
// Runs inside the posting transaction, after the ledger rows are written.
func (r *ProductRepo) ApplyStockDeltas(ctx context.Context, deltas map[id.ID]types.Quantity) error {
	querier := r.querier(ctx)

	for productID, delta := range deltas {
		if delta.IsZero() {
			continue
		}

		q := r.Builder().
			Update(productTable).
			Set("current_stock", squirrel.Expr("current_stock + ?", delta)).
			Where(squirrel.Eq{"id": productID})

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build stock delta: %w", err)
		}

		if _, err := querier.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("apply stock delta for %s: %w", productID, err)
		}
	}

	return nil
}

// GetStoredStock returns current_stock for every product, deleted included:
// their ledger history still has to reconcile.
func (r *ProductRepo) GetStoredStock(ctx context.Context) (map[id.ID]types.Quantity, error) {
	q := r.Builder().
		Select("id", "current_stock").
		From(productTable)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("get stored stock: %w", err)
	}
	defer rows.Close()

	stock := make(map[id.ID]types.Quantity)
	for rows.Next() {
		var productID id.ID
		var qty types.Quantity
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, fmt.Errorf("scan stored stock: %w", err)
		}
		stock[productID] = qty
	}

	return stock, rows.Err()
}

// SetIntegrityHold sets or lifts the integrity hold flag.
func (r *ProductRepo) SetIntegrityHold(ctx context.Context, productID id.ID, held bool) error {
	q := r.Builder().
		Update(productTable).
		Set("integrity_hold", held).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build integrity hold: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("set integrity hold: %w", err)
	}

	return nil
}

// ListLowStock retrieves active products at or below their reorder level.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*product.Product, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.Expr("current_stock <= reorder_level")).
		OrderBy("current_stock - reorder_level ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*product.Product
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}

	return items, nil
}
