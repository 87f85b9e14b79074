package product

import (
	"context"

	"stockpile/internal/core/id"
	"stockpile/internal/core/types"
	"stockpile/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// GetManyByIDs retrieves products by IDs in one query.
	GetManyByIDs(ctx context.Context, ids []id.ID) ([]*Product, error)

	// ApplyStockDeltas shifts current_stock by the signed delta per product.
	// Called only inside posting transactions, together with the moves.
	ApplyStockDeltas(ctx context.Context, deltas map[id.ID]types.Quantity) error

	// GetStoredStock returns current_stock for every product.
	// Used by reconciliation to compare against the ledger.
	GetStoredStock(ctx context.Context) (map[id.ID]types.Quantity, error)

	// SetIntegrityHold sets or lifts the integrity hold flag.
	SetIntegrityHold(ctx context.Context, id id.ID, held bool) error

	// ListLowStock retrieves products with current_stock <= reorder_level.
	ListLowStock(ctx context.Context) ([]*Product, error)
}
