// Package stock provides the stock ledger register.
package stock

import (
	"context"
	"time"

	"stockpile/internal/core/entity"
	"stockpile/internal/core/id"
	"stockpile/internal/core/types"
)

// Repository defines operations for the stock register.
type Repository interface {
	// Ledger operations

	// CreateMoves batch inserts ledger rows (used during posting).
	// Moves are append-only; there is no update or delete.
	CreateMoves(ctx context.Context, moves []entity.StockMove) error

	// ApplyToBalances shifts the materialized balances by the signed
	// quantity of each move. Runs in the same transaction as CreateMoves.
	ApplyToBalances(ctx context.Context, moves []entity.StockMove) error

	// GetMovesByDocument retrieves all ledger rows for a document
	GetMovesByDocument(ctx context.Context, documentID id.ID) ([]entity.StockMove, error)

	// ListMoves retrieves ledger rows with filtering and pagination
	ListMoves(ctx context.Context, filter MoveFilter) ([]entity.StockMove, int64, error)

	// Balance operations

	// GetBalance returns current balance for warehouse+product
	GetBalance(ctx context.Context, warehouseID, productID id.ID) (entity.StockBalance, error)

	// GetBalanceForUpdate returns balance with row lock for stock control
	GetBalanceForUpdate(ctx context.Context, warehouseID, productID id.ID) (entity.StockBalance, error)

	// GetBalancesByWarehouse returns balances for a warehouse
	GetBalancesByWarehouse(ctx context.Context, warehouseID id.ID, filter BalanceFilter) ([]entity.StockBalance, error)

	// GetBalancesByProduct returns balances across all warehouses for a product
	GetBalancesByProduct(ctx context.Context, productID id.ID) ([]entity.StockBalance, error)

	// Reporting

	// GetTurnover calculates inbound and outbound totals for period
	GetTurnover(ctx context.Context, filter TurnoverFilter) (Turnover, error)

	// Reconciliation

	// SumMovesByProduct recomputes total stock per product from the ledger
	SumMovesByProduct(ctx context.Context) (map[id.ID]types.Quantity, error)

	// FindBalanceMismatches compares materialized balances against the
	// per-warehouse ledger sums
	FindBalanceMismatches(ctx context.Context) ([]BalanceMismatch, error)
}

// ProductStockStore is the slice of the product repository the register
// needs: the derived current_stock column and the integrity hold flag.
type ProductStockStore interface {
	ApplyStockDeltas(ctx context.Context, deltas map[id.ID]types.Quantity) error
	GetStoredStock(ctx context.Context) (map[id.ID]types.Quantity, error)
	SetIntegrityHold(ctx context.Context, id id.ID, held bool) error
}

// BalanceFilter for filtering balance queries.
type BalanceFilter struct {
	ProductIDs  []id.ID
	ExcludeZero bool
}

// MoveFilter for filtering ledger queries.
type MoveFilter struct {
	ProductID    *id.ID
	WarehouseID  *id.ID
	DocumentID   *id.ID
	DocumentType *string
	Direction    *entity.Direction
	FromDate     *time.Time
	ToDate       *time.Time
	Limit        int
	Offset       int
}

// TurnoverFilter for turnover reports.
type TurnoverFilter struct {
	WarehouseID *id.ID
	ProductID   *id.ID
	FromDate    time.Time
	ToDate      time.Time
}

// Turnover represents inbound/outbound totals.
type Turnover struct {
	WarehouseID    id.ID          `json:"warehouseId,omitempty"`
	ProductID      id.ID          `json:"productId,omitempty"`
	OpeningBalance types.Quantity `json:"openingBalance"`
	Inbound        types.Quantity `json:"inbound"`
	Outbound       types.Quantity `json:"outbound"`
	ClosingBalance types.Quantity `json:"closingBalance"`
}

// ProductMismatch is a divergence between ledger sum and stored product stock.
type ProductMismatch struct {
	ProductID id.ID          `json:"productId"`
	Ledger    types.Quantity `json:"ledger"`
	Stored    types.Quantity `json:"stored"`
}

// BalanceMismatch is a divergence between ledger sum and a balance row.
type BalanceMismatch struct {
	WarehouseID id.ID          `json:"warehouseId"`
	ProductID   id.ID          `json:"productId"`
	Ledger      types.Quantity `json:"ledger"`
	Stored      types.Quantity `json:"stored"`
}

// ReconcileReport is the outcome of a ledger reconciliation run.
// Mismatches are reported and the affected products put on hold;
// the stored figures are never corrected automatically.
type ReconcileReport struct {
	CheckedAt       time.Time         `json:"checkedAt"`
	ProductsChecked int               `json:"productsChecked"`
	Products        []ProductMismatch `json:"products,omitempty"`
	Balances        []BalanceMismatch `json:"balances,omitempty"`
	HeldProducts    []id.ID           `json:"heldProducts,omitempty"`
	Clean           bool              `json:"clean"`
}
