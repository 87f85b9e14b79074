// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stockpile/internal/core/entity"
	"stockpile/internal/core/id"
	"stockpile/internal/core/types"
	"stockpile/internal/domain/registers/stock"
	"stockpile/internal/infrastructure/storage/postgres"
)

const (
	stockMovesTable    = "reg_stock_moves"
	stockBalancesTable = "reg_stock_balances"
)

var moveColumns = []string{
	"line_id", "document_id", "document_type",
	"period", "direction",
	"warehouse_id", "product_id", "quantity",
	"created_at", "created_by",
}

// StockRepo implements stock.Repository.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *StockRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// CreateMoves batch inserts ledger rows. The ledger is append-only, so
// there is no update or delete counterpart.
func (r *StockRepo) CreateMoves(ctx context.Context, moves []entity.StockMove) error {
	if len(moves) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction.
	if tx := r.txManager.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, 0, len(moves))
		for _, m := range moves {
			rows = append(rows, []any{
				m.LineID, m.DocumentID, m.DocumentType,
				m.Period, m.Direction,
				m.WarehouseID, m.ProductID, m.Quantity,
				m.CreatedAt, m.CreatedBy,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, stockMovesTable, moveColumns, rows); err != nil {
			return fmt.Errorf("copy moves: %w", err)
		}
		return nil
	}

	// Fallback: non-transactional insert. Prefer calling CreateMoves within tx.
	q := r.builder.Insert(stockMovesTable).Columns(moveColumns...)
	for _, m := range moves {
		q = q.Values(
			m.LineID, m.DocumentID, m.DocumentType,
			m.Period, m.Direction,
			m.WarehouseID, m.ProductID, m.Quantity,
			m.CreatedAt, m.CreatedBy,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert moves: %w", err)
	}

	return nil
}

// ApplyToBalances shifts the materialized balances by the signed quantity
// of each move. Deltas for the same (warehouse, product) pair are merged
// into one upsert.
func (r *StockRepo) ApplyToBalances(ctx context.Context, moves []entity.StockMove) error {
	type key struct {
		warehouseID id.ID
		productID   id.ID
	}

	deltas := make(map[key]types.Quantity, len(moves))
	for i := range moves {
		k := key{moves[i].WarehouseID, moves[i].ProductID}
		deltas[k] += moves[i].SignedQuantity()
	}

	sql := `
		INSERT INTO reg_stock_balances (warehouse_id, product_id, quantity, last_move_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (warehouse_id, product_id) DO UPDATE
		SET quantity     = reg_stock_balances.quantity + EXCLUDED.quantity,
		    last_move_at = NOW(),
		    updated_at   = NOW()
	`

	querier := r.querier(ctx)
	for k, delta := range deltas {
		if _, err := querier.Exec(ctx, sql, k.warehouseID, k.productID, delta); err != nil {
			return fmt.Errorf("upsert balance: %w", err)
		}
	}

	return nil
}

// GetMovesByDocument retrieves all ledger rows for a document.
func (r *StockRepo) GetMovesByDocument(ctx context.Context, documentID id.ID) ([]entity.StockMove, error) {
	q := r.builder.Select(moveColumns...).
		From(stockMovesTable).
		Where(squirrel.Eq{"document_id": documentID}).
		OrderBy("created_at", "line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var moves []entity.StockMove
	if err := pgxscan.Select(ctx, r.querier(ctx), &moves, sql, args...); err != nil {
		return nil, fmt.Errorf("select moves: %w", err)
	}

	return moves, nil
}

// ListMoves retrieves ledger rows with filtering and pagination.
func (r *StockRepo) ListMoves(ctx context.Context, filter stock.MoveFilter) ([]entity.StockMove, int64, error) {
	q := r.builder.Select(moveColumns...).
		From(stockMovesTable)

	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.DocumentID != nil {
		q = q.Where(squirrel.Eq{"document_id": *filter.DocumentID})
	}
	if filter.DocumentType != nil {
		q = q.Where(squirrel.Eq{"document_type": *filter.DocumentType})
	}
	if filter.Direction != nil {
		q = q.Where(squirrel.Eq{"direction": *filter.Direction})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"period": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"period": *filter.ToDate})
	}

	countQ := r.builder.Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	querier := r.querier(ctx)
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count moves: %w", err)
	}

	q = q.OrderBy("period DESC", "created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var moves []entity.StockMove
	if err := pgxscan.Select(ctx, querier, &moves, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("select moves: %w", err)
	}

	return moves, total, nil
}

// GetBalance returns current balance for warehouse+product.
// A missing row is a zero balance, not an error.
func (r *StockRepo) GetBalance(ctx context.Context, warehouseID, productID id.ID) (entity.StockBalance, error) {
	var balance entity.StockBalance

	q := r.builder.Select(
		"warehouse_id", "product_id",
		"quantity", "last_move_at", "updated_at",
	).From(stockBalancesTable).
		Where(squirrel.Eq{
			"warehouse_id": warehouseID,
			"product_id":   productID,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return balance, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), &balance, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity.StockBalance{
				WarehouseID: warehouseID,
				ProductID:   productID,
				Quantity:    0,
			}, nil
		}
		return balance, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// GetBalanceForUpdate returns balance with pessimistic lock.
func (r *StockRepo) GetBalanceForUpdate(ctx context.Context, warehouseID, productID id.ID) (entity.StockBalance, error) {
	var balance entity.StockBalance

	sql := `
		SELECT warehouse_id, product_id, quantity, last_move_at, updated_at
		FROM reg_stock_balances
		WHERE warehouse_id = $1 AND product_id = $2
		FOR UPDATE
	`

	err := pgxscan.Get(ctx, r.querier(ctx), &balance, sql, warehouseID, productID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return entity.StockBalance{
				WarehouseID: warehouseID,
				ProductID:   productID,
				Quantity:    0,
			}, nil
		}
		return balance, fmt.Errorf("get balance for update: %w", err)
	}

	return balance, nil
}

// GetBalancesByWarehouse returns balances for a warehouse.
func (r *StockRepo) GetBalancesByWarehouse(ctx context.Context, warehouseID id.ID, filter stock.BalanceFilter) ([]entity.StockBalance, error) {
	q := r.builder.Select(
		"warehouse_id", "product_id",
		"quantity", "last_move_at", "updated_at",
	).From(stockBalancesTable).
		Where(squirrel.Eq{"warehouse_id": warehouseID})

	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"quantity": int64(0)})
	}

	if len(filter.ProductIDs) > 0 {
		q = q.Where(squirrel.Eq{"product_id": filter.ProductIDs})
	}

	q = q.OrderBy("product_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []entity.StockBalance
	if err := pgxscan.Select(ctx, r.querier(ctx), &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	return balances, nil
}

// GetBalancesByProduct returns balances for a product across warehouses.
func (r *StockRepo) GetBalancesByProduct(ctx context.Context, productID id.ID) ([]entity.StockBalance, error) {
	q := r.builder.Select(
		"warehouse_id", "product_id",
		"quantity", "last_move_at", "updated_at",
	).From(stockBalancesTable).
		Where(squirrel.Eq{"product_id": productID}).
		Where(squirrel.NotEq{"quantity": int64(0)}).
		OrderBy("warehouse_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []entity.StockBalance
	if err := pgxscan.Select(ctx, r.querier(ctx), &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	return balances, nil
}

// GetTurnover calculates inbound/outbound totals for a period.
func (r *StockRepo) GetTurnover(ctx context.Context, filter stock.TurnoverFilter) (stock.Turnover, error) {
	var result stock.Turnover

	args := []any{filter.FromDate, filter.ToDate}
	baseConditions := "period >= $1 AND period < $2"
	argIndex := 3

	if filter.WarehouseID != nil {
		baseConditions += fmt.Sprintf(" AND warehouse_id = $%d", argIndex)
		args = append(args, *filter.WarehouseID)
		result.WarehouseID = *filter.WarehouseID
		argIndex++
	}

	if filter.ProductID != nil {
		baseConditions += fmt.Sprintf(" AND product_id = $%d", argIndex)
		args = append(args, *filter.ProductID)
		result.ProductID = *filter.ProductID
		argIndex++
	}

	sql := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(CASE WHEN direction = 'in' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN direction = 'out' THEN quantity ELSE 0 END), 0) as outbound
		FROM reg_stock_moves
		WHERE %s
	`, baseConditions)

	querier := r.querier(ctx)
	var inboundScaled, outboundScaled int64
	err := querier.QueryRow(ctx, sql, args...).Scan(&inboundScaled, &outboundScaled)
	if err != nil && err != pgx.ErrNoRows {
		return result, fmt.Errorf("calculate turnover: %w", err)
	}
	result.Inbound = types.NewQuantityFromInt64Scaled(inboundScaled)
	result.Outbound = types.NewQuantityFromInt64Scaled(outboundScaled)

	// Opening balance from everything before the period
	openingArgs := []any{filter.FromDate}
	openingConditions := "period < $1"
	argIndex = 2

	if filter.WarehouseID != nil {
		openingConditions += fmt.Sprintf(" AND warehouse_id = $%d", argIndex)
		openingArgs = append(openingArgs, *filter.WarehouseID)
		argIndex++
	}

	if filter.ProductID != nil {
		openingConditions += fmt.Sprintf(" AND product_id = $%d", argIndex)
		openingArgs = append(openingArgs, *filter.ProductID)
	}

	openingSQL := fmt.Sprintf(`
		SELECT COALESCE(
			SUM(CASE WHEN direction = 'in' THEN quantity ELSE -quantity END),
			0
		)
		FROM reg_stock_moves
		WHERE %s
	`, openingConditions)

	var openingScaled int64
	err = querier.QueryRow(ctx, openingSQL, openingArgs...).Scan(&openingScaled)
	if err != nil && err != pgx.ErrNoRows {
		return result, fmt.Errorf("calculate opening balance: %w", err)
	}
	result.OpeningBalance = types.NewQuantityFromInt64Scaled(openingScaled)

	result.ClosingBalance = result.OpeningBalance + result.Inbound - result.Outbound

	return result, nil
}

// SumMovesByProduct recomputes total stock per product from the ledger.
func (r *StockRepo) SumMovesByProduct(ctx context.Context) (map[id.ID]types.Quantity, error) {
	sql := `
		SELECT product_id,
		       COALESCE(SUM(CASE WHEN direction = 'in' THEN quantity ELSE -quantity END), 0)
		FROM reg_stock_moves
		GROUP BY product_id
	`

	rows, err := r.querier(ctx).Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("sum moves: %w", err)
	}
	defer rows.Close()

	sums := make(map[id.ID]types.Quantity)
	for rows.Next() {
		var productID id.ID
		var qtyScaled int64
		if err := rows.Scan(&productID, &qtyScaled); err != nil {
			return nil, fmt.Errorf("scan ledger sum: %w", err)
		}
		sums[productID] = types.NewQuantityFromInt64Scaled(qtyScaled)
	}

	return sums, rows.Err()
}

// FindBalanceMismatches compares materialized balances against the
// per-warehouse ledger sums. A balance row without ledger rows, or
// ledger rows without a balance row, both count as mismatches.
func (r *StockRepo) FindBalanceMismatches(ctx context.Context) ([]stock.BalanceMismatch, error) {
	sql := `
		WITH ledger AS (
			SELECT warehouse_id, product_id,
			       SUM(CASE WHEN direction = 'in' THEN quantity ELSE -quantity END) AS qty
			FROM reg_stock_moves
			GROUP BY warehouse_id, product_id
		)
		SELECT COALESCE(l.warehouse_id, b.warehouse_id) AS warehouse_id,
		       COALESCE(l.product_id, b.product_id)     AS product_id,
		       COALESCE(l.qty, 0)                       AS ledger,
		       COALESCE(b.quantity, 0)                  AS stored
		FROM ledger l
		FULL OUTER JOIN reg_stock_balances b
		  ON b.warehouse_id = l.warehouse_id AND b.product_id = l.product_id
		WHERE COALESCE(l.qty, 0) <> COALESCE(b.quantity, 0)
		ORDER BY 1, 2
	`

	rows, err := r.querier(ctx).Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("find balance mismatches: %w", err)
	}
	defer rows.Close()

	var mismatches []stock.BalanceMismatch
	for rows.Next() {
		var m stock.BalanceMismatch
		var ledgerScaled, storedScaled int64
		if err := rows.Scan(&m.WarehouseID, &m.ProductID, &ledgerScaled, &storedScaled); err != nil {
			return nil, fmt.Errorf("scan mismatch: %w", err)
		}
		m.Ledger = types.NewQuantityFromInt64Scaled(ledgerScaled)
		m.Stored = types.NewQuantityFromInt64Scaled(storedScaled)
		mismatches = append(mismatches, m)
	}

	return mismatches, rows.Err()
}

// Ensure interface compliance.
var _ stock.Repository = (*StockRepo)(nil)
