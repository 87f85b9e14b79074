// Package stock provides the stock ledger register service.
package stock

import (
	"context"
	"fmt"
	"time"

	"stockpile/internal/core/apperror"
	"stockpile/internal/core/entity"
	"stockpile/internal/core/id"
	"stockpile/internal/core/tx"
	"stockpile/internal/core/types"
	"stockpile/pkg/logger"
)

// Service provides business operations for the stock register.
// Ledger writes are always driven by the posting engine, inside the
// engine's transaction.
type Service struct {
	repo      Repository
	products  ProductStockStore
	txManager tx.Manager
}

// NewService creates a new stock register service.
func NewService(repo Repository, products ProductStockStore, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		txManager: txManager,
	}
}

// Demand represents a stock requirement for an outbound move.
type Demand struct {
	WarehouseID id.ID
	ProductID   id.ID
	Quantity    types.Quantity

	// AllowNegative skips the sufficiency check (warehouse policy)
	AllowNegative bool
}

// CheckAvailability validates stock sufficiency with pessimistic locking.
// Must be called within the posting transaction before writing moves, so
// concurrent outbound documents serialize on the same balance rows.
func (s *Service) CheckAvailability(ctx context.Context, demands []Demand) error {
	merged := mergeDemands(demands)

	for _, d := range merged {
		balance, err := s.repo.GetBalanceForUpdate(ctx, d.WarehouseID, d.ProductID)
		if err != nil {
			return fmt.Errorf("get balance for %s: %w", d.ProductID, err)
		}

		if d.AllowNegative {
			continue
		}

		if balance.Quantity < d.Quantity {
			return apperror.NewInsufficientStock(
				d.ProductID.String(),
				d.Quantity.Float64(),
				balance.Quantity.Float64(),
			)
		}
	}

	return nil
}

// mergeDemands sums demands that hit the same (warehouse, product) pair,
// so two lines of one document cannot pass the check separately.
func mergeDemands(demands []Demand) []Demand {
	type key struct {
		warehouseID id.ID
		productID   id.ID
	}
	index := make(map[key]int, len(demands))
	merged := make([]Demand, 0, len(demands))

	for _, d := range demands {
		k := key{d.WarehouseID, d.ProductID}
		if i, ok := index[k]; ok {
			merged[i].Quantity += d.Quantity
			merged[i].AllowNegative = merged[i].AllowNegative && d.AllowNegative
			continue
		}
		index[k] = len(merged)
		merged = append(merged, d)
	}
	return merged
}

// RecordMoves appends ledger rows and applies their deltas to the
// materialized balances and the per-product current stock.
// Called only during document posting, within the engine's transaction.
func (s *Service) RecordMoves(ctx context.Context, moves []entity.StockMove) error {
	if len(moves) == 0 {
		return nil
	}

	for i, m := range moves {
		if !m.Quantity.IsPositive() {
			return apperror.NewValidation(fmt.Sprintf("move %d: quantity must be positive", i))
		}
		if id.IsNil(m.DocumentID) {
			return apperror.NewValidation(fmt.Sprintf("move %d: document_id is required", i))
		}
		if id.IsNil(m.ProductID) || id.IsNil(m.WarehouseID) {
			return apperror.NewValidation(fmt.Sprintf("move %d: product and warehouse are required", i))
		}
	}

	if err := s.repo.CreateMoves(ctx, moves); err != nil {
		return fmt.Errorf("create moves: %w", err)
	}

	if err := s.repo.ApplyToBalances(ctx, moves); err != nil {
		return fmt.Errorf("apply balances: %w", err)
	}

	deltas := make(map[id.ID]types.Quantity)
	for i := range moves {
		deltas[moves[i].ProductID] += moves[i].SignedQuantity()
	}
	if err := s.products.ApplyStockDeltas(ctx, deltas); err != nil {
		return fmt.Errorf("apply product stock: %w", err)
	}

	logger.Info(ctx, "recorded stock moves",
		"count", len(moves),
		"document_id", moves[0].DocumentID,
	)

	return nil
}

// GetMovesByDocument returns the ledger rows a document produced.
func (s *Service) GetMovesByDocument(ctx context.Context, documentID id.ID) ([]entity.StockMove, error) {
	return s.repo.GetMovesByDocument(ctx, documentID)
}

// ListMoves returns ledger rows with filtering and pagination.
func (s *Service) ListMoves(ctx context.Context, filter MoveFilter) ([]entity.StockMove, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	return s.repo.ListMoves(ctx, filter)
}

// GetProductAvailability returns available quantity across warehouses.
func (s *Service) GetProductAvailability(ctx context.Context, productID id.ID) (types.Quantity, error) {
	balances, err := s.repo.GetBalancesByProduct(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("get balances: %w", err)
	}

	var total types.Quantity
	for _, b := range balances {
		total += b.Quantity
	}

	return total, nil
}

// GetWarehouseStock returns all products with stock in a warehouse.
func (s *Service) GetWarehouseStock(ctx context.Context, warehouseID id.ID) ([]entity.StockBalance, error) {
	return s.repo.GetBalancesByWarehouse(ctx, warehouseID, BalanceFilter{
		ExcludeZero: true,
	})
}

// GetBalance returns the current balance for warehouse+product.
func (s *Service) GetBalance(ctx context.Context, warehouseID, productID id.ID) (entity.StockBalance, error) {
	return s.repo.GetBalance(ctx, warehouseID, productID)
}

// GetBalancesByProduct returns per-warehouse balances for a product.
func (s *Service) GetBalancesByProduct(ctx context.Context, productID id.ID) ([]entity.StockBalance, error) {
	return s.repo.GetBalancesByProduct(ctx, productID)
}

// GetTurnover generates a turnover report for the period.
func (s *Service) GetTurnover(ctx context.Context, filter TurnoverFilter) (Turnover, error) {
	return s.repo.GetTurnover(ctx, filter)
}

// Reconcile recomputes stock from the ledger and compares it against the
// stored product stock and the materialized balances. Divergent products
// are put on integrity hold, which blocks further posting for them.
// The stored figures are reported, never corrected.
func (s *Service) Reconcile(ctx context.Context) (ReconcileReport, error) {
	report := ReconcileReport{CheckedAt: time.Now().UTC()}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		ledger, err := s.repo.SumMovesByProduct(ctx)
		if err != nil {
			return fmt.Errorf("sum moves: %w", err)
		}

		stored, err := s.products.GetStoredStock(ctx)
		if err != nil {
			return fmt.Errorf("get stored stock: %w", err)
		}
		report.ProductsChecked = len(stored)

		held := make(map[id.ID]bool)

		for productID, storedQty := range stored {
			ledgerQty := ledger[productID]
			if ledgerQty == storedQty {
				continue
			}
			report.Products = append(report.Products, ProductMismatch{
				ProductID: productID,
				Ledger:    ledgerQty,
				Stored:    storedQty,
			})
			held[productID] = true

			intErr := apperror.NewIntegrity(productID.String(), ledgerQty.Float64(), storedQty.Float64())
			logger.Error(ctx, "stock integrity violation", "error", intErr)
		}

		// Ledger rows for products whose stored row vanished still count.
		for productID, ledgerQty := range ledger {
			if _, ok := stored[productID]; ok {
				continue
			}
			report.Products = append(report.Products, ProductMismatch{
				ProductID: productID,
				Ledger:    ledgerQty,
				Stored:    0,
			})
		}

		balanceMismatches, err := s.repo.FindBalanceMismatches(ctx)
		if err != nil {
			return fmt.Errorf("check balances: %w", err)
		}
		report.Balances = balanceMismatches
		for _, bm := range balanceMismatches {
			held[bm.ProductID] = true
		}

		for productID := range held {
			if err := s.products.SetIntegrityHold(ctx, productID, true); err != nil {
				return fmt.Errorf("set integrity hold: %w", err)
			}
			report.HeldProducts = append(report.HeldProducts, productID)
		}

		return nil
	})
	if err != nil {
		return ReconcileReport{}, err
	}

	report.Clean = len(report.Products) == 0 && len(report.Balances) == 0

	logger.Info(ctx, "ledger reconciliation finished",
		"checked", report.ProductsChecked,
		"product_mismatches", len(report.Products),
		"balance_mismatches", len(report.Balances),
	)

	return report, nil
}
