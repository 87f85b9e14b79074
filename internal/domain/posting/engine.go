package posting

import (
	"context"
	"fmt"

	"stockpile/internal/core/apperror"
	"stockpile/internal/core/entity"
	"stockpile/internal/core/id"
	"stockpile/internal/core/security"
	"stockpile/internal/core/tx"
	"stockpile/internal/domain/catalogs/product"
	"stockpile/internal/domain/catalogs/warehouse"
	"stockpile/internal/domain/registers/stock"
	"stockpile/pkg/logger"
)

// ProductSource supplies products for line checks.
type ProductSource interface {
	GetManyByIDs(ctx context.Context, ids []id.ID) ([]*product.Product, error)
}

// WarehouseSource supplies warehouses for policy checks.
type WarehouseSource interface {
	GetByID(ctx context.Context, id id.ID) (*warehouse.Warehouse, error)
}

// Engine posts documents: it validates, writes the ledger and flips the
// status, all inside one transaction. The caller re-reads the document
// with a row lock before handing it in, so only one posting attempt per
// document runs at a time; the status compare-and-swap is the final
// guard against a racing writer.
type Engine struct {
	stock      *stock.Service
	products   ProductSource
	warehouses WarehouseSource
	txManager  tx.Manager
	metrics    Recorder
}

// NewEngine creates a posting engine.
func NewEngine(
	stockSvc *stock.Service,
	products ProductSource,
	warehouses WarehouseSource,
	txManager tx.Manager,
) *Engine {
	return &Engine{
		stock:      stockSvc,
		products:   products,
		warehouses: warehouses,
		txManager:  txManager,
	}
}

// WithMetrics attaches a metrics recorder.
func (e *Engine) WithMetrics(m Recorder) *Engine {
	e.metrics = m
	return e
}

// Post runs the posting pipeline for a document:
//
//  1. terminal-state checks (AlreadyProcessed / InvalidTransition)
//  2. document self-validation (line invariants, collected per line)
//  3. product checks (exists, active, no integrity hold)
//  4. warehouse checks (exists, active)
//  5. stock sufficiency against FOR UPDATE-locked balances
//  6. ledger write (moves, balances, product stock)
//  7. status compare-and-swap via claim
//
// Failure anywhere rolls the whole transaction back. There is no
// automatic retry; the operation is safe to repeat.
func (e *Engine) Post(ctx context.Context, doc Postable, claim Claimer) error {
	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		docType := doc.GetDocumentType()

		switch status := doc.GetStatus(); {
		case status == entity.StatusDone:
			return apperror.NewAlreadyProcessed(docType, doc.GetID().String())
		case !status.CanTransitionTo(entity.StatusDone):
			return apperror.NewInvalidTransition(docType, string(status), string(entity.StatusDone))
		}

		if err := doc.Validate(ctx); err != nil {
			return err
		}

		if err := e.checkProducts(ctx, doc); err != nil {
			return err
		}

		warehousesByID, err := e.checkWarehouses(ctx, doc)
		if err != nil {
			return err
		}

		demands := doc.StockDemands()
		for i := range demands {
			if wh, ok := warehousesByID[demands[i].WarehouseID]; ok {
				demands[i].AllowNegative = wh.AllowNegativeStock
			}
		}
		if err := e.stock.CheckAvailability(ctx, demands); err != nil {
			return err
		}

		moves, err := doc.GenerateMoves(ctx)
		if err != nil {
			return fmt.Errorf("generate moves: %w", err)
		}
		if userID := security.GetUserID(ctx); userID != "" {
			for i := range moves {
				moves[i].CreatedBy = userID
			}
		}

		if err := e.stock.RecordMoves(ctx, moves); err != nil {
			return err
		}

		// The claim is the linearization point: a concurrent poster that
		// got here first already flipped the status, and the CAS fails
		// with AlreadyProcessed, rolling back our ledger writes.
		if err := claim(ctx); err != nil {
			return err
		}
		doc.SetStatus(entity.StatusDone)

		if e.metrics != nil {
			e.metrics.DocumentPosted(docType)
			e.metrics.MovesWritten(len(moves))
		}

		logger.Info(ctx, "document posted",
			"document_type", docType,
			"document_id", doc.GetID(),
			"moves", len(moves),
		)

		return nil
	})
}

// checkProducts verifies every referenced product exists, is active and
// is not under integrity hold. Per-line failures are collected into one
// ValidationFailed error; a hold fails immediately since writes for that
// product are halted.
func (e *Engine) checkProducts(ctx context.Context, doc Postable) error {
	refs := doc.ProductRefs()
	if len(refs) == 0 {
		return apperror.NewValidationFailed("document has no lines", nil)
	}

	unique := make([]id.ID, 0, len(refs))
	seen := make(map[id.ID]bool, len(refs))
	for _, ref := range refs {
		if !seen[ref.ProductID] {
			seen[ref.ProductID] = true
			unique = append(unique, ref.ProductID)
		}
	}

	loaded, err := e.products.GetManyByIDs(ctx, unique)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	byID := make(map[id.ID]*product.Product, len(loaded))
	for _, p := range loaded {
		byID[p.ID] = p
	}

	var issues []apperror.LineIssue
	for _, ref := range refs {
		p, ok := byID[ref.ProductID]
		if !ok {
			issues = append(issues, apperror.LineIssue{
				Line:   ref.LineNo,
				Field:  "productId",
				Reason: "product not found",
			})
			continue
		}
		if p.IntegrityHold {
			return apperror.NewBusinessRule(
				apperror.CodeIntegrity,
				"Product is under integrity hold",
			).WithDetail("product_id", p.ID.String()).
				WithDetail("line", ref.LineNo)
		}
		if p.DeletionMark || !p.IsActive {
			issues = append(issues, apperror.LineIssue{
				Line:   ref.LineNo,
				Field:  "productId",
				Reason: "product is not active",
			})
		}
	}

	if len(issues) > 0 {
		return apperror.NewValidationFailed("document refers to unusable products", issues)
	}
	return nil
}

// checkWarehouses verifies every referenced warehouse exists and is
// active, returning them keyed by ID for policy lookups.
func (e *Engine) checkWarehouses(ctx context.Context, doc Postable) (map[id.ID]*warehouse.Warehouse, error) {
	byID := make(map[id.ID]*warehouse.Warehouse)
	for _, whID := range doc.WarehouseIDs() {
		if _, ok := byID[whID]; ok {
			continue
		}
		wh, err := e.warehouses.GetByID(ctx, whID)
		if err != nil {
			return nil, err
		}
		if wh.DeletionMark || !wh.IsActive {
			return nil, apperror.NewBusinessRule(
				apperror.CodeBusinessRule,
				"Warehouse is not active",
			).WithDetail("warehouse_id", whID.String())
		}
		byID[whID] = wh
	}
	return byID, nil
}
