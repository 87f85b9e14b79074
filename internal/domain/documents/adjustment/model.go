// Package adjustment provides the Adjustment document.
// Adjustments reconcile counted stock against the system figure: each
// line carries the pair, and posting writes the signed difference.
package adjustment

import (
	"context"

	"stockpile/internal/core/apperror"
	"stockpile/internal/core/entity"
	"stockpile/internal/core/id"
	"stockpile/internal/core/types"
	"stockpile/internal/domain/posting"
	"stockpile/internal/domain/registers/stock"
)

// Adjustment represents a stock-count correction document.
type Adjustment struct {
	entity.Document

	// Warehouse being counted
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Reason is an optional explanation for the count
	Reason string `db:"reason" json:"reason,omitempty"`

	// Table part: counted positions
	Lines []Line `db:"-" json:"lines"`
}

// Line represents a counted position.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	// CountedQuantity is the physically counted amount (>= 0)
	CountedQuantity types.Quantity `db:"counted_quantity" json:"countedQuantity"`

	// SystemQuantity is the balance snapshot taken when the line was
	// filled
	SystemQuantity types.Quantity `db:"system_quantity" json:"systemQuantity"`
}

// Deviation returns counted minus system. Positive means surplus,
// negative means shortage, zero emits no ledger row.
func (l Line) Deviation() types.Quantity {
	return l.CountedQuantity - l.SystemQuantity
}

// NewAdjustment creates a new adjustment document in draft.
func NewAdjustment(warehouseID id.ID) *Adjustment {
	return &Adjustment{
		Document:    entity.NewDocument(),
		WarehouseID: warehouseID,
		Lines:       make([]Line, 0),
	}
}

// AddLine adds a counted position.
func (a *Adjustment) AddLine(productID id.ID, counted, system types.Quantity) {
	a.Lines = append(a.Lines, Line{
		LineID:          id.New(),
		LineNo:          len(a.Lines) + 1,
		ProductID:       productID,
		CountedQuantity: counted,
		SystemQuantity:  system,
	})
}

// RemoveLine removes a line by number and renumbers the rest.
func (a *Adjustment) RemoveLine(lineNo int) bool {
	for i, line := range a.Lines {
		if line.LineNo == lineNo {
			a.Lines = append(a.Lines[:i], a.Lines[i+1:]...)
			for j := range a.Lines {
				a.Lines[j].LineNo = j + 1
			}
			return true
		}
	}
	return false
}

// Validate implements entity.Validatable.
// Counted quantities may be zero (empty shelf) but never negative.
func (a *Adjustment) Validate(ctx context.Context) error {
	if err := a.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(a.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}

	if len(a.Lines) == 0 {
		return apperror.NewValidationFailed("at least one line is required", nil)
	}

	var issues []apperror.LineIssue
	for _, line := range a.Lines {
		if id.IsNil(line.ProductID) {
			issues = append(issues, apperror.LineIssue{
				Line: line.LineNo, Field: "productId", Reason: "product is required",
			})
		}
		if line.CountedQuantity.IsNegative() {
			issues = append(issues, apperror.LineIssue{
				Line: line.LineNo, Field: "countedQuantity", Reason: "counted quantity cannot be negative",
			})
		}
	}
	if len(issues) > 0 {
		return apperror.NewValidationFailed("adjustment lines are invalid", issues)
	}

	return nil
}

// --- Postable interface implementation ---

// GetDocumentType returns the document type tag.
func (a *Adjustment) GetDocumentType() string {
	return DocumentType
}

// ProductRefs lists the product behind every line.
func (a *Adjustment) ProductRefs() []posting.ProductRef {
	refs := make([]posting.ProductRef, 0, len(a.Lines))
	for _, line := range a.Lines {
		refs = append(refs, posting.ProductRef{LineNo: line.LineNo, ProductID: line.ProductID})
	}
	return refs
}

// WarehouseIDs lists the warehouses the document touches.
func (a *Adjustment) WarehouseIDs() []id.ID {
	return []id.ID{a.WarehouseID}
}

// StockDemands covers only shortage lines: a negative deviation removes
// stock and must be available unless the warehouse allows negatives.
func (a *Adjustment) StockDemands() []stock.Demand {
	var demands []stock.Demand
	for _, line := range a.Lines {
		if dev := line.Deviation(); dev.IsNegative() {
			demands = append(demands, stock.Demand{
				WarehouseID: a.WarehouseID,
				ProductID:   line.ProductID,
				Quantity:    dev.Abs(),
			})
		}
	}
	return demands
}

// GenerateMoves writes the signed deviation per line: surplus in,
// shortage out, equal pair nothing.
func (a *Adjustment) GenerateMoves(ctx context.Context) ([]entity.StockMove, error) {
	moves := make([]entity.StockMove, 0, len(a.Lines))
	for _, line := range a.Lines {
		dev := line.Deviation()
		if dev.IsZero() {
			continue
		}

		direction := entity.DirectionIn
		if dev.IsNegative() {
			direction = entity.DirectionOut
		}

		moves = append(moves, entity.NewStockMove(
			a.ID,
			DocumentType,
			a.Date,
			direction,
			a.WarehouseID,
			line.ProductID,
			dev.Abs(),
		))
	}
	return moves, nil
}

// Ensure interface compliance at compile time.
var _ posting.Postable = (*Adjustment)(nil)
