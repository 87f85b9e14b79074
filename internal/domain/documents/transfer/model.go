// Package transfer provides the Transfer document.
// Transfers move goods between two warehouses: each line yields a paired
// outbound and inbound ledger row sharing the document reference.
package transfer

import (
	"context"

	"stockpile/internal/core/apperror"
	"stockpile/internal/core/entity"
	"stockpile/internal/core/id"
	"stockpile/internal/core/types"
	"stockpile/internal/domain/posting"
	"stockpile/internal/domain/registers/stock"
)

// Transfer represents a warehouse-to-warehouse movement document.
type Transfer struct {
	entity.Document

	// SourceWarehouseID is the issuing warehouse
	SourceWarehouseID id.ID `db:"source_warehouse_id" json:"sourceWarehouseId"`

	// DestWarehouseID is the receiving warehouse
	DestWarehouseID id.ID `db:"dest_warehouse_id" json:"destWarehouseId"`

	// TotalQuantity is calculated from lines
	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`

	// Table part: transferred goods
	Lines []Line `db:"-" json:"lines"`
}

// Line represents a line in the transfer.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	Quantity types.Quantity `db:"quantity" json:"quantity"`
}

// NewTransfer creates a new transfer document in draft.
func NewTransfer(sourceWarehouseID, destWarehouseID id.ID) *Transfer {
	return &Transfer{
		Document:          entity.NewDocument(),
		SourceWarehouseID: sourceWarehouseID,
		DestWarehouseID:   destWarehouseID,
		Lines:             make([]Line, 0),
	}
}

// AddLine adds a line to the transfer and recalculates totals.
func (t *Transfer) AddLine(productID id.ID, quantity types.Quantity) {
	line := Line{
		LineID:    id.New(),
		LineNo:    len(t.Lines) + 1,
		ProductID: productID,
		Quantity:  quantity,
	}

	t.Lines = append(t.Lines, line)
	t.recalculateTotals()
}

// RemoveLine removes a line by number and renumbers the rest.
func (t *Transfer) RemoveLine(lineNo int) bool {
	for i, line := range t.Lines {
		if line.LineNo == lineNo {
			t.Lines = append(t.Lines[:i], t.Lines[i+1:]...)
			for j := range t.Lines {
				t.Lines[j].LineNo = j + 1
			}
			t.recalculateTotals()
			return true
		}
	}
	return false
}

func (t *Transfer) recalculateTotals() {
	t.TotalQuantity = 0
	for _, line := range t.Lines {
		t.TotalQuantity += line.Quantity
	}
}

// Validate implements entity.Validatable.
// Source and destination must be distinct warehouses.
func (t *Transfer) Validate(ctx context.Context) error {
	if err := t.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(t.SourceWarehouseID) {
		return apperror.NewValidation("source warehouse is required").
			WithDetail("field", "sourceWarehouseId")
	}
	if id.IsNil(t.DestWarehouseID) {
		return apperror.NewValidation("destination warehouse is required").
			WithDetail("field", "destWarehouseId")
	}
	if t.SourceWarehouseID == t.DestWarehouseID {
		return apperror.NewValidation("source and destination warehouses must differ").
			WithDetail("field", "destWarehouseId")
	}

	if len(t.Lines) == 0 {
		return apperror.NewValidationFailed("at least one line is required", nil)
	}

	var issues []apperror.LineIssue
	for _, line := range t.Lines {
		if id.IsNil(line.ProductID) {
			issues = append(issues, apperror.LineIssue{
				Line: line.LineNo, Field: "productId", Reason: "product is required",
			})
		}
		if !line.Quantity.IsPositive() {
			issues = append(issues, apperror.LineIssue{
				Line: line.LineNo, Field: "quantity", Reason: "quantity must be positive",
			})
		}
	}
	if len(issues) > 0 {
		return apperror.NewValidationFailed("transfer lines are invalid", issues)
	}

	return nil
}

// --- Postable interface implementation ---

// GetDocumentType returns the document type tag.
func (t *Transfer) GetDocumentType() string {
	return DocumentType
}

// ProductRefs lists the product behind every line.
func (t *Transfer) ProductRefs() []posting.ProductRef {
	refs := make([]posting.ProductRef, 0, len(t.Lines))
	for _, line := range t.Lines {
		refs = append(refs, posting.ProductRef{LineNo: line.LineNo, ProductID: line.ProductID})
	}
	return refs
}

// WarehouseIDs lists the warehouses the document touches.
func (t *Transfer) WarehouseIDs() []id.ID {
	return []id.ID{t.SourceWarehouseID, t.DestWarehouseID}
}

// StockDemands requires every line quantity to be available in the
// source warehouse. The destination only gains stock.
func (t *Transfer) StockDemands() []stock.Demand {
	demands := make([]stock.Demand, 0, len(t.Lines))
	for _, line := range t.Lines {
		demands = append(demands, stock.Demand{
			WarehouseID: t.SourceWarehouseID,
			ProductID:   line.ProductID,
			Quantity:    line.Quantity,
		})
	}
	return demands
}

// GenerateMoves creates an out row at the source and an in row at the
// destination for every line. Both carry the same document reference.
func (t *Transfer) GenerateMoves(ctx context.Context) ([]entity.StockMove, error) {
	moves := make([]entity.StockMove, 0, len(t.Lines)*2)
	for _, line := range t.Lines {
		moves = append(moves, entity.NewStockMove(
			t.ID,
			DocumentType,
			t.Date,
			entity.DirectionOut,
			t.SourceWarehouseID,
			line.ProductID,
			line.Quantity,
		))
		moves = append(moves, entity.NewStockMove(
			t.ID,
			DocumentType,
			t.Date,
			entity.DirectionIn,
			t.DestWarehouseID,
			line.ProductID,
			line.Quantity,
		))
	}
	return moves, nil
}

// Ensure interface compliance at compile time.
var _ posting.Postable = (*Transfer)(nil)
