// Package receipt provides the Receipt document.
// Receipts record incoming goods from a supplier into a warehouse.
package receipt

import (
	"context"

	"stockpile/internal/core/apperror"
	"stockpile/internal/core/entity"
	"stockpile/internal/core/id"
	"stockpile/internal/core/types"
	"stockpile/internal/domain/posting"
	"stockpile/internal/domain/registers/stock"
)

// Receipt represents an incoming goods document.
type Receipt struct {
	entity.Document

	// Counterparty is the supplier (free-text reference)
	Counterparty string `db:"counterparty" json:"counterparty"`

	// Warehouse where goods are received
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Totals (calculated from lines)
	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`
	TotalAmount   types.Money    `db:"total_amount" json:"totalAmount"`

	// Table part: received goods
	Lines []Line `db:"-" json:"lines"`
}

// Line represents a line in the receipt.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice types.Money    `db:"unit_price" json:"unitPrice"`
	Amount    types.Money    `db:"amount" json:"amount"`
}

// NewReceipt creates a new receipt document in draft.
func NewReceipt(counterparty string, warehouseID id.ID) *Receipt {
	return &Receipt{
		Document:     entity.NewDocument(),
		Counterparty: counterparty,
		WarehouseID:  warehouseID,
		Lines:        make([]Line, 0),
	}
}

// AddLine adds a line to the receipt and recalculates totals.
func (r *Receipt) AddLine(productID id.ID, quantity types.Quantity, unitPrice types.Money) {
	line := Line{
		LineID:    id.New(),
		LineNo:    len(r.Lines) + 1,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Amount:    unitPrice.Mul(types.NewMoney(quantity.Float64())),
	}

	r.Lines = append(r.Lines, line)
	r.recalculateTotals()
}

// RemoveLine removes a line by number and renumbers the rest.
func (r *Receipt) RemoveLine(lineNo int) bool {
	for i, line := range r.Lines {
		if line.LineNo == lineNo {
			r.Lines = append(r.Lines[:i], r.Lines[i+1:]...)
			for j := range r.Lines {
				r.Lines[j].LineNo = j + 1
			}
			r.recalculateTotals()
			return true
		}
	}
	return false
}

func (r *Receipt) recalculateTotals() {
	r.TotalQuantity = 0
	r.TotalAmount = types.ZeroMoney()

	for _, line := range r.Lines {
		r.TotalQuantity += line.Quantity
		r.TotalAmount = r.TotalAmount.Add(line.Amount)
	}
}

// Validate implements entity.Validatable.
// Line failures are collected so the caller can fix all of them at once.
func (r *Receipt) Validate(ctx context.Context) error {
	if err := r.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(r.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}

	if len(r.Lines) == 0 {
		return apperror.NewValidationFailed("at least one line is required", nil)
	}

	var issues []apperror.LineIssue
	for _, line := range r.Lines {
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
		if line.UnitPrice.IsNegative() {
			issues = append(issues, apperror.LineIssue{
				Line: line.LineNo, Field: "unitPrice", Reason: "unit price cannot be negative",
			})
		}
	}
	if len(issues) > 0 {
		return apperror.NewValidationFailed("receipt lines are invalid", issues)
	}

	return nil
}

// --- Postable interface implementation ---
// GetID, GetStatus, SetStatus are inherited from entity.Document.

// GetDocumentType returns the document type tag.
func (r *Receipt) GetDocumentType() string {
	return DocumentType
}

// ProductRefs lists the product behind every line.
func (r *Receipt) ProductRefs() []posting.ProductRef {
	refs := make([]posting.ProductRef, 0, len(r.Lines))
	for _, line := range r.Lines {
		refs = append(refs, posting.ProductRef{LineNo: line.LineNo, ProductID: line.ProductID})
	}
	return refs
}

// WarehouseIDs lists the warehouses the document touches.
func (r *Receipt) WarehouseIDs() []id.ID {
	return []id.ID{r.WarehouseID}
}

// StockDemands returns nil: receipts only add stock.
func (r *Receipt) StockDemands() []stock.Demand {
	return nil
}

// GenerateMoves creates one inbound ledger row per line.
func (r *Receipt) GenerateMoves(ctx context.Context) ([]entity.StockMove, error) {
	moves := make([]entity.StockMove, 0, len(r.Lines))
	for _, line := range r.Lines {
		moves = append(moves, entity.NewStockMove(
			r.ID,
			DocumentType,
			r.Date,
			entity.DirectionIn,
			r.WarehouseID,
			line.ProductID,
			line.Quantity,
		))
	}
	return moves, nil
}

// Ensure interface compliance at compile time.
var _ posting.Postable = (*Receipt)(nil)
