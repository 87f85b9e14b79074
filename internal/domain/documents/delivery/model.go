// Package delivery provides the Delivery document.
// Deliveries record outgoing goods from a warehouse to a customer.
package delivery

import (
	"context"

	"stockpile/internal/core/apperror"
	"stockpile/internal/core/entity"
	"stockpile/internal/core/id"
	"stockpile/internal/core/types"
	"stockpile/internal/domain/posting"
	"stockpile/internal/domain/registers/stock"
)

// Delivery represents an outgoing goods document.
type Delivery struct {
	entity.Document

	// Counterparty is the customer (free-text reference)
	Counterparty string `db:"counterparty" json:"counterparty"`

	// Warehouse goods are issued from
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Totals (calculated from lines)
	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`
	TotalAmount   types.Money    `db:"total_amount" json:"totalAmount"`

	// Table part: issued goods
	Lines []Line `db:"-" json:"lines"`
}

// Line represents a line in the delivery.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice types.Money    `db:"unit_price" json:"unitPrice"`
	Amount    types.Money    `db:"amount" json:"amount"`
}

// NewDelivery creates a new delivery document in draft.
func NewDelivery(counterparty string, warehouseID id.ID) *Delivery {
	return &Delivery{
		Document:     entity.NewDocument(),
		Counterparty: counterparty,
		WarehouseID:  warehouseID,
		Lines:        make([]Line, 0),
	}
}

// AddLine adds a line to the delivery and recalculates totals.
func (d *Delivery) AddLine(productID id.ID, quantity types.Quantity, unitPrice types.Money) {
	line := Line{
		LineID:    id.New(),
		LineNo:    len(d.Lines) + 1,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Amount:    unitPrice.Mul(types.NewMoney(quantity.Float64())),
	}

	d.Lines = append(d.Lines, line)
	d.recalculateTotals()
}

// RemoveLine removes a line by number and renumbers the rest.
func (d *Delivery) RemoveLine(lineNo int) bool {
	for i, line := range d.Lines {
		if line.LineNo == lineNo {
			d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
			for j := range d.Lines {
				d.Lines[j].LineNo = j + 1
			}
			d.recalculateTotals()
			return true
		}
	}
	return false
}

func (d *Delivery) recalculateTotals() {
	d.TotalQuantity = 0
	d.TotalAmount = types.ZeroMoney()

	for _, line := range d.Lines {
		d.TotalQuantity += line.Quantity
		d.TotalAmount = d.TotalAmount.Add(line.Amount)
	}
}

// Validate implements entity.Validatable.
func (d *Delivery) Validate(ctx context.Context) error {
	if err := d.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(d.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}

	if len(d.Lines) == 0 {
		return apperror.NewValidationFailed("at least one line is required", nil)
	}

	var issues []apperror.LineIssue
	for _, line := range d.Lines {
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
		return apperror.NewValidationFailed("delivery lines are invalid", issues)
	}

	return nil
}

// --- Postable interface implementation ---

// GetDocumentType returns the document type tag.
func (d *Delivery) GetDocumentType() string {
	return DocumentType
}

// ProductRefs lists the product behind every line.
func (d *Delivery) ProductRefs() []posting.ProductRef {
	refs := make([]posting.ProductRef, 0, len(d.Lines))
	for _, line := range d.Lines {
		refs = append(refs, posting.ProductRef{LineNo: line.LineNo, ProductID: line.ProductID})
	}
	return refs
}

// WarehouseIDs lists the warehouses the document touches.
func (d *Delivery) WarehouseIDs() []id.ID {
	return []id.ID{d.WarehouseID}
}

// StockDemands requires every line quantity to be available in the
// source warehouse.
func (d *Delivery) StockDemands() []stock.Demand {
	demands := make([]stock.Demand, 0, len(d.Lines))
	for _, line := range d.Lines {
		demands = append(demands, stock.Demand{
			WarehouseID: d.WarehouseID,
			ProductID:   line.ProductID,
			Quantity:    line.Quantity,
		})
	}
	return demands
}

// GenerateMoves creates one outbound ledger row per line.
func (d *Delivery) GenerateMoves(ctx context.Context) ([]entity.StockMove, error) {
	moves := make([]entity.StockMove, 0, len(d.Lines))
	for _, line := range d.Lines {
		moves = append(moves, entity.NewStockMove(
			d.ID,
			DocumentType,
			d.Date,
			entity.DirectionOut,
			d.WarehouseID,
			line.ProductID,
			line.Quantity,
		))
	}
	return moves, nil
}

// Ensure interface compliance at compile time.
var _ posting.Postable = (*Delivery)(nil)
