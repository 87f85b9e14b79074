// Package product provides the Product catalog.
// Products are the items tracked by the stock ledger; Code doubles as SKU.
package product

import (
	"context"

	"stockpile/internal/core/apperror"
	"stockpile/internal/core/entity"
	"stockpile/internal/core/types"
)

// Product represents a stock-tracked item.
type Product struct {
	entity.Catalog

	// Unit is the unit of measure (pcs, kg, box)
	Unit string `db:"unit" json:"unit"`

	// Barcode is the item barcode (EAN-13, etc.)
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	// Description is a detailed description
	Description *string `db:"description" json:"description,omitempty"`

	// ReorderLevel triggers the low-stock report when current stock falls
	// to or below it
	ReorderLevel types.Quantity `db:"reorder_level" json:"reorderLevel"`

	// CurrentStock is the total stock across warehouses, derived from the
	// move ledger. Updated only inside posting transactions.
	CurrentStock types.Quantity `db:"current_stock" json:"currentStock"`

	// IsActive indicates if product can appear on new documents
	IsActive bool `db:"is_active" json:"isActive"`

	// IntegrityHold is set by reconciliation when the ledger and the stored
	// stock diverge. A held product cannot be posted until the divergence
	// is investigated and the hold is lifted manually.
	IntegrityHold bool `db:"integrity_hold" json:"integrityHold"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(sku, name, unit string) *Product {
	return &Product{
		Catalog:  entity.NewCatalog(sku, name),
		Unit:     unit,
		IsActive: true,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.Unit == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}

	if p.ReorderLevel.IsNegative() {
		return apperror.NewValidation("reorder level cannot be negative").
			WithDetail("field", "reorderLevel")
	}

	return nil
}

// IsLowStock returns true if current stock is at or below the reorder level.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.ReorderLevel
}

// CheckPostable verifies the product may participate in posting.
func (p *Product) CheckPostable() error {
	if p.DeletionMark || !p.IsActive {
		return apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"Product is not active",
		).WithDetail("product_id", p.ID.String())
	}
	if p.IntegrityHold {
		return apperror.NewBusinessRule(
			apperror.CodeIntegrity,
			"Product is under integrity hold",
		).WithDetail("product_id", p.ID.String())
	}
	return nil
}
