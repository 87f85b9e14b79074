// Package entity provides core domain entities.
package entity

import (
	"time"

	"stockpile/internal/core/id"
	"stockpile/internal/core/types"
)

// Direction defines the sign of a stock move.
type Direction string

const (
	// DirectionIn increases stock
	DirectionIn Direction = "in"
	// DirectionOut decreases stock
	DirectionOut Direction = "out"
)

// StockMove is one immutable row of the stock ledger.
// Moves are never updated or deleted; the materialized balances and the
// per-product current stock are always re-derivable from them.
type StockMove struct {
	// LineID is the unique identifier for this ledger row (UUIDv7)
	LineID id.ID `db:"line_id" json:"lineId"`

	// DocumentID references the document that produced this move.
	// A transfer produces two moves sharing the same DocumentID.
	DocumentID id.ID `db:"document_id" json:"documentId"`

	// DocumentType is the producing document type
	// (receipt, delivery, transfer, adjustment)
	DocumentType string `db:"document_type" json:"documentType"`

	// Period is the business date of the move (for period-based queries)
	Period time.Time `db:"period" json:"period"`

	// Direction: in or out
	Direction Direction `db:"direction" json:"direction"`

	// Dimensions
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`
	ProductID   id.ID `db:"product_id" json:"productId"`

	// Quantity is always positive; the sign comes from Direction
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
}

// NewStockMove creates a new ledger row with generated LineID.
func NewStockMove(
	documentID id.ID,
	documentType string,
	period time.Time,
	direction Direction,
	warehouseID, productID id.ID,
	quantity types.Quantity,
) StockMove {
	return StockMove{
		LineID:       id.New(),
		DocumentID:   documentID,
		DocumentType: documentType,
		Period:       period,
		Direction:    direction,
		WarehouseID:  warehouseID,
		ProductID:    productID,
		Quantity:     quantity,
		CreatedAt:    time.Now().UTC(),
	}
}

// SignedQuantity returns quantity with sign based on direction.
// In = positive, out = negative.
func (m *StockMove) SignedQuantity() types.Quantity {
	if m.Direction == DirectionOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// StockBalance is the materialized (warehouse, product) quantity projection.
// Kept in sync with the ledger inside the same transaction that writes moves.
type StockBalance struct {
	// Dimensions
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`
	ProductID   id.ID `db:"product_id" json:"productId"`

	// Balance
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Metadata
	LastMoveAt time.Time `db:"last_move_at" json:"lastMoveAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}
