package dto

import (
	"time"

	"stockpile/internal/core/entity"
	"stockpile/internal/core/types"
	"stockpile/internal/domain/registers/stock"
)

// --- Ledger ---

// StockMoveResponse represents one ledger row in API responses.
type StockMoveResponse struct {
	LineID       string         `json:"lineId"`
	DocumentID   string         `json:"documentId"`
	DocumentType string         `json:"documentType"`
	Period       time.Time      `json:"period"`
	Direction    string         `json:"direction"`
	WarehouseID  string         `json:"warehouseId"`
	ProductID    string         `json:"productId"`
	Quantity     types.Quantity `json:"quantity"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// FromStockMove converts a ledger row to response DTO.
func FromStockMove(m entity.StockMove) StockMoveResponse {
	return StockMoveResponse{
		LineID:       m.LineID.String(),
		DocumentID:   m.DocumentID.String(),
		DocumentType: m.DocumentType,
		Period:       m.Period,
		Direction:    string(m.Direction),
		WarehouseID:  m.WarehouseID.String(),
		ProductID:    m.ProductID.String(),
		Quantity:     m.Quantity,
		CreatedAt:    m.CreatedAt,
	}
}

// FromStockMoves converts a slice of ledger rows.
func FromStockMoves(moves []entity.StockMove) []StockMoveResponse {
	out := make([]StockMoveResponse, len(moves))
	for i, m := range moves {
		out[i] = FromStockMove(m)
	}
	return out
}

// --- Balances ---

// StockBalanceResponse represents a materialized balance row.
type StockBalanceResponse struct {
	WarehouseID string         `json:"warehouseId"`
	ProductID   string         `json:"productId"`
	Quantity    types.Quantity `json:"quantity"`
	LastMoveAt  time.Time      `json:"lastMoveAt"`
}

// FromStockBalance converts a balance row to response DTO.
func FromStockBalance(b entity.StockBalance) StockBalanceResponse {
	return StockBalanceResponse{
		WarehouseID: b.WarehouseID.String(),
		ProductID:   b.ProductID.String(),
		Quantity:    b.Quantity,
		LastMoveAt:  b.LastMoveAt,
	}
}

// FromStockBalances converts a slice of balance rows.
func FromStockBalances(balances []entity.StockBalance) []StockBalanceResponse {
	out := make([]StockBalanceResponse, len(balances))
	for i, b := range balances {
		out[i] = FromStockBalance(b)
	}
	return out
}

// --- Availability ---

// AvailabilityResponse reports total stock for a product.
type AvailabilityResponse struct {
	ProductID string         `json:"productId"`
	Available types.Quantity `json:"available"`
}

// --- Turnover ---

// TurnoverResponse reports period turnover. The domain type already
// carries json tags; this alias keeps the handler signatures uniform.
type TurnoverResponse = stock.Turnover

// --- Reconciliation ---

// ReconcileResponse is the reconciliation report.
type ReconcileResponse = stock.ReconcileReport
