package dto

import (
	"time"

	"stockpile/internal/core/id"
	"stockpile/internal/core/types"
	"stockpile/internal/domain/documents/adjustment"
)

// --- Request DTOs ---

// CreateAdjustmentRequest represents a request to create an adjustment.
// System quantities are snapshotted from current balances server-side.
type CreateAdjustmentRequest struct {
	Number      string                  `json:"number,omitempty"`
	Date        time.Time               `json:"date"`
	WarehouseID string                  `json:"warehouseId" binding:"required"`
	Reason      string                  `json:"reason,omitempty"`
	Comment     string                  `json:"comment,omitempty"`
	Lines       []AdjustmentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// AdjustmentLineRequest represents a counted position.
type AdjustmentLineRequest struct {
	ProductID       string         `json:"productId" binding:"required"`
	CountedQuantity types.Quantity `json:"countedQuantity"`
}

// ToEntity converts request to domain entity.
func (r *CreateAdjustmentRequest) ToEntity() *adjustment.Adjustment {
	warehouseID, _ := id.Parse(r.WarehouseID)

	doc := adjustment.NewAdjustment(warehouseID)
	doc.Number = r.Number
	doc.Reason = r.Reason
	doc.Comment = r.Comment
	if !r.Date.IsZero() {
		doc.Date = r.Date
	}

	for _, line := range r.Lines {
		productID, _ := id.Parse(line.ProductID)
		doc.AddLine(productID, line.CountedQuantity, 0)
	}

	return doc
}

// UpdateAdjustmentRequest represents a request to update an adjustment.
type UpdateAdjustmentRequest struct {
	Date        *time.Time              `json:"date,omitempty"`
	WarehouseID *string                 `json:"warehouseId,omitempty"`
	Reason      *string                 `json:"reason,omitempty"`
	Comment     *string                 `json:"comment,omitempty"`
	Lines       []AdjustmentLineRequest `json:"lines,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateAdjustmentRequest) ApplyTo(doc *adjustment.Adjustment) {
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.WarehouseID != nil {
		warehouseID, _ := id.Parse(*r.WarehouseID)
		doc.WarehouseID = warehouseID
	}
	if r.Reason != nil {
		doc.Reason = *r.Reason
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}

	if r.Lines != nil {
		doc.Lines = doc.Lines[:0]
		for _, line := range r.Lines {
			productID, _ := id.Parse(line.ProductID)
			doc.AddLine(productID, line.CountedQuantity, 0)
		}
	}
}

// --- Response DTOs ---

// AdjustmentResponse represents an adjustment in API responses.
type AdjustmentResponse struct {
	ID           string                   `json:"id"`
	Number       string                   `json:"number"`
	Date         time.Time                `json:"date"`
	Status       string                   `json:"status"`
	DoneAt       *time.Time               `json:"doneAt,omitempty"`
	WarehouseID  string                   `json:"warehouseId"`
	Reason       string                   `json:"reason,omitempty"`
	Comment      string                   `json:"comment,omitempty"`
	Lines        []AdjustmentLineResponse `json:"lines,omitempty"`
	DeletionMark bool                     `json:"deletionMark,omitempty"`
	Version      int                      `json:"version"`
	CreatedAt    time.Time                `json:"createdAt"`
	UpdatedAt    time.Time                `json:"updatedAt"`
}

// AdjustmentLineResponse represents a counted position in API responses.
type AdjustmentLineResponse struct {
	LineID          string         `json:"lineId"`
	LineNo          int            `json:"lineNo"`
	ProductID       string         `json:"productId"`
	CountedQuantity types.Quantity `json:"countedQuantity"`
	SystemQuantity  types.Quantity `json:"systemQuantity"`
	Deviation       types.Quantity `json:"deviation"`
}

// FromAdjustment converts domain entity to response DTO.
func FromAdjustment(doc *adjustment.Adjustment) *AdjustmentResponse {
	resp := &AdjustmentResponse{
		ID:           doc.ID.String(),
		Number:       doc.Number,
		Date:         doc.Date,
		Status:       string(doc.Status),
		DoneAt:       doc.DoneAt,
		WarehouseID:  doc.WarehouseID.String(),
		Reason:       doc.Reason,
		Comment:      doc.Comment,
		DeletionMark: doc.DeletionMark,
		Version:      doc.Version,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}

	resp.Lines = make([]AdjustmentLineResponse, len(doc.Lines))
	for i, line := range doc.Lines {
		resp.Lines[i] = AdjustmentLineResponse{
			LineID:          line.LineID.String(),
			LineNo:          line.LineNo,
			ProductID:       line.ProductID.String(),
			CountedQuantity: line.CountedQuantity,
			SystemQuantity:  line.SystemQuantity,
			Deviation:       line.Deviation(),
		}
	}

	return resp
}
