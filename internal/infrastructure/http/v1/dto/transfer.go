package dto

import (
	"time"

	"stockpile/internal/core/id"
	"stockpile/internal/core/types"
	"stockpile/internal/domain/documents/transfer"
)

// --- Request DTOs ---

// CreateTransferRequest represents a request to create a transfer.
type CreateTransferRequest struct {
	Number            string                `json:"number,omitempty"`
	Date              time.Time             `json:"date"`
	SourceWarehouseID string                `json:"sourceWarehouseId" binding:"required"`
	DestWarehouseID   string                `json:"destWarehouseId" binding:"required"`
	Comment           string                `json:"comment,omitempty"`
	Lines             []TransferLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// TransferLineRequest represents a line in create/update request.
type TransferLineRequest struct {
	ProductID string         `json:"productId" binding:"required"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
}

// ToEntity converts request to domain entity.
func (r *CreateTransferRequest) ToEntity() *transfer.Transfer {
	sourceID, _ := id.Parse(r.SourceWarehouseID)
	destID, _ := id.Parse(r.DestWarehouseID)

	doc := transfer.NewTransfer(sourceID, destID)
	doc.Number = r.Number
	doc.Comment = r.Comment
	if !r.Date.IsZero() {
		doc.Date = r.Date
	}

	for _, line := range r.Lines {
		productID, _ := id.Parse(line.ProductID)
		doc.AddLine(productID, line.Quantity)
	}

	return doc
}

// UpdateTransferRequest represents a request to update a transfer.
type UpdateTransferRequest struct {
	Date              *time.Time            `json:"date,omitempty"`
	SourceWarehouseID *string               `json:"sourceWarehouseId,omitempty"`
	DestWarehouseID   *string               `json:"destWarehouseId,omitempty"`
	Comment           *string               `json:"comment,omitempty"`
	Lines             []TransferLineRequest `json:"lines,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateTransferRequest) ApplyTo(doc *transfer.Transfer) {
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.SourceWarehouseID != nil {
		sourceID, _ := id.Parse(*r.SourceWarehouseID)
		doc.SourceWarehouseID = sourceID
	}
	if r.DestWarehouseID != nil {
		destID, _ := id.Parse(*r.DestWarehouseID)
		doc.DestWarehouseID = destID
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}

	if r.Lines != nil {
		doc.Lines = doc.Lines[:0]
		for _, line := range r.Lines {
			productID, _ := id.Parse(line.ProductID)
			doc.AddLine(productID, line.Quantity)
		}
	}
}

// --- Response DTOs ---

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID                string                 `json:"id"`
	Number            string                 `json:"number"`
	Date              time.Time              `json:"date"`
	Status            string                 `json:"status"`
	DoneAt            *time.Time             `json:"doneAt,omitempty"`
	SourceWarehouseID string                 `json:"sourceWarehouseId"`
	DestWarehouseID   string                 `json:"destWarehouseId"`
	TotalQuantity     types.Quantity         `json:"totalQuantity"`
	Comment           string                 `json:"comment,omitempty"`
	Lines             []TransferLineResponse `json:"lines,omitempty"`
	DeletionMark      bool                   `json:"deletionMark,omitempty"`
	Version           int                    `json:"version"`
	CreatedAt         time.Time              `json:"createdAt"`
	UpdatedAt         time.Time              `json:"updatedAt"`
}

// TransferLineResponse represents a line in API responses.
type TransferLineResponse struct {
	LineID    string         `json:"lineId"`
	LineNo    int            `json:"lineNo"`
	ProductID string         `json:"productId"`
	Quantity  types.Quantity `json:"quantity"`
}

// FromTransfer converts domain entity to response DTO.
func FromTransfer(doc *transfer.Transfer) *TransferResponse {
	resp := &TransferResponse{
		ID:                doc.ID.String(),
		Number:            doc.Number,
		Date:              doc.Date,
		Status:            string(doc.Status),
		DoneAt:            doc.DoneAt,
		SourceWarehouseID: doc.SourceWarehouseID.String(),
		DestWarehouseID:   doc.DestWarehouseID.String(),
		TotalQuantity:     doc.TotalQuantity,
		Comment:           doc.Comment,
		DeletionMark:      doc.DeletionMark,
		Version:           doc.Version,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}

	resp.Lines = make([]TransferLineResponse, len(doc.Lines))
	for i, line := range doc.Lines {
		resp.Lines[i] = TransferLineResponse{
			LineID:    line.LineID.String(),
			LineNo:    line.LineNo,
			ProductID: line.ProductID.String(),
			Quantity:  line.Quantity,
		}
	}

	return resp
}
