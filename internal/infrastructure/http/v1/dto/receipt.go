package dto

import (
	"time"

	"stockpile/internal/core/id"
	"stockpile/internal/core/types"
	"stockpile/internal/domain/documents/receipt"
)

// --- Request DTOs ---

// CreateReceiptRequest represents a request to create a receipt.
type CreateReceiptRequest struct {
	Number       string               `json:"number,omitempty"`
	Date         time.Time            `json:"date"`
	Counterparty string               `json:"counterparty" binding:"required"`
	WarehouseID  string               `json:"warehouseId" binding:"required"`
	Comment      string               `json:"comment,omitempty"`
	Lines        []ReceiptLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ReceiptLineRequest represents a line in create/update request.
type ReceiptLineRequest struct {
	ProductID string         `json:"productId" binding:"required"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
	UnitPrice types.Money    `json:"unitPrice"`
}

// ToEntity converts request to domain entity.
func (r *CreateReceiptRequest) ToEntity() *receipt.Receipt {
	warehouseID, _ := id.Parse(r.WarehouseID)

	doc := receipt.NewReceipt(r.Counterparty, warehouseID)
	doc.Number = r.Number
	doc.Comment = r.Comment
	if !r.Date.IsZero() {
		doc.Date = r.Date
	}

	for _, line := range r.Lines {
		productID, _ := id.Parse(line.ProductID)
		doc.AddLine(productID, line.Quantity, line.UnitPrice)
	}

	return doc
}

// UpdateReceiptRequest represents a request to update a receipt.
type UpdateReceiptRequest struct {
	Date         *time.Time           `json:"date,omitempty"`
	Counterparty *string              `json:"counterparty,omitempty"`
	WarehouseID  *string              `json:"warehouseId,omitempty"`
	Comment      *string              `json:"comment,omitempty"`
	Lines        []ReceiptLineRequest `json:"lines,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateReceiptRequest) ApplyTo(doc *receipt.Receipt) {
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.Counterparty != nil {
		doc.Counterparty = *r.Counterparty
	}
	if r.WarehouseID != nil {
		warehouseID, _ := id.Parse(*r.WarehouseID)
		doc.WarehouseID = warehouseID
	}
	if r.Comment != nil {
		doc.Comment = *r.Comment
	}

	// If lines are provided, rebuild them
	if r.Lines != nil {
		doc.Lines = doc.Lines[:0]
		for _, line := range r.Lines {
			productID, _ := id.Parse(line.ProductID)
			doc.AddLine(productID, line.Quantity, line.UnitPrice)
		}
	}
}

// --- Response DTOs ---

// ReceiptResponse represents a receipt in API responses.
type ReceiptResponse struct {
	ID            string                `json:"id"`
	Number        string                `json:"number"`
	Date          time.Time             `json:"date"`
	Status        string                `json:"status"`
	DoneAt        *time.Time            `json:"doneAt,omitempty"`
	Counterparty  string                `json:"counterparty"`
	WarehouseID   string                `json:"warehouseId"`
	TotalQuantity types.Quantity        `json:"totalQuantity"`
	TotalAmount   types.Money           `json:"totalAmount"`
	Comment       string                `json:"comment,omitempty"`
	Lines         []ReceiptLineResponse `json:"lines,omitempty"`
	DeletionMark  bool                  `json:"deletionMark,omitempty"`
	Version       int                   `json:"version"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// ReceiptLineResponse represents a line in API responses.
type ReceiptLineResponse struct {
	LineID    string         `json:"lineId"`
	LineNo    int            `json:"lineNo"`
	ProductID string         `json:"productId"`
	Quantity  types.Quantity `json:"quantity"`
	UnitPrice types.Money    `json:"unitPrice"`
	Amount    types.Money    `json:"amount"`
}

// FromReceipt converts domain entity to response DTO.
func FromReceipt(doc *receipt.Receipt) *ReceiptResponse {
	resp := &ReceiptResponse{
		ID:            doc.ID.String(),
		Number:        doc.Number,
		Date:          doc.Date,
		Status:        string(doc.Status),
		DoneAt:        doc.DoneAt,
		Counterparty:  doc.Counterparty,
		WarehouseID:   doc.WarehouseID.String(),
		TotalQuantity: doc.TotalQuantity,
		TotalAmount:   doc.TotalAmount,
		Comment:       doc.Comment,
		DeletionMark:  doc.DeletionMark,
		Version:       doc.Version,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}

	resp.Lines = make([]ReceiptLineResponse, len(doc.Lines))
	for i, line := range doc.Lines {
		resp.Lines[i] = ReceiptLineResponse{
			LineID:    line.LineID.String(),
			LineNo:    line.LineNo,
			ProductID: line.ProductID.String(),
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Amount:    line.Amount,
		}
	}

	return resp
}
