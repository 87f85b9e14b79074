package dto

import (
	"time"

	"stockpile/internal/core/id"
	"stockpile/internal/core/types"
	"stockpile/internal/domain/documents/delivery"
)

// --- Request DTOs ---

// CreateDeliveryRequest represents a request to create a delivery.
type CreateDeliveryRequest struct {
	Number       string                `json:"number,omitempty"`
	Date         time.Time             `json:"date"`
	Counterparty string                `json:"counterparty" binding:"required"`
	WarehouseID  string                `json:"warehouseId" binding:"required"`
	Comment      string                `json:"comment,omitempty"`
	Lines        []DeliveryLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// DeliveryLineRequest represents a line in create/update request.
type DeliveryLineRequest struct {
	ProductID string         `json:"productId" binding:"required"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
	UnitPrice types.Money    `json:"unitPrice"`
}

// ToEntity converts request to domain entity.
func (r *CreateDeliveryRequest) ToEntity() *delivery.Delivery {
	warehouseID, _ := id.Parse(r.WarehouseID)

	doc := delivery.NewDelivery(r.Counterparty, warehouseID)
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

// UpdateDeliveryRequest represents a request to update a delivery.
type UpdateDeliveryRequest struct {
	Date         *time.Time            `json:"date,omitempty"`
	Counterparty *string               `json:"counterparty,omitempty"`
	WarehouseID  *string               `json:"warehouseId,omitempty"`
	Comment      *string               `json:"comment,omitempty"`
	Lines        []DeliveryLineRequest `json:"lines,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateDeliveryRequest) ApplyTo(doc *delivery.Delivery) {
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

	if r.Lines != nil {
		doc.Lines = doc.Lines[:0]
		for _, line := range r.Lines {
			productID, _ := id.Parse(line.ProductID)
			doc.AddLine(productID, line.Quantity, line.UnitPrice)
		}
	}
}

// --- Response DTOs ---

// DeliveryResponse represents a delivery in API responses.
type DeliveryResponse struct {
	ID            string                 `json:"id"`
	Number        string                 `json:"number"`
	Date          time.Time              `json:"date"`
	Status        string                 `json:"status"`
	DoneAt        *time.Time             `json:"doneAt,omitempty"`
	Counterparty  string                 `json:"counterparty"`
	WarehouseID   string                 `json:"warehouseId"`
	TotalQuantity types.Quantity         `json:"totalQuantity"`
	TotalAmount   types.Money            `json:"totalAmount"`
	Comment       string                 `json:"comment,omitempty"`
	Lines         []DeliveryLineResponse `json:"lines,omitempty"`
	DeletionMark  bool                   `json:"deletionMark,omitempty"`
	Version       int                    `json:"version"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// DeliveryLineResponse represents a line in API responses.
type DeliveryLineResponse struct {
	LineID    string         `json:"lineId"`
	LineNo    int            `json:"lineNo"`
	ProductID string         `json:"productId"`
	Quantity  types.Quantity `json:"quantity"`
	UnitPrice types.Money    `json:"unitPrice"`
	Amount    types.Money    `json:"amount"`
}

// FromDelivery converts domain entity to response DTO.
func FromDelivery(doc *delivery.Delivery) *DeliveryResponse {
	resp := &DeliveryResponse{
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

	resp.Lines = make([]DeliveryLineResponse, len(doc.Lines))
	for i, line := range doc.Lines {
		resp.Lines[i] = DeliveryLineResponse{
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
