package dto

import (
	"stockpile/internal/core/types"
	"stockpile/internal/domain/catalogs/product"
)

// --- Request DTOs ---

// CreateProductRequest represents a request to create a product.
type CreateProductRequest struct {
	Code         string         `json:"code,omitempty"`
	Name         string         `json:"name" binding:"required"`
	Unit         string         `json:"unit" binding:"required"`
	Barcode      *string        `json:"barcode,omitempty"`
	Description  *string        `json:"description,omitempty"`
	ReorderLevel types.Quantity `json:"reorderLevel,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	p := product.NewProduct(r.Code, r.Name, r.Unit)
	p.Barcode = r.Barcode
	p.Description = r.Description
	p.ReorderLevel = r.ReorderLevel
	return p
}

// UpdateProductRequest represents a request to update a product.
type UpdateProductRequest struct {
	Code         *string         `json:"code,omitempty"`
	Name         *string         `json:"name,omitempty"`
	Unit         *string         `json:"unit,omitempty"`
	Barcode      *string         `json:"barcode,omitempty"`
	Description  *string         `json:"description,omitempty"`
	ReorderLevel *types.Quantity `json:"reorderLevel,omitempty"`
	IsActive     *bool           `json:"isActive,omitempty"`
	Version      int             `json:"version" binding:"required,min=1"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	if r.Code != nil {
		p.Code = *r.Code
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Unit != nil {
		p.Unit = *r.Unit
	}
	if r.Barcode != nil {
		p.Barcode = r.Barcode
	}
	if r.Description != nil {
		p.Description = r.Description
	}
	if r.ReorderLevel != nil {
		p.ReorderLevel = *r.ReorderLevel
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	p.Version = r.Version
}

// --- Response DTOs ---

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID            string         `json:"id"`
	Code          string         `json:"code"`
	Name          string         `json:"name"`
	Unit          string         `json:"unit"`
	Barcode       *string        `json:"barcode,omitempty"`
	Description   *string        `json:"description,omitempty"`
	ReorderLevel  types.Quantity `json:"reorderLevel"`
	CurrentStock  types.Quantity `json:"currentStock"`
	IsActive      bool           `json:"isActive"`
	IntegrityHold bool           `json:"integrityHold"`
	DeletionMark  bool           `json:"deletionMark,omitempty"`
	Version       int            `json:"version"`
}

// FromProduct converts domain entity to response DTO.
func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:            p.ID.String(),
		Code:          p.Code,
		Name:          p.Name,
		Unit:          p.Unit,
		Barcode:       p.Barcode,
		Description:   p.Description,
		ReorderLevel:  p.ReorderLevel,
		CurrentStock:  p.CurrentStock,
		IsActive:      p.IsActive,
		IntegrityHold: p.IntegrityHold,
		DeletionMark:  p.DeletionMark,
		Version:       p.Version,
	}
}
