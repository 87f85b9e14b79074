package dto

import (
	"stockpile/internal/domain/catalogs/warehouse"
)

// --- Request DTOs ---

// CreateWarehouseRequest represents a request to create a warehouse.
type CreateWarehouseRequest struct {
	Code               string  `json:"code,omitempty"`
	Name               string  `json:"name" binding:"required"`
	Address            *string `json:"address,omitempty"`
	Description        *string `json:"description,omitempty"`
	AllowNegativeStock bool    `json:"allowNegativeStock,omitempty"`
	IsDefault          bool    `json:"isDefault,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	wh := warehouse.NewWarehouse(r.Code, r.Name)
	wh.Address = r.Address
	wh.Description = r.Description
	wh.AllowNegativeStock = r.AllowNegativeStock
	wh.IsDefault = r.IsDefault
	return wh
}

// UpdateWarehouseRequest represents a request to update a warehouse.
type UpdateWarehouseRequest struct {
	Code               *string `json:"code,omitempty"`
	Name               *string `json:"name,omitempty"`
	Address            *string `json:"address,omitempty"`
	Description        *string `json:"description,omitempty"`
	AllowNegativeStock *bool   `json:"allowNegativeStock,omitempty"`
	IsDefault          *bool   `json:"isDefault,omitempty"`
	IsActive           *bool   `json:"isActive,omitempty"`
	Version            int     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateWarehouseRequest) ApplyTo(wh *warehouse.Warehouse) {
	if r.Code != nil {
		wh.Code = *r.Code
	}
	if r.Name != nil {
		wh.Name = *r.Name
	}
	if r.Address != nil {
		wh.Address = r.Address
	}
	if r.Description != nil {
		wh.Description = r.Description
	}
	if r.AllowNegativeStock != nil {
		wh.AllowNegativeStock = *r.AllowNegativeStock
	}
	if r.IsDefault != nil {
		wh.IsDefault = *r.IsDefault
	}
	if r.IsActive != nil {
		wh.IsActive = *r.IsActive
	}
	wh.Version = r.Version
}

// --- Response DTOs ---

// WarehouseResponse represents a warehouse in API responses.
type WarehouseResponse struct {
	ID                 string  `json:"id"`
	Code               string  `json:"code"`
	Name               string  `json:"name"`
	Address            *string `json:"address,omitempty"`
	Description        *string `json:"description,omitempty"`
	AllowNegativeStock bool    `json:"allowNegativeStock"`
	IsDefault          bool    `json:"isDefault"`
	IsActive           bool    `json:"isActive"`
	DeletionMark       bool    `json:"deletionMark,omitempty"`
	Version            int     `json:"version"`
}

// FromWarehouse converts domain entity to response DTO.
func FromWarehouse(wh *warehouse.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		ID:                 wh.ID.String(),
		Code:               wh.Code,
		Name:               wh.Name,
		Address:            wh.Address,
		Description:        wh.Description,
		AllowNegativeStock: wh.AllowNegativeStock,
		IsDefault:          wh.IsDefault,
		IsActive:           wh.IsActive,
		DeletionMark:       wh.DeletionMark,
		Version:            wh.Version,
	}
}
