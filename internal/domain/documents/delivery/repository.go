// Package delivery provides the Delivery document repository.
package delivery

import (
	"context"
	"time"

	"stockpile/internal/core/entity"
	"stockpile/internal/core/id"
	"stockpile/internal/domain"
)

// Repository defines operations for delivery documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *Delivery) error
	GetByID(ctx context.Context, docID id.ID) (*Delivery, error)
	GetByNumber(ctx context.Context, number string) (*Delivery, error)
	Update(ctx context.Context, doc *Delivery) error
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Delivery], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*Delivery, error)

	// UpdateStatus flips the status with a compare-and-swap on the
	// observed status.
	UpdateStatus(ctx context.Context, docID id.ID, from, to entity.Status) error
}

// ListFilter for filtering deliveries.
type ListFilter struct {
	domain.ListFilter

	WarehouseID *id.ID
	Status      *entity.Status
	DateFrom    *time.Time
	DateTo      *time.Time
}
