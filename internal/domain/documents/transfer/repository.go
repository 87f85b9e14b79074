// Package transfer provides the Transfer document repository.
package transfer

import (
	"context"
	"time"

	"stockpile/internal/core/entity"
	"stockpile/internal/core/id"
	"stockpile/internal/domain"
)

// Repository defines operations for transfer documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *Transfer) error
	GetByID(ctx context.Context, docID id.ID) (*Transfer, error)
	GetByNumber(ctx context.Context, number string) (*Transfer, error)
	Update(ctx context.Context, doc *Transfer) error
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Transfer], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*Transfer, error)

	// UpdateStatus flips the status with a compare-and-swap on the
	// observed status.
	UpdateStatus(ctx context.Context, docID id.ID, from, to entity.Status) error
}

// ListFilter for filtering transfers.
type ListFilter struct {
	domain.ListFilter

	SourceWarehouseID *id.ID
	DestWarehouseID   *id.ID
	Status            *entity.Status
	DateFrom          *time.Time
	DateTo            *time.Time
}
