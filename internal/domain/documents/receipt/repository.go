// Package receipt provides the Receipt document repository.
package receipt

import (
	"context"
	"time"

	"stockpile/internal/core/entity"
	"stockpile/internal/core/id"
	"stockpile/internal/domain"
)

// Repository defines operations for receipt documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *Receipt) error
	GetByID(ctx context.Context, docID id.ID) (*Receipt, error)
	GetByNumber(ctx context.Context, number string) (*Receipt, error)
	Update(ctx context.Context, doc *Receipt) error
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Receipt], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*Receipt, error)

	// UpdateStatus flips the status with a compare-and-swap on the
	// observed status. Zero rows affected yields AlreadyProcessed when
	// the target is done, ConcurrentModification otherwise.
	UpdateStatus(ctx context.Context, docID id.ID, from, to entity.Status) error
}

// ListFilter for filtering receipts.
type ListFilter struct {
	domain.ListFilter

	// Document-specific filters
	WarehouseID *id.ID
	Status      *entity.Status
	DateFrom    *time.Time
	DateTo      *time.Time
}
