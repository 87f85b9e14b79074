// Package posting provides the document posting engine.
// Posting is the transition into done: the single place where documents
// write the stock ledger. Each document type implements Postable; the
// engine owns validation order, locking and the status flip.
package posting

import (
	"context"

	"stockpile/internal/core/entity"
	"stockpile/internal/core/id"
	"stockpile/internal/domain/registers/stock"
)

// ProductRef ties a document line to the product it references.
// LineNo is 1-based, matching what the user sees.
type ProductRef struct {
	LineNo    int
	ProductID id.ID
}

// Postable is implemented by documents that write the stock ledger.
// entity.Document provides GetID/GetStatus/SetStatus; document types add
// the rest.
type Postable interface {
	// GetID returns the document ID.
	GetID() id.ID

	// GetDocumentType returns the type tag recorded on ledger rows
	// (receipt, delivery, transfer, adjustment).
	GetDocumentType() string

	// GetStatus returns the current lifecycle state.
	GetStatus() entity.Status

	// SetStatus overwrites the lifecycle state after a successful claim.
	SetStatus(entity.Status)

	// Validate checks header and line invariants without database access.
	// Line failures are collected into one ValidationFailed error.
	Validate(ctx context.Context) error

	// ProductRefs lists the product behind every line, for existence and
	// activity checks.
	ProductRefs() []ProductRef

	// WarehouseIDs lists every warehouse the document touches.
	WarehouseIDs() []id.ID

	// StockDemands lists outbound requirements to verify against locked
	// balances. Inbound-only documents return nil.
	StockDemands() []stock.Demand

	// GenerateMoves produces the ledger rows for this document.
	// Called only after all checks pass.
	GenerateMoves(ctx context.Context) ([]entity.StockMove, error)
}

// Claimer flips the document status to done with a compare-and-swap on
// the status observed under the row lock. Implementations must return
// AlreadyProcessed when zero rows were affected.
type Claimer func(ctx context.Context) error

// Recorder receives posting metrics. Optional.
type Recorder interface {
	DocumentPosted(docType string)
	MovesWritten(count int)
}
