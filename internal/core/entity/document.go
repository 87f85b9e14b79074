package entity

import (
	"context"
	"time"

	"stockpile/internal/core/apperror"
	"stockpile/internal/core/id"
)

// Document is the base type for stock documents.
// Examples: Receipt, Delivery, Transfer, Adjustment.
type Document struct {
	BaseDocument

	// Number is the document number (auto-generated, unique within type+period)
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Status is the lifecycle state. Done and canceled are terminal;
	// the stock ledger is written exactly once, on the edge into done.
	Status Status `db:"status" json:"status"`

	// DoneAt is set when the document reaches done
	DoneAt *time.Time `db:"done_at" json:"doneAt,omitempty"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document in draft with generated ID.
func NewDocument() Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
		Status:       StatusDraft,
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	if !d.Status.IsValid() {
		return apperror.NewValidation("unknown status").
			WithDetail("status", string(d.Status))
	}
	return nil
}

// CanModify checks if the document header and lines can be edited.
// Lines are editable only in draft.
func (d *Document) CanModify() error {
	if d.Status == StatusDraft {
		return nil
	}
	if d.Status == StatusDone {
		return apperror.NewAlreadyProcessed("document", d.ID.String())
	}
	return apperror.NewBusinessRule(
		apperror.CodeBusinessRule,
		"Only draft documents can be modified",
	).WithDetail("document_id", d.ID.String()).
		WithDetail("status", string(d.Status))
}

// CheckTransition verifies the edge Status -> target against the graph.
// A done-transition on an already-done document is AlreadyProcessed, not
// InvalidTransition: the ledger effect exists and the caller should treat
// the operation as a duplicate.
func (d *Document) CheckTransition(docType string, target Status) error {
	if d.Status == StatusDone && target == StatusDone {
		return apperror.NewAlreadyProcessed(docType, d.ID.String())
	}
	if !d.Status.CanTransitionTo(target) {
		return apperror.NewInvalidTransition(docType, string(d.Status), string(target))
	}
	return nil
}

// MarkDone flips the status to done and stamps the completion time.
// The repository persists this with a compare-and-swap on the old status.
func (d *Document) MarkDone() {
	now := time.Now().UTC()
	d.Status = StatusDone
	d.DoneAt = &now
	d.Touch()
}

// --- Postable interface default implementations ---
// Document-specific types only need to implement GetDocumentType(),
// PostingLines() and GenerateMoves().

// GetID returns the document ID (Postable interface).
func (d *Document) GetID() id.ID {
	return d.ID
}

// GetStatus returns the current lifecycle state (Postable interface).
func (d *Document) GetStatus() Status {
	return d.Status
}

// SetStatus overwrites the lifecycle state (Postable interface).
// Callers must have checked the transition first.
func (d *Document) SetStatus(s Status) {
	d.Status = s
}
