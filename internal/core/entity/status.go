package entity

import (
	"stockpile/internal/core/apperror"
)

// Status is the document lifecycle state.
// Stock documents move through draft -> waiting -> ready -> done, with
// cancellation possible from any non-terminal state. The ledger is written
// exactly once, on the edge into done.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusWaiting  Status = "waiting"
	StatusReady    Status = "ready"
	StatusDone     Status = "done"
	StatusCanceled Status = "canceled"
)

// transitions is the full status graph. Absent edges are illegal.
var transitions = map[Status][]Status{
	StatusDraft:    {StatusWaiting, StatusReady, StatusDone, StatusCanceled},
	StatusWaiting:  {StatusReady, StatusDone, StatusCanceled},
	StatusReady:    {StatusDone, StatusCanceled},
	StatusDone:     {},
	StatusCanceled: {},
}

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := transitions[status]; !ok {
		return "", apperror.NewValidation("unknown status").
			WithDetail("status", s)
	}
	return status, nil
}

// IsValid reports whether the status is one of the known states.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusCanceled
}

// CanTransitionTo reports whether the edge s -> target exists in the graph.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}
