package audit

import "context"

// Store persists audit events. Implementations return sentinel errors
// (optionally wrapped) so callers can translate them into domain errors
// exactly once.
type Store interface {
	Append(ctx context.Context, event Event) error

	// ListBySubject returns the subject's events in append order. A subject
	// with no recorded events yields sentinel.ErrNotFound.
	ListBySubject(ctx context.Context, subjectID string) ([]Event, error)
}
