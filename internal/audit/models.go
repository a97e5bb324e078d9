package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	SubjectID string
	Action    string
	Status    string
	Reason    string
	RequestID string
}

type AuditEvent string

const (
	EventAttemptResolved    AuditEvent = "attempt_resolved"
	EventThresholdsReloaded AuditEvent = "thresholds_reloaded"
)
