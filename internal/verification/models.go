package verification

import (
	"time"

	dErrors "veristat/pkg/domain-errors"
)

// Status enumerates the terminal verification outcomes.
type Status string

const (
	StatusVerified     Status = "verified"
	StatusMismatch     Status = "mismatch"
	StatusManualReview Status = "manual_review"
	StatusFailed       Status = "failed"
)

// Tier is the discrete classification of a single field comparison.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
	TierNone   Tier = "none"
)

// OverallTier classifies the attempt-level confidence score alone.
type OverallTier string

const (
	OverallAutoResolve  OverallTier = "auto_resolve"
	OverallManualReview OverallTier = "manual_review"
	OverallReject       OverallTier = "reject"
)

// FieldKind identifies which document field a comparison score belongs to.
type FieldKind string

const (
	FieldName      FieldKind = "name"
	FieldAddress   FieldKind = "address"
	FieldNumericID FieldKind = "numeric_id"
	FieldDate      FieldKind = "date"
)

// ParseFieldKind validates and parses a field kind string.
//
// Usage: call at trust boundaries for external input.
//
// Errors: returns CodeBadRequest for unsupported kinds.
func ParseFieldKind(s string) (FieldKind, error) {
	switch FieldKind(s) {
	case FieldName, FieldAddress, FieldNumericID, FieldDate:
		return FieldKind(s), nil
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, "unsupported field kind: must be name, address, numeric_id or date")
	}
}

// FieldComparison is one measured field score within an attempt. For Name,
// Address and NumericID the score is a similarity ratio in [0,1]; for Date it
// is an absolute day-difference.
type FieldComparison struct {
	Kind     FieldKind
	RawScore float64
}

// Attempt is a single verification request as supplied by the upstream
// OCR/matching pipeline. The engine never mutates it; normalization produces
// a copy. Field order is preserved through to the outcome for audit reporting.
type Attempt struct {
	// SubjectID is a pseudonymous identifier for audit correlation; no raw PII.
	SubjectID         string
	OverallConfidence float64
	Fields            []FieldComparison
}

// FieldTier pairs a field kind with its resolved tier, in input order.
type FieldTier struct {
	Kind FieldKind
	Tier Tier
}

// Outcome is the engine's return value: one terminal status plus the
// classification breakdown that produced it.
type Outcome struct {
	Status      Status
	OverallTier OverallTier
	FieldTiers  []FieldTier
	Reasons     []string
	EvaluatedAt time.Time

	// Clamped names the score dimensions adjusted during normalization.
	// Diagnostic only; the reasons already describe each adjustment.
	Clamped []string
}

// Resolution reason strings recorded in Outcome.Reasons.
const (
	reasonOverallBelowReject = "overall confidence below reject threshold"
	reasonAllHigh            = "overall and all fields at high confidence"
	reasonInsufficient       = "confidence insufficient for automatic resolution"
	reasonNoFields           = "no fields compared; automatic resolution withheld"
	reasonMismatchDemoted    = "mismatch status disabled; demoted to manual review"
)
