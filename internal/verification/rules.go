package verification

import (
	"fmt"
	"time"
)

// Evaluate resolves a verification attempt into one terminal outcome.
// It is the pure classification function: no I/O, no shared state, identical
// inputs always produce identical outcomes. The evaluation time is injected
// for deterministic testing.
func Evaluate(t *Thresholds, attempt Attempt, evalTime time.Time) *Outcome {
	norm, reasons, clamped := normalizeAttempt(attempt)

	outcome := &Outcome{
		OverallTier: t.Overall.Classify(norm.OverallConfidence),
		FieldTiers:  make([]FieldTier, 0, len(norm.Fields)),
		Reasons:     reasons,
		Clamped:     clamped,
		EvaluatedAt: evalTime,
	}

	for _, fc := range norm.Fields {
		outcome.FieldTiers = append(outcome.FieldTiers, FieldTier{
			Kind: fc.Kind,
			Tier: t.ClassifyField(fc),
		})
	}

	outcome.Status = resolveStatus(t, outcome)
	return outcome
}

// resolveStatus applies the resolution rules in strict order; the first
// applicable rule wins.
//
// Rule priority:
//  1. Overall confidence in the reject band (hard fail) - field scores
//     cannot rescue an attempt the scorer itself distrusts.
//  2. Any field below its lowest bound - mismatch, or manual review when
//     the distinct mismatch status is disabled.
//  3. Auto-resolve confidence with every field High - verified. Requires at
//     least one compared field; an attempt with nothing compared never
//     auto-verifies on the overall score alone.
//  4. Everything else - manual review.
func resolveStatus(t *Thresholds, o *Outcome) Status {
	// Rule 1: overall reject (hard fail)
	if o.OverallTier == OverallReject {
		o.Reasons = append(o.Reasons, reasonOverallBelowReject)
		return StatusFailed
	}

	// Rule 2: field mismatch. Every offending field is listed for audit
	// completeness even though one is enough to decide.
	mismatched := false
	for _, ft := range o.FieldTiers {
		if ft.Tier == TierNone {
			mismatched = true
			o.Reasons = append(o.Reasons, fmt.Sprintf("field %s below minimum similarity", ft.Kind))
		}
	}
	if mismatched {
		if t.UseMismatchStatus {
			return StatusMismatch
		}
		o.Reasons = append(o.Reasons, reasonMismatchDemoted)
		return StatusManualReview
	}

	// Rule 3: full-confidence verification
	if o.OverallTier == OverallAutoResolve && len(o.FieldTiers) > 0 && allHigh(o.FieldTiers) {
		o.Reasons = append(o.Reasons, reasonAllHigh)
		return StatusVerified
	}
	if len(o.FieldTiers) == 0 {
		o.Reasons = append(o.Reasons, reasonNoFields)
		return StatusManualReview
	}

	// Rule 4: default
	o.Reasons = append(o.Reasons, reasonInsufficient)
	return StatusManualReview
}

func allHigh(tiers []FieldTier) bool {
	for _, ft := range tiers {
		if ft.Tier != TierHigh {
			return false
		}
	}
	return true
}
