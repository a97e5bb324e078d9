package verification

import (
	"fmt"
	"math"
)

// Upstream OCR/matching pipelines produce noisy scores; out-of-range values
// are clamped rather than rejected so every attempt still resolves.

// normalizeAttempt returns a normalized copy of the attempt, a reason for
// every adjustment made, and the names of the adjusted score dimensions.
// The input is never mutated.
func normalizeAttempt(a Attempt) (Attempt, []string, []string) {
	var reasons []string
	var clamped []string

	norm := Attempt{
		SubjectID:         a.SubjectID,
		OverallConfidence: a.OverallConfidence,
		Fields:            make([]FieldComparison, len(a.Fields)),
	}
	copy(norm.Fields, a.Fields)

	if bounded, ok := clamp(norm.OverallConfidence, 0, 100); ok {
		reasons = append(reasons, fmt.Sprintf("clamped overall confidence from %g to %g", norm.OverallConfidence, bounded))
		clamped = append(clamped, "overall")
		norm.OverallConfidence = bounded
	}

	for i, fc := range norm.Fields {
		switch fc.Kind {
		case FieldDate:
			// Only the magnitude of drift matters for dates.
			if fc.RawScore < 0 {
				abs := math.Abs(fc.RawScore)
				reasons = append(reasons, fmt.Sprintf("normalized field %s day difference from %g to %g", fc.Kind, fc.RawScore, abs))
				clamped = append(clamped, string(fc.Kind))
				norm.Fields[i].RawScore = abs
			}
		default:
			if bounded, ok := clamp(fc.RawScore, 0, 1); ok {
				reasons = append(reasons, fmt.Sprintf("clamped field %s from %g to %g", fc.Kind, fc.RawScore, bounded))
				clamped = append(clamped, string(fc.Kind))
				norm.Fields[i].RawScore = bounded
			}
		}
	}

	return norm, reasons, clamped
}

// clamp returns the bounded value and whether an adjustment was needed.
// NaN collapses to the lower bound so a corrupt score cannot poison
// classification.
func clamp(v, lo, hi float64) (float64, bool) {
	switch {
	case math.IsNaN(v):
		return lo, true
	case v < lo:
		return lo, true
	case v > hi:
		return hi, true
	default:
		return v, false
	}
}
