package verification

import (
	"fmt"

	dErrors "veristat/pkg/domain-errors"
)

// Band holds the tier cutoffs for one similarity dimension. Boundaries are
// inclusive: a score exactly equal to a cutoff belongs to that tier.
type Band struct {
	High   float64
	Medium float64
	Low    float64
}

// Classify maps a similarity ratio onto a tier, highest tier first.
func (b Band) Classify(score float64) Tier {
	switch {
	case score >= b.High:
		return TierHigh
	case score >= b.Medium:
		return TierMedium
	case score >= b.Low:
		return TierLow
	default:
		return TierNone
	}
}

func (b Band) validate(name string) error {
	if !(b.High > b.Medium && b.Medium > b.Low) {
		return dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("%s thresholds must satisfy high > medium > low (got %.2f/%.2f/%.2f)", name, b.High, b.Medium, b.Low))
	}
	if b.Low < 0 || b.High > 1 {
		return dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("%s thresholds must lie in [0,1]", name))
	}
	return nil
}

// OverallBands holds the attempt-level confidence cutoffs on the 0-100 scale.
// Reject acts as the ceiling of the reject tier: any confidence below
// ManualReview classifies as reject, the Reject value itself only labels the
// band for operators and is validated for ordering.
type OverallBands struct {
	AutoResolve  float64
	ManualReview float64
	Reject       float64
}

// Classify maps an overall confidence score onto its tier.
func (o OverallBands) Classify(confidence float64) OverallTier {
	switch {
	case confidence >= o.AutoResolve:
		return OverallAutoResolve
	case confidence >= o.ManualReview:
		return OverallManualReview
	default:
		return OverallReject
	}
}

// Thresholds is the engine's process-wide configuration: loaded once,
// validated once, treated as immutable afterwards. Hot reloads swap the whole
// snapshot rather than mutating it in place.
type Thresholds struct {
	Overall           OverallBands
	NameSimilarity    Band
	AddressSimilarity Band
	NumericSimilarity Band
	DateToleranceDays int
	UseMismatchStatus bool

	// StatusAliases maps canonical status names to legacy display names.
	// Presentation only; resolution never consults it.
	StatusAliases map[Status]string
}

// Default returns the threshold set matching the shipped configuration.
func Default() *Thresholds {
	return &Thresholds{
		Overall: OverallBands{
			AutoResolve:  85.0,
			ManualReview: 60.0,
			Reject:       40.0,
		},
		NameSimilarity:    Band{High: 0.85, Medium: 0.70, Low: 0.55},
		AddressSimilarity: Band{High: 0.80, Medium: 0.65, Low: 0.50},
		NumericSimilarity: Band{High: 0.95, Medium: 0.85, Low: 0.75},
		DateToleranceDays: 1,
		UseMismatchStatus: true,
		StatusAliases: map[Status]string{
			StatusVerified: "approved",
			StatusFailed:   "rejected",
		},
	}
}

// Validate rejects internally inconsistent threshold sets. A failure here is
// a fatal configuration error: the engine must not classify against an
// invalid set.
func (t *Thresholds) Validate() error {
	if !(t.Overall.AutoResolve > t.Overall.ManualReview && t.Overall.ManualReview > t.Overall.Reject) {
		return dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("overall thresholds must satisfy auto_resolve > manual_review > reject (got %.1f/%.1f/%.1f)",
				t.Overall.AutoResolve, t.Overall.ManualReview, t.Overall.Reject))
	}
	if t.Overall.Reject < 0 || t.Overall.AutoResolve > 100 {
		return dErrors.New(dErrors.CodeInvariantViolation, "overall thresholds must lie in [0,100]")
	}
	if err := t.NameSimilarity.validate("name_similarity"); err != nil {
		return err
	}
	if err := t.AddressSimilarity.validate("address_similarity"); err != nil {
		return err
	}
	if err := t.NumericSimilarity.validate("numeric_similarity"); err != nil {
		return err
	}
	if t.DateToleranceDays < 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "date_tolerance_days must be non-negative")
	}
	return nil
}

// ClassifyField resolves one normalized field comparison into a tier.
// Dates have no gradient: within tolerance is High, beyond it is None.
func (t *Thresholds) ClassifyField(fc FieldComparison) Tier {
	switch fc.Kind {
	case FieldName:
		return t.NameSimilarity.Classify(fc.RawScore)
	case FieldAddress:
		return t.AddressSimilarity.Classify(fc.RawScore)
	case FieldNumericID:
		return t.NumericSimilarity.Classify(fc.RawScore)
	case FieldDate:
		if fc.RawScore <= float64(t.DateToleranceDays) {
			return TierHigh
		}
		return TierNone
	default:
		return TierNone
	}
}

// AliasFor returns the display name for a status, or the canonical name when
// no alias is configured.
func (t *Thresholds) AliasFor(status Status) string {
	if alias, ok := t.StatusAliases[status]; ok && alias != "" {
		return alias
	}
	return string(status)
}
