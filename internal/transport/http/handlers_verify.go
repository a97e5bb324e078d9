package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"veristat/internal/verification"
	dErrors "veristat/pkg/domain-errors"
	"veristat/pkg/httputil"
)

// ThresholdLoader re-reads the threshold configuration from its external
// source. Injected so the transport doesn't depend on the config package.
type ThresholdLoader func() (*verification.Thresholds, error)

// Handler is the thin HTTP layer over the verification service.
type Handler struct {
	service *verification.Service
	reload  ThresholdLoader
	logger  *slog.Logger
}

func NewHandler(service *verification.Service, reload ThresholdLoader, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		reload:  reload,
		logger:  logger,
	}
}

type fieldRequest struct {
	Kind  string  `json:"kind"`
	Score float64 `json:"score"`
}

type evaluateRequest struct {
	SubjectID         string         `json:"subject_id"`
	OverallConfidence float64        `json:"overall_confidence"`
	Fields            []fieldRequest `json:"fields"`
}

type fieldTierResponse struct {
	Kind string `json:"kind"`
	Tier string `json:"tier"`
}

type evaluateResponse struct {
	// Status carries the aliased (display) name; CanonicalStatus the
	// engine's own. Aliasing is applied here and nowhere deeper.
	Status          string              `json:"status"`
	CanonicalStatus string              `json:"canonical_status"`
	OverallTier     string              `json:"overall_tier"`
	FieldTiers      []fieldTierResponse `json:"field_tiers"`
	Reasons         []string            `json:"reasons"`
	EvaluatedAt     time.Time           `json:"evaluated_at"`
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	attempt := verification.Attempt{
		SubjectID:         req.SubjectID,
		OverallConfidence: req.OverallConfidence,
		Fields:            make([]verification.FieldComparison, 0, len(req.Fields)),
	}
	for _, f := range req.Fields {
		kind, err := verification.ParseFieldKind(f.Kind)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		attempt.Fields = append(attempt.Fields, verification.FieldComparison{
			Kind:     kind,
			RawScore: f.Score,
		})
	}

	outcome, err := h.service.Evaluate(r.Context(), attempt)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toEvaluateResponse(h.service.Thresholds(), outcome))
}

func toEvaluateResponse(t *verification.Thresholds, outcome *verification.Outcome) evaluateResponse {
	resp := evaluateResponse{
		Status:          t.AliasFor(outcome.Status),
		CanonicalStatus: string(outcome.Status),
		OverallTier:     string(outcome.OverallTier),
		FieldTiers:      make([]fieldTierResponse, 0, len(outcome.FieldTiers)),
		Reasons:         outcome.Reasons,
		EvaluatedAt:     outcome.EvaluatedAt,
	}
	for _, ft := range outcome.FieldTiers {
		resp.FieldTiers = append(resp.FieldTiers, fieldTierResponse{
			Kind: string(ft.Kind),
			Tier: string(ft.Tier),
		})
	}
	return resp
}

type bandResponse struct {
	High   float64 `json:"high"`
	Medium float64 `json:"medium"`
	Low    float64 `json:"low"`
}

type thresholdsResponse struct {
	Overall struct {
		AutoResolve  float64 `json:"auto_resolve"`
		ManualReview float64 `json:"manual_review"`
		Reject       float64 `json:"reject"`
	} `json:"overall"`
	NameSimilarity    bandResponse      `json:"name_similarity"`
	AddressSimilarity bandResponse      `json:"address_similarity"`
	NumericSimilarity bandResponse      `json:"numeric_similarity"`
	DateToleranceDays int               `json:"date_tolerance_days"`
	UseMismatchStatus bool              `json:"use_mismatch_status"`
	StatusAliases     map[string]string `json:"status_aliases"`
}

func (h *Handler) handleThresholds(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, toThresholdsResponse(h.service.Thresholds()))
}

func toThresholdsResponse(t *verification.Thresholds) thresholdsResponse {
	var resp thresholdsResponse
	resp.Overall.AutoResolve = t.Overall.AutoResolve
	resp.Overall.ManualReview = t.Overall.ManualReview
	resp.Overall.Reject = t.Overall.Reject
	resp.NameSimilarity = bandResponse(t.NameSimilarity)
	resp.AddressSimilarity = bandResponse(t.AddressSimilarity)
	resp.NumericSimilarity = bandResponse(t.NumericSimilarity)
	resp.DateToleranceDays = t.DateToleranceDays
	resp.UseMismatchStatus = t.UseMismatchStatus
	resp.StatusAliases = make(map[string]string, len(t.StatusAliases))
	for status, alias := range t.StatusAliases {
		resp.StatusAliases[string(status)] = alias
	}
	return resp
}

func (h *Handler) handleThresholdsReload(w http.ResponseWriter, r *http.Request) {
	next, err := h.reload()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Reload(r.Context(), next); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toThresholdsResponse(next))
}
