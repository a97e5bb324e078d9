package verification

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"veristat/internal/audit"
	"veristat/internal/verification/metrics"
	"veristat/internal/verification/tracer"
	dErrors "veristat/pkg/domain-errors"
	"veristat/pkg/requestcontext"
)

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service wraps the pure resolution engine with the operational concerns a
// caller should not carry: audit trail, metrics, tracing, and an atomically
// swappable threshold snapshot so hot reloads never expose a half-updated set
// to in-flight evaluations.
type Service struct {
	thresholds atomic.Pointer[Thresholds]
	auditor    AuditPublisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
	tracer     tracer.Tracer
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics collector for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithTracer sets the tracer for the service.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New creates a verification service with required dependencies.
// Panics on nil or invalid required inputs - fail fast at startup. The
// auditor is required: resolved attempts must leave an audit trail.
func New(thresholds *Thresholds, auditor AuditPublisher, opts ...Option) *Service {
	if thresholds == nil {
		panic("verification.New: thresholds are required")
	}
	if err := thresholds.Validate(); err != nil {
		panic("verification.New: invalid thresholds: " + err.Error())
	}
	if auditor == nil {
		panic("verification.New: auditor is required for audit trail")
	}

	s := &Service{auditor: auditor}
	s.thresholds.Store(thresholds)
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = tracer.NewNoop()
	}
	return s
}

// Thresholds returns the current snapshot. Callers must not mutate it.
func (s *Service) Thresholds() *Thresholds {
	return s.thresholds.Load()
}

// Reload validates the new threshold set and swaps it in atomically.
// In-flight evaluations keep the snapshot they started with. The swap is
// recorded in the audit trail best-effort; a failed audit emit never blocks
// a reload that already took effect.
func (s *Service) Reload(ctx context.Context, t *Thresholds) error {
	if t == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "thresholds must not be nil")
	}
	if err := t.Validate(); err != nil {
		return err
	}
	s.thresholds.Store(t)
	if s.metrics != nil {
		s.metrics.IncrementThresholdReload()
	}
	if s.logger != nil {
		s.logger.Info("threshold snapshot reloaded",
			"auto_resolve", t.Overall.AutoResolve,
			"manual_review", t.Overall.ManualReview,
			"use_mismatch_status", t.UseMismatchStatus,
		)
	}

	event := audit.Event{
		Timestamp: time.Now(),
		Action:    string(audit.EventThresholdsReloaded),
		RequestID: requestcontext.RequestID(ctx),
	}
	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit threshold reload audit event", "error", err)
	}
	return nil
}

// Evaluate resolves one verification attempt. This is the main entry point:
// it classifies against the current threshold snapshot, emits an audit event,
// and records metrics. The classification itself never fails; only the audit
// trail can surface an error, and only for high-consequence outcomes.
func (s *Service) Evaluate(ctx context.Context, attempt Attempt) (*Outcome, error) {
	// Single authoritative timestamp for the entire evaluation.
	evalTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveEvaluateLatency(time.Since(evalTime))
		}
	}()

	ctx, span := s.tracer.Start(ctx, tracer.SpanEvaluate,
		tracer.String(tracer.AttrSubjectHash, tracer.HashSubjectID(attempt.SubjectID)),
		tracer.Int64(tracer.AttrFieldCount, int64(len(attempt.Fields))),
	)

	snapshot := s.thresholds.Load()
	outcome := Evaluate(snapshot, attempt, evalTime)

	span.SetAttributes(
		tracer.String(tracer.AttrStatus, string(outcome.Status)),
		tracer.String(tracer.AttrOverallTier, string(outcome.OverallTier)),
	)

	if err := s.emitAudit(ctx, attempt, outcome, evalTime); err != nil {
		span.End(err)
		return nil, err
	}
	span.AddEvent(tracer.EventAuditEmitted)
	span.End(nil)

	if s.metrics != nil {
		s.metrics.IncrementOutcome(string(outcome.Status))
		for _, dim := range outcome.Clamped {
			s.metrics.IncrementClamped(dim)
		}
	}

	return outcome, nil
}

// emitAudit publishes a resolution audit event.
//
// Audit semantics vary by outcome:
//   - Failed and Mismatch: fail-closed (audit failure blocks the response).
//     Adverse outcomes must have a recorded trail before callers act on them.
//   - Verified and ManualReview: fail-open (audit failure is best-effort).
func (s *Service) emitAudit(ctx context.Context, attempt Attempt, outcome *Outcome, evalTime time.Time) error {
	reason := ""
	if len(outcome.Reasons) > 0 {
		reason = outcome.Reasons[len(outcome.Reasons)-1]
	}
	event := audit.Event{
		Timestamp: evalTime,
		SubjectID: attempt.SubjectID,
		Action:    string(audit.EventAttemptResolved),
		Status:    string(outcome.Status),
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
	}

	isAdverse := outcome.Status == StatusFailed || outcome.Status == StatusMismatch
	if isAdverse {
		if err := s.auditor.Emit(ctx, event); err != nil {
			if s.logger != nil {
				s.logger.ErrorContext(ctx, "CRITICAL: audit failed for adverse outcome - blocking response",
					"subject_id", attempt.SubjectID,
					"status", outcome.Status,
					"error", err,
				)
			}
			return dErrors.New(dErrors.CodeInternal, "verification audit unavailable")
		}
		return nil
	}

	// Best-effort for non-adverse outcomes
	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit verification audit event",
			"error", err,
			"subject_id", attempt.SubjectID,
		)
	}
	return nil
}
