package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"veristat/internal/audit"
	"veristat/internal/verification"
	dErrors "veristat/pkg/domain-errors"
)

type nopAuditor struct{}

func (nopAuditor) Emit(context.Context, audit.Event) error { return nil }

// HandlerSuite tests the HTTP layer: request parsing, alias application, and
// domain error translation. Scores and statuses themselves are covered by the
// verification package tests.
type HandlerSuite struct {
	suite.Suite
	handler *Handler
	service *verification.Service
	loadErr error
	loaded  *verification.Thresholds
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.service = verification.New(verification.Default(), nopAuditor{})
	s.loadErr = nil
	s.loaded = verification.Default()
	loader := func() (*verification.Thresholds, error) {
		return s.loaded, s.loadErr
	}
	s.handler = NewHandler(s.service, loader, nil)
}

func (s *HandlerSuite) postEvaluate(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/verify/evaluate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.handleEvaluate(rec, req)
	return rec
}

func (s *HandlerSuite) TestEvaluate() {
	s.Run("verified outcome returns aliased status", func() {
		rec := s.postEvaluate(`{
			"subject_id": "subject-1",
			"overall_confidence": 90,
			"fields": [
				{"kind": "name", "score": 0.95},
				{"kind": "date", "score": 0}
			]
		}`)
		s.Require().Equal(http.StatusOK, rec.Code)

		var resp evaluateResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal("approved", resp.Status, "alias table maps verified to approved")
		s.Equal("verified", resp.CanonicalStatus)
		s.Equal("auto_resolve", resp.OverallTier)
		s.Require().Len(resp.FieldTiers, 2)
		s.Equal("name", resp.FieldTiers[0].Kind)
		s.Equal("high", resp.FieldTiers[0].Tier)
	})

	s.Run("failed outcome returns rejected alias", func() {
		rec := s.postEvaluate(`{"subject_id": "subject-2", "overall_confidence": 20, "fields": []}`)
		s.Require().Equal(http.StatusOK, rec.Code)

		var resp evaluateResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal("rejected", resp.Status)
		s.Equal("failed", resp.CanonicalStatus)
	})

	s.Run("unknown field kind is a 400", func() {
		rec := s.postEvaluate(`{"overall_confidence": 90, "fields": [{"kind": "dob", "score": 0.9}]}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "bad_request")
	})

	s.Run("malformed body is a 400", func() {
		rec := s.postEvaluate(`{"overall_confidence": `)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("out-of-range scores are clamped, not rejected", func() {
		rec := s.postEvaluate(`{"overall_confidence": 150, "fields": [{"kind": "name", "score": 1.5}]}`)
		s.Require().Equal(http.StatusOK, rec.Code)

		var resp evaluateResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal("approved", resp.Status)
		s.NotEmpty(resp.Reasons)
	})
}

func (s *HandlerSuite) TestThresholds() {
	req := httptest.NewRequest(http.MethodGet, "/verify/thresholds", nil)
	rec := httptest.NewRecorder()
	s.handler.handleThresholds(rec, req)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp thresholdsResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(85.0, resp.Overall.AutoResolve)
	s.Equal(0.85, resp.NameSimilarity.High)
	s.Equal(1, resp.DateToleranceDays)
	s.Equal("approved", resp.StatusAliases["verified"])
}

func (s *HandlerSuite) TestThresholdsReload() {
	s.Run("successful reload swaps the snapshot", func() {
		s.loaded = verification.Default()
		s.loaded.Overall.AutoResolve = 95.0

		req := httptest.NewRequest(http.MethodPost, "/verify/thresholds/reload", nil)
		rec := httptest.NewRecorder()
		s.handler.handleThresholdsReload(rec, req)

		s.Require().Equal(http.StatusOK, rec.Code)
		s.Equal(95.0, s.service.Thresholds().Overall.AutoResolve)
	})

	s.Run("loader failure surfaces as an error response", func() {
		s.loadErr = dErrors.New(dErrors.CodeInvariantViolation, "overall thresholds must satisfy auto_resolve > manual_review > reject")
		before := s.service.Thresholds()

		req := httptest.NewRequest(http.MethodPost, "/verify/thresholds/reload", nil)
		rec := httptest.NewRecorder()
		s.handler.handleThresholdsReload(rec, req)

		s.Equal(http.StatusBadRequest, rec.Code)
		s.Same(before, s.service.Thresholds(), "failed reload must keep the old snapshot")
	})
}
