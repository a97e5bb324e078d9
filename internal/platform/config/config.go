package config

import (
	"os"
	"strconv"

	"veristat/internal/verification"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr        string
	Environment string
	AuditBuffer int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("VERISTAT_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	env := os.Getenv("VERISTAT_ENV")
	if env == "" {
		env = "development"
	}
	auditBuffer := envInt("VERISTAT_AUDIT_BUFFER", 256)

	return Server{
		Addr:        addr,
		Environment: env,
		AuditBuffer: auditBuffer,
	}
}

// LoadThresholds builds the verification threshold set from environment
// variables layered over the shipped defaults, and validates it. An invalid
// set is a fatal configuration error; callers must refuse to serve.
func LoadThresholds() (*verification.Thresholds, error) {
	t := verification.Default()

	t.Overall.AutoResolve = envFloat("VERIFY_OVERALL_AUTO_RESOLVE", t.Overall.AutoResolve)
	t.Overall.ManualReview = envFloat("VERIFY_OVERALL_MANUAL_REVIEW", t.Overall.ManualReview)
	t.Overall.Reject = envFloat("VERIFY_OVERALL_REJECT", t.Overall.Reject)

	loadBand("VERIFY_NAME", &t.NameSimilarity)
	loadBand("VERIFY_ADDRESS", &t.AddressSimilarity)
	loadBand("VERIFY_NUMERIC", &t.NumericSimilarity)

	t.DateToleranceDays = envInt("VERIFY_DATE_TOLERANCE_DAYS", t.DateToleranceDays)
	t.UseMismatchStatus = envBool("VERIFY_USE_MISMATCH_STATUS", t.UseMismatchStatus)

	loadAlias(t, verification.StatusVerified, "VERIFY_STATUS_ALIAS_VERIFIED")
	loadAlias(t, verification.StatusMismatch, "VERIFY_STATUS_ALIAS_MISMATCH")
	loadAlias(t, verification.StatusManualReview, "VERIFY_STATUS_ALIAS_MANUAL_REVIEW")
	loadAlias(t, verification.StatusFailed, "VERIFY_STATUS_ALIAS_FAILED")

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func loadBand(prefix string, b *verification.Band) {
	b.High = envFloat(prefix+"_HIGH", b.High)
	b.Medium = envFloat(prefix+"_MEDIUM", b.Medium)
	b.Low = envFloat(prefix+"_LOW", b.Low)
}

func loadAlias(t *verification.Thresholds, status verification.Status, key string) {
	if v := os.Getenv(key); v != "" {
		t.StatusAliases[status] = v
	}
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
