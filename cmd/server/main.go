package main

import (
	"net/http"
	"os"
	"os/signal"
	"time"

	"veristat/internal/audit"
	"veristat/internal/platform/config"
	"veristat/internal/platform/health"
	"veristat/internal/platform/httpserver"
	"veristat/internal/platform/logger"
	platformmetrics "veristat/internal/platform/metrics"
	httptransport "veristat/internal/transport/http"
	"veristat/internal/verification"
	"veristat/internal/verification/metrics"
	"veristat/internal/verification/tracer"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/verification.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	thresholds, err := config.LoadThresholds()
	if err != nil {
		// An inconsistent threshold set must never classify anything.
		log.Error("invalid verification thresholds", "error", err)
		os.Exit(1)
	}

	log.Info("initializing veristat",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"use_mismatch_status", thresholds.UseMismatchStatus,
	)

	auditStore := audit.NewInMemoryStore()
	auditor := audit.NewPublisher(auditStore,
		audit.WithAsyncBuffer(cfg.AuditBuffer),
		audit.WithPublisherLogger(log),
	)
	defer auditor.Close()

	service := verification.New(thresholds, auditor,
		verification.WithMetrics(metrics.New()),
		verification.WithLogger(log),
		verification.WithTracer(tracer.NewOTel()),
	)

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("thresholds", func() error {
		return service.Thresholds().Validate()
	})

	handler := httptransport.NewHandler(service, config.LoadThresholds, log)
	router := httptransport.NewRouter(handler, healthHandler, platformmetrics.New(), log)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	if err := httpserver.Shutdown(srv, 10*time.Second); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
