// Package metrics exposes Prometheus instrumentation for the discovery
// pipeline: engine calls, candidate filtering, page fetches and lead outcomes.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EngineRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadburr_engine_requests_total",
			Help: "Search engine calls by engine and outcome (ok, empty, error)",
		},
		[]string{"engine", "outcome"},
	)

	EngineResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadburr_engine_results_total",
			Help: "Raw results returned by each search engine",
		},
		[]string{"engine"},
	)

	CandidatesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadburr_candidates_rejected_total",
			Help: "Candidates dropped during aggregation by reason",
		},
		[]string{"reason"},
	)

	PageFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadburr_page_fetches_total",
			Help: "Enrichment page fetches by outcome (ok, error, blocked)",
		},
		[]string{"outcome"},
	)

	PageFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leadburr_page_fetch_duration_seconds",
			Help:    "Duration of enrichment page fetches in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	BotDetections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadburr_bot_detections_total",
			Help: "Responses recognised as bot-protection challenges",
		},
		[]string{"source"},
	)

	LeadOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadburr_lead_outcomes_total",
			Help: "Final classification of enriched candidates",
		},
		[]string{"outcome"},
	)

	ProxyFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadburr_proxy_failures_total",
			Help: "Requests that failed through a proxy",
		},
		[]string{"proxy_url"},
	)
)

// RecordFetch observes one enrichment fetch.
func RecordFetch(outcome string, d time.Duration) {
	PageFetches.WithLabelValues(outcome).Inc()
	PageFetchDuration.Observe(d.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Server encapsulates an HTTP server for Prometheus metrics.
type Server struct {
	srv *http.Server
}

// Start begins listening on addr (e.g. ":9090") and exposes /metrics.
func Start(addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", addr, "err", err)
		}
	}()

	return &Server{srv: srv}
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	if s == nil || s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
