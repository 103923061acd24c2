package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yaron8/rca-telemetry-synth/generator/config"
	"github.com/yaron8/rca-telemetry-synth/generator/metrics"
	"github.com/yaron8/rca-telemetry-synth/logi"
)

type APIServer struct {
	csvMetrics *metrics.CSVMetrics
	config     *config.Config
	logger     *zap.Logger
	registry   *prometheus.Registry

	mu     sync.Mutex
	server *http.Server

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewAPIServer registers the HTTP metrics with registry, which is also what
// /metrics exposes.
func NewAPIServer(config *config.Config, csvMetrics *metrics.CSVMetrics, registry *prometheus.Registry) *APIServer {
	api := &APIServer{
		config:     config,
		csvMetrics: csvMetrics,
		logger:     logi.GetLogger(),
		registry:   registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
	registry.MustRegister(api.requestsTotal, api.requestDuration)
	return api
}

// Handler returns the routed handler wrapped with the middleware.
func (api *APIServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			api.logger.Error("Error writing health check response", zap.Error(err))
		}
	})

	mux.HandleFunc("/dataset", api.datasetHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(api.registry, promhttp.HandlerOpts{}))

	return api.middleware(mux)
}

// Start serves until Shutdown is called.
func (api *APIServer) Start() error {
	api.logger.Info("APIServer starting", zap.Int("port", api.config.Port))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", api.config.Port),
		Handler:      api.Handler(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	api.mu.Lock()
	api.server = server
	api.mu.Unlock()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (api *APIServer) Shutdown(ctx context.Context) error {
	api.mu.Lock()
	server := api.server
	api.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}
