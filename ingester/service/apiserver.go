package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yaron8/rca-telemetry-synth/ingester/config"
	"github.com/yaron8/rca-telemetry-synth/ingester/dao"
	"github.com/yaron8/rca-telemetry-synth/logi"
)

type APIServer struct {
	config *config.Config
	dao    *dao.DAOObservations
	logger *zap.Logger

	mu     sync.Mutex
	server *http.Server
}

func NewAPIServer(config *config.Config, dao *dao.DAOObservations) *APIServer {
	return &APIServer{
		config: config,
		dao:    dao,
		logger: logi.GetLogger(),
	}
}

// Handler returns the routed telemetry API.
func (api *APIServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			api.logger.Error("Error writing health check response", zap.Error(err))
		}
	})

	// Telemetry endpoints
	r.Route("/telemetry", func(r chi.Router) {
		r.Get("/ListDevices", api.ListDevicesHandler)
		r.Get("/GetObservation", api.GetObservationHandler)
		r.Get("/RootCauses", api.RootCausesHandler)
	})

	return r
}

// Start initializes and starts the HTTP server
func (api *APIServer) Start() error {
	api.logger.Info("Ingester APIServer starting", zap.Int("port", api.config.Port))

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
		api.logger.Error("Server failed to start", zap.Error(err), zap.Int("port", api.config.Port))
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
