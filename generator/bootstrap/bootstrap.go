package bootstrap

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/yaron8/rca-telemetry-synth/generator/config"
	"github.com/yaron8/rca-telemetry-synth/generator/dataset"
	"github.com/yaron8/rca-telemetry-synth/generator/metrics"
	"github.com/yaron8/rca-telemetry-synth/generator/publish"
	"github.com/yaron8/rca-telemetry-synth/generator/service"
	"github.com/yaron8/rca-telemetry-synth/generator/stats"
	"github.com/yaron8/rca-telemetry-synth/generator/store"
	"github.com/yaron8/rca-telemetry-synth/logi"
)

type Bootstrap struct {
	config    *config.Config
	registry  *prometheus.Registry
	generator *dataset.Generator
	logger    *zap.Logger

	mu  sync.Mutex
	api *service.APIServer
}

// NewBootstrap loads the configuration, initializes the logger and wires the
// generator to the Prometheus registry.
func NewBootstrap(configPath string) (*Bootstrap, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return New(cfg)
}

// New wires an already loaded configuration.
func New(cfg *config.Config) (*Bootstrap, error) {
	logger, err := logi.NewLog(cfg.Logging.LogConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Bootstrap{
		config:    cfg,
		registry:  registry,
		generator: dataset.NewGenerator(cfg, stats.NewCollector(registry)),
		logger:    logger,
	}, nil
}

// RunOnce generates a single dataset and writes it to every configured output.
func (b *Bootstrap) RunOnce(ctx context.Context) (*dataset.Run, error) {
	run, err := b.generator.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate dataset: %w", err)
	}

	out := b.config.Output
	if out.CSVPath != "" {
		if err := writeCSVFile(out.CSVPath, run); err != nil {
			return nil, err
		}
		b.logger.Info("dataset written", zap.String("path", out.CSVPath))
	}

	if out.SQLitePath != "" {
		persisted, err := saveRun(ctx, out.SQLitePath, run)
		if err != nil {
			return nil, err
		}
		b.logger.Info("run persisted",
			zap.String("path", out.SQLitePath),
			zap.String("run_id", persisted.ID),
			zap.Int("rows", persisted.RowCount),
			zap.Int("root_causes", persisted.RootCauses))
	}

	if out.NATSURL != "" {
		pub, err := publish.NewPublisher(out.NATSURL, out.NATSSubject)
		if err != nil {
			return nil, err
		}
		defer pub.Close()
		if err := pub.PublishRun(run); err != nil {
			return nil, err
		}
	}

	b.logger.Info(fmt.Sprintf("Generated dataset with %d rows", len(run.Rows)), zap.String("run_id", run.ID.String()))
	return run, nil
}

// StartServer serves the dataset over HTTP, regenerating it when the snapshot expires.
func (b *Bootstrap) StartServer() error {
	csvMetrics := metrics.NewCSVMetrics(b.config.CacheTTL, b.generator.Generate)
	api := service.NewAPIServer(b.config, csvMetrics, b.registry)

	b.mu.Lock()
	b.api = api
	b.mu.Unlock()

	return api.Start()
}

// Shutdown stops a server started by StartServer.
func (b *Bootstrap) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	api := b.api
	b.mu.Unlock()

	if api == nil {
		return nil
	}
	return api.Shutdown(ctx)
}

func writeCSVFile(path string, run *dataset.Run) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	if err := metrics.WriteCSV(f, run.Rows); err != nil {
		f.Close()
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return f.Close()
}

// persistedRun is what the store holds for a run after saveRun.
type persistedRun struct {
	store.RunSummary
	RootCauses int
}

// saveRun stores run and reads back the latest run header and its counts.
func saveRun(ctx context.Context, path string, run *dataset.Run) (*persistedRun, error) {
	s, err := store.New(ctx, path)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if err := s.SaveRun(ctx, run); err != nil {
		return nil, err
	}

	latest, err := s.LatestRun(ctx)
	if err != nil {
		return nil, err
	}
	total, rootCauses, err := s.CountObservations(ctx, latest.ID)
	if err != nil {
		return nil, err
	}
	if total != latest.RowCount {
		return nil, fmt.Errorf("run %s: stored %d observations, header says %d", latest.ID, total, latest.RowCount)
	}
	return &persistedRun{RunSummary: *latest, RootCauses: rootCauses}, nil
}
