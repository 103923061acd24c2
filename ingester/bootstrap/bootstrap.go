package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yaron8/rca-telemetry-synth/ingester/config"
	"github.com/yaron8/rca-telemetry-synth/ingester/dao"
	"github.com/yaron8/rca-telemetry-synth/ingester/etl"
	"github.com/yaron8/rca-telemetry-synth/ingester/service"
	"github.com/yaron8/rca-telemetry-synth/logi"
)

type Bootstrap struct {
	config      *config.Config
	redisClient *redis.Client
	etl         *etl.ETL
	apiServer   *service.APIServer
	logger      *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewBootstrap() (*Bootstrap, error) {
	return New(config.NewConfig())
}

// New wires the Redis client, ETL and API server for cfg.
func New(cfg *config.Config) (*Bootstrap, error) {
	logger, err := logi.NewLog(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: "", // no password set
		DB:       0,  // use default DB
		Protocol: 2,
	})

	daoObservations := dao.NewDAOObservations(redisClient, cfg.Redis.TTL)
	ctx, cancel := context.WithCancel(context.Background())

	return &Bootstrap{
		config:      cfg,
		redisClient: redisClient,
		etl:         etl.NewETL(daoObservations, cfg.ETL.Interval, cfg.ETL.GeneratorURL),
		apiServer:   service.NewAPIServer(cfg, daoObservations),
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}, nil
}

// Start runs the ETL loop in the background and serves the API until Shutdown.
func (b *Bootstrap) Start() error {
	b.logger.Info("Ingester starting",
		zap.String("redis", fmt.Sprintf("%s:%d", b.config.Redis.Host, b.config.Redis.Port)),
		zap.String("generator_url", b.config.ETL.GeneratorURL))

	go b.etl.Run(b.ctx)

	return b.apiServer.Start()
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	b.cancel()
	if err := b.apiServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down API server: %w", err)
	}
	return b.redisClient.Close()
}
