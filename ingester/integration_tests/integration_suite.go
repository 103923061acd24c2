package integration_tests

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	genconfig "github.com/yaron8/rca-telemetry-synth/generator/config"
	"github.com/yaron8/rca-telemetry-synth/generator/dataset"
	"github.com/yaron8/rca-telemetry-synth/generator/metrics"
	genservice "github.com/yaron8/rca-telemetry-synth/generator/service"
	"github.com/yaron8/rca-telemetry-synth/ingester/bootstrap"
	"github.com/yaron8/rca-telemetry-synth/ingester/config"
)

const (
	maxRetries  = 50
	retryDelay  = 100 * time.Millisecond
	numDevices  = 12
	numRows     = 120
	etlInterval = 200 * time.Millisecond
)

// IntegrationTestSuite runs the generator API, an in-memory Redis and the
// ingester in process.
type IntegrationTestSuite struct {
	suite.Suite
	generator *httptest.Server
	redis     *miniredis.Miniredis
	bootstrap *bootstrap.Bootstrap
	baseURL   string
	serveErr  chan error
}

// SetupSuite runs once before all tests in the suite
func (s *IntegrationTestSuite) SetupSuite() {
	genCfg := genconfig.NewConfig()
	genCfg.Dataset.NumDevices = numDevices
	genCfg.Dataset.NumDataPoints = numRows
	genCfg.Dataset.Seed = 7
	csvMetrics := metrics.NewCSVMetrics(time.Minute, dataset.NewGenerator(genCfg, nil).Generate)
	s.generator = httptest.NewServer(genservice.NewAPIServer(genCfg, csvMetrics, prometheus.NewRegistry()).Handler())

	var err error
	s.redis, err = miniredis.Run()
	s.Require().NoError(err, "Failed to start miniredis")
	redisPort, err := strconv.Atoi(s.redis.Port())
	s.Require().NoError(err)

	port, err := freePort()
	s.Require().NoError(err, "Failed to find a free port")

	cfg := config.NewConfig()
	cfg.Port = port
	cfg.Redis.Host = s.redis.Host()
	cfg.Redis.Port = redisPort
	cfg.ETL.Interval = etlInterval
	cfg.ETL.GeneratorURL = s.generator.URL
	cfg.Logging.LogDir = s.T().TempDir()

	s.bootstrap, err = bootstrap.New(cfg)
	s.Require().NoError(err, "Failed to bootstrap ingester")

	s.baseURL = fmt.Sprintf("http://127.0.0.1:%d", port)
	s.serveErr = make(chan error, 1)
	go func() {
		s.serveErr <- s.bootstrap.Start()
	}()

	s.T().Log("Waiting for ingester service to be ready...")
	s.waitForService(s.baseURL + "/health")
}

// TearDownSuite runs once after all tests in the suite
func (s *IntegrationTestSuite) TearDownSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.NoError(s.bootstrap.Shutdown(ctx))
	s.NoError(<-s.serveErr)
	s.generator.Close()
	s.redis.Close()
}

// waitForService waits for a service to become available
func (s *IntegrationTestSuite) waitForService(url string) {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	for i := 0; i < maxRetries; i++ {
		resp, err := client.Get(url)
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			s.T().Logf("Service at %s is ready", url)
			return
		}
		if resp != nil {
			resp.Body.Close()
		}

		time.Sleep(retryDelay)
	}

	s.Require().Fail(fmt.Sprintf("Service at %s did not become ready after %d attempts", url, maxRetries))
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
