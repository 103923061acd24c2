package integration_tests

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/yaron8/rca-telemetry-synth/generator/bootstrap"
	"github.com/yaron8/rca-telemetry-synth/generator/config"
)

const (
	maxRetries = 30
	retryDelay = 100 * time.Millisecond
	datasetTTL = 2 * time.Second
	numRows    = 200
)

type IntegrationTestSuite struct {
	suite.Suite
	bootstrap *bootstrap.Bootstrap
	baseURL   string
	serveErr  chan error
}

// SetupSuite runs once before all tests in the suite
func (s *IntegrationTestSuite) SetupSuite() {
	port, err := freePort()
	s.Require().NoError(err, "Failed to find a free port")

	cfg := config.NewConfig()
	cfg.Port = port
	cfg.CacheTTL = datasetTTL
	cfg.Dataset.NumDataPoints = numRows
	cfg.Dataset.Seed = 2024
	cfg.Logging.Dir = s.T().TempDir()

	s.bootstrap, err = bootstrap.New(cfg)
	s.Require().NoError(err, "Failed to bootstrap generator")

	s.baseURL = fmt.Sprintf("http://127.0.0.1:%d", port)
	s.serveErr = make(chan error, 1)
	go func() {
		s.serveErr <- s.bootstrap.StartServer()
	}()

	s.T().Log("Waiting for generator service to be ready...")
	s.waitForService(s.baseURL + "/health")
}

// TearDownSuite runs once after all tests in the suite
func (s *IntegrationTestSuite) TearDownSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.NoError(s.bootstrap.Shutdown(ctx))
	s.NoError(<-s.serveErr)
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
