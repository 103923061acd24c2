package bootstrap

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaron8/rca-telemetry-synth/generator/config"
	"github.com/yaron8/rca-telemetry-synth/generator/store"
	"github.com/yaron8/rca-telemetry-synth/telemetrics"
)

func TestRunOnce_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	cfg := config.NewConfig()
	cfg.Dataset.NumDataPoints = 60
	cfg.Dataset.Seed = 17
	cfg.Output.CSVPath = filepath.Join(dir, "telecom.csv")
	cfg.Output.SQLitePath = filepath.Join(dir, "runs.db")
	cfg.Logging.Dir = dir

	b, err := New(cfg)
	require.NoError(t, err)

	ctx := context.Background()
	run, err := b.RunOnce(ctx)
	require.NoError(t, err)
	require.Len(t, run.Rows, 60)

	f, err := os.Open(cfg.Output.CSVPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 61)
	assert.Equal(t, telemetrics.GetCSVHeader(), records[0])

	s, err := store.New(ctx, cfg.Output.SQLitePath)
	require.NoError(t, err)
	defer s.Close()
	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, run.ID.String(), latest.ID)
	assert.Equal(t, 60, latest.RowCount)

	families, err := b.registry.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["rcagen_rows_total"])
	assert.True(t, names["rcagen_runs_total"])
}

func TestRunOnce_GenerationError(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Catalog.Devices = nil
	cfg.Output.CSVPath = filepath.Join(t.TempDir(), "never.csv")
	cfg.Logging.Dir = t.TempDir()

	b, err := New(cfg)
	require.NoError(t, err)

	_, err = b.RunOnce(context.Background())
	assert.ErrorContains(t, err, "device catalog is empty")
	assert.NoFileExists(t, cfg.Output.CSVPath)
}

func TestNewBootstrap_BadConfig(t *testing.T) {
	_, err := NewBootstrap(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "failed to load config")
}

func TestSaveRun_ReportsStoredCounts(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Dataset.NumDataPoints = 80
	cfg.Dataset.Seed = 3
	cfg.Logging.Dir = t.TempDir()

	b, err := New(cfg)
	require.NoError(t, err)
	run, err := b.generator.Generate()
	require.NoError(t, err)

	persisted, err := saveRun(context.Background(), filepath.Join(t.TempDir(), "runs.db"), run)
	require.NoError(t, err)

	rootCauses := 0
	for _, row := range run.Rows {
		if row.IsRootCause {
			rootCauses++
		}
	}
	assert.Equal(t, run.ID.String(), persisted.ID)
	assert.Equal(t, 80, persisted.RowCount)
	assert.Equal(t, rootCauses, persisted.RootCauses)
}
