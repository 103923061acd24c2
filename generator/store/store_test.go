package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaron8/rca-telemetry-synth/generator/config"
	"github.com/yaron8/rca-telemetry-synth/generator/dataset"
	"github.com/yaron8/rca-telemetry-synth/telemetrics"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "rcagen.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// readObservations reads the rows of a run back in generation order.
func readObservations(t *testing.T, s *SQLiteStore, runID string) []telemetrics.Row {
	t.Helper()
	query := fmt.Sprintf("SELECT %s FROM observations WHERE run_id = ? ORDER BY seq", observationColumns())
	rows, err := s.db.QueryContext(context.Background(), query, runID)
	require.NoError(t, err)
	defer rows.Close()

	fields := make([]string, len(telemetrics.GetCSVHeader()))
	dest := make([]any, len(fields))
	for i := range fields {
		dest[i] = &fields[i]
	}

	var out []telemetrics.Row
	for rows.Next() {
		require.NoError(t, rows.Scan(dest...))
		row, err := telemetrics.ParseCSVRecord(fields)
		require.NoError(t, err)
		out = append(out, row)
	}
	require.NoError(t, rows.Err())
	return out
}

func generate(t *testing.T, rows int) *dataset.Run {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Dataset.NumDataPoints = rows
	cfg.Dataset.Seed = 5
	run, err := dataset.NewGenerator(cfg, nil).Generate()
	require.NoError(t, err)
	return run
}

func TestSaveRun_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	run := generate(t, 300)

	require.NoError(t, s.SaveRun(ctx, run))

	total, rootCauses, err := s.CountObservations(ctx, run.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 300, total)

	want := 0
	for _, row := range run.Rows {
		if row.IsRootCause {
			want++
		}
	}
	assert.Equal(t, want, rootCauses)

	assert.Equal(t, run.Rows, readObservations(t, s, run.ID.String()))
}

func TestLatestRun(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.LatestRun(ctx)
	assert.ErrorIs(t, err, ErrRunNotFound)

	older := &dataset.Run{ID: uuid.New(), Seed: 1, GeneratedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := &dataset.Run{ID: uuid.New(), Seed: 2, GeneratedAt: time.Date(2024, 1, 1, 0, 0, 0, 500, time.UTC)}
	require.NoError(t, s.SaveRun(ctx, newer))
	require.NoError(t, s.SaveRun(ctx, older))

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, newer.ID.String(), latest.ID)
	assert.Equal(t, int64(2), latest.Seed)
	assert.Equal(t, 0, latest.RowCount)
	assert.True(t, newer.GeneratedAt.Equal(latest.GeneratedAt))
}

func TestSaveRun_DuplicateRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	run := generate(t, 20)

	require.NoError(t, s.SaveRun(ctx, run))
	assert.Error(t, s.SaveRun(ctx, run))

	total, _, err := s.CountObservations(ctx, run.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 20, total)
}

func TestCountObservations_UnknownRun(t *testing.T) {
	s := newTestStore(t)

	total, rootCauses, err := s.CountObservations(context.Background(), "missing")
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Zero(t, rootCauses)
}

func TestObservationQueries(t *testing.T) {
	assert.Contains(t, insertObservation, `INSERT INTO observations (run_id, seq, "Timestamp", "EquipmentID"`)
	assert.Contains(t, insertObservation, `"FaultInjected") VALUES (?, ?, ?`)
	assert.Contains(t, selectObservations, `FROM observations WHERE run_id = ? ORDER BY seq`)
}
