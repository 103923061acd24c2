// Package store persists generated runs to SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/yaron8/rca-telemetry-synth/generator/dataset"
	"github.com/yaron8/rca-telemetry-synth/telemetrics"
)

var ErrRunNotFound = errors.New("run not found")

// generatedAtLayout sorts lexically in time order.
const generatedAtLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	seed         INTEGER NOT NULL,
	generated_at TEXT NOT NULL,
	row_count    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS observations (
	run_id                    TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq                       INTEGER NOT NULL,
	"Timestamp"               TEXT NOT NULL,
	"EquipmentID"             TEXT NOT NULL,
	"EquipmentType"           TEXT NOT NULL,
	"Location"                TEXT NOT NULL,
	"EquipmentAgeDays"        INTEGER NOT NULL,
	"Alarm_SpanLoss"          INTEGER NOT NULL,
	"Alarm_OpticalReturnLoss" INTEGER NOT NULL,
	"Alarm_Temperature"       INTEGER NOT NULL,
	"Alarm_Voltage"           INTEGER NOT NULL,
	"SpanLoss"                REAL NOT NULL,
	"OpticalReturnLoss"       REAL NOT NULL,
	"Temperature"             REAL NOT NULL,
	"Voltage"                 REAL NOT NULL,
	"PowerOutage"             INTEGER NOT NULL,
	"FiberCut"                INTEGER NOT NULL,
	"ParentDeviceID"          TEXT NOT NULL,
	"upstream_status"         TEXT NOT NULL,
	"downstream_status"       TEXT NOT NULL,
	"interface_status"        TEXT NOT NULL,
	"interface_in_errors"     INTEGER NOT NULL,
	"interface_out_errors"    INTEGER NOT NULL,
	"cpu_utilization"         INTEGER NOT NULL,
	"memory_utilization"      INTEGER NOT NULL,
	"temperature_status"      TEXT NOT NULL,
	"fan_status"              TEXT NOT NULL,
	"power_status"            TEXT NOT NULL,
	"alarms_count"            INTEGER NOT NULL,
	"downstream_impact_score" REAL NOT NULL,
	"IsRootCause"             INTEGER NOT NULL,
	"FaultInjected"           INTEGER NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE INDEX IF NOT EXISTS idx_observations_root_cause ON observations(run_id, "IsRootCause");
`

// RunSummary is the stored header of a run.
type RunSummary struct {
	ID          string
	Seed        int64
	GeneratedAt time.Time
	RowCount    int
}

type SQLiteStore struct {
	db *sql.DB
}

// New opens (or creates) the database at path and applies the schema.
func New(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Tx executes fn within a transaction, committing when fn returns nil.
func (s *SQLiteStore) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}

// SaveRun writes the run header and every row in one transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *dataset.Run) error {
	return s.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, seed, generated_at, row_count) VALUES (?, ?, ?, ?)`,
			run.ID.String(), run.Seed, run.GeneratedAt.UTC().Format(generatedAtLayout), len(run.Rows))
		if err != nil {
			return fmt.Errorf("insert run %s: %w", run.ID, err)
		}

		stmt, err := tx.PrepareContext(ctx, insertObservation)
		if err != nil {
			return fmt.Errorf("prepare observation insert: %w", err)
		}
		defer stmt.Close()

		for i, row := range run.Rows {
			args := append([]any{run.ID.String(), i}, row.Values()...)
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("insert observation %d: %w", i, err)
			}
		}
		return nil
	})
}

// LatestRun returns the most recently generated run.
func (s *SQLiteStore) LatestRun(ctx context.Context) (*RunSummary, error) {
	var (
		sum RunSummary
		at  string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, seed, generated_at, row_count FROM runs ORDER BY generated_at DESC LIMIT 1`,
	).Scan(&sum.ID, &sum.Seed, &at, &sum.RowCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}

	sum.GeneratedAt, err = time.Parse(generatedAtLayout, at)
	if err != nil {
		return nil, fmt.Errorf("parse generated_at %q: %w", at, err)
	}
	return &sum, nil
}

// CountObservations returns the total and root-cause row counts of a run.
func (s *SQLiteStore) CountObservations(ctx context.Context, runID string) (total, rootCauses int, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM("IsRootCause"), 0) FROM observations WHERE run_id = ?`, runID,
	).Scan(&total, &rootCauses)
	if err != nil {
		return 0, 0, fmt.Errorf("count observations of %s: %w", runID, err)
	}
	return total, rootCauses, nil
}

var insertObservation = fmt.Sprintf("INSERT INTO observations (run_id, seq, %s) VALUES (%s)",
	observationColumns(),
	strings.TrimSuffix(strings.Repeat("?, ", len(telemetrics.GetCSVHeader())+2), ", "))

// observationColumns quotes the header columns in order.
func observationColumns() string {
	header := telemetrics.GetCSVHeader()
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = `"` + h + `"`
	}
	return strings.Join(cols, ", ")
}
