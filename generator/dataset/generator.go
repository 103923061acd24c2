// Package dataset runs the observation loop over the active fleet and collects
// the labeled rows of one run.
package dataset

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yaron8/rca-telemetry-synth/generator/config"
	"github.com/yaron8/rca-telemetry-synth/generator/correlation"
	"github.com/yaron8/rca-telemetry-synth/generator/faults"
	"github.com/yaron8/rca-telemetry-synth/generator/fleet"
	"github.com/yaron8/rca-telemetry-synth/generator/randsrc"
	"github.com/yaron8/rca-telemetry-synth/generator/topology"
	"github.com/yaron8/rca-telemetry-synth/logi"
	"github.com/yaron8/rca-telemetry-synth/telemetrics"
)

var ErrNoLocations = errors.New("catalog has no locations")

// Recorder observes rows as they are produced and the end of each run.
type Recorder interface {
	Record(row telemetrics.Row)
	RunCompleted(elapsed time.Duration)
}

// Run is the output of one generation.
type Run struct {
	ID          uuid.UUID
	Seed        int64
	GeneratedAt time.Time
	Rows        []telemetrics.Row
}

type Generator struct {
	cfg      *config.Config
	recorder Recorder
	logger   *zap.Logger
}

// NewGenerator returns a generator for cfg. recorder may be nil.
func NewGenerator(cfg *config.Config, recorder Recorder) *Generator {
	return &Generator{
		cfg:      cfg,
		recorder: recorder,
		logger:   logi.GetLogger(),
	}
}

// Generate produces a full run. It fails before emitting any row when the
// catalog is empty or the topology cannot be built.
func (g *Generator) Generate() (*Run, error) {
	began := time.Now()
	ds := g.cfg.Dataset
	ids := g.cfg.Catalog.Devices
	locations := g.cfg.Catalog.Locations

	if len(ids) == 0 {
		return nil, topology.ErrEmptyCatalog
	}
	if len(locations) == 0 {
		return nil, ErrNoLocations
	}

	src := randsrc.New(ds.Seed)
	parents, err := topology.AssignParents(ids, src)
	if err != nil {
		return nil, fmt.Errorf("error building topology: %w", err)
	}
	devices := fleet.Build(ids, parents, locations, ds.Start, g.cfg.Metrics, src)

	active := ids[:min(max(ds.NumDevices, 0), len(ids))]
	limit := RowLimit(len(active), ds.NumDataPoints, ds.Start, ds.End, ds.Interval)

	injector := faults.NewInjector(g.cfg.Faults, g.cfg.Metrics, src)
	engine := correlation.NewEngine(g.cfg.Metrics, injector, src)

	run := &Run{
		ID:          uuid.New(),
		Seed:        ds.Seed,
		GeneratedAt: began,
		Rows:        make([]telemetrics.Row, 0, limit),
	}

	for ts := ds.Start; len(run.Rows) < limit; ts = ts.Add(ds.Interval) {
		for _, id := range active {
			if len(run.Rows) >= limit {
				break
			}
			d := devices[id]
			row := assembleRow(d, engine.Observe(d, ts))
			run.Rows = append(run.Rows, row)
			if g.recorder != nil {
				g.recorder.Record(row)
			}
		}
	}

	elapsed := time.Since(began)
	if g.recorder != nil {
		g.recorder.RunCompleted(elapsed)
	}
	g.logger.Info("dataset generated",
		zap.String("run_id", run.ID.String()),
		zap.Int("rows", len(run.Rows)),
		zap.Int("active_devices", len(active)),
		zap.Int64("seed", ds.Seed),
		zap.Duration("elapsed", elapsed),
	)
	return run, nil
}

// RowLimit is the number of rows a run emits: the requested count capped by
// devices times the whole intervals between start and end.
func RowLimit(devices, requested int, start, end time.Time, interval time.Duration) int {
	if devices <= 0 || requested <= 0 || interval <= 0 || !end.After(start) {
		return 0
	}
	intervals := int(end.Sub(start) / interval)
	return min(requested, devices*intervals)
}
