// Package stats exports generation counters to Prometheus.
package stats

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yaron8/rca-telemetry-synth/metrics"
	"github.com/yaron8/rca-telemetry-synth/telemetrics"
)

// Collector implements dataset.Recorder.
type Collector struct {
	rows           *prometheus.CounterVec
	rootCauses     prometheus.Counter
	injectedFaults prometheus.Counter
	externalFaults *prometheus.CounterVec
	alarms         *prometheus.CounterVec
	runs           prometheus.Counter
	runDuration    prometheus.Histogram
}

// NewCollector creates the generation metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rcagen_rows_total",
				Help: "Total number of generated rows by equipment type.",
			},
			[]string{"equipment_type"},
		),
		rootCauses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rcagen_root_cause_rows_total",
			Help: "Total number of rows labeled as root cause.",
		}),
		injectedFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rcagen_injected_faults_total",
			Help: "Total number of rows with a hard fault override.",
		}),
		externalFaults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rcagen_external_faults_total",
				Help: "Total number of external fault events by kind.",
			},
			[]string{"kind"},
		),
		alarms: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rcagen_alarms_total",
				Help: "Total number of raised alarms by metric.",
			},
			[]string{"metric"},
		),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rcagen_runs_total",
			Help: "Total number of completed generation runs.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rcagen_run_duration_seconds",
			Help:    "Generation run duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(c.rows, c.rootCauses, c.injectedFaults, c.externalFaults, c.alarms, c.runs, c.runDuration)
	return c
}

func (c *Collector) Record(row telemetrics.Row) {
	c.rows.WithLabelValues(string(row.EquipmentType)).Inc()
	if row.IsRootCause {
		c.rootCauses.Inc()
	}
	if row.FaultInjected {
		c.injectedFaults.Inc()
	}
	if row.PowerOutage {
		c.externalFaults.WithLabelValues("power_outage").Inc()
	}
	if row.FiberCut {
		c.externalFaults.WithLabelValues("fiber_cut").Inc()
	}

	raised := map[metrics.Name]bool{
		metrics.SpanLoss:          row.Alarms.SpanLoss,
		metrics.OpticalReturnLoss: row.Alarms.OpticalReturnLoss,
		metrics.Temperature:       row.Alarms.Temperature,
		metrics.Voltage:           row.Alarms.Voltage,
	}
	for name, on := range raised {
		if on {
			c.alarms.WithLabelValues(string(name)).Inc()
		}
	}
}

func (c *Collector) RunCompleted(elapsed time.Duration) {
	c.runs.Inc()
	c.runDuration.Observe(elapsed.Seconds())
}
