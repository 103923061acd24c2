package stats

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/yaron8/rca-telemetry-synth/telemetrics"
)

func TestCollector_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.Record(telemetrics.Row{
		EquipmentType: telemetrics.Router,
		Alarms:        telemetrics.Alarms{SpanLoss: true, Voltage: true},
		PowerOutage:   true,
		IsRootCause:   true,
	})
	c.Record(telemetrics.Row{
		EquipmentType: telemetrics.Switch,
		Alarms:        telemetrics.Alarms{Voltage: true},
		FiberCut:      true,
		FaultInjected: true,
	})
	c.Record(telemetrics.Row{EquipmentType: telemetrics.Router})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.rows.WithLabelValues("Router")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rows.WithLabelValues("Switch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rootCauses))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.injectedFaults))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.externalFaults.WithLabelValues("power_outage")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.externalFaults.WithLabelValues("fiber_cut")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.alarms.WithLabelValues("Voltage")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.alarms.WithLabelValues("SpanLoss")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.alarms), "only raised alarms create series")
}

func TestCollector_RunCompleted(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RunCompleted(250 * time.Millisecond)
	c.RunCompleted(time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.runs))
	assert.Equal(t, 1, testutil.CollectAndCount(c.runDuration))

	count, err := testutil.GatherAndCount(reg, "rcagen_runs_total", "rcagen_run_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNewCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)
	assert.Panics(t, func() { NewCollector(reg) })
}
