package fleet

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaron8/rca-telemetry-synth/generator/randsrc"
	"github.com/yaron8/rca-telemetry-synth/metrics"
	"github.com/yaron8/rca-telemetry-synth/telemetrics"
)

var start = time.Date(2023, 6, 6, 0, 0, 0, 0, time.UTC)

func TestAdvance_RisingMetricIsDampened(t *testing.T) {
	lastMaintenance := start.AddDate(0, 0, -365)

	// 1.2 + 0.1*1 = 1.3 > 1.2, halved
	got := Advance(1.2, 0.1, start, lastMaintenance)
	assert.InDelta(t, 0.65, got, 1e-12)
}

func TestAdvance_FallingMetricIsNotDampened(t *testing.T) {
	lastMaintenance := start.AddDate(0, 0, -730)

	got := Advance(57.0, -0.005, start, lastMaintenance)
	assert.InDelta(t, 56.99, got, 1e-12)
}

func TestAdvance_UsesWholeDays(t *testing.T) {
	lastMaintenance := start.Add(-(365*24*time.Hour + 23*time.Hour))

	got := Advance(50.0, -1.0, start, lastMaintenance)
	assert.InDelta(t, 49.0, got, 1e-12)
}

func TestAdvance_NonPositiveRateNeverDampens(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("next <= value when rate <= 0 and elapsed >= 0", prop.ForAll(
		func(value, rate float64, days int) bool {
			ts := start.AddDate(0, 0, days)
			next := Advance(value, rate, ts, start)
			want := value + rate*(float64(days)/365)
			return next <= value && next == want
		},
		gen.Float64Range(-100, 100),
		gen.Float64Range(-1, 0),
		gen.IntRange(0, 5000),
	))

	properties.Property("repeated advances stay undampened for falling metrics", prop.ForAll(
		func(value, rate float64, steps int) bool {
			lastMaintenance := start.AddDate(0, 0, -400)
			v := value
			for i := 0; i < steps; i++ {
				ts := start.Add(time.Duration(i) * 15 * time.Minute)
				next := Advance(v, rate, ts, lastMaintenance)
				if next > v {
					return false
				}
				v = next
			}
			return true
		},
		gen.Float64Range(0, 100),
		gen.Float64Range(-0.005, -0.001),
		gen.IntRange(1, 200),
	))

	properties.TestingRun(t)
}

func TestTemperatureWindow(t *testing.T) {
	var w TemperatureWindow
	assert.Equal(t, 0, w.Len())
	assert.False(t, w.AllAbove(0))

	for _, v := range []float64{41, 42, 43} {
		w.Append(v)
	}
	assert.False(t, w.Full())
	assert.False(t, w.AllAbove(40), "needs four samples")

	w.Append(44)
	assert.True(t, w.Full())
	assert.True(t, w.AllAbove(40))
	assert.Equal(t, []float64{41, 42, 43, 44}, w.Values())

	w.Append(39)
	assert.Equal(t, 4, w.Len())
	assert.Equal(t, []float64{42, 43, 44, 39}, w.Values())
	assert.False(t, w.AllAbove(40))

	for _, v := range []float64{45, 46, 47} {
		w.Append(v)
	}
	assert.Equal(t, []float64{39, 45, 46, 47}, w.Values())
	w.Append(48)
	assert.True(t, w.AllAbove(40), "oldest sample evicted")
}

func TestBuild(t *testing.T) {
	ids := []string{"ce-ro-2", "cpe-sw-12", "cpe-fw-1"}
	parents := map[string]string{"ce-ro-2": "ce-ro-2", "cpe-sw-12": "ce-ro-2", "cpe-fw-1": "cpe-sw-12"}
	locations := []string{"New York", "London", "Tokyo", "Sydney", "Frankfurt"}
	specs := metrics.DefaultSpecs()

	f := Build(ids, parents, locations, start, specs, randsrc.New(3))
	require.Len(t, f, 3)

	for _, id := range ids {
		d := f[id]
		require.NotNil(t, d)
		assert.Equal(t, parents[id], d.ParentID)
		assert.Contains(t, locations, d.Location)

		age := d.AgeDays(start)
		assert.GreaterOrEqual(t, age, 1)
		assert.LessOrEqual(t, age, 1825)
		sinceMaintenance := int(start.Sub(d.LastMaintenance).Hours() / 24)
		assert.GreaterOrEqual(t, sinceMaintenance, 30)
		assert.LessOrEqual(t, sinceMaintenance, 730)

		for _, name := range metrics.Names {
			spec := specs.Get(name)
			spread := (spec.InitialMax - spec.InitialMin) * initialNoise
			v := d.Reading(name)
			assert.GreaterOrEqual(t, v, spec.InitialMin-spread-0.05, name)
			assert.LessOrEqual(t, v, spec.InitialMax+spread+0.05, name)
			assert.InDelta(t, v, float64(int(v*10+0.5))/10, 1e-9, "one decimal")
		}
		assert.GreaterOrEqual(t, d.Rates.SpanLoss, 0.01)
		assert.LessOrEqual(t, d.Rates.OpticalReturnLoss, -0.001)
	}
	assert.Equal(t, telemetrics.Firewall, f["cpe-fw-1"].Type)
}

func TestBuild_DrawOrder(t *testing.T) {
	// location, install, maintenance, 4x(value, noise), 4x rate
	draws := []float64{0.5, 0.0, 0.0, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0, 0, 0, 0}
	src := randsrc.NewScripted(draws...)

	f := Build([]string{"ce-ro-2"}, map[string]string{"ce-ro-2": "ce-ro-2"}, []string{"a", "b"}, start, metrics.DefaultSpecs(), src)
	d := f["ce-ro-2"]

	assert.Equal(t, len(draws), src.Consumed())
	assert.Equal(t, "b", d.Location)
	assert.Equal(t, start.AddDate(0, 0, -1), d.InstalledAt)
	assert.Equal(t, start.AddDate(0, 0, -30), d.LastMaintenance)
	assert.InDelta(t, 1.3, d.Readings.SpanLoss, 1e-9)
	assert.InDelta(t, 57.5, d.Readings.OpticalReturnLoss, 1e-9)
	assert.InDelta(t, 32.5, d.Readings.Temperature, 1e-9)
	assert.InDelta(t, 12.0, d.Readings.Voltage, 1e-9)
	assert.Equal(t, 0.01, d.Rates.SpanLoss)
	assert.Equal(t, -0.005, d.Rates.OpticalReturnLoss)
}

func TestDevice_Degrade(t *testing.T) {
	d := &Device{
		LastMaintenance: start.AddDate(0, 0, -365),
		Readings:        telemetrics.Readings{SpanLoss: 1.0, OpticalReturnLoss: 55, Temperature: 30, Voltage: 12},
		Rates:           telemetrics.Readings{SpanLoss: 0.1, OpticalReturnLoss: -0.005, Temperature: 0.01, Voltage: -0.002},
	}

	d.Degrade(start)

	assert.InDelta(t, 0.55, d.Readings.SpanLoss, 1e-12)
	assert.InDelta(t, 54.995, d.Readings.OpticalReturnLoss, 1e-12)
	assert.InDelta(t, 15.005, d.Readings.Temperature, 1e-12)
	assert.InDelta(t, 11.998, d.Readings.Voltage, 1e-12)
}
