package fleet

import (
	"fmt"
	"math"
	"time"

	"github.com/yaron8/rca-telemetry-synth/generator/randsrc"
	"github.com/yaron8/rca-telemetry-synth/generator/topology"
	"github.com/yaron8/rca-telemetry-synth/metrics"
	"github.com/yaron8/rca-telemetry-synth/telemetrics"
)

// Day ranges subtracted from the run start to place installation and maintenance.
const (
	minInstallAgeDays     = 1
	maxInstallAgeDays     = 1825
	minMaintenanceAgeDays = 30
	maxMaintenanceAgeDays = 730

	initialNoise = 0.1
)

// Device is the mutable simulation state of one network element.
type Device struct {
	ID              string
	Type            telemetrics.EquipmentType
	Location        string
	ParentID        string
	InstalledAt     time.Time
	LastMaintenance time.Time

	Readings    telemetrics.Readings
	Rates       telemetrics.Readings
	TempHistory TemperatureWindow
}

// Reading returns the current value of a metric.
func (d *Device) Reading(name metrics.Name) float64 {
	switch name {
	case metrics.SpanLoss:
		return d.Readings.SpanLoss
	case metrics.OpticalReturnLoss:
		return d.Readings.OpticalReturnLoss
	case metrics.Temperature:
		return d.Readings.Temperature
	case metrics.Voltage:
		return d.Readings.Voltage
	}
	panic(fmt.Sprintf("unknown metric %q", name))
}

// SetReading overwrites the current value of a metric.
func (d *Device) SetReading(name metrics.Name, v float64) {
	switch name {
	case metrics.SpanLoss:
		d.Readings.SpanLoss = v
	case metrics.OpticalReturnLoss:
		d.Readings.OpticalReturnLoss = v
	case metrics.Temperature:
		d.Readings.Temperature = v
	case metrics.Voltage:
		d.Readings.Voltage = v
	default:
		panic(fmt.Sprintf("unknown metric %q", name))
	}
}

// Degrade advances every metric to ts.
func (d *Device) Degrade(ts time.Time) {
	r := &d.Readings
	r.SpanLoss = Advance(r.SpanLoss, d.Rates.SpanLoss, ts, d.LastMaintenance)
	r.OpticalReturnLoss = Advance(r.OpticalReturnLoss, d.Rates.OpticalReturnLoss, ts, d.LastMaintenance)
	r.Temperature = Advance(r.Temperature, d.Rates.Temperature, ts, d.LastMaintenance)
	r.Voltage = Advance(r.Voltage, d.Rates.Voltage, ts, d.LastMaintenance)
}

// AgeDays is the number of whole days between installation and ts.
func (d *Device) AgeDays(ts time.Time) int {
	return wholeDays(ts.Sub(d.InstalledAt))
}

// Fleet holds every device of a run keyed by identifier.
type Fleet map[string]*Device

// Build creates one device per id, in catalog order, with parents from parents.
func Build(ids []string, parents map[string]string, locations []string, start time.Time, specs metrics.Specs, src randsrc.Source) Fleet {
	f := make(Fleet, len(ids))
	for _, id := range ids {
		d := &Device{
			ID:       id,
			Type:     topology.Classify(id),
			ParentID: parents[id],
		}
		d.Location = randsrc.Choice(src, locations)
		d.InstalledAt = start.AddDate(0, 0, -randsrc.IntBetween(src, minInstallAgeDays, maxInstallAgeDays))
		d.LastMaintenance = start.AddDate(0, 0, -randsrc.IntBetween(src, minMaintenanceAgeDays, maxMaintenanceAgeDays))

		for _, name := range metrics.Names {
			d.SetReading(name, initialReading(specs.Get(name), src))
		}
		d.Rates = telemetrics.Readings{
			SpanLoss:          randsrc.Uniform(src, specs.SpanLoss.RateMin, specs.SpanLoss.RateMax),
			OpticalReturnLoss: randsrc.Uniform(src, specs.OpticalReturnLoss.RateMin, specs.OpticalReturnLoss.RateMax),
			Temperature:       randsrc.Uniform(src, specs.Temperature.RateMin, specs.Temperature.RateMax),
			Voltage:           randsrc.Uniform(src, specs.Voltage.RateMin, specs.Voltage.RateMax),
		}
		f[id] = d
	}
	return f
}

// initialReading draws a value in the initial range plus noise, rounded to one decimal.
func initialReading(spec metrics.Spec, src randsrc.Source) float64 {
	value := randsrc.Uniform(src, spec.InitialMin, spec.InitialMax)
	noise := randsrc.Uniform(src, -initialNoise, initialNoise) * (spec.InitialMax - spec.InitialMin)
	return math.Round((value+noise)*10) / 10
}
