package faults

import (
	"github.com/yaron8/rca-telemetry-synth/generator/fleet"
	"github.com/yaron8/rca-telemetry-synth/generator/randsrc"
	"github.com/yaron8/rca-telemetry-synth/metrics"
	"github.com/yaron8/rca-telemetry-synth/telemetrics"
)

// Probabilities configures the fault draws. SevereWeather is reserved and never
// drawn.
type Probabilities struct {
	PowerOutage   float64 `mapstructure:"power_outage" validate:"gte=0,lte=1"`
	FiberCut      float64 `mapstructure:"fiber_cut" validate:"gte=0,lte=1"`
	SevereWeather float64 `mapstructure:"severe_weather" validate:"gte=0,lte=1"`
	HardFault     float64 `mapstructure:"hard_fault" validate:"gte=0,lte=1"`
}

func DefaultProbabilities() Probabilities {
	return Probabilities{
		PowerOutage:   0.02,
		FiberCut:      0.015,
		SevereWeather: 0.03,
		HardFault:     0.10,
	}
}

// Outage voltage band forced by a power outage.
const (
	OutageVoltageMin = 10.0
	OutageVoltageMax = 11.0
)

// Probabilities of the optional alarms raised by a hard fault.
const (
	hardFaultSpanLossChance = 0.6
	hardFaultOpticalChance  = 0.5
)

// External is the set of external events drawn for one observation.
type External struct {
	PowerOutage bool
	FiberCut    bool
}

type Injector struct {
	probs Probabilities
	specs metrics.Specs
	src   randsrc.Source
}

func NewInjector(probs Probabilities, specs metrics.Specs, src randsrc.Source) *Injector {
	return &Injector{probs: probs, specs: specs, src: src}
}

// DrawExternal makes one draw per external event, power outage first.
func (inj *Injector) DrawExternal() External {
	return External{
		PowerOutage: randsrc.Chance(inj.src, inj.probs.PowerOutage),
		FiberCut:    randsrc.Chance(inj.src, inj.probs.FiberCut),
	}
}

// ApplyExternal overwrites the device readings affected by ev.
func (inj *Injector) ApplyExternal(d *fleet.Device, ev External) {
	if ev.PowerOutage {
		d.Readings.Voltage = randsrc.Uniform(inj.src, OutageVoltageMin, OutageVoltageMax)
	}
	if ev.FiberCut {
		d.Readings.SpanLoss = inj.specs.SpanLoss.Beyond(randsrc.Uniform(inj.src, 0.5, 1.5))
		d.Readings.OpticalReturnLoss = inj.specs.OpticalReturnLoss.Worsen(d.Readings.OpticalReturnLoss, randsrc.Uniform(inj.src, 1.0, 5.0))
	}
}

// DrawHardFault decides whether this observation gets the full fault override.
func (inj *Injector) DrawHardFault() bool {
	return randsrc.Chance(inj.src, inj.probs.HardFault)
}

// ApplyHardFault forces a fully faulted state onto the device readings, the
// alarms and the telemetry. It does not touch the root-cause label.
func (inj *Injector) ApplyHardFault(d *fleet.Device, alarms *telemetrics.Alarms, t *telemetrics.Telemetry) {
	alarms.Temperature = true
	alarms.Voltage = true
	alarms.SpanLoss = randsrc.Chance(inj.src, hardFaultSpanLossChance)
	alarms.OpticalReturnLoss = randsrc.Chance(inj.src, hardFaultOpticalChance)

	d.Readings.Temperature = inj.specs.Temperature.Beyond(randsrc.Uniform(inj.src, 1.0, 3.0))
	d.Readings.Voltage = inj.specs.Voltage.Beyond(randsrc.Uniform(inj.src, 0.5, 1.0))
	if alarms.SpanLoss {
		d.Readings.SpanLoss = inj.specs.SpanLoss.Beyond(randsrc.Uniform(inj.src, 0.5, 1.5))
	}
	if alarms.OpticalReturnLoss {
		d.Readings.OpticalReturnLoss = inj.specs.OpticalReturnLoss.Beyond(randsrc.Uniform(inj.src, 2.0, 6.0))
	}

	t.CPUUtilization = randsrc.IntBetween(inj.src, 90, 100)
	t.MemoryUtilization = randsrc.IntBetween(inj.src, 90, 100)
	t.FanStatus = telemetrics.HealthFailed
	t.PowerStatus = telemetrics.HealthFailed
	t.InterfaceStatus = telemetrics.StatusDown
	t.InterfaceInErrors = randsrc.IntBetween(inj.src, 300, 500)
	t.InterfaceOutErrors = randsrc.IntBetween(inj.src, 300, 500)
	t.TemperatureStatus = telemetrics.HealthCritical
	t.AlarmsCount = randsrc.IntBetween(inj.src, 4, 5)
	t.DownstreamStatus = randsrc.Choice(inj.src, []string{telemetrics.DownstreamAllDown, telemetrics.DownstreamPartialDown})
}
