// Package correlation keeps continuous metrics, alarms and the root-cause label
// of an observation consistent with each other and with the device history.
package correlation

import (
	"time"

	"github.com/yaron8/rca-telemetry-synth/generator/faults"
	"github.com/yaron8/rca-telemetry-synth/generator/fleet"
	"github.com/yaron8/rca-telemetry-synth/generator/randsrc"
	"github.com/yaron8/rca-telemetry-synth/generator/rootcause"
	"github.com/yaron8/rca-telemetry-synth/generator/sampler"
	"github.com/yaron8/rca-telemetry-synth/metrics"
	"github.com/yaron8/rca-telemetry-synth/telemetrics"
)

// Observation is the outcome of one (timestamp, device) step. The device
// readings it refers to are the ones left on the device after Observe.
type Observation struct {
	Timestamp     time.Time
	Alarms        telemetrics.Alarms
	External      faults.External
	Telemetry     telemetrics.Telemetry
	Rule          rootcause.RuleID
	IsRootCause   bool
	SustainedHeat bool
	FaultInjected bool
}

type Engine struct {
	specs    metrics.Specs
	injector *faults.Injector
	src      randsrc.Source
}

// NewEngine returns an engine drawing from src. The injector must share src so
// that the run consumes a single stream.
func NewEngine(specs metrics.Specs, injector *faults.Injector, src randsrc.Source) *Engine {
	return &Engine{specs: specs, injector: injector, src: src}
}

// Observe advances d to ts and produces its observation. Steps run in a fixed
// order: degradation, external faults, telemetry sample, hard fault draw,
// baseline alarms, root-cause label, rule effects or secondary correlations,
// rolling window escalation, and last the hard fault override. The label is
// never recomputed after the override.
func (e *Engine) Observe(d *fleet.Device, ts time.Time) Observation {
	d.Degrade(ts)

	ext := e.injector.DrawExternal()
	e.injector.ApplyExternal(d, ext)

	obs := Observation{
		Timestamp: ts,
		External:  ext,
		Telemetry: sampler.Sample(e.src),
	}
	obs.FaultInjected = e.injector.DrawHardFault()

	obs.Alarms = e.baseline(d)
	obs.Rule, obs.IsRootCause = rootcause.Classify(obs.Telemetry)

	if obs.IsRootCause {
		e.applyRule(d, obs.Rule, &obs.Alarms)
	} else {
		e.correlate(d, ext, &obs.Alarms)
	}

	obs.SustainedHeat = e.escalate(d, &obs.Alarms)

	if obs.FaultInjected {
		e.injector.ApplyHardFault(d, &obs.Alarms, &obs.Telemetry)
	}

	return obs
}

// baseline raises every alarm whose metric is past its threshold.
func (e *Engine) baseline(d *fleet.Device) telemetrics.Alarms {
	return telemetrics.Alarms{
		SpanLoss:          e.specs.SpanLoss.Breached(d.Readings.SpanLoss),
		OpticalReturnLoss: e.specs.OpticalReturnLoss.Breached(d.Readings.OpticalReturnLoss),
		Temperature:       e.specs.Temperature.Breached(d.Readings.Temperature),
		Voltage:           e.specs.Voltage.Breached(d.Readings.Voltage),
	}
}

func (e *Engine) applyRule(d *fleet.Device, rule rootcause.RuleID, alarms *telemetrics.Alarms) {
	eff, ok := ruleEffects[rule]
	if !ok {
		return
	}
	for _, p := range eff.forced {
		e.apply(d, p, alarms)
	}
	if len(eff.secondary) > 0 && randsrc.Chance(e.src, secondaryChance) {
		for _, p := range eff.secondary {
			e.apply(d, p, alarms)
		}
	}
}

func (e *Engine) correlate(d *fleet.Device, ext faults.External, alarms *telemetrics.Alarms) {
	if alarms.Temperature && randsrc.Chance(e.src, heatSpanLossChance) {
		e.apply(d, heatSpanLossPush, alarms)
	}
	if alarms.Temperature && randsrc.Chance(e.src, heatVoltageChance) {
		e.apply(d, heatVoltagePush, alarms)
	}
	if ext.PowerOutage {
		alarms.Voltage = true
		d.Readings.Voltage = min(d.Readings.Voltage, randsrc.Uniform(e.src, faults.OutageVoltageMin, faults.OutageVoltageMax))
	}
}

// escalate records the temperature and forces a span loss alarm once the last
// fleet.WindowSize readings are all past the temperature threshold.
func (e *Engine) escalate(d *fleet.Device, alarms *telemetrics.Alarms) bool {
	d.TempHistory.Append(d.Readings.Temperature)
	if !d.TempHistory.AllAbove(e.specs.Temperature.AlarmThreshold) {
		return false
	}
	e.apply(d, sustainedHeatPush, alarms)
	return true
}

func (e *Engine) apply(d *fleet.Device, p push, alarms *telemetrics.Alarms) {
	spec := e.specs.Get(p.metric)
	d.SetReading(p.metric, spec.Worsen(d.Reading(p.metric), randsrc.Uniform(e.src, p.lo, p.hi)))
	raise(alarms, p.metric)
}

func raise(alarms *telemetrics.Alarms, name metrics.Name) {
	switch name {
	case metrics.SpanLoss:
		alarms.SpanLoss = true
	case metrics.OpticalReturnLoss:
		alarms.OpticalReturnLoss = true
	case metrics.Temperature:
		alarms.Temperature = true
	case metrics.Voltage:
		alarms.Voltage = true
	}
}
