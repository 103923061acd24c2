package correlation

import (
	"github.com/yaron8/rca-telemetry-synth/generator/rootcause"
	"github.com/yaron8/rca-telemetry-synth/metrics"
)

// push raises the alarm of a metric and drives its reading at least
// uniform(lo, hi) past the threshold.
type push struct {
	metric metrics.Name
	lo, hi float64
}

// effect is what a matched root-cause rule does to alarms and readings.
// secondary runs with secondaryChance after forced, when present.
type effect struct {
	forced    []push
	secondary []push
}

const secondaryChance = 0.5

// ruleEffects maps each root-cause rule to the physical symptoms it forces.
var ruleEffects = map[rootcause.RuleID]effect{
	// fiber or connectivity loss
	rootcause.UpstreamUpDownstreamDown: {
		forced: []push{
			{metrics.SpanLoss, 0.5, 1.5},
			{metrics.OpticalReturnLoss, 1.0, 5.0},
		},
	},
	// heat affecting interfaces
	rootcause.OutErrorsWithHeat: {
		forced:    []push{{metrics.Temperature, 1.0, 3.0}},
		secondary: []push{{metrics.SpanLoss, 0.1, 0.5}},
	},
	// interface or connectivity
	rootcause.PartialOutageInterfaceDown: {
		forced:    []push{{metrics.SpanLoss, 0.5, 1.5}},
		secondary: []push{{metrics.OpticalReturnLoss, 1.0, 5.0}},
	},
	// overheating from resource exhaustion
	rootcause.ResourceExhaustionFanFailed: {
		forced: []push{
			{metrics.Temperature, 1.0, 3.0},
			{metrics.Voltage, 0.5, 1.0},
		},
	},
	rootcause.CriticalHeatInErrors: {
		forced:    []push{{metrics.Temperature, 1.0, 3.0}},
		secondary: []push{{metrics.SpanLoss, 0.1, 0.5}},
	},
}

// Secondary correlations for observations that are not a root cause.
const (
	heatSpanLossChance = 0.3
	heatVoltageChance  = 0.2
)

var (
	heatSpanLossPush  = push{metrics.SpanLoss, 0.1, 0.5}
	heatVoltagePush   = push{metrics.Voltage, 0.1, 0.3}
	sustainedHeatPush = push{metrics.SpanLoss, 0.2, 0.8}
)
