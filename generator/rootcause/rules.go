// Package rootcause labels an observation as the originating fault from its
// sampled telemetry. Rules are evaluated in order and the first match wins.
package rootcause

import "github.com/yaron8/rca-telemetry-synth/telemetrics"

type RuleID int

const (
	None RuleID = iota
	UpstreamUpDownstreamDown
	OutErrorsWithHeat
	PartialOutageInterfaceDown
	ResourceExhaustionFanFailed
	CriticalHeatInErrors
)

type Rule struct {
	ID    RuleID
	Name  string
	Match func(t telemetrics.Telemetry) bool
}

// Rules is the ordered rule table.
var Rules = []Rule{
	{
		ID:   UpstreamUpDownstreamDown,
		Name: "upstream_up_downstream_all_down",
		Match: func(t telemetrics.Telemetry) bool {
			return t.UpstreamStatus == telemetrics.StatusUp && t.DownstreamStatus == telemetrics.DownstreamAllDown
		},
	},
	{
		ID:   OutErrorsWithHeat,
		Name: "out_errors_with_abnormal_temperature",
		Match: func(t telemetrics.Telemetry) bool {
			return t.InterfaceOutErrors > 250 && t.TemperatureStatus != telemetrics.HealthNormal
		},
	},
	{
		ID:   PartialOutageInterfaceDown,
		Name: "partial_outage_interface_down",
		Match: func(t telemetrics.Telemetry) bool {
			return t.DownstreamStatus == telemetrics.DownstreamPartialDown &&
				t.InterfaceStatus == telemetrics.StatusDown &&
				t.AlarmsCount > 2
		},
	},
	{
		ID:   ResourceExhaustionFanFailed,
		Name: "resource_exhaustion_fan_failed",
		Match: func(t telemetrics.Telemetry) bool {
			return t.CPUUtilization > 90 && t.MemoryUtilization > 90 && t.FanStatus == telemetrics.HealthFailed
		},
	},
	{
		ID:   CriticalHeatInErrors,
		Name: "critical_temperature_in_errors",
		Match: func(t telemetrics.Telemetry) bool {
			return t.TemperatureStatus == telemetrics.HealthCritical && t.InterfaceInErrors > 300
		},
	},
}

// Classify returns the first rule matching t, or None.
func Classify(t telemetrics.Telemetry) (RuleID, bool) {
	for _, r := range Rules {
		if r.Match(t) {
			return r.ID, true
		}
	}
	return None, false
}

func (id RuleID) String() string {
	for _, r := range Rules {
		if r.ID == id {
			return r.Name
		}
	}
	return "none"
}
