package sampler

import (
	"math"

	"github.com/yaron8/rca-telemetry-synth/generator/randsrc"
	"github.com/yaron8/rca-telemetry-synth/telemetrics"
)

type weights = []randsrc.Weighted[string]

var (
	upstreamWeights = weights{
		{Value: telemetrics.StatusUp, Weight: 0.75},
		{Value: telemetrics.StatusDown, Weight: 0.15},
		{Value: telemetrics.StatusDegraded, Weight: 0.10},
	}
	downstreamWeights = weights{
		{Value: telemetrics.DownstreamAllUp, Weight: 0.6},
		{Value: telemetrics.DownstreamPartialDown, Weight: 0.3},
		{Value: telemetrics.DownstreamAllDown, Weight: 0.1},
	}
	interfaceWeights = weights{
		{Value: telemetrics.StatusUp, Weight: 0.50},
		{Value: telemetrics.StatusDown, Weight: 0.40},
		{Value: telemetrics.StatusTesting, Weight: 0.10},
	}
	temperatureWeights = weights{
		{Value: telemetrics.HealthNormal, Weight: 0.8},
		{Value: telemetrics.HealthWarning, Weight: 0.15},
		{Value: telemetrics.HealthCritical, Weight: 0.05},
	}
	hardwareWeights = weights{
		{Value: telemetrics.HealthNormal, Weight: 0.85},
		{Value: telemetrics.HealthWarning, Weight: 0.10},
		{Value: telemetrics.HealthFailed, Weight: 0.05},
	}
)

// Sample draws a fresh telemetry bundle. It does not look at device state.
func Sample(src randsrc.Source) telemetrics.Telemetry {
	var t telemetrics.Telemetry
	t.UpstreamStatus = randsrc.Pick(src, upstreamWeights)
	t.DownstreamStatus = randsrc.Pick(src, downstreamWeights)
	t.InterfaceStatus = randsrc.Pick(src, interfaceWeights)
	t.InterfaceInErrors = randsrc.IntBetween(src, 0, 400)
	t.InterfaceOutErrors = randsrc.IntBetween(src, 0, 400)
	t.CPUUtilization = randsrc.IntBetween(src, 20, 100)
	t.MemoryUtilization = randsrc.IntBetween(src, 20, 100)
	t.TemperatureStatus = randsrc.Pick(src, temperatureWeights)
	t.FanStatus = randsrc.Pick(src, hardwareWeights)
	t.PowerStatus = randsrc.Pick(src, hardwareWeights)
	t.AlarmsCount = randsrc.IntBetween(src, 0, 5)
	t.DownstreamImpactScore = math.Round(randsrc.Uniform(src, 0, 1)*100) / 100
	return t
}
