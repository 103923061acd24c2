package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaron8/rca-telemetry-synth/generator/randsrc"
	"github.com/yaron8/rca-telemetry-synth/telemetrics"
)

func TestSample_Ranges(t *testing.T) {
	src := randsrc.New(11)
	upstream := map[string]int{}

	for i := 0; i < 5000; i++ {
		s := Sample(src)
		upstream[s.UpstreamStatus]++

		assert.Contains(t, []string{"all_up", "partial_down", "all_down"}, s.DownstreamStatus)
		assert.Contains(t, []string{"up", "down", "testing"}, s.InterfaceStatus)
		assert.Contains(t, []string{"normal", "warning", "critical"}, s.TemperatureStatus)
		assert.Contains(t, []string{"normal", "warning", "failed"}, s.FanStatus)
		assert.Contains(t, []string{"normal", "warning", "failed"}, s.PowerStatus)
		assert.True(t, s.InterfaceInErrors >= 0 && s.InterfaceInErrors <= 400)
		assert.True(t, s.InterfaceOutErrors >= 0 && s.InterfaceOutErrors <= 400)
		assert.True(t, s.CPUUtilization >= 20 && s.CPUUtilization <= 100)
		assert.True(t, s.MemoryUtilization >= 20 && s.MemoryUtilization <= 100)
		assert.True(t, s.AlarmsCount >= 0 && s.AlarmsCount <= 5)
		assert.True(t, s.DownstreamImpactScore >= 0 && s.DownstreamImpactScore <= 1)
	}

	assert.Len(t, upstream, 3)
	assert.Greater(t, upstream["up"], upstream["down"])
	assert.Greater(t, upstream["down"], upstream["degraded"]/2)
}

func TestSample_DrawOrder(t *testing.T) {
	src := randsrc.NewScripted(
		0.0,   // upstream up
		0.95,  // downstream all_down
		0.55,  // interface down
		0.5,   // in errors
		0.999, // out errors
		0.0,   // cpu
		0.999, // memory
		0.99,  // temperature critical
		0.97,  // fan failed
		0.0,   // power normal
		0.5,   // alarms
		0.456, // impact score
	)

	got := Sample(src)

	assert.Equal(t, 12, src.Consumed())
	assert.Equal(t, telemetrics.Telemetry{
		UpstreamStatus:        "up",
		DownstreamStatus:      "all_down",
		InterfaceStatus:       "down",
		InterfaceInErrors:     200,
		InterfaceOutErrors:    400,
		CPUUtilization:        20,
		MemoryUtilization:     100,
		TemperatureStatus:     "critical",
		FanStatus:             "failed",
		PowerStatus:           "normal",
		AlarmsCount:           3,
		DownstreamImpactScore: 0.46,
	}, got)
}
