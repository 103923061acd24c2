package dataset

import (
	"github.com/yaron8/rca-telemetry-synth/generator/correlation"
	"github.com/yaron8/rca-telemetry-synth/generator/fleet"
	"github.com/yaron8/rca-telemetry-synth/telemetrics"
)

// assembleRow flattens a device and its observation into an output record.
// Readings are copied from the device after the observation mutated them.
func assembleRow(d *fleet.Device, obs correlation.Observation) telemetrics.Row {
	return telemetrics.Row{
		Timestamp:        obs.Timestamp,
		EquipmentID:      d.ID,
		EquipmentType:    d.Type,
		Location:         d.Location,
		EquipmentAgeDays: d.AgeDays(obs.Timestamp),
		Alarms:           obs.Alarms,
		Readings:         d.Readings,
		PowerOutage:      obs.External.PowerOutage,
		FiberCut:         obs.External.FiberCut,
		ParentDeviceID:   d.ParentID,
		Telemetry:        obs.Telemetry,
		IsRootCause:      obs.IsRootCause,
		FaultInjected:    obs.FaultInjected,
	}
}
