package telemetrics

import "time"

// TimestampLayout is the layout of the Timestamp column.
const TimestampLayout = "2006-01-02 15:04:05"

type EquipmentType string

const (
	Router   EquipmentType = "Router"
	Switch   EquipmentType = "Switch"
	Firewall EquipmentType = "Firewall"
	Unknown  EquipmentType = "Unknown"
)

// Operational status values sampled into Telemetry.
const (
	StatusUp       = "up"
	StatusDown     = "down"
	StatusDegraded = "degraded"
	StatusTesting  = "testing"

	DownstreamAllUp       = "all_up"
	DownstreamPartialDown = "partial_down"
	DownstreamAllDown     = "all_down"

	HealthNormal   = "normal"
	HealthWarning  = "warning"
	HealthCritical = "critical"
	HealthFailed   = "failed"
)

// Readings holds one value per continuous metric. It is also used for the
// per-device degradation rates.
type Readings struct {
	SpanLoss          float64 `json:"span_loss"`
	OpticalReturnLoss float64 `json:"optical_return_loss"`
	Temperature       float64 `json:"temperature"`
	Voltage           float64 `json:"voltage"`
}

// Alarms holds one alarm flag per continuous metric.
type Alarms struct {
	SpanLoss          bool `json:"alarm_span_loss"`
	OpticalReturnLoss bool `json:"alarm_optical_return_loss"`
	Temperature       bool `json:"alarm_temperature"`
	Voltage           bool `json:"alarm_voltage"`
}

// Any reports whether at least one alarm is raised.
func (a Alarms) Any() bool {
	return a.SpanLoss || a.OpticalReturnLoss || a.Temperature || a.Voltage
}

// Telemetry is the bundle of operational signals drawn for one observation.
type Telemetry struct {
	UpstreamStatus        string  `json:"upstream_status"`
	DownstreamStatus      string  `json:"downstream_status"`
	InterfaceStatus       string  `json:"interface_status"`
	InterfaceInErrors     int     `json:"interface_in_errors"`
	InterfaceOutErrors    int     `json:"interface_out_errors"`
	CPUUtilization        int     `json:"cpu_utilization"`
	MemoryUtilization     int     `json:"memory_utilization"`
	TemperatureStatus     string  `json:"temperature_status"`
	FanStatus             string  `json:"fan_status"`
	PowerStatus           string  `json:"power_status"`
	AlarmsCount           int     `json:"alarms_count"`
	DownstreamImpactScore float64 `json:"downstream_impact_score"`
}

// Row is one flattened observation of the dataset.
type Row struct {
	Timestamp        time.Time     `json:"timestamp"`
	EquipmentID      string        `json:"equipment_id"`
	EquipmentType    EquipmentType `json:"equipment_type"`
	Location         string        `json:"location"`
	EquipmentAgeDays int           `json:"equipment_age_days"`
	Alarms           Alarms        `json:"alarms"`
	Readings         Readings      `json:"readings"`
	PowerOutage      bool          `json:"power_outage"`
	FiberCut         bool          `json:"fiber_cut"`
	ParentDeviceID   string        `json:"parent_device_id"`
	Telemetry        Telemetry     `json:"telemetry"`
	IsRootCause      bool          `json:"is_root_cause"`
	FaultInjected    bool          `json:"fault_injected"`
}

func GetCSVHeader() []string {
	return []string{
		"Timestamp",
		"EquipmentID",
		"EquipmentType",
		"Location",
		"EquipmentAgeDays",
		"Alarm_SpanLoss",
		"Alarm_OpticalReturnLoss",
		"Alarm_Temperature",
		"Alarm_Voltage",
		"SpanLoss",
		"OpticalReturnLoss",
		"Temperature",
		"Voltage",
		"PowerOutage",
		"FiberCut",
		"ParentDeviceID",
		"upstream_status",
		"downstream_status",
		"interface_status",
		"interface_in_errors",
		"interface_out_errors",
		"cpu_utilization",
		"memory_utilization",
		"temperature_status",
		"fan_status",
		"power_status",
		"alarms_count",
		"downstream_impact_score",
		"IsRootCause",
		"FaultInjected"}
}
