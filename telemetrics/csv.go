package telemetrics

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CSVRecord renders the row in GetCSVHeader order.
func (r Row) CSVRecord() []string {
	return []string{
		r.Timestamp.Format(TimestampLayout),
		r.EquipmentID,
		string(r.EquipmentType),
		r.Location,
		strconv.Itoa(r.EquipmentAgeDays),
		flag(r.Alarms.SpanLoss),
		flag(r.Alarms.OpticalReturnLoss),
		flag(r.Alarms.Temperature),
		flag(r.Alarms.Voltage),
		formatFloat(r.Readings.SpanLoss),
		formatFloat(r.Readings.OpticalReturnLoss),
		formatFloat(r.Readings.Temperature),
		formatFloat(r.Readings.Voltage),
		titleBool(r.PowerOutage),
		titleBool(r.FiberCut),
		r.ParentDeviceID,
		r.Telemetry.UpstreamStatus,
		r.Telemetry.DownstreamStatus,
		r.Telemetry.InterfaceStatus,
		strconv.Itoa(r.Telemetry.InterfaceInErrors),
		strconv.Itoa(r.Telemetry.InterfaceOutErrors),
		strconv.Itoa(r.Telemetry.CPUUtilization),
		strconv.Itoa(r.Telemetry.MemoryUtilization),
		r.Telemetry.TemperatureStatus,
		r.Telemetry.FanStatus,
		r.Telemetry.PowerStatus,
		strconv.Itoa(r.Telemetry.AlarmsCount),
		formatFloat(r.Telemetry.DownstreamImpactScore),
		flag(r.IsRootCause),
		flag(r.FaultInjected),
	}
}

// Values returns the typed column values in GetCSVHeader order, for SQL inserts.
func (r Row) Values() []any {
	return []any{
		r.Timestamp.Format(TimestampLayout),
		r.EquipmentID,
		string(r.EquipmentType),
		r.Location,
		r.EquipmentAgeDays,
		r.Alarms.SpanLoss,
		r.Alarms.OpticalReturnLoss,
		r.Alarms.Temperature,
		r.Alarms.Voltage,
		r.Readings.SpanLoss,
		r.Readings.OpticalReturnLoss,
		r.Readings.Temperature,
		r.Readings.Voltage,
		r.PowerOutage,
		r.FiberCut,
		r.ParentDeviceID,
		r.Telemetry.UpstreamStatus,
		r.Telemetry.DownstreamStatus,
		r.Telemetry.InterfaceStatus,
		r.Telemetry.InterfaceInErrors,
		r.Telemetry.InterfaceOutErrors,
		r.Telemetry.CPUUtilization,
		r.Telemetry.MemoryUtilization,
		r.Telemetry.TemperatureStatus,
		r.Telemetry.FanStatus,
		r.Telemetry.PowerStatus,
		r.Telemetry.AlarmsCount,
		r.Telemetry.DownstreamImpactScore,
		r.IsRootCause,
		r.FaultInjected,
	}
}

// ParseCSVRecord parses a record produced by CSVRecord.
func ParseCSVRecord(fields []string) (Row, error) {
	if len(fields) != len(GetCSVHeader()) {
		return Row{}, fmt.Errorf("expected %d fields, got %d", len(GetCSVHeader()), len(fields))
	}

	p := parser{fields: fields}
	ts, err := time.Parse(TimestampLayout, strings.TrimSpace(fields[0]))
	if err != nil {
		return Row{}, fmt.Errorf("invalid Timestamp: %w", err)
	}

	row := Row{
		Timestamp:        ts,
		EquipmentID:      p.str(1),
		EquipmentType:    EquipmentType(p.str(2)),
		Location:         p.str(3),
		EquipmentAgeDays: p.integer(4),
		Alarms: Alarms{
			SpanLoss:          p.boolean(5),
			OpticalReturnLoss: p.boolean(6),
			Temperature:       p.boolean(7),
			Voltage:           p.boolean(8),
		},
		Readings: Readings{
			SpanLoss:          p.number(9),
			OpticalReturnLoss: p.number(10),
			Temperature:       p.number(11),
			Voltage:           p.number(12),
		},
		PowerOutage:    p.boolean(13),
		FiberCut:       p.boolean(14),
		ParentDeviceID: p.str(15),
		Telemetry: Telemetry{
			UpstreamStatus:        p.str(16),
			DownstreamStatus:      p.str(17),
			InterfaceStatus:       p.str(18),
			InterfaceInErrors:     p.integer(19),
			InterfaceOutErrors:    p.integer(20),
			CPUUtilization:        p.integer(21),
			MemoryUtilization:     p.integer(22),
			TemperatureStatus:     p.str(23),
			FanStatus:             p.str(24),
			PowerStatus:           p.str(25),
			AlarmsCount:           p.integer(26),
			DownstreamImpactScore: p.number(27),
		},
		IsRootCause:   p.boolean(28),
		FaultInjected: p.boolean(29),
	}
	if p.err != nil {
		return Row{}, p.err
	}
	return row, nil
}

// parser keeps the first conversion error so ParseCSVRecord reads linearly.
type parser struct {
	fields []string
	err    error
}

func (p *parser) str(i int) string {
	return strings.TrimSpace(p.fields[i])
}

func (p *parser) integer(i int) int {
	v, err := strconv.Atoi(p.str(i))
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", GetCSVHeader()[i], err)
	}
	return v
}

func (p *parser) number(i int) float64 {
	v, err := strconv.ParseFloat(p.str(i), 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", GetCSVHeader()[i], err)
	}
	return v
}

func (p *parser) boolean(i int) bool {
	switch p.str(i) {
	case "1", "True", "true":
		return true
	case "0", "False", "false":
		return false
	}
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s: %q is not a boolean", GetCSVHeader()[i], p.fields[i])
	}
	return false
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func titleBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
