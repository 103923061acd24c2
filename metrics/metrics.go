package metrics

import "fmt"

type Name string

const (
	SpanLoss          Name = "SpanLoss"
	OpticalReturnLoss Name = "OpticalReturnLoss"
	Temperature       Name = "Temperature"
	Voltage           Name = "Voltage"
)

// Names lists the continuous metrics in column order.
var Names = []Name{SpanLoss, OpticalReturnLoss, Temperature, Voltage}

// Direction tells which side of the alarm threshold is anomalous.
type Direction string

const (
	Rising  Direction = "rising"  // alarm when value > threshold
	Falling Direction = "falling" // alarm when value < threshold
)

// Spec is the static configuration of one continuous metric.
type Spec struct {
	Name           Name      `mapstructure:"-" yaml:"-"`
	InitialMin     float64   `mapstructure:"initial_min" yaml:"initial_min"`
	InitialMax     float64   `mapstructure:"initial_max" yaml:"initial_max"`
	RateMin        float64   `mapstructure:"rate_min" yaml:"rate_min"`
	RateMax        float64   `mapstructure:"rate_max" yaml:"rate_max"`
	AlarmThreshold float64   `mapstructure:"alarm_threshold" yaml:"alarm_threshold"`
	Direction      Direction `mapstructure:"direction" yaml:"direction" validate:"oneof=rising falling"`
}

// Breached reports whether v is past the alarm threshold.
func (s Spec) Breached(v float64) bool {
	if s.Direction == Falling {
		return v < s.AlarmThreshold
	}
	return v > s.AlarmThreshold
}

// Beyond returns the threshold moved delta into the anomalous side.
func (s Spec) Beyond(delta float64) float64 {
	if s.Direction == Falling {
		return s.AlarmThreshold - delta
	}
	return s.AlarmThreshold + delta
}

// Worsen clamps v to at least Beyond(delta) in the anomalous direction. A value
// that is already worse is returned unchanged.
func (s Spec) Worsen(v, delta float64) float64 {
	target := s.Beyond(delta)
	if s.Direction == Falling {
		return min(v, target)
	}
	return max(v, target)
}

// Specs is the full metric configuration, one entry per Name.
type Specs struct {
	SpanLoss          Spec `mapstructure:"span_loss" yaml:"span_loss"`
	OpticalReturnLoss Spec `mapstructure:"optical_return_loss" yaml:"optical_return_loss"`
	Temperature       Spec `mapstructure:"temperature" yaml:"temperature"`
	Voltage           Spec `mapstructure:"voltage" yaml:"voltage"`
}

// Get returns the spec for name, with Name filled in.
func (s Specs) Get(name Name) Spec {
	var spec Spec
	switch name {
	case SpanLoss:
		spec = s.SpanLoss
	case OpticalReturnLoss:
		spec = s.OpticalReturnLoss
	case Temperature:
		spec = s.Temperature
	case Voltage:
		spec = s.Voltage
	default:
		panic(fmt.Sprintf("unknown metric %q", name))
	}
	spec.Name = name
	return spec
}

// DefaultSpecs returns the standard operating ranges of the fleet.
func DefaultSpecs() Specs {
	return Specs{
		SpanLoss: Spec{
			Name:           SpanLoss,
			InitialMin:     1.0,
			InitialMax:     1.5,
			RateMin:        0.01,
			RateMax:        0.1,
			AlarmThreshold: 2.0,
			Direction:      Rising,
		},
		OpticalReturnLoss: Spec{
			Name:           OpticalReturnLoss,
			InitialMin:     55.0,
			InitialMax:     60.0,
			RateMin:        -0.005,
			RateMax:        -0.001,
			AlarmThreshold: 50.0,
			Direction:      Falling,
		},
		Temperature: Spec{
			Name:           Temperature,
			InitialMin:     30.0,
			InitialMax:     35.0,
			RateMin:        0.007,
			RateMax:        0.015,
			AlarmThreshold: 40.0,
			Direction:      Rising,
		},
		Voltage: Spec{
			Name:           Voltage,
			InitialMin:     11.8,
			InitialMax:     12.2,
			RateMin:        -0.003,
			RateMax:        -0.001,
			AlarmThreshold: 11.0,
			Direction:      Falling,
		},
	}
}
