package topology

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaron8/rca-telemetry-synth/generator/randsrc"
	"github.com/yaron8/rca-telemetry-synth/telemetrics"
)

// ErrEmptyCatalog is returned when there are no devices to build a topology for.
var ErrEmptyCatalog = errors.New("device catalog is empty")

// ErrDuplicateDevice is returned when an identifier appears twice in the catalog.
var ErrDuplicateDevice = errors.New("duplicate device id in catalog")

// ConfigurationError reports a device whose parent pool is empty.
type ConfigurationError struct {
	DeviceID string
	Type     telemetrics.EquipmentType
	Pool     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("cannot assign parent to %s %q: no %s in catalog", e.Type, e.DeviceID, e.Pool)
}

// Classify maps a device identifier to its equipment type.
func Classify(deviceID string) telemetrics.EquipmentType {
	switch {
	case strings.Contains(deviceID, "-ro-"):
		return telemetrics.Router
	case strings.Contains(deviceID, "-sw-"):
		return telemetrics.Switch
	case strings.Contains(deviceID, "-fw-"):
		return telemetrics.Firewall
	}
	return telemetrics.Unknown
}

// AssignParents returns the parent of every device in ids. Routers are their own
// parent, switches hang off a router, firewalls off a router or a switch, and
// unknown devices get "". Identifiers must be unique. One draw is made per switch and firewall, in catalog order.
func AssignParents(ids []string, src randsrc.Source) (map[string]string, error) {
	if len(ids) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[string]bool, len(ids))
	var routers, switches []string
	for _, id := range ids {
		if seen[id] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateDevice, id)
		}
		seen[id] = true

		switch Classify(id) {
		case telemetrics.Router:
			routers = append(routers, id)
		case telemetrics.Switch:
			switches = append(switches, id)
		}
	}
	routersOrSwitches := append(append([]string{}, routers...), switches...)

	parents := make(map[string]string, len(ids))
	for _, id := range ids {
		kind := Classify(id)
		switch kind {
		case telemetrics.Router:
			parents[id] = id
		case telemetrics.Switch:
			if len(routers) == 0 {
				return nil, &ConfigurationError{DeviceID: id, Type: kind, Pool: "routers"}
			}
			parents[id] = randsrc.Choice(src, routers)
		case telemetrics.Firewall:
			if len(routersOrSwitches) == 0 {
				return nil, &ConfigurationError{DeviceID: id, Type: kind, Pool: "routers or switches"}
			}
			parents[id] = randsrc.Choice(src, routersOrSwitches)
		default:
			parents[id] = ""
		}
	}

	return parents, nil
}
