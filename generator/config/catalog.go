package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is the device inventory a run draws from. Devices keeps catalog order;
// the first dataset.num_devices entries form the active fleet.
type Catalog struct {
	Path      string   `mapstructure:"path" yaml:"-"`
	Devices   []string `mapstructure:"devices" yaml:"devices" validate:"unique"`
	Locations []string `mapstructure:"locations" yaml:"locations" validate:"min=1,dive,required"`
}

// LoadCatalog reads a YAML catalog file with `devices:` and `locations:` lists.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog %s: %w", path, err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("error parsing catalog %s: %w", path, err)
	}
	c.Path = path
	return &c, nil
}

// DefaultLocations are the sites devices are spread across.
func DefaultLocations() []string {
	return []string{"New York", "London", "Tokyo", "Sydney", "Frankfurt"}
}

// DefaultDevices is the reference inventory of 120 network elements.
func DefaultDevices() []string {
	return []string{
		"ce-ro-2", "cpe-sw-12", "cpe-sw-4", "ce-ro-24", "cpe-sw-10", "ce-ro-21", "ce-ro-17", "ce-ro-8",
		"ce-ro-14", "cpe-ro-4", "cpe-sw-6", "core-sw-1", "cpe-sw-1", "cpe-sw-7", "cpe-sw-5", "ce-ro-10",
		"ce-ro-6", "ce-ro-22", "cpe-sw-8", "core-sw-7", "cpe-ro-6", "cpe-sw-24", "cpe-ro-28", "core-sw-4",
		"ce-ro-15", "ce-ro-20", "ce-ro-19", "cpe-ro-27", "cpe-ro-31", "ce-ro-16", "pe-ro-1", "ce-ro-4",
		"cpe-sw-22", "ce-ro-7", "cpe-ro-7", "pe-ro-7", "cpe-sw-21", "cpe-ro-8", "pe-ro-3", "pe-ro-6",
		"core-sw-8", "cpe-ro-29", "cpe-ro-12", "cpe-sw-25", "cpe-ro-33", "ce-ro-12", "core-sw-6", "cpe-ro-14",
		"cpe-sw-23", "cpe-ro-3", "cpe-ro-9", "ce-ro-18", "cpe-ro-1", "cpe-ro-2", "ce-ro-9", "pe-ro-5",
		"cpe-ro-25", "pe-ro-4", "cpe-ro-34", "core-sw-5", "cpe-ro-17", "ce-ro-11", "cpe-ro-39", "cpe-sw-19",
		"cpe-fw-1", "cpe-ro-20", "cpe-ro-16", "cpe-ro-26", "cpe-ro-30", "ce-ro-3", "cpe-ro-41", "core-sw-2",
		"cpe-sw-3", "ce-ro-5", "core-sw-3", "cpe-ro-18", "cpe-ro-42", "cpe-sw-9", "cpe-sw-18", "cpe-ro-11",
		"core-ro-7", "ce-ro-1", "cpe-ro-32", "cpe-ro-10", "core-ro-1", "cpe-ro-35", "cpe-ro-5", "cpe-sw-2",
		"cpe-ro-37", "pe-ro-2", "ce-ro-13", "pe-ro-8", "cpe-ro-36", "cpe-ro-24", "ce-ro-23", "core-ro-8",
		"cpe-ro-15", "cpe-ro-40", "cpe-sw-11", "cpe-ro-38", "cpe-ro-22", "cpe-ro-23", "cpe-sw-27", "core-ro-2",
		"cpe-fw-11", "core-ro-3", "cpe-ro-21", "core-ro-4", "core-ro-5", "cpe-ro-19", "core-ro-6", "cpe-sw-29",
		"cpe-sw-26", "cpe-sw-30", "cpe-sw-31", "cpe-sw-35", "cpe-sw-32", "cpe-ro-13", "cpe-sw-28", "cpe-sw-40",
	}
}
