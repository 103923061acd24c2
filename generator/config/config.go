package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/yaron8/rca-telemetry-synth/generator/faults"
	"github.com/yaron8/rca-telemetry-synth/logi"
	"github.com/yaron8/rca-telemetry-synth/metrics"
	"github.com/yaron8/rca-telemetry-synth/telemetrics"
)

// EnvPrefix prefixes every environment override, e.g. RCAGEN_DATASET_SEED=7.
const EnvPrefix = "RCAGEN"

var validate = validator.New()

type Config struct {
	Port     int           `mapstructure:"port" validate:"min=1,max=65535"` // Default port
	CacheTTL time.Duration `mapstructure:"cache_ttl" validate:"gt=0"`       // Default cache TTL

	Dataset Dataset              `mapstructure:"dataset"`
	Catalog Catalog              `mapstructure:"catalog"`
	Metrics metrics.Specs        `mapstructure:"metrics"`
	Faults  faults.Probabilities `mapstructure:"faults"`
	Output  Output               `mapstructure:"output"`
	Logging Logging              `mapstructure:"logging"`
}

// Dataset bounds a generation run.
type Dataset struct {
	NumDevices    int           `mapstructure:"num_devices" validate:"gte=0"`
	NumDataPoints int           `mapstructure:"num_data_points" validate:"gte=0"`
	Start         time.Time     `mapstructure:"start"`
	End           time.Time     `mapstructure:"end" validate:"gtfield=Start"`
	Interval      time.Duration `mapstructure:"interval" validate:"gt=0"`
	// Seed 0 leaves the random stream unseeded.
	Seed int64 `mapstructure:"seed"`
}

// Output lists the sinks of a one-shot run. Empty paths and URLs are skipped.
type Output struct {
	CSVPath     string `mapstructure:"csv_path"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	NATSURL     string `mapstructure:"nats_url"`
	NATSSubject string `mapstructure:"nats_subject" validate:"required_with=NATSURL"`
}

type Logging struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
	Dir    string `mapstructure:"dir"`
	File   string `mapstructure:"file"`
}

// LogConfig converts the logging section for logi.NewLog.
func (l Logging) LogConfig() *logi.Config {
	return &logi.Config{
		LogDir:      l.Dir,
		LogFileName: l.File,
		Level:       l.Level,
		Format:      l.Format,
	}
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	return &Config{
		Port:     9001,
		CacheTTL: 10 * time.Second,
		Dataset: Dataset{
			NumDevices:    120,
			NumDataPoints: 1000,
			Start:         time.Date(2023, 6, 6, 0, 0, 0, 0, time.UTC),
			End:           time.Date(2024, 1, 1, 23, 45, 0, 0, time.UTC),
			Interval:      15 * time.Minute,
		},
		Catalog: Catalog{
			Devices:   DefaultDevices(),
			Locations: DefaultLocations(),
		},
		Metrics: metrics.DefaultSpecs(),
		Faults:  faults.DefaultProbabilities(),
		Output: Output{
			CSVPath:     "telecom_merge1.csv",
			NATSSubject: "rcagen.observations",
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
			File:   "generator.log",
		},
	}
}

// Load layers an optional config file and RCAGEN_* environment variables over
// the defaults, then merges the catalog file and validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v, NewConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(telemetrics.TimestampLayout),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, hook); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.Catalog.Path != "" {
		catalog, err := LoadCatalog(cfg.Catalog.Path)
		if err != nil {
			return nil, err
		}
		if len(catalog.Devices) > 0 {
			cfg.Catalog.Devices = catalog.Devices
		}
		if len(catalog.Locations) > 0 {
			cfg.Catalog.Locations = catalog.Locations
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("port", d.Port)
	v.SetDefault("cache_ttl", d.CacheTTL)

	v.SetDefault("dataset.num_devices", d.Dataset.NumDevices)
	v.SetDefault("dataset.num_data_points", d.Dataset.NumDataPoints)
	v.SetDefault("dataset.start", d.Dataset.Start.Format(telemetrics.TimestampLayout))
	v.SetDefault("dataset.end", d.Dataset.End.Format(telemetrics.TimestampLayout))
	v.SetDefault("dataset.interval", d.Dataset.Interval)
	v.SetDefault("dataset.seed", d.Dataset.Seed)

	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.devices", d.Catalog.Devices)
	v.SetDefault("catalog.locations", d.Catalog.Locations)

	specs := map[string]metrics.Spec{
		"span_loss":           d.Metrics.SpanLoss,
		"optical_return_loss": d.Metrics.OpticalReturnLoss,
		"temperature":         d.Metrics.Temperature,
		"voltage":             d.Metrics.Voltage,
	}
	for key, s := range specs {
		prefix := "metrics." + key + "."
		v.SetDefault(prefix+"initial_min", s.InitialMin)
		v.SetDefault(prefix+"initial_max", s.InitialMax)
		v.SetDefault(prefix+"rate_min", s.RateMin)
		v.SetDefault(prefix+"rate_max", s.RateMax)
		v.SetDefault(prefix+"alarm_threshold", s.AlarmThreshold)
		v.SetDefault(prefix+"direction", string(s.Direction))
	}

	v.SetDefault("faults.power_outage", d.Faults.PowerOutage)
	v.SetDefault("faults.fiber_cut", d.Faults.FiberCut)
	v.SetDefault("faults.severe_weather", d.Faults.SevereWeather)
	v.SetDefault("faults.hard_fault", d.Faults.HardFault)

	v.SetDefault("output.csv_path", d.Output.CSVPath)
	v.SetDefault("output.sqlite_path", d.Output.SQLitePath)
	v.SetDefault("output.nats_url", d.Output.NATSURL)
	v.SetDefault("output.nats_subject", d.Output.NATSSubject)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.dir", d.Logging.Dir)
	v.SetDefault("logging.file", d.Logging.File)
}

// formatValidationError reports the first failing field.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := e.Namespace()
		switch e.Tag() {
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, e.Param())
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, e.Param())
		case "gtfield":
			return fmt.Errorf("%s: must be after %s", field, e.Param())
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, e.Param())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
