// Package telemetry traces and counts materialization callbacks with OpenTelemetry.
package telemetry

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/KOMKZ/go-yogan-singleton/component"
)

// ConfigKey section read by LoadConfig
const ConfigKey = "telemetry"

// Config OpenTelemetry configuration
type Config struct {
	Enabled        bool                   `mapstructure:"enabled"`             // Is enabled
	ServiceName    string                 `mapstructure:"service_name"`        // service name
	ServiceVersion string                 `mapstructure:"service_version"`     // service version
	Exporter       ExporterConfig         `mapstructure:"exporter"`            // exporter configuration
	Sampler        SamplerConfig          `mapstructure:"sampler"`             // Sampling configuration
	ResourceAttrs  map[string]interface{} `mapstructure:"resource_attributes"` // Resource attributes (support nesting)
	Metrics        MetricsConfig          `mapstructure:"metrics"`             // Metrics configuration
}

// ExporterConfig exporter configuration
type ExporterConfig struct {
	Type     string            `mapstructure:"type"`     // otlp, stdout, noop
	Endpoint string            `mapstructure:"endpoint"` // Export endpoint
	Insecure bool              `mapstructure:"insecure"` // Whether to use an insecure connection
	Timeout  time.Duration     `mapstructure:"timeout"`  // Export timeout
	Headers  map[string]string `mapstructure:"headers"`  // Custom headers (authentication etc.)
}

// SamplerConfig Sampling configuration
type SamplerConfig struct {
	Type  string  `mapstructure:"type"`  // always_on, always_off, trace_id_ratio, parent_based_always_on
	Ratio float64 `mapstructure:"ratio"` // effective only with trace_id_ratio
}

// MetricsConfig metrics configuration
type MetricsConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ExportInterval time.Duration `mapstructure:"export_interval"`
	ExportTimeout  time.Duration `mapstructure:"export_timeout"`
}

// DefaultConfig telemetry is off by default
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		ServiceName:    "singleton",
		ServiceVersion: "1.0.0",
		Exporter: ExporterConfig{
			Type:     "otlp",
			Endpoint: "localhost:4317",
			Insecure: true,
			Timeout:  10 * time.Second,
		},
		Sampler: SamplerConfig{
			Type:  "parent_based_always_on",
			Ratio: 1.0,
		},
		ResourceAttrs: make(map[string]interface{}),
		Metrics: MetricsConfig{
			Enabled:        false,
			ExportInterval: 10 * time.Second,
			ExportTimeout:  5 * time.Second,
		},
	}
}

// Validate validates an enabled configuration
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.ServiceName, validation.Required),
		validation.Field(&c.Exporter, validation.By(func(interface{}) error {
			return validation.ValidateStruct(&c.Exporter,
				validation.Field(&c.Exporter.Type, validation.Required, validation.In("otlp", "stdout", "noop")),
				validation.Field(&c.Exporter.Endpoint, validation.When(c.Exporter.Type == "otlp", validation.Required)),
			)
		})),
		validation.Field(&c.Sampler, validation.By(func(interface{}) error {
			return validation.ValidateStruct(&c.Sampler,
				validation.Field(&c.Sampler.Type, validation.Required,
					validation.In("always_on", "always_off", "trace_id_ratio", "parent_based_always_on")),
				validation.Field(&c.Sampler.Ratio, validation.Min(0.0), validation.Max(1.0)),
			)
		})),
	)
}

// LoadConfig defaults overlaid with the "telemetry" section
func LoadConfig(loader component.ConfigLoader) (Config, error) {
	cfg := DefaultConfig()
	if loader != nil && loader.IsSet(ConfigKey) {
		if err := loader.UnmarshalKey(ConfigKey, &cfg); err != nil {
			return cfg, fmt.Errorf("unmarshal telemetry config failed: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validate telemetry config failed: %w", err)
	}
	return cfg, nil
}
