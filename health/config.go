package health

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/KOMKZ/go-yogan-singleton/component"
)

// ConfigKey section read by LoadConfig
const ConfigKey = "health"

// Config health check configuration
type Config struct {
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Timeout: 5 * time.Second,
	}
}

// Validate validates the configuration
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// LoadConfig reads the "health" section over the defaults
func LoadConfig(loader component.ConfigLoader) (Config, error) {
	cfg := DefaultConfig()
	if loader == nil || !loader.IsSet(ConfigKey) {
		return cfg, nil
	}
	if err := loader.UnmarshalKey(ConfigKey, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}
