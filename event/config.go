package event

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/KOMKZ/go-yogan-singleton/component"
)

// ConfigKey section read by LoadConfig
const ConfigKey = "event"

// Config event bus configuration
type Config struct {
	Enabled    bool `mapstructure:"enabled"`
	PoolSize   int  `mapstructure:"pool_size"`
	SetAllSync bool `mapstructure:"set_all_sync"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		PoolSize: 100,
	}
}

// Validate validates the configuration
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.PoolSize, validation.Min(1)),
	)
}

// Options dispatcher options matching the configuration
func (c Config) Options() []DispatcherOption {
	return []DispatcherOption{WithPoolSize(c.PoolSize), WithSetAllSync(c.SetAllSync)}
}

// LoadConfig reads the "event" section over the defaults
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
