package retry

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/KOMKZ/go-yogan-singleton/component"
)

// ConfigKey section read by LoadConfig
const ConfigKey = "retry"

// Config instantiation retry configuration; MaxAttempts 1 disables retries
type Config struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay"`
	Multiplier  float64       `mapstructure:"multiplier"`
	Jitter      float64       `mapstructure:"jitter"`
}

// DefaultConfig no retries
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 1,
		BaseDelay:   defaultBaseDelay,
		MaxDelay:    5 * time.Second,
		Multiplier:  2.0,
		Jitter:      0.2,
	}
}

// Enabled more than one attempt configured
func (c Config) Enabled() bool {
	return c.MaxAttempts > 1
}

// Validate validates the configuration
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MaxAttempts, validation.Min(1)),
		validation.Field(&c.BaseDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.Multiplier, validation.Min(1.0)),
		validation.Field(&c.Jitter, validation.Min(0.0), validation.Max(1.0)),
	)
}

// Options retry options matching the configuration
func (c Config) Options() []Option {
	return []Option{
		MaxAttempts(c.MaxAttempts),
		Backoff(ExponentialBackoff(c.BaseDelay,
			WithMultiplier(c.Multiplier), WithMaxDelay(c.MaxDelay), WithJitter(c.Jitter))),
	}
}

// LoadConfig reads the "retry" section over the defaults
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
