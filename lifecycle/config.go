package lifecycle

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/KOMKZ/go-yogan-singleton/component"
	"github.com/KOMKZ/go-yogan-singleton/validator"
)

// ConfigKey section read by LoadConfig
const ConfigKey = "lifecycle"

// Config lifecycle manager configuration
type Config struct {
	// InitializeInOrder enforces that a dependency's module finished startup
	// before anything outside that module may resolve into it
	InitializeInOrder bool `mapstructure:"initialize_in_order"`

	// SealOnStartup closes registration on the first DoStartup
	SealOnStartup bool `mapstructure:"seal_on_startup"`

	// ShutdownTimeout bounds the context handed to teardown callbacks, 0 means no bound
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Validate validates the configuration
func (c Config) Validate() error {
	return validator.Convert(validation.ValidateStruct(&c,
		validation.Field(&c.ShutdownTimeout, validation.Min(time.Duration(0))),
	), ErrInvalidConfig)
}

// Options translates the configuration into manager options
func (c Config) Options() []Option {
	return []Option{
		WithInitializeInOrder(c.InitializeInOrder),
		WithSealOnStartup(c.SealOnStartup),
		WithShutdownTimeout(c.ShutdownTimeout),
	}
}

// LoadConfig reads the "lifecycle" section; a missing section yields the zero Config
func LoadConfig(loader component.ConfigLoader) (Config, error) {
	var cfg Config
	if loader == nil || !loader.IsSet(ConfigKey) {
		return cfg, nil
	}
	if err := loader.UnmarshalKey(ConfigKey, &cfg); err != nil {
		return cfg, ErrInvalidConfig.Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
