// Package config loads layered configuration (file < env < flags) through viper.
package config

// ConfigSource configuration data source
type ConfigSource interface {
	// Name data source name (for logs and debugging)
	Name() string

	// Priority higher value wins on key conflicts
	// Suggested value:
	// - Configuration file: 10
	// - Environment variable: 50
	// - Command line flag: 100
	Priority() int

	// Load returns dot-separated keys, such as "lifecycle.initialize_in_order"
	Load() (map[string]interface{}, error)
}
