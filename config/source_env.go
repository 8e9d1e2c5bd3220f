package config

import (
	"os"
	"strings"
)

// EnvSource environment variable data source.
// With prefix "SINGLETON", SINGLETON_LIFECYCLE__INITIALIZE_IN_ORDER maps to
// lifecycle.initialize_in_order: a double underscore separates levels, a single one is kept.
type EnvSource struct {
	prefix   string
	priority int
}

// NewEnvSource creates an environment variable data source
func NewEnvSource(prefix string, priority int) *EnvSource {
	return &EnvSource{prefix: prefix, priority: priority}
}

// Name data source name
func (s *EnvSource) Name() string {
	return "env:" + s.prefix
}

// Priority data source priority
func (s *EnvSource) Priority() int {
	return s.priority
}

// Load scans the environment for prefixed variables
func (s *EnvSource) Load() (map[string]interface{}, error) {
	result := make(map[string]interface{})
	if s.prefix == "" {
		return result, nil
	}

	prefix := s.prefix + "_"
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		configKey := strings.ToLower(strings.TrimPrefix(key, prefix))
		configKey = strings.ReplaceAll(configKey, "__", ".")
		result[configKey] = value
	}
	return result, nil
}
