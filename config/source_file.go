package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// FileSource file data source (yaml, json, toml: anything viper reads)
type FileSource struct {
	path     string
	priority int
	required bool
}

// NewFileSource optional file source: a missing file yields an empty configuration
func NewFileSource(path string, priority int) *FileSource {
	return &FileSource{path: path, priority: priority}
}

// NewRequiredFileSource fails Load when the file does not exist
func NewRequiredFileSource(path string, priority int) *FileSource {
	return &FileSource{path: path, priority: priority, required: true}
}

// Name data source name
func (s *FileSource) Name() string {
	return "file:" + s.path
}

// Path file path
func (s *FileSource) Path() string {
	return s.path
}

// Priority data source priority
func (s *FileSource) Priority() int {
	return s.priority
}

// Load reads the file
func (s *FileSource) Load() (map[string]interface{}, error) {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) && !s.required {
			return make(map[string]interface{}), nil
		}
		return nil, fmt.Errorf("access config file %s: %w", s.path, err)
	}

	v := viper.New()
	v.SetConfigFile(s.path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", s.path, err)
	}

	return flattenMap("", v.AllSettings()), nil
}

// flattenMap {"a": {"b": 1}} -> {"a.b": 1}
func flattenMap(prefix string, data map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			for k, v := range flattenMap(fullKey, nested) {
				result[k] = v
			}
			continue
		}
		result[fullKey] = value
	}
	return result
}
