package config

import (
	"github.com/spf13/pflag"
)

// FlagSource command line flag data source.
// Only flags the user actually set are reported, so flag defaults never shadow files.
type FlagSource struct {
	flags    *pflag.FlagSet
	keys     map[string]string // flag name -> config key
	priority int
}

// NewFlagSource keys maps flag names to configuration keys; unmapped flags are ignored
func NewFlagSource(flags *pflag.FlagSet, keys map[string]string, priority int) *FlagSource {
	return &FlagSource{flags: flags, keys: keys, priority: priority}
}

// Name data source name
func (s *FlagSource) Name() string {
	return "flags"
}

// Priority data source priority
func (s *FlagSource) Priority() int {
	return s.priority
}

// Load collects changed flags
func (s *FlagSource) Load() (map[string]interface{}, error) {
	result := make(map[string]interface{})
	if s.flags == nil {
		return result, nil
	}
	s.flags.Visit(func(f *pflag.Flag) {
		if key, ok := s.keys[f.Name]; ok {
			result[key] = f.Value.String()
		}
	})
	return result, nil
}
