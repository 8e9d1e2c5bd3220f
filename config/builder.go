package config

import (
	"github.com/spf13/pflag"
)

// LoaderBuilder configuration loader builder
type LoaderBuilder struct {
	configFile string
	envPrefix  string
	flags      *pflag.FlagSet
	flagKeys   map[string]string
}

// NewLoaderBuilder creates a loader builder
func NewLoaderBuilder() *LoaderBuilder {
	return &LoaderBuilder{}
}

// WithConfigFile optional configuration file
func (b *LoaderBuilder) WithConfigFile(path string) *LoaderBuilder {
	b.configFile = path
	return b
}

// WithEnvPrefix environment variable prefix
func (b *LoaderBuilder) WithEnvPrefix(prefix string) *LoaderBuilder {
	b.envPrefix = prefix
	return b
}

// WithFlags command line flags and their config keys
func (b *LoaderBuilder) WithFlags(flags *pflag.FlagSet, keys map[string]string) *LoaderBuilder {
	b.flags = flags
	b.flagKeys = keys
	return b
}

// Build assembles and loads the loader
func (b *LoaderBuilder) Build() (*Loader, error) {
	loader := NewLoader()

	// 1. Configuration file (priority 10)
	if b.configFile != "" {
		loader.AddSource(NewFileSource(b.configFile, 10))
	}

	// 2. Environment variables (priority 50)
	if b.envPrefix != "" {
		loader.AddSource(NewEnvSource(b.envPrefix, 50))
	}

	// 3. Command line flags (priority 100)
	if b.flags != nil {
		loader.AddSource(NewFlagSource(b.flags, b.flagKeys, 100))
	}

	if err := loader.Load(); err != nil {
		return nil, err
	}
	return loader, nil
}
