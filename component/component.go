// Package component defines the singleton component model shared by all packages.
// It is the lowest layer and imports no other package of this module.
package component

import (
	"context"
	"strings"
)

// ID canonical component identifier: "<module-path>#<component-name>".
// Two components with the same simple name in different modules never share an ID.
type ID string

// NewID builds the canonical identifier of a component within a module.
func NewID(modulePath, name string) ID {
	return ID(modulePath + ModuleSeparator + name)
}

// Split returns the module path and simple component name.
// The component name is everything after the last separator.
func (id ID) Split() (modulePath, name string) {
	s := string(id)
	if i := strings.LastIndex(s, ModuleSeparator); i >= 0 {
		return s[:i], s[i+1:]
	}
	return "", s
}

// ModulePath module part of the identifier
func (id ID) ModulePath() string {
	p, _ := id.Split()
	return p
}

// Name simple component name
func (id ID) Name() string {
	_, n := id.Split()
	return n
}

func (id ID) String() string {
	return string(id)
}

// Descriptor is what the module loader reports for each declared singleton.
type Descriptor struct {
	// Name component name, unique within its module
	Name string `mapstructure:"name" json:"name" yaml:"name"`

	// Eager materializes the component during module startup instead of on first use
	Eager bool `mapstructure:"eager" json:"eager" yaml:"eager"`

	// DependsOn raw dependency tokens, in one of three forms:
	//   "Foo"               bare name, looked up in the declaring module
	//   "orders/Foo"        module-name/component-name, scanned across the application
	//   "../orders.jar#Foo" relative-module-path#component-name
	DependsOn []string `mapstructure:"depends_on" json:"depends_on" yaml:"depends_on"`
}

// Singleton is handed to the materialization callbacks.
type Singleton struct {
	ID         ID
	ModulePath string
	Descriptor Descriptor
}

// Handle runtime handle returned by a Materializer
type Handle = any

// Materializer instantiates and tears down component handles.
//
// Instantiate is called at most once per component; an error aborts the initialization.
// Destroy is called at most once per materialized component during shutdown; errors are
// logged by the caller and never stop the remaining teardown.
type Materializer interface {
	Instantiate(ctx context.Context, s Singleton) (Handle, error)
	Destroy(ctx context.Context, s Singleton, h Handle) error
}

// MaterializerFuncs adapts two plain functions to Materializer.
// A nil DestroyFunc makes teardown a no-op.
type MaterializerFuncs struct {
	InstantiateFunc func(ctx context.Context, s Singleton) (Handle, error)
	DestroyFunc     func(ctx context.Context, s Singleton, h Handle) error
}

// Instantiate implements Materializer
func (f MaterializerFuncs) Instantiate(ctx context.Context, s Singleton) (Handle, error) {
	return f.InstantiateFunc(ctx, s)
}

// Destroy implements Materializer
func (f MaterializerFuncs) Destroy(ctx context.Context, s Singleton, h Handle) error {
	if f.DestroyFunc == nil {
		return nil
	}
	return f.DestroyFunc(ctx, s, h)
}
