// Package naming turns raw dependency tokens into canonical component identifiers.
package naming

import (
	"path"
	"strings"

	"github.com/KOMKZ/go-yogan-singleton/component"
)

// Module one deployable module of an application and the singletons it declares.
type Module struct {
	path       string
	name       string
	components map[string]struct{}
	order      []string
	relatives  map[string]string // relative path -> module path
}

// NewModule creates a module. An empty name is derived from the path:
// "shop.ear/orders.jar" -> "orders".
func NewModule(modulePath, name string, components ...string) *Module {
	if name == "" {
		name = DefaultModuleName(modulePath)
	}
	m := &Module{
		path:       modulePath,
		name:       name,
		components: make(map[string]struct{}, len(components)),
		relatives:  make(map[string]string),
	}
	for _, c := range components {
		m.AddComponent(c)
	}
	return m
}

// DefaultModuleName last path element without its archive extension
func DefaultModuleName(modulePath string) string {
	base := path.Base(modulePath)
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// Path unique module path within the application
func (m *Module) Path() string { return m.path }

// Name simple module name used by "module-name/component-name" tokens
func (m *Module) Name() string { return m.name }

// AddComponent declares a component; repeated names are ignored
func (m *Module) AddComponent(name string) {
	if _, ok := m.components[name]; ok {
		return
	}
	m.components[name] = struct{}{}
	m.order = append(m.order, name)
}

// RemoveComponent withdraws a declared component name
func (m *Module) RemoveComponent(name string) {
	if _, ok := m.components[name]; !ok {
		return
	}
	delete(m.components, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// HasComponent reports whether the module declares a component with that simple name
func (m *Module) HasComponent(name string) bool {
	_, ok := m.components[name]
	return ok
}

// Components declared component names in declaration order
func (m *Module) Components() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// ID canonical identifier of a component of this module
func (m *Module) ID(name string) component.ID {
	return component.NewID(m.path, name)
}

// AddRelative records that relPath, seen from this module, points at modulePath.
func (m *Module) AddRelative(relPath, modulePath string) {
	m.relatives[relPath] = modulePath
}

// Relative looks up the relative-module table
func (m *Module) Relative(relPath string) (string, bool) {
	p, ok := m.relatives[relPath]
	return p, ok
}
