package naming

import "fmt"

// Application owns an ordered set of modules. Module order is the enumeration
// order used by "module-name/component-name" lookups.
type Application struct {
	name    string
	modules []*Module
	byPath  map[string]*Module
}

// NewApplication creates an application with the given modules
func NewApplication(name string, modules ...*Module) (*Application, error) {
	app := &Application{
		name:   name,
		byPath: make(map[string]*Module, len(modules)),
	}
	for _, m := range modules {
		if err := app.AddModule(m); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Name application name
func (a *Application) Name() string { return a.name }

// AddModule appends a module; paths must be unique
func (a *Application) AddModule(m *Module) error {
	if _, exists := a.byPath[m.Path()]; exists {
		return ErrDuplicateModule.WithMsgf("duplicate module path %q in application %q", m.Path(), a.name)
	}
	a.modules = append(a.modules, m)
	a.byPath[m.Path()] = m
	return nil
}

// Module looks a module up by path
func (a *Application) Module(modulePath string) (*Module, bool) {
	m, ok := a.byPath[modulePath]
	return m, ok
}

// Modules modules in enumeration order
func (a *Application) Modules() []*Module {
	out := make([]*Module, len(a.modules))
	copy(out, a.modules)
	return out
}

// Contains reports whether m is one of this application's modules
func (a *Application) Contains(m *Module) bool {
	if m == nil {
		return false
	}
	return a.byPath[m.Path()] == m
}

func (a *Application) String() string {
	return fmt.Sprintf("Application{%s, modules:%d}", a.name, len(a.modules))
}
