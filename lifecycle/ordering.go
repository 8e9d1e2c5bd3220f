package lifecycle

import (
	"github.com/KOMKZ/go-yogan-singleton/component"
)

// OrderingPolicy decides whether initialization may resolve into another module.
// chain runs from the originating root to dep; depModule is dep's module path.
type OrderingPolicy interface {
	Check(chain []component.ID, dep component.ID, depModule string) error
}

// OrderingPolicyFunc adapts a function to OrderingPolicy
type OrderingPolicyFunc func(chain []component.ID, dep component.ID, depModule string) error

// Check implements OrderingPolicy
func (f OrderingPolicyFunc) Check(chain []component.ID, dep component.ID, depModule string) error {
	return f(chain, dep, depModule)
}

// NoOrdering allows every cross-module dependency
type NoOrdering struct{}

// Check implements OrderingPolicy
func (NoOrdering) Check([]component.ID, component.ID, string) error { return nil }

// ModuleTracker reports module startup completion
type ModuleTracker interface {
	ModuleStarted(modulePath string) bool
}

// ModuleOrder strict barrier: a dependency's module must have completed startup
type ModuleOrder struct {
	Started ModuleTracker
}

// Check implements OrderingPolicy
func (o ModuleOrder) Check(chain []component.ID, dep component.ID, depModule string) error {
	if o.Started != nil && o.Started.ModuleStarted(depModule) {
		return nil
	}
	full := make([]component.ID, 0, len(chain)+1)
	full = append(full, chain...)
	full = append(full, dep)
	return &OrderingViolationError{Chain: full, Module: depModule}
}
