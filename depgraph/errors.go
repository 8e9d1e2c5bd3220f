package depgraph

import (
	"strings"

	"github.com/KOMKZ/go-yogan-singleton/component"
	"github.com/KOMKZ/go-yogan-singleton/errcode"
)

// ModuleCode depgraph module code
const ModuleCode = 62

// Error codes: 62xxxx
const (
	ErrCodeCyclicDependency = 1
	ErrCodeRegistrySealed   = 2
)

var (
	// ErrCyclicDependency resolution revisited a node on the active stack
	ErrCyclicDependency = errcode.Register(errcode.New(
		ModuleCode, ErrCodeCyclicDependency,
		"depgraph", "error.singleton.cyclic_dependency", "cyclic dependency",
	))

	// ErrRegistrySealed registration after Seal
	ErrRegistrySealed = errcode.Register(errcode.New(
		ModuleCode, ErrCodeRegistrySealed,
		"depgraph", "error.singleton.registry_sealed", "dependency registry is sealed",
	))
)

// ChainSeparator joins identifiers in rendered chains
const ChainSeparator = " → "

// CyclicDependencyError Chain is the resolution path from the root to the node that
// closed the cycle; its last element also appears earlier in the chain.
type CyclicDependencyError struct {
	Chain []component.ID
}

// Cycle nodes forming the cycle, each exactly once, in traversal order
func (e *CyclicDependencyError) Cycle() []component.ID {
	if len(e.Chain) == 0 {
		return nil
	}
	last := e.Chain[len(e.Chain)-1]
	for i, id := range e.Chain[:len(e.Chain)-1] {
		if id == last {
			out := make([]component.ID, len(e.Chain)-1-i)
			copy(out, e.Chain[i:len(e.Chain)-1])
			return out
		}
	}
	return nil
}

func (e *CyclicDependencyError) Error() string {
	return ErrCyclicDependency.Message() + ": " + RenderChain(e.Chain)
}

// Unwrap lets errors.Is match ErrCyclicDependency
func (e *CyclicDependencyError) Unwrap() error {
	return ErrCyclicDependency
}

// RenderChain renders identifiers as "A → B → C"
func RenderChain(chain []component.ID) string {
	parts := make([]string, len(chain))
	for i, id := range chain {
		parts[i] = string(id)
	}
	return strings.Join(parts, ChainSeparator)
}
