package depgraph

import (
	"github.com/KOMKZ/go-yogan-singleton/component"
)

// Resolver computes initialization orders from a Registry.
//
// The adjacency snapshot is built on the first resolution and rebuilt only when the
// registry changed since, so late registrations are never silently ignored.
type Resolver struct {
	reg   *Registry
	graph *Graph
}

// NewResolver creates a resolver over reg
func NewResolver(reg *Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Graph current adjacency snapshot, (re)built on demand
func (r *Resolver) Graph() *Graph {
	if r.graph == nil || r.graph.generation != r.reg.generation {
		r.graph = Build(r.reg)
	}
	return r.graph
}

// ComputeDependencies returns root's transitive dependencies in initialization order,
// root excluded: if X depends directly or transitively on Y, Y comes before X.
// An unknown root has no dependencies.
//
// The walk uses an explicit stack seeded with root. For the node on top, the first
// dependency that is not yet resolved is either a leaf (emitted at once), a node already
// on the stack (a cycle), or pushed. A node with nothing pending is popped and emitted.
func (r *Resolver) ComputeDependencies(root component.ID) ([]component.ID, error) {
	g := r.Graph()
	rootSlot, ok := r.reg.Slot(root)
	if !ok || rootSlot >= g.Len() {
		return nil, nil
	}

	var (
		stack   = []int{rootSlot}
		onStack = map[int]bool{rootSlot: true}
		done    = make(map[int]bool)
		result  []int
	)

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		pushed := false

		for _, dep := range g.Dependencies(top) {
			if done[dep] {
				continue
			}
			if onStack[dep] {
				return nil, r.cycle(g, stack, dep)
			}
			if g.IsLeaf(dep) {
				done[dep] = true
				result = append(result, dep)
				continue
			}
			stack = append(stack, dep)
			onStack[dep] = true
			pushed = true
			break
		}

		if pushed {
			continue
		}

		stack = stack[:len(stack)-1]
		onStack[top] = false
		if !done[top] {
			done[top] = true
			result = append(result, top)
		}
	}

	out := make([]component.ID, 0, len(result))
	for _, s := range result {
		if s != rootSlot {
			out = append(out, g.ID(s))
		}
	}
	return out, nil
}

func (r *Resolver) cycle(g *Graph, stack []int, repeated int) error {
	chain := make([]component.ID, 0, len(stack)+1)
	for _, s := range stack {
		chain = append(chain, g.ID(s))
	}
	chain = append(chain, g.ID(repeated))
	return &CyclicDependencyError{Chain: chain}
}
