package depgraph

import (
	"sort"

	"github.com/KOMKZ/go-yogan-singleton/component"
)

// Graph read-only adjacency snapshot of a Registry.
// adj[i] lists the slots i directly depends on, ascending, so row scans are deterministic.
type Graph struct {
	ids        []component.ID
	adj        [][]int
	generation uint64
}

// Build snapshots every slot known to reg at this moment
func Build(reg *Registry) *Graph {
	g := &Graph{
		ids:        make([]component.ID, len(reg.ids)),
		adj:        make([][]int, len(reg.ids)),
		generation: reg.generation,
	}
	copy(g.ids, reg.ids)
	for i, deps := range reg.edges {
		g.adj[i] = sortedSlots(deps)
	}
	return g
}

// Len number of nodes
func (g *Graph) Len() int {
	return len(g.ids)
}

// ID identifier of a node
func (g *Graph) ID(slot int) component.ID {
	return g.ids[slot]
}

// Dependencies direct dependency slots of a node
func (g *Graph) Dependencies(slot int) []int {
	return g.adj[slot]
}

// DependsOn reports whether i directly depends on j
func (g *Graph) DependsOn(i, j int) bool {
	row := g.adj[i]
	k := sort.SearchInts(row, j)
	return k < len(row) && row[k] == j
}

// IsLeaf reports whether a node has no outgoing edge
func (g *Graph) IsLeaf(slot int) bool {
	return len(g.adj[slot]) == 0
}

// Leaves identifiers of all dependency-free nodes, in slot order
func (g *Graph) Leaves() []component.ID {
	var out []component.ID
	for i := range g.adj {
		if g.IsLeaf(i) {
			out = append(out, g.ids[i])
		}
	}
	return out
}

// Generation registry generation the snapshot was built from
func (g *Graph) Generation() uint64 {
	return g.generation
}

func sortedSlots(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}
