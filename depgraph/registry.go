// Package depgraph records declared dependency edges between singleton components and
// resolves a root's transitive dependencies into an initialization order.
package depgraph

import (
	"github.com/KOMKZ/go-yogan-singleton/component"
)

// Registry accumulates (source -> target) edges for one application and assigns every
// identifier a stable slot the first time it is seen. Slots are never reused or reassigned.
//
// Registration is permissive: no cycle checks happen here.
// Registry is not safe for concurrent use; its owner serializes access.
type Registry struct {
	slots      map[component.ID]int
	ids        []component.ID       // slot -> identifier
	edges      []map[int]struct{}   // slot -> dependency slots
	generation uint64
	sealed     bool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		slots: make(map[component.ID]int),
	}
}

// AddDependency records that src directly depends on dst. Re-adding an edge is a no-op.
func (r *Registry) AddDependency(src, dst component.ID) error {
	if r.sealed {
		return ErrRegistrySealed.WithMsgf("cannot add dependency %s -> %s: registry is sealed", src, dst)
	}
	s := r.slot(src)
	d := r.slot(dst)
	if _, ok := r.edges[s][d]; ok {
		return nil
	}
	r.edges[s][d] = struct{}{}
	r.generation++
	return nil
}

// AddComponentWithNoDeps declares src without any outgoing edge.
func (r *Registry) AddComponentWithNoDeps(src component.ID) error {
	if r.sealed {
		return ErrRegistrySealed.WithMsgf("cannot add component %s: registry is sealed", src)
	}
	r.slot(src)
	return nil
}

// slot returns the slot of id, allocating one on first sight
func (r *Registry) slot(id component.ID) int {
	if s, ok := r.slots[id]; ok {
		return s
	}
	s := len(r.ids)
	r.slots[id] = s
	r.ids = append(r.ids, id)
	r.edges = append(r.edges, make(map[int]struct{}))
	r.generation++
	return s
}

// Slot looks up the slot of id
func (r *Registry) Slot(id component.ID) (int, bool) {
	s, ok := r.slots[id]
	return s, ok
}

// ID identifier stored in slot
func (r *Registry) ID(slot int) component.ID {
	return r.ids[slot]
}

// Len number of allocated slots
func (r *Registry) Len() int {
	return len(r.ids)
}

// Dependencies direct dependencies of id, in slot order
func (r *Registry) Dependencies(id component.ID) []component.ID {
	s, ok := r.slots[id]
	if !ok {
		return nil
	}
	deps := sortedSlots(r.edges[s])
	out := make([]component.ID, len(deps))
	for i, d := range deps {
		out[i] = r.ids[d]
	}
	return out
}

// Generation changes whenever a slot or an edge is added
func (r *Registry) Generation() uint64 {
	return r.generation
}

// Seal closes registration; later Add* calls fail with ErrRegistrySealed
func (r *Registry) Seal() {
	r.sealed = true
}

// Sealed reports whether registration is closed
func (r *Registry) Sealed() bool {
	return r.sealed
}
