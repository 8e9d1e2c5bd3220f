package errcode

import (
	"fmt"
	"sort"
	"sync"
)

// Entry one catalogued error code
type Entry struct {
	Code    int
	Module  string
	MsgKey  string
	Message string
}

// Registry error code catalog; a module code belongs to exactly one module name
type Registry struct {
	mu      sync.RWMutex
	entries map[int]Entry
	owners  map[int]string // module code -> module name
}

var globalRegistry = NewRegistry()

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[int]Entry),
		owners:  make(map[int]string),
	}
}

// Register adds err to the global catalog and returns it unchanged.
// Panics on a code or module-code conflict.
func Register(err *LayeredError) *LayeredError {
	return globalRegistry.Register(err)
}

// Entries every globally registered code, ascending
func Entries() []Entry {
	return globalRegistry.Entries()
}

// Register adds err to the catalog
func (r *Registry) Register(err *LayeredError) *LayeredError {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := err.Code()
	moduleCode := code / 10000

	if owner, ok := r.owners[moduleCode]; ok && owner != err.Module() {
		panic(fmt.Sprintf("module code %d belongs to %q, cannot register %s for %q",
			moduleCode, owner, err.MsgKey(), err.Module()))
	}
	if existing, ok := r.entries[code]; ok {
		if existing.MsgKey != err.MsgKey() {
			panic(fmt.Sprintf("error code %d is already registered as %s:%s, cannot register as %s:%s",
				code, existing.Module, existing.MsgKey, err.Module(), err.MsgKey()))
		}
		return err
	}

	r.owners[moduleCode] = err.Module()
	r.entries[code] = Entry{
		Code:    code,
		Module:  err.Module(),
		MsgKey:  err.MsgKey(),
		Message: err.Message(),
	}
	return err
}

// Lookup entry for a complete code
func (r *Registry) Lookup(code int) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[code]
	return e, ok
}

// Entries catalog sorted by code
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Count number of registered codes
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
