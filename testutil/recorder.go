package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/KOMKZ/go-yogan-singleton/component"
)

// Recorder Materializer recording every callback in call order.
// Handles are the string "handle:<id>".
type Recorder struct {
	mu           sync.Mutex
	instantiated []component.ID
	destroyed    []component.ID
	failCreate   map[component.ID]error
	failDestroy  map[component.ID]error
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{
		failCreate:  make(map[component.ID]error),
		failDestroy: make(map[component.ID]error),
	}
}

// FailInstantiate makes Instantiate of id return err
func (r *Recorder) FailInstantiate(id component.ID, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failCreate[id] = err
}

// FailDestroy makes Destroy of id return err (the call is still recorded)
func (r *Recorder) FailDestroy(id component.ID, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failDestroy[id] = err
}

// Instantiate implements component.Materializer
func (r *Recorder) Instantiate(_ context.Context, s component.Singleton) (component.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failCreate[s.ID]; ok {
		return nil, err
	}
	r.instantiated = append(r.instantiated, s.ID)
	return fmt.Sprintf("handle:%s", s.ID), nil
}

// Destroy implements component.Materializer
func (r *Recorder) Destroy(_ context.Context, s component.Singleton, _ component.Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.destroyed = append(r.destroyed, s.ID)
	return r.failDestroy[s.ID]
}

// Instantiated successful Instantiate calls in order
func (r *Recorder) Instantiated() []component.ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]component.ID(nil), r.instantiated...)
}

// Destroyed Destroy calls in order
func (r *Recorder) Destroyed() []component.ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]component.ID(nil), r.destroyed...)
}

// Count number of successful Instantiate calls for id
func (r *Recorder) Count(id component.ID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, got := range r.instantiated {
		if got == id {
			n++
		}
	}
	return n
}
