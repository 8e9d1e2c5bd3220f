package di

import (
	"context"
	"sync"

	"github.com/samber/do/v2"

	"github.com/KOMKZ/go-yogan-singleton/component"
)

// Disposable handles are disposed on teardown.
// do's own Shutdowner is not used: handles are transient services the injector never shuts down.
type Disposable interface {
	Dispose(ctx context.Context) error
}

// ProvideSingleton registers the provider of one component under its canonical identifier.
// Each Instantiate calls the provider again; the lifecycle manager guarantees at most one live handle.
func ProvideSingleton[T any](i do.Injector, id component.ID, provider func(do.Injector) (T, error)) {
	do.ProvideNamedTransient[any](i, string(id), func(inj do.Injector) (any, error) {
		return provider(inj)
	})
}

// Materializer instantiates handles through named providers and keeps the live ones
// so providers can reach their dependencies with HandleOf.
type Materializer struct {
	injector do.Injector

	mu      sync.RWMutex
	handles map[component.ID]component.Handle
}

// NewMaterializer creates a provider-backed materializer
func NewMaterializer(i do.Injector) *Materializer {
	return &Materializer{
		injector: i,
		handles:  make(map[component.ID]component.Handle),
	}
}

// Instantiate implements component.Materializer
func (m *Materializer) Instantiate(_ context.Context, s component.Singleton) (component.Handle, error) {
	h, err := do.InvokeNamed[any](m.injector, string(s.ID))
	if err != nil {
		return nil, ErrProviderNotFound.Wrapf(err, "no provider for component %s", s.ID)
	}

	m.mu.Lock()
	m.handles[s.ID] = h
	m.mu.Unlock()
	return h, nil
}

// Destroy implements component.Materializer
func (m *Materializer) Destroy(ctx context.Context, s component.Singleton, h component.Handle) error {
	m.mu.Lock()
	delete(m.handles, s.ID)
	m.mu.Unlock()

	if d, ok := h.(Disposable); ok {
		return d.Dispose(ctx)
	}
	return nil
}

// Handle live handle of id
func (m *Materializer) Handle(id component.ID) (component.Handle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.handles[id]
	return h, ok
}

// HandleOf typed handle of a materialized dependency, for use inside providers.
// Dependencies are materialized before their dependents, so a declared dependency is always live.
func HandleOf[T any](i do.Injector, id component.ID) (T, error) {
	var zero T
	m, err := do.Invoke[*Materializer](i)
	if err != nil {
		return zero, err
	}
	h, ok := m.Handle(id)
	if !ok {
		return zero, ErrHandleNotFound.WithMsgf("component %s is not materialized", id)
	}
	typed, ok := h.(T)
	if !ok {
		return zero, ErrHandleNotFound.WithMsgf("component %s has handle type %T", id, h)
	}
	return typed, nil
}
