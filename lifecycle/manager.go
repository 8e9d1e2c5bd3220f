// Package lifecycle materializes singleton components in dependency order and tears them
// down in reverse. One Manager serves one application.
package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/KOMKZ/go-yogan-singleton/component"
	"github.com/KOMKZ/go-yogan-singleton/depgraph"
	"github.com/KOMKZ/go-yogan-singleton/errcode"
	"github.com/KOMKZ/go-yogan-singleton/event"
	"github.com/KOMKZ/go-yogan-singleton/logger"
	"github.com/KOMKZ/go-yogan-singleton/naming"
)

type entry struct {
	singleton component.Singleton
	state     State
	handle    component.Handle
}

// Manager lifecycle manager of one application.
//
// Mutating entry points serialize on an operation lock that callbacks run under. The
// context handed to a callback carries that lock, so the callback may call back into
// the manager with it (first use of a lazy singleton, say) on the same goroutine.
// Queries only take the view lock and never wait for a running callback.
type Manager struct {
	app          *naming.Application
	materializer component.Materializer
	names        *naming.Resolver
	registry     *depgraph.Registry
	deps         *depgraph.Resolver

	logger            *logger.CtxZapLogger
	publisher         Publisher
	policy            OrderingPolicy
	initializeInOrder bool
	sealOnStartup     bool
	shutdownTimeout   time.Duration
	runID             string

	mu        sync.Mutex // operation lock
	resolving []component.ID
	closed    bool
	pending   []event.Event

	graphMu sync.Mutex // guards the resolver's snapshot

	// written under mu and view, read under either
	view         sync.RWMutex
	entries      map[component.ID]*entry
	order        []component.ID // registration order
	materialized []component.ID // materialization order
	started      map[string]bool
}

type ownerKey struct{ m *Manager }

// enter takes the operation lock unless ctx already carries it.
// The returned exit releases the lock and publishes queued events.
func (m *Manager) enter(ctx context.Context) (context.Context, func()) {
	if ctx.Value(ownerKey{m}) != nil {
		return ctx, func() {}
	}
	m.mu.Lock()
	return context.WithValue(ctx, ownerKey{m}, true), func() {
		m.mu.Unlock()
		m.flush(ctx)
	}
}

// setState updates an entry visible to queries
func (m *Manager) setState(e *entry, state State, handle component.Handle) {
	m.view.Lock()
	e.state = state
	e.handle = handle
	m.view.Unlock()
}

func (m *Manager) dependencies(id component.ID) ([]component.ID, error) {
	m.graphMu.Lock()
	defer m.graphMu.Unlock()
	return m.deps.ComputeDependencies(id)
}

// New creates a manager for app. Ordering is disabled unless an option enables it.
func New(app *naming.Application, m component.Materializer, opts ...Option) *Manager {
	reg := depgraph.NewRegistry()
	mgr := &Manager{
		app:          app,
		materializer: m,
		names:        naming.NewResolver(app),
		registry:     reg,
		deps:         depgraph.NewResolver(reg),
		logger:       logger.NewNop(),
		runID:        uuid.NewString(),
		entries:      make(map[component.ID]*entry),
		started:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(mgr)
	}
	if mgr.policy == nil {
		if mgr.initializeInOrder {
			mgr.policy = ModuleOrder{Started: trackerFunc(mgr.moduleStarted)}
		} else {
			mgr.policy = NoOrdering{}
		}
	}
	mgr.logger = mgr.logger.With(
		zap.String("application", app.Name()),
		zap.String("run_id", mgr.runID),
	)
	return mgr
}

// Application managed application
func (m *Manager) Application() *naming.Application {
	return m.app
}

// RunID unique id of this manager instance, attached to every log line
func (m *Manager) RunID() string {
	return m.runID
}

// AddSingletonComponent registers desc as a component of module.
// Every dependency token is resolved first; on failure nothing is recorded.
func (m *Manager) AddSingletonComponent(ctx context.Context, module *naming.Module, desc component.Descriptor) (_ component.ID, err error) {
	ctx, exit := m.enter(ctx)
	defer exit()

	if desc.Name == "" {
		return "", ErrInvalidDescriptor.WithMsg("component descriptor without a name")
	}
	if module == nil || !m.app.Contains(module) {
		p := "<nil>"
		if module != nil {
			p = module.Path()
		}
		return "", ErrUnknownModule.WithMsgf("module %q does not belong to application %q", p, m.app.Name())
	}

	id := module.ID(desc.Name)
	if _, ok := m.entries[id]; ok {
		return "", ErrDuplicateRegistration.WithMsgf("component %s already registered", id)
	}
	if m.registry.Sealed() {
		return "", depgraph.ErrRegistrySealed.WithMsgf("cannot add component %s: registry is sealed", id)
	}

	// declared up front so a bare token naming the component itself resolves
	if !module.HasComponent(desc.Name) {
		module.AddComponent(desc.Name)
		defer func() {
			if err != nil {
				module.RemoveComponent(desc.Name)
			}
		}()
	}

	targets := make([]component.ID, 0, len(desc.DependsOn))
	for _, token := range desc.DependsOn {
		target, err := m.names.Resolve(token, module, desc.Name)
		if err != nil {
			m.logger.With(errcode.LogFields(err)...).ErrorCtx(ctx, "❌ Dependency resolution failed",
				zap.String("component", string(id)), zap.String("token", token))
			return "", err
		}
		targets = append(targets, target)
	}

	if len(targets) == 0 {
		if err := m.registry.AddComponentWithNoDeps(id); err != nil {
			return "", err
		}
	}
	for _, target := range targets {
		if err := m.registry.AddDependency(id, target); err != nil {
			return "", err
		}
	}

	m.view.Lock()
	m.entries[id] = &entry{
		singleton: component.Singleton{ID: id, ModulePath: module.Path(), Descriptor: desc},
		state:     StateRegistered,
	}
	m.order = append(m.order, id)
	m.view.Unlock()

	m.logger.DebugCtx(ctx, "Component registered",
		zap.String("component", string(id)),
		zap.Bool("eager", desc.Eager),
		zap.Int("dependencies", len(targets)))
	return id, nil
}

// DoStartup initializes the eager components of one module in registration order,
// then marks the module started. Lazy components are left alone.
func (m *Manager) DoStartup(ctx context.Context, modulePath string) error {
	ctx, exit := m.enter(ctx)
	defer exit()

	if m.closed {
		return ErrManagerClosed.WithMsgf("cannot start module %s: application %s was shut down", modulePath, m.app.Name())
	}
	if _, ok := m.app.Module(modulePath); !ok {
		return ErrUnknownModule.WithMsgf("module %q does not belong to application %q", modulePath, m.app.Name())
	}
	if m.sealOnStartup && !m.registry.Sealed() {
		m.registry.Seal()
		m.logger.DebugCtx(ctx, "Registry sealed")
	}

	m.logger.InfoCtx(ctx, "🚀 Module startup", zap.String("module_path", modulePath))
	count := 0
	for _, id := range m.order {
		e := m.entries[id]
		if e.singleton.ModulePath != modulePath || !e.singleton.Descriptor.Eager {
			continue
		}
		if err := m.initialize(ctx, id, nil); err != nil {
			m.logger.With(errcode.LogFields(err)...).ErrorCtx(ctx, "❌ Module startup failed",
				zap.String("module_path", modulePath), zap.String("component", string(id)))
			return err
		}
		count++
	}

	m.view.Lock()
	m.started[modulePath] = true
	m.view.Unlock()
	m.emitModule(EventModuleStarted, modulePath)
	m.logger.InfoCtx(ctx, "✅ Module started",
		zap.String("module_path", modulePath), zap.Int("eager", count))
	return nil
}

// InitializeSingleton materializes id and, first, everything it depends on.
// A materialized component is returned to immediately. Called from a callback with the
// callback's context, a component still being resolved fails as a cycle.
func (m *Manager) InitializeSingleton(ctx context.Context, id component.ID) error {
	ctx, exit := m.enter(ctx)
	defer exit()
	return m.initialize(ctx, id, nil)
}

func (m *Manager) initialize(ctx context.Context, id component.ID, chain []component.ID) (err error) {
	e, ok := m.entries[id]
	if !ok {
		return &UnregisteredComponentError{ID: id, Chain: chain}
	}
	if e.state == StateInitialized {
		return nil
	}
	if e.state == StateResolving {
		return m.reentryCycle(id)
	}
	if m.closed {
		return ErrManagerClosed.WithMsgf("cannot initialize %s: application %s was shut down", id, m.app.Name())
	}

	previous := e.state
	m.setState(e, StateResolving, nil)
	m.resolving = append(m.resolving, id)
	defer func() {
		m.resolving = m.resolving[:len(m.resolving)-1]
		if err != nil {
			m.setState(e, previous, nil)
		}
	}()

	deps, err := m.dependencies(id)
	if err != nil {
		return err
	}

	path := make([]component.ID, len(chain), len(chain)+1)
	copy(path, chain)
	path = append(path, id)

	for _, dep := range deps {
		depModule := dep.ModulePath()
		if depModule == e.singleton.ModulePath {
			continue
		}
		if err := m.policy.Check(path, dep, depModule); err != nil {
			return err
		}
	}

	for _, dep := range deps {
		if de, ok := m.entries[dep]; ok && de.state == StateInitialized {
			continue
		}
		if err := m.initialize(ctx, dep, path); err != nil {
			return err
		}
	}

	handle, err := m.materializer.Instantiate(ctx, e.singleton)
	if err != nil {
		m.emitSingleton(EventSingletonFailed, e.singleton, err)
		return &MaterializationFailureError{ID: id, Cause: err}
	}

	m.view.Lock()
	e.handle = handle
	e.state = StateInitialized
	m.materialized = append(m.materialized, id)
	m.view.Unlock()

	m.emitSingleton(EventSingletonInitialized, e.singleton, nil)
	m.logger.DebugCtx(ctx, "Component materialized", zap.String("component", string(id)))
	return nil
}

// DoShutdown tears down every materialized component in reverse materialization order.
// Teardown failures are logged and collected; iteration always completes.
// Afterwards the application is closed: nothing is materialized again.
func (m *Manager) DoShutdown(ctx context.Context) error {
	ctx, exit := m.enter(ctx)
	defer exit()

	m.logger.InfoCtx(ctx, "🛑 Application shutdown", zap.Int("materialized", len(m.materialized)))
	m.closed = true
	err := m.teardown(ctx, func(component.ID) bool { return true })
	m.stopAll()
	return err
}

// reentryCycle a callback asked for a component whose own initialization is in progress
func (m *Manager) reentryCycle(id component.ID) error {
	start := 0
	for i, r := range m.resolving {
		if r == id {
			start = i
			break
		}
	}
	chain := append(append([]component.ID(nil), m.resolving[start:]...), id)
	return &depgraph.CyclicDependencyError{Chain: chain}
}

// stopAll forgets every started module, announcing them in application order
func (m *Manager) stopAll() {
	for _, mod := range m.app.Modules() {
		if m.started[mod.Path()] {
			m.emitModule(EventModuleStopped, mod.Path())
		}
	}
	m.view.Lock()
	m.started = make(map[string]bool)
	m.view.Unlock()
}

// DoShutdownModule tears down only the components of modulePath; the others keep their order.
func (m *Manager) DoShutdownModule(ctx context.Context, modulePath string) error {
	ctx, exit := m.enter(ctx)
	defer exit()

	m.logger.InfoCtx(ctx, "🛑 Module shutdown", zap.String("module_path", modulePath))
	err := m.teardown(ctx, func(id component.ID) bool { return id.ModulePath() == modulePath })
	if m.started[modulePath] {
		m.emitModule(EventModuleStopped, modulePath)
	}
	m.view.Lock()
	delete(m.started, modulePath)
	m.view.Unlock()
	return err
}

// Abort tears down whatever a failed startup left materialized.
// The manager stays usable for diagnostics and a retried startup.
func (m *Manager) Abort(ctx context.Context) error {
	ctx, exit := m.enter(ctx)
	defer exit()

	m.logger.WarnCtx(ctx, "⚠️ Aborting after startup failure", zap.Int("materialized", len(m.materialized)))
	err := m.teardown(ctx, func(component.ID) bool { return true })
	m.stopAll()
	return err
}

// Shutdown lets the manager be registered as a samber/do service
func (m *Manager) Shutdown(ctx context.Context) error {
	return m.DoShutdown(ctx)
}

func (m *Manager) teardown(ctx context.Context, match func(component.ID) bool) error {
	if m.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.shutdownTimeout)
		defer cancel()
	}

	var errs error
	snapshot := append([]component.ID(nil), m.materialized...)
	for i := len(snapshot) - 1; i >= 0; i-- {
		id := snapshot[i]
		e := m.entries[id]
		// a callback may already have torn it down
		if !match(id) || e.state != StateInitialized {
			continue
		}
		err := m.materializer.Destroy(ctx, e.singleton, e.handle)
		if err != nil {
			failure := &TeardownFailureError{ID: id, Cause: err}
			m.logger.With(errcode.LogFields(failure)...).ErrorCtx(ctx, "❌ Component teardown failed",
				zap.String("component", string(id)))
			errs = multierr.Append(errs, failure)
		} else {
			m.logger.DebugCtx(ctx, "Component torn down", zap.String("component", string(id)))
		}
		m.emitSingleton(EventSingletonTornDown, e.singleton, err)

		m.view.Lock()
		e.handle = nil
		e.state = StateTornDown
		kept := m.materialized[:0:0]
		for _, other := range m.materialized {
			if other != id {
				kept = append(kept, other)
			}
		}
		m.materialized = kept
		m.view.Unlock()
	}
	return errs
}

// IsMaterialized reports whether id currently holds a handle
func (m *Manager) IsMaterialized(id component.ID) bool {
	m.view.RLock()
	defer m.view.RUnlock()
	e, ok := m.entries[id]
	return ok && e.state == StateInitialized
}

// ModuleStarted reports module startup completion; always true with ordering disabled
func (m *Manager) ModuleStarted(modulePath string) bool {
	m.view.RLock()
	defer m.view.RUnlock()
	return m.moduleStarted(modulePath)
}

// StartupCompleted reports whether DoStartup finished for the module, regardless of ordering
func (m *Manager) StartupCompleted(modulePath string) bool {
	m.view.RLock()
	defer m.view.RUnlock()
	return m.started[modulePath]
}

func (m *Manager) moduleStarted(modulePath string) bool {
	if !m.initializeInOrder {
		_, ok := m.app.Module(modulePath)
		return ok
	}
	return m.started[modulePath]
}

// State current state of id
func (m *Manager) State(id component.ID) State {
	m.view.RLock()
	defer m.view.RUnlock()
	if e, ok := m.entries[id]; ok {
		return e.state
	}
	return StateUnregistered
}

// Materialized identifiers in materialization order
func (m *Manager) Materialized() []component.ID {
	m.view.RLock()
	defer m.view.RUnlock()
	out := make([]component.ID, len(m.materialized))
	copy(out, m.materialized)
	return out
}

// Handle handle of a materialized component
func (m *Manager) Handle(id component.ID) (component.Handle, bool) {
	m.view.RLock()
	defer m.view.RUnlock()
	e, ok := m.entries[id]
	if !ok || e.state != StateInitialized {
		return nil, false
	}
	return e.handle, true
}

// Registered identifiers in registration order
func (m *Manager) Registered() []component.ID {
	m.view.RLock()
	defer m.view.RUnlock()
	out := make([]component.ID, len(m.order))
	copy(out, m.order)
	return out
}

// Dependencies transitive dependencies of id in materialization order
func (m *Manager) Dependencies(id component.ID) ([]component.ID, error) {
	return m.dependencies(id)
}
