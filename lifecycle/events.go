package lifecycle

import (
	"context"

	"go.uber.org/zap"

	"github.com/KOMKZ/go-yogan-singleton/component"
	"github.com/KOMKZ/go-yogan-singleton/event"
)

// Lifecycle event names
const (
	EventSingletonInitialized = "singleton.initialized"
	EventSingletonFailed      = "singleton.failed"
	EventSingletonTornDown    = "singleton.torn_down"
	EventModuleStarted        = "module.started"
	EventModuleStopped        = "module.stopped"
)

// SingletonEvent one component changed state. Err is set for failures and failed teardowns.
type SingletonEvent struct {
	event.BaseEvent
	ID         component.ID
	ModulePath string
	Err        error
}

// ModuleEvent one module started or stopped
type ModuleEvent struct {
	event.BaseEvent
	Application string
	ModulePath  string
}

// Publisher receives lifecycle events once the manager lock is released,
// so listeners may call back into the Manager.
type Publisher interface {
	Dispatch(ctx context.Context, e event.Event) error
}

func (m *Manager) emitSingleton(name string, s component.Singleton, err error) {
	if m.publisher == nil {
		return
	}
	m.pending = append(m.pending, &SingletonEvent{
		BaseEvent:  event.NewEvent(name),
		ID:         s.ID,
		ModulePath: s.ModulePath,
		Err:        err,
	})
}

func (m *Manager) emitModule(name, modulePath string) {
	if m.publisher == nil {
		return
	}
	m.pending = append(m.pending, &ModuleEvent{
		BaseEvent:   event.NewEvent(name),
		Application: m.app.Name(),
		ModulePath:  modulePath,
	})
}

// flush publishes queued events; callers must not hold the lock
func (m *Manager) flush(ctx context.Context) {
	if m.publisher == nil {
		return
	}
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, e := range pending {
		if err := m.publisher.Dispatch(ctx, e); err != nil {
			m.logger.WarnCtx(ctx, "Lifecycle event listener failed",
				zap.String("event", e.Name()), zap.Error(err))
		}
	}
}
