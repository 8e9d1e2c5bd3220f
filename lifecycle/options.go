package lifecycle

import (
	"time"

	"github.com/KOMKZ/go-yogan-singleton/logger"
)

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the manager logger
func WithLogger(l *logger.CtxZapLogger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithEvents publishes lifecycle events to p; nil disables publishing
func WithEvents(p Publisher) Option {
	return func(m *Manager) {
		m.publisher = p
	}
}

// WithOrderingPolicy installs a custom policy.
// The policy runs under the manager lock and must not call back into the Manager.
func WithOrderingPolicy(p OrderingPolicy) Option {
	return func(m *Manager) {
		if p != nil {
			m.policy = p
		}
	}
}

// WithInitializeInOrder true installs ModuleOrder against the manager's own module tracking
// unless WithOrderingPolicy supplied another policy. false treats every module as started.
func WithInitializeInOrder(ordered bool) Option {
	return func(m *Manager) {
		m.initializeInOrder = ordered
	}
}

// WithSealOnStartup closes registration on the first DoStartup
func WithSealOnStartup(seal bool) Option {
	return func(m *Manager) {
		m.sealOnStartup = seal
	}
}

// WithShutdownTimeout bounds the context passed to teardown callbacks
func WithShutdownTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.shutdownTimeout = d
	}
}

type trackerFunc func(string) bool

func (f trackerFunc) ModuleStarted(modulePath string) bool { return f(modulePath) }
