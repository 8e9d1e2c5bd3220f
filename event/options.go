package event

import "github.com/KOMKZ/go-yogan-singleton/logger"

type listenerEntry struct {
	id       uint64
	listener Listener
	priority int // lower runs first
	async    bool
	once     bool
}

// SubscribeOption subscription options
type SubscribeOption func(*listenerEntry)

// WithPriority lower numbers run first; default 0
func WithPriority(priority int) SubscribeOption {
	return func(e *listenerEntry) {
		e.priority = priority
	}
}

// WithAsync runs the listener on the pool; its errors are logged and never affect propagation
func WithAsync() SubscribeOption {
	return func(e *listenerEntry) {
		e.async = true
	}
}

// WithOnce unsubscribes after the first delivery
func WithOnce() SubscribeOption {
	return func(e *listenerEntry) {
		e.once = true
	}
}

// DispatcherOption dispatcher options
type DispatcherOption func(*Dispatcher)

// WithPoolSize size of the asynchronous goroutine pool
func WithPoolSize(size int) DispatcherOption {
	return func(d *Dispatcher) {
		d.poolSize = size
	}
}

// WithSetAllSync forces every listener to run synchronously
func WithSetAllSync(v bool) DispatcherOption {
	return func(d *Dispatcher) {
		d.setAllSync = v
	}
}

// WithLogger dispatcher logger
func WithLogger(l *logger.CtxZapLogger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}
