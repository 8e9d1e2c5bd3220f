package event

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/KOMKZ/go-yogan-singleton/logger"
)

// UnsubscribeFunc removes one subscription
type UnsubscribeFunc func()

// Dispatcher in-process event dispatcher
type Dispatcher struct {
	mu           sync.RWMutex
	listeners    map[string][]listenerEntry
	interceptors []Interceptor
	nextID       uint64
	pool         *ants.Pool
	poolSize     int
	logger       *logger.CtxZapLogger
	closed       int32
	setAllSync   bool
	inflight     sync.WaitGroup
}

// NewDispatcher creates a dispatcher and its goroutine pool
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		listeners: make(map[string][]listenerEntry),
		poolSize:  100,
		logger:    logger.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	var err error
	d.pool, err = ants.NewPool(d.poolSize)
	if err != nil {
		d.logger.Error("Create goroutine pool failed, using default size", zap.Int("pool_size", d.poolSize), zap.Error(err))
		d.pool, _ = ants.NewPool(100)
	}
	return d
}

// Subscribe registers listener for eventName
func (d *Dispatcher) Subscribe(eventName string, listener Listener, opts ...SubscribeOption) UnsubscribeFunc {
	if eventName == "" || listener == nil {
		return func() {}
	}

	entry := listenerEntry{
		id:       atomic.AddUint64(&d.nextID, 1),
		listener: listener,
	}
	for _, opt := range opts {
		opt(&entry)
	}
	if d.setAllSync {
		entry.async = false
	}

	d.mu.Lock()
	d.listeners[eventName] = append(d.listeners[eventName], entry)
	sort.SliceStable(d.listeners[eventName], func(i, j int) bool {
		return d.listeners[eventName][i].priority < d.listeners[eventName][j].priority
	})
	d.mu.Unlock()

	return func() {
		d.unsubscribe(eventName, entry.id)
	}
}

func (d *Dispatcher) unsubscribe(eventName string, id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entries := d.listeners[eventName]
	for i, e := range entries {
		if e.id == id {
			d.listeners[eventName] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// Use registers a global interceptor
func (d *Dispatcher) Use(interceptor Interceptor) {
	d.mu.Lock()
	d.interceptors = append(d.interceptors, interceptor)
	d.mu.Unlock()
}

// Dispatch delivers event to its listeners in priority order
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) error {
	if event == nil {
		return nil
	}

	d.mu.RLock()
	interceptors := make([]Interceptor, len(d.interceptors))
	copy(interceptors, d.interceptors)
	entries := make([]listenerEntry, len(d.listeners[event.Name()]))
	copy(entries, d.listeners[event.Name()])
	d.mu.RUnlock()

	handler := d.buildHandlerChain(entries, interceptors)
	err := handler(ctx, event)

	d.cleanupOnceListeners(event.Name(), entries)

	if errors.Is(err, ErrStopPropagation) {
		return nil
	}
	return err
}

// DispatchAsync runs Dispatch on the pool; errors are logged
func (d *Dispatcher) DispatchAsync(ctx context.Context, event Event) {
	if err := d.submit(func() {
		if err := d.Dispatch(ctx, event); err != nil {
			d.logger.ErrorCtx(ctx, "Async event handling failed",
				zap.String("event", event.Name()), zap.Error(err))
		}
	}); err != nil {
		d.logger.ErrorCtx(ctx, "Submit async event failed",
			zap.String("event", event.Name()), zap.Error(err))
	}
}

func (d *Dispatcher) submit(task func()) error {
	if atomic.LoadInt32(&d.closed) == 1 {
		return ErrDispatcherClosed
	}
	d.inflight.Add(1)
	err := d.pool.Submit(func() {
		defer d.inflight.Done()
		task()
	})
	if err != nil {
		d.inflight.Done()
	}
	return err
}

func (d *Dispatcher) buildHandlerChain(entries []listenerEntry, interceptors []Interceptor) Next {
	handler := func(ctx context.Context, event Event) error {
		return d.executeListeners(ctx, event, entries)
	}
	for i := len(interceptors) - 1; i >= 0; i-- {
		interceptor := interceptors[i]
		next := handler
		handler = func(ctx context.Context, event Event) error {
			return interceptor(ctx, event, next)
		}
	}
	return handler
}

func (d *Dispatcher) executeListeners(ctx context.Context, event Event, entries []listenerEntry) error {
	for _, entry := range entries {
		if entry.async {
			listener := entry.listener
			if err := d.submit(func() {
				if err := listener.Handle(ctx, event); err != nil && !errors.Is(err, ErrStopPropagation) {
					d.logger.ErrorCtx(ctx, "Async listener failed",
						zap.String("event", event.Name()), zap.Error(err))
				}
			}); err != nil {
				d.logger.ErrorCtx(ctx, "Submit async listener failed",
					zap.String("event", event.Name()), zap.Error(err))
			}
			continue
		}
		if err := entry.listener.Handle(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) cleanupOnceListeners(eventName string, executed []listenerEntry) {
	once := make(map[uint64]bool)
	for _, e := range executed {
		if e.once {
			once[e.id] = true
		}
	}
	if len(once) == 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	entries := d.listeners[eventName]
	filtered := make([]listenerEntry, 0, len(entries))
	for _, e := range entries {
		if !once[e.id] {
			filtered = append(filtered, e)
		}
	}
	d.listeners[eventName] = filtered
}

// Wait blocks until submitted asynchronous work has finished
func (d *Dispatcher) Wait() {
	d.inflight.Wait()
}

// Close waits for asynchronous work and releases the pool
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	if !atomic.CompareAndSwapInt32(&d.closed, 0, 1) {
		return
	}
	d.inflight.Wait()
	d.pool.Release()
}

// Shutdown implements the samber/do shutdown hook
func (d *Dispatcher) Shutdown() error {
	d.Close()
	return nil
}

// ListenerCount number of listeners for eventName
func (d *Dispatcher) ListenerCount(eventName string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners[eventName])
}
