package event

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	BaseEvent
	Data string
}

func newTestEvent(name, data string) *testEvent {
	return &testEvent{BaseEvent: NewEvent(name), Data: data}
}

func TestNewEvent(t *testing.T) {
	before := time.Now()
	e := NewEvent("module.started")
	assert.Equal(t, "module.started", e.Name())
	assert.False(t, e.OccurredAt().Before(before))
}

func TestDispatch_PriorityOrder(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	var got []string
	record := func(tag string) Listener {
		return ListenerFunc(func(context.Context, Event) error {
			got = append(got, tag)
			return nil
		})
	}
	d.Subscribe("x", record("late"), WithPriority(10))
	d.Subscribe("x", record("first"), WithPriority(-1))
	d.Subscribe("x", record("default"))
	d.Subscribe("y", record("other"))

	require.NoError(t, d.Dispatch(context.Background(), newTestEvent("x", "")))
	assert.Equal(t, []string{"first", "default", "late"}, got)
}

func TestDispatch_ErrorStopsChain(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	boom := errors.New("boom")
	called := false
	d.Subscribe("x", ListenerFunc(func(context.Context, Event) error { return boom }))
	d.Subscribe("x", ListenerFunc(func(context.Context, Event) error { called = true; return nil }), WithPriority(1))

	assert.ErrorIs(t, d.Dispatch(context.Background(), newTestEvent("x", "")), boom)
	assert.False(t, called)
}

func TestDispatch_StopPropagation(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	called := false
	d.Subscribe("x", ListenerFunc(func(context.Context, Event) error { return ErrStopPropagation }))
	d.Subscribe("x", ListenerFunc(func(context.Context, Event) error { called = true; return nil }), WithPriority(1))

	assert.NoError(t, d.Dispatch(context.Background(), newTestEvent("x", "")))
	assert.False(t, called)
}

func TestDispatch_NilEvent(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()
	assert.NoError(t, d.Dispatch(context.Background(), nil))
}

func TestSubscribe_OnceAndUnsubscribe(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	var n int32
	count := ListenerFunc(func(context.Context, Event) error { atomic.AddInt32(&n, 1); return nil })
	d.Subscribe("x", count, WithOnce())
	unsubscribe := d.Subscribe("x", count)
	assert.Equal(t, 2, d.ListenerCount("x"))

	require.NoError(t, d.Dispatch(context.Background(), newTestEvent("x", "")))
	assert.Equal(t, 1, d.ListenerCount("x"))

	unsubscribe()
	assert.Equal(t, 0, d.ListenerCount("x"))
	require.NoError(t, d.Dispatch(context.Background(), newTestEvent("x", "")))
	assert.Equal(t, int32(2), atomic.LoadInt32(&n))

	// ignored subscriptions
	d.Subscribe("", count)()
	d.Subscribe("x", nil)()
	assert.Equal(t, 0, d.ListenerCount(""))
}

func TestInterceptors_WrapInRegistrationOrder(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	var got []string
	trace := func(tag string) Interceptor {
		return func(ctx context.Context, e Event, next Next) error {
			got = append(got, tag+">")
			err := next(ctx, e)
			got = append(got, "<"+tag)
			return err
		}
	}
	d.Use(trace("outer"))
	d.Use(trace("inner"))
	d.Subscribe("x", ListenerFunc(func(context.Context, Event) error {
		got = append(got, "listener")
		return nil
	}))

	require.NoError(t, d.Dispatch(context.Background(), newTestEvent("x", "")))
	assert.Equal(t, []string{"outer>", "inner>", "listener", "<inner", "<outer"}, got)
}

func TestAsyncListener(t *testing.T) {
	d := NewDispatcher(WithPoolSize(4))

	var mu sync.Mutex
	var got []string
	d.Subscribe("x", ListenerFunc(func(_ context.Context, e Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.(*testEvent).Data)
		return errors.New("logged, not returned")
	}), WithAsync())

	require.NoError(t, d.Dispatch(context.Background(), newTestEvent("x", "a")))
	d.DispatchAsync(context.Background(), newTestEvent("x", "b"))
	d.Wait()
	d.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a", "b"}, got)
}

func TestSetAllSync(t *testing.T) {
	d := NewDispatcher(WithSetAllSync(true))
	defer d.Close()

	boom := errors.New("boom")
	d.Subscribe("x", ListenerFunc(func(context.Context, Event) error { return boom }), WithAsync())
	assert.ErrorIs(t, d.Dispatch(context.Background(), newTestEvent("x", "")), boom)
}

func TestClose_RejectsAsyncWork(t *testing.T) {
	d := NewDispatcher()
	require.NoError(t, d.Shutdown())
	d.Close()

	called := false
	d.Subscribe("x", ListenerFunc(func(context.Context, Event) error { called = true; return nil }), WithAsync())
	require.NoError(t, d.Dispatch(context.Background(), newTestEvent("x", "")))
	d.Wait()
	assert.False(t, called)
}

func TestConfig(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Len(t, cfg.Options(), 2)
	assert.Error(t, Config{PoolSize: 0}.Validate())
}
