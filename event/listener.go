package event

import "context"

// Listener handles one event.
// An error stops the remaining synchronous listeners; ErrStopPropagation stops them without failing Dispatch.
type Listener interface {
	Handle(ctx context.Context, event Event) error
}

// ListenerFunc functional listener adapter
type ListenerFunc func(ctx context.Context, event Event) error

// Handle implements Listener
func (f ListenerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Next continues the handler chain
type Next func(ctx context.Context, event Event) error

// Interceptor wraps every dispatch
type Interceptor func(ctx context.Context, event Event, next Next) error
