package event

import "errors"

// ErrStopPropagation stops event propagation without being reported as an error
var ErrStopPropagation = errors.New("stop propagation")

// ErrDispatcherClosed asynchronous work submitted after Close
var ErrDispatcherClosed = errors.New("event dispatcher closed")
