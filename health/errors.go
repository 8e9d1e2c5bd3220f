package health

import "errors"

// ErrDegraded a checker returning an error that wraps ErrDegraded reports degraded, not unhealthy
var ErrDegraded = errors.New("degraded")
