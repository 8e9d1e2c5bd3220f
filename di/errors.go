package di

import "github.com/KOMKZ/go-yogan-singleton/errcode"

// ModuleCode di module code
const ModuleCode = 65

// Error codes: 65xxxx
const (
	ErrCodeProviderNotFound = 1
	ErrCodeHandleNotFound   = 2
	ErrCodeSetupFailed      = 3
	ErrCodeEventsDisabled   = 4
)

var (
	// ErrProviderNotFound no named provider for a component
	ErrProviderNotFound = errcode.Register(errcode.New(
		ModuleCode, ErrCodeProviderNotFound,
		"di", "error.singleton.provider_not_found", "no provider for component",
	))

	// ErrHandleNotFound the component has no live handle, or it has another type
	ErrHandleNotFound = errcode.Register(errcode.New(
		ModuleCode, ErrCodeHandleNotFound,
		"di", "error.singleton.handle_not_found", "component handle not available",
	))

	// ErrSetupFailed runtime setup failed
	ErrSetupFailed = errcode.Register(errcode.New(
		ModuleCode, ErrCodeSetupFailed,
		"di", "error.singleton.setup_failed", "runtime setup failed",
	))

	// ErrEventsDisabled the configuration turned the lifecycle event bus off
	ErrEventsDisabled = errcode.Register(errcode.New(
		ModuleCode, ErrCodeEventsDisabled,
		"di", "error.singleton.events_disabled", "lifecycle events disabled",
	))
)
