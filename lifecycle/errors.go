package lifecycle

import (
	"fmt"

	"github.com/KOMKZ/go-yogan-singleton/component"
	"github.com/KOMKZ/go-yogan-singleton/depgraph"
	"github.com/KOMKZ/go-yogan-singleton/errcode"
)

// ModuleCode lifecycle module code
const ModuleCode = 63

// Error codes: 63xxxx
const (
	ErrCodeOrderingViolation      = 1
	ErrCodeMaterializationFailure = 2
	ErrCodeTeardownFailure        = 3
	ErrCodeUnregisteredComponent  = 4
	ErrCodeDuplicateRegistration  = 5
	ErrCodeUnknownModule          = 6
	ErrCodeInvalidDescriptor      = 7
	ErrCodeInvalidConfig          = 8
	ErrCodeManagerClosed          = 9
)

var (
	// ErrOrderingViolation a dependency lives in a module that has not finished startup
	ErrOrderingViolation = errcode.Register(errcode.New(
		ModuleCode, ErrCodeOrderingViolation,
		"lifecycle", "error.singleton.ordering_violation", "module ordering violation",
	))

	// ErrMaterializationFailure the instantiate callback failed
	ErrMaterializationFailure = errcode.Register(errcode.New(
		ModuleCode, ErrCodeMaterializationFailure,
		"lifecycle", "error.singleton.materialization_failure", "materialization failed",
	))

	// ErrTeardownFailure the destroy callback failed
	ErrTeardownFailure = errcode.Register(errcode.New(
		ModuleCode, ErrCodeTeardownFailure,
		"lifecycle", "error.singleton.teardown_failure", "teardown failed",
	))

	// ErrUnregisteredComponent a resolved identifier has no registered descriptor
	ErrUnregisteredComponent = errcode.Register(errcode.New(
		ModuleCode, ErrCodeUnregisteredComponent,
		"lifecycle", "error.singleton.unregistered_component", "component is not registered",
	))

	// ErrDuplicateRegistration the same identifier was registered twice
	ErrDuplicateRegistration = errcode.Register(errcode.New(
		ModuleCode, ErrCodeDuplicateRegistration,
		"lifecycle", "error.singleton.duplicate_registration", "component already registered",
	))

	// ErrUnknownModule the module path is not part of the application
	ErrUnknownModule = errcode.Register(errcode.New(
		ModuleCode, ErrCodeUnknownModule,
		"lifecycle", "error.singleton.unknown_module", "unknown module",
	))

	// ErrInvalidDescriptor descriptor without a name
	ErrInvalidDescriptor = errcode.Register(errcode.New(
		ModuleCode, ErrCodeInvalidDescriptor,
		"lifecycle", "error.singleton.invalid_descriptor", "invalid component descriptor",
	))

	// ErrInvalidConfig lifecycle configuration rejected by validation
	ErrInvalidConfig = errcode.Register(errcode.New(
		ModuleCode, ErrCodeInvalidConfig,
		"lifecycle", "error.singleton.invalid_config", "invalid lifecycle configuration",
	))

	// ErrManagerClosed the application was shut down; its components are not materialized again
	ErrManagerClosed = errcode.Register(errcode.New(
		ModuleCode, ErrCodeManagerClosed,
		"lifecycle", "error.singleton.manager_closed", "application already shut down",
	))
)

// OrderingViolationError Chain runs from the originating root to the violating dependency.
type OrderingViolationError struct {
	Chain  []component.ID
	Module string
}

func (e *OrderingViolationError) Error() string {
	return fmt.Sprintf("%s: module %s has not started: %s",
		ErrOrderingViolation.Message(), e.Module, depgraph.RenderChain(e.Chain))
}

// Unwrap lets errors.Is match ErrOrderingViolation
func (e *OrderingViolationError) Unwrap() error {
	return ErrOrderingViolation
}

// MaterializationFailureError wraps the instantiate callback error
type MaterializationFailureError struct {
	ID    component.ID
	Cause error
}

func (e *MaterializationFailureError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrMaterializationFailure.Message(), e.ID, e.Cause)
}

// Unwrap matches both ErrMaterializationFailure and the callback error
func (e *MaterializationFailureError) Unwrap() []error {
	return []error{ErrMaterializationFailure, e.Cause}
}

// TeardownFailureError wraps the destroy callback error
type TeardownFailureError struct {
	ID    component.ID
	Cause error
}

func (e *TeardownFailureError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrTeardownFailure.Message(), e.ID, e.Cause)
}

// Unwrap matches both ErrTeardownFailure and the callback error
func (e *TeardownFailureError) Unwrap() []error {
	return []error{ErrTeardownFailure, e.Cause}
}

// UnregisteredComponentError Chain is the initialization path that reached ID
type UnregisteredComponentError struct {
	ID    component.ID
	Chain []component.ID
}

func (e *UnregisteredComponentError) Error() string {
	if len(e.Chain) == 0 {
		return fmt.Sprintf("%s: %s", ErrUnregisteredComponent.Message(), e.ID)
	}
	return fmt.Sprintf("%s: %s (via %s)", ErrUnregisteredComponent.Message(), e.ID, depgraph.RenderChain(e.Chain))
}

// Unwrap lets errors.Is match ErrUnregisteredComponent
func (e *UnregisteredComponentError) Unwrap() error {
	return ErrUnregisteredComponent
}
