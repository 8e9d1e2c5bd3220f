package naming

import (
	"fmt"

	"github.com/KOMKZ/go-yogan-singleton/component"
	"github.com/KOMKZ/go-yogan-singleton/errcode"
)

// ModuleCode naming module code
const ModuleCode = 61

// Error codes: 61xxxx
const (
	ErrCodeUnresolvedDependency = 1
	ErrCodeInvalidToken         = 2
	ErrCodeForeignModule        = 3
	ErrCodeDuplicateModule      = 4
)

var (
	// ErrUnresolvedDependency a dependency token matched no component
	ErrUnresolvedDependency = errcode.Register(errcode.New(
		ModuleCode, ErrCodeUnresolvedDependency,
		"naming", "error.singleton.unresolved_dependency", "unresolved dependency",
	))

	// ErrInvalidToken the raw token is empty or malformed
	ErrInvalidToken = errcode.Register(errcode.New(
		ModuleCode, ErrCodeInvalidToken,
		"naming", "error.singleton.invalid_token", "invalid dependency token",
	))

	// ErrForeignModule the declaring module is not part of the application
	ErrForeignModule = errcode.Register(errcode.New(
		ModuleCode, ErrCodeForeignModule,
		"naming", "error.singleton.foreign_module", "module does not belong to application",
	))

	// ErrDuplicateModule two modules share a path
	ErrDuplicateModule = errcode.Register(errcode.New(
		ModuleCode, ErrCodeDuplicateModule,
		"naming", "error.singleton.duplicate_module", "duplicate module path",
	))
)

// UnresolvedDependencyError carries the declaring component and the raw token.
type UnresolvedDependencyError struct {
	Declaring component.ID
	Token     string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("%s: component %s depends on %q", ErrUnresolvedDependency.Message(), e.Declaring, e.Token)
}

// Unwrap lets errors.Is match ErrUnresolvedDependency
func (e *UnresolvedDependencyError) Unwrap() error {
	return ErrUnresolvedDependency
}
