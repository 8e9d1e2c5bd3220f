package descriptor

import "github.com/KOMKZ/go-yogan-singleton/errcode"

// ModuleCode descriptor module code
const ModuleCode = 64

// Error codes: 64xxxx
const (
	ErrCodeReadDocument    = 1
	ErrCodeInvalidDocument = 2
	ErrCodeDeployFailed    = 3
)

var (
	// ErrReadDocument the document could not be read or decoded
	ErrReadDocument = errcode.Register(errcode.New(
		ModuleCode, ErrCodeReadDocument,
		"descriptor", "error.singleton.read_document", "read application descriptor failed",
	))

	// ErrInvalidDocument the document failed validation
	ErrInvalidDocument = errcode.Register(errcode.New(
		ModuleCode, ErrCodeInvalidDocument,
		"descriptor", "error.singleton.invalid_document", "invalid application descriptor",
	))

	// ErrDeployFailed registration or startup failed; materialized components were torn down
	ErrDeployFailed = errcode.Register(errcode.New(
		ModuleCode, ErrCodeDeployFailed,
		"descriptor", "error.singleton.deploy_failed", "application deployment failed",
	))
)
