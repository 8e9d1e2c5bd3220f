package retry

import (
	"fmt"
	"strings"
)

// MultiError every attempt's error; it unwraps to all of them
type MultiError struct {
	Errors   []error
	Attempts int
}

// Error last attempt's error message
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "retry failed: no errors"
	}
	return e.Errors[len(e.Errors)-1].Error()
}

// Unwrap supports errors.Is against any attempt
func (e *MultiError) Unwrap() []error {
	return e.Errors
}

// LastError last attempt's error
func (e *MultiError) LastError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[len(e.Errors)-1]
}

// AllErrors one line per attempt
func (e *MultiError) AllErrors() string {
	var b strings.Builder
	fmt.Fprintf(&b, "retry failed after %d attempts:", e.Attempts)
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "\n  attempt %d: %v", i+1, err)
	}
	return b.String()
}
