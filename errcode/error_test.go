package errcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLayeredError_New(t *testing.T) {
	err := New(61, 1, "naming", "error.singleton.unresolved", "dependency cannot be resolved")

	assert.Equal(t, 610001, err.Code())
	assert.Equal(t, "naming", err.Module())
	assert.Equal(t, "error.singleton.unresolved", err.MsgKey())
	assert.Equal(t, "dependency cannot be resolved", err.Error())
	assert.Empty(t, err.Data())
}

func TestLayeredError_WithDataDoesNotMutateOriginal(t *testing.T) {
	original := New(62, 1, "depgraph", "error.singleton.cycle", "cyclic dependency")
	modified := original.WithData("chain", []string{"a", "b"}).WithData("root", "a")

	assert.Empty(t, original.Data())
	assert.Len(t, modified.Data(), 2)
	assert.Equal(t, "a", modified.Data()["root"])
}

func TestLayeredError_WrapAndIs(t *testing.T) {
	cause := errors.New("constructor exploded")
	sentinel := New(63, 2, "lifecycle", "error.singleton.materialize", "materialization failed")
	wrapped := sentinel.Wrapf(cause, "materialize %s", "app#A")

	assert.Equal(t, "materialize app#A: constructor exploded", wrapped.Error())
	assert.True(t, errors.Is(wrapped, sentinel))
	assert.True(t, errors.Is(wrapped, cause))
	assert.Same(t, sentinel, sentinel.Wrap(nil))

	other := New(63, 3, "lifecycle", "error.singleton.teardown", "teardown failed")
	assert.False(t, errors.Is(wrapped, other))
}

func TestLayeredError_WithMsgKeepsCode(t *testing.T) {
	sentinel := New(63, 4, "lifecycle", "error.singleton.unregistered", "unregistered component")
	err := sentinel.WithMsg("component a.jar#X is not declared")

	assert.Equal(t, "component a.jar#X is not declared", err.Error())
	assert.Equal(t, "unregistered component", sentinel.Error())
	assert.ErrorIs(t, err, sentinel)
}

func TestLogFields(t *testing.T) {
	sentinel := New(62, 1, "depgraph", "error.singleton.cyclic_dependency", "cyclic dependency")
	err := fmt.Errorf("initialize a.jar#X: %w", sentinel.WithMsg("a.jar#X → a.jar#X"))

	fields := LogFields(err)
	require.Len(t, fields, 3)
	assert.Equal(t, "error_code", fields[0].Key)
	assert.Equal(t, int64(620001), fields[0].Integer)
	assert.Equal(t, "error.singleton.cyclic_dependency", fields[1].String)
	assert.Equal(t, zapcore.ErrorType, fields[2].Type)

	plain := LogFields(errors.New("boom"))
	require.Len(t, plain, 1)
	assert.Equal(t, "error", plain[0].Key)
}
