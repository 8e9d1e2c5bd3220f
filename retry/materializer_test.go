package retry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KOMKZ/go-yogan-singleton/component"
	"github.com/KOMKZ/go-yogan-singleton/logger"
)

func TestMaterializer_RetriesInstantiate(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	calls := 0
	destroys := 0
	next := component.MaterializerFuncs{
		InstantiateFunc: func(context.Context, component.Singleton) (component.Handle, error) {
			calls++
			if calls < 3 {
				return nil, errFlaky
			}
			return "ok", nil
		},
		DestroyFunc: func(context.Context, component.Singleton, component.Handle) error {
			destroys++
			return errors.New("destroy failed")
		},
	}
	m := NewMaterializer(next, logger.NewWithCore(core, "test"), MaxAttempts(3), Backoff(NoBackoff()))
	s := component.Singleton{ID: component.NewID("a.jar", "A"), ModulePath: "a.jar"}

	h, err := m.Instantiate(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "ok", h)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, logs.FilterMessage("🔁 Instantiation failed, retrying").Len())

	assert.Error(t, m.Destroy(context.Background(), s, h))
	assert.Equal(t, 1, destroys)
}

func TestMaterializer_GivesUp(t *testing.T) {
	next := component.MaterializerFuncs{
		InstantiateFunc: func(context.Context, component.Singleton) (component.Handle, error) {
			return nil, errFlaky
		},
	}
	m := NewMaterializer(next, nil, MaxAttempts(2), Backoff(NoBackoff()))

	_, err := m.Instantiate(context.Background(), component.Singleton{ID: "a.jar#A"})
	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 2, GetAttempts(err))
}
