package component

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_Split(t *testing.T) {
	tests := []struct {
		id     ID
		module string
		name   string
	}{
		{NewID("app/orders.jar", "Cache"), "app/orders.jar", "Cache"},
		{NewID("", "Cache"), "", "Cache"},
		{ID("Cache"), "", "Cache"},
		{ID("a#b#C"), "a#b", "C"},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			assert.Equal(t, tt.module, tt.id.ModulePath())
			assert.Equal(t, tt.name, tt.id.Name())
		})
	}
}

func TestNewID_DistinctAcrossModules(t *testing.T) {
	assert.NotEqual(t, NewID("orders.jar", "Cache"), NewID("billing.jar", "Cache"))
	assert.Equal(t, "orders.jar#Cache", NewID("orders.jar", "Cache").String())
}

func TestMaterializerFuncs(t *testing.T) {
	boom := errors.New("boom")
	m := MaterializerFuncs{
		InstantiateFunc: func(ctx context.Context, s Singleton) (Handle, error) {
			return s.ID.Name(), nil
		},
	}

	h, err := m.Instantiate(context.Background(), Singleton{ID: NewID("m", "A")})
	require.NoError(t, err)
	assert.Equal(t, "A", h)
	assert.NoError(t, m.Destroy(context.Background(), Singleton{}, h))

	m.DestroyFunc = func(ctx context.Context, s Singleton, h Handle) error { return boom }
	assert.ErrorIs(t, m.Destroy(context.Background(), Singleton{}, h), boom)
}
