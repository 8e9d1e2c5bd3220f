package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOMKZ/go-yogan-singleton/component"
	"github.com/KOMKZ/go-yogan-singleton/depgraph"
	"github.com/KOMKZ/go-yogan-singleton/testutil"
)

// callbackShop builds the shop application with callbacks that can reach the manager
func callbackShop(t *testing.T, instantiate func(context.Context, *Manager, component.Singleton) (component.Handle, error), destroy func(context.Context, *Manager, component.Singleton) error) *Manager {
	t.Helper()
	tc := testutil.NewTestContext(t)
	app := testutil.NewApp(t, "shop",
		testutil.ModuleFixture{Path: orders, Components: []string{"A", "B", "C", "D"}},
		testutil.ModuleFixture{Path: billing, Components: []string{"Ledger", "Audit"}},
	)
	var m *Manager
	m = New(app, component.MaterializerFuncs{
		InstantiateFunc: func(ctx context.Context, s component.Singleton) (component.Handle, error) {
			return instantiate(ctx, m, s)
		},
		DestroyFunc: func(ctx context.Context, s component.Singleton, _ component.Handle) error {
			if destroy == nil {
				return nil
			}
			return destroy(ctx, m, s)
		},
	}, WithLogger(tc.Logger))
	return m
}

// within fails the test instead of hanging when fn blocks
func within(t *testing.T, fn func() error) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		require.FailNow(t, "manager call blocked")
		return nil
	}
}

func TestManager_CallbackInitializesLazySingleton(t *testing.T) {
	ctx := context.Background()
	var order []component.ID
	m := callbackShop(t, func(ctx context.Context, m *Manager, s component.Singleton) (component.Handle, error) {
		if s.ID == id(orders, "A") {
			if err := m.InitializeSingleton(ctx, id(orders, "Lazy")); err != nil {
				return nil, err
			}
			h, ok := m.Handle(id(orders, "Lazy"))
			assert.True(t, ok)
			assert.Equal(t, "Lazy", h)
			assert.True(t, m.IsMaterialized(id(orders, "Lazy")))
			assert.Equal(t, StateResolving, m.State(id(orders, "A")))
		}
		order = append(order, s.ID)
		return s.Descriptor.Name, nil
	}, nil)
	register(t, m, orders, component.Descriptor{Name: "A", Eager: true})
	register(t, m, orders, component.Descriptor{Name: "Lazy"})

	require.NoError(t, within(t, func() error { return m.DoStartup(ctx, orders) }))

	assert.Equal(t, []component.ID{id(orders, "Lazy"), id(orders, "A")}, order)
	assert.Equal(t, []component.ID{id(orders, "Lazy"), id(orders, "A")}, m.Materialized())
	assert.True(t, m.StartupCompleted(orders))
}

func TestManager_CallbackQueriesWithoutContext(t *testing.T) {
	ctx := context.Background()
	m := callbackShop(t, func(_ context.Context, m *Manager, s component.Singleton) (component.Handle, error) {
		if s.ID == id(orders, "A") {
			assert.True(t, m.IsMaterialized(id(orders, "B")))
			assert.False(t, m.StartupCompleted(orders))
			assert.Equal(t, []component.ID{id(orders, "B")}, m.Materialized())
			deps, err := m.Dependencies(id(orders, "A"))
			assert.NoError(t, err)
			assert.Equal(t, []component.ID{id(orders, "B")}, deps)
		}
		return struct{}{}, nil
	}, nil)
	register(t, m, orders, component.Descriptor{Name: "A", DependsOn: []string{"B"}})
	register(t, m, orders, component.Descriptor{Name: "B"})

	require.NoError(t, within(t, func() error { return m.InitializeSingleton(ctx, id(orders, "A")) }))
}

func TestManager_CallbackRequestingItselfIsACycle(t *testing.T) {
	ctx := context.Background()
	m := callbackShop(t, func(ctx context.Context, m *Manager, s component.Singleton) (component.Handle, error) {
		switch s.ID {
		case id(orders, "A"):
			return nil, m.InitializeSingleton(ctx, id(orders, "B"))
		case id(orders, "B"):
			return nil, m.InitializeSingleton(ctx, id(orders, "A"))
		}
		return struct{}{}, nil
	}, nil)
	register(t, m, orders, component.Descriptor{Name: "A"})
	register(t, m, orders, component.Descriptor{Name: "B"})

	err := within(t, func() error { return m.InitializeSingleton(ctx, id(orders, "A")) })

	var cycle *depgraph.CyclicDependencyError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []component.ID{id(orders, "A"), id(orders, "B"), id(orders, "A")}, cycle.Chain)
	assert.ErrorIs(t, err, ErrMaterializationFailure)
	assert.Equal(t, StateRegistered, m.State(id(orders, "A")))
	assert.Equal(t, StateRegistered, m.State(id(orders, "B")))
	assert.Empty(t, m.Materialized())
}

func TestManager_DestroyCallbackCannotResurrect(t *testing.T) {
	ctx := context.Background()
	var resurrect error
	m := callbackShop(t,
		func(context.Context, *Manager, component.Singleton) (component.Handle, error) {
			return struct{}{}, nil
		},
		func(ctx context.Context, m *Manager, s component.Singleton) error {
			if s.ID == id(orders, "B") {
				resurrect = m.InitializeSingleton(ctx, id(orders, "A"))
			}
			return nil
		})
	register(t, m, orders, component.Descriptor{Name: "A", DependsOn: []string{"B"}})
	register(t, m, orders, component.Descriptor{Name: "B"})
	require.NoError(t, m.InitializeSingleton(ctx, id(orders, "A")))

	require.NoError(t, within(t, func() error { return m.DoShutdown(ctx) }))
	assert.ErrorIs(t, resurrect, ErrManagerClosed)
	assert.Empty(t, m.Materialized())
}

func TestManager_OtherGoroutineWaitsForOperation(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	entered := make(chan struct{})
	m := callbackShop(t, func(_ context.Context, _ *Manager, s component.Singleton) (component.Handle, error) {
		if s.ID == id(orders, "A") {
			close(entered)
			<-release
		}
		return struct{}{}, nil
	}, nil)
	register(t, m, orders, component.Descriptor{Name: "A"})
	register(t, m, orders, component.Descriptor{Name: "B"})

	go func() { _ = m.InitializeSingleton(ctx, id(orders, "A")) }()
	<-entered

	done := make(chan error, 1)
	go func() { done <- m.InitializeSingleton(ctx, id(orders, "B")) }()
	select {
	case <-done:
		t.Fatal("second operation ran while the first held the manager")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, StateResolving, m.State(id(orders, "A")))

	close(release)
	require.NoError(t, <-done)
	assert.True(t, m.IsMaterialized(id(orders, "B")))
}
