package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOMKZ/go-yogan-singleton/component"
	"github.com/KOMKZ/go-yogan-singleton/descriptor"
	"github.com/KOMKZ/go-yogan-singleton/event"
	"github.com/KOMKZ/go-yogan-singleton/lifecycle"
	"github.com/KOMKZ/go-yogan-singleton/retry"
	"github.com/KOMKZ/go-yogan-singleton/telemetry"
)

const shopYAML = `
application: shop
modules:
  - path: shop.ear/orders.jar
    components:
      - name: OrderService
        eager: true
        depends_on: [Repository]
      - name: Repository
`

func parseShop(t *testing.T) *descriptor.Document {
	t.Helper()
	doc, err := descriptor.Parse([]byte(shopYAML), "yaml")
	require.NoError(t, err)
	return doc
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "singleton.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func provideShop(r *Runtime, repos *[]*repository) {
	ProvideSingleton(r.Injector(), repoID, func(do.Injector) (*repository, error) {
		repo := &repository{dsn: "memory"}
		*repos = append(*repos, repo)
		return repo, nil
	})
	ProvideSingleton(r.Injector(), serviceID, func(i do.Injector) (*service, error) {
		repo, err := HandleOf[*repository](i, repoID)
		if err != nil {
			return nil, err
		}
		return &service{repo: repo}, nil
	})
}

func TestRuntime_Lifecycle(t *testing.T) {
	var repos []*repository
	readyCalled := false
	r := NewRuntime(parseShop(t),
		WithConfigFile(writeConfig(t, "logger:\n  level: debug\n  enable_file: false\n")),
		WithOnSetup(func(r *Runtime) error {
			provideShop(r, &repos)
			return nil
		}),
		WithOnReady(func(*Runtime) error {
			readyCalled = true
			return nil
		}),
	)
	assert.Equal(t, StateInit, r.State())

	require.NoError(t, r.Setup())
	assert.Equal(t, StateSetup, r.State())
	assert.NotNil(t, r.Logger())

	require.NoError(t, r.Start(context.Background()))
	assert.Equal(t, StateRunning, r.State())
	assert.True(t, readyCalled)

	mgr := r.Manager()
	assert.Equal(t, []component.ID{repoID, serviceID}, mgr.Materialized())
	h, ok := mgr.Handle(serviceID)
	require.True(t, ok)
	require.Len(t, repos, 1)
	assert.Same(t, repos[0], h.(*service).repo)

	report, err := r.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, report.IsHealthy())
	assert.Contains(t, report.Checks, "module:shop.ear/orders.jar")

	require.NoError(t, r.Shutdown(context.Background()))
	assert.Equal(t, StateStopped, r.State())
	assert.True(t, repos[0].disposed)
	assert.Empty(t, mgr.Materialized())
}

func TestRuntime_StartFailsWithoutProvider(t *testing.T) {
	r := NewRuntime(parseShop(t))
	require.NoError(t, r.Setup())

	err := r.Start(context.Background())
	assert.ErrorIs(t, err, descriptor.ErrDeployFailed)
	assert.ErrorIs(t, err, lifecycle.ErrMaterializationFailure)
	assert.ErrorIs(t, err, ErrProviderNotFound)
	assert.NoError(t, r.Shutdown(context.Background()))
}

func TestProvideManager_ConfigOverridesDocumentOrdering(t *testing.T) {
	doc := parseShop(t)
	doc.InitializeInOrder = false
	r := NewRuntime(doc, WithConfigFile(writeConfig(t, `
lifecycle:
  initialize_in_order: true
  seal_on_startup: true
`)))
	require.NoError(t, r.Setup())
	defer r.Shutdown(context.Background())

	mgr := do.MustInvoke[*lifecycle.Manager](r.Injector())
	assert.False(t, mgr.ModuleStarted("shop.ear/orders.jar"), "ordering enabled by configuration")

	cfg := do.MustInvoke[lifecycle.Config](r.Injector())
	assert.True(t, cfg.SealOnStartup)
}

func TestProvideComponentMaterializer_TracedWhenEnabled(t *testing.T) {
	r := NewRuntime(parseShop(t), WithConfigFile(writeConfig(t, `
telemetry:
  enabled: true
  exporter:
    type: noop
`)))
	require.NoError(t, r.Setup())
	defer r.Shutdown(context.Background())

	m := do.MustInvoke[component.Materializer](r.Injector())
	assert.IsType(t, &telemetry.Materializer{}, m)
}

func TestProvideComponentMaterializer_PlainWhenDisabled(t *testing.T) {
	r := NewRuntime(parseShop(t))
	require.NoError(t, r.Setup())
	defer r.Shutdown(context.Background())

	m := do.MustInvoke[component.Materializer](r.Injector())
	assert.IsType(t, &Materializer{}, m)
}

func TestRuntimeState_String(t *testing.T) {
	assert.Equal(t, "Running", StateRunning.String())
	assert.Equal(t, "Unknown", RuntimeState(42).String())
}

func TestRuntime_Subscribe(t *testing.T) {
	var repos []*repository
	r := NewRuntime(parseShop(t), WithOnSetup(func(r *Runtime) error {
		provideShop(r, &repos)
		return nil
	}))
	require.NoError(t, r.Setup())

	var started []string
	_, err := r.Subscribe(lifecycle.EventModuleStarted, event.ListenerFunc(func(_ context.Context, e event.Event) error {
		started = append(started, e.(*lifecycle.ModuleEvent).ModulePath)
		return nil
	}))
	require.NoError(t, err)

	require.NoError(t, r.Start(context.Background()))
	require.NoError(t, r.Shutdown(context.Background()))
	assert.Equal(t, []string{"shop.ear/orders.jar"}, started)
}

func TestRuntime_SubscribeDisabled(t *testing.T) {
	r := NewRuntime(parseShop(t), WithConfigFile(writeConfig(t, "event:\n  enabled: false\n")))
	require.NoError(t, r.Setup())
	defer r.Shutdown(context.Background())

	_, err := r.Subscribe(lifecycle.EventModuleStarted, event.ListenerFunc(func(context.Context, event.Event) error { return nil }))
	assert.ErrorIs(t, err, ErrEventsDisabled)
}

func TestProvideComponentMaterializer_RetriedWhenConfigured(t *testing.T) {
	r := NewRuntime(parseShop(t), WithConfigFile(writeConfig(t, `
retry:
  max_attempts: 3
  base_delay: 1ms
`)))
	require.NoError(t, r.Setup())
	defer r.Shutdown(context.Background())

	m := do.MustInvoke[component.Materializer](r.Injector())
	assert.IsType(t, &retry.Materializer{}, m)
}
