package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOMKZ/go-yogan-singleton/component"
	"github.com/KOMKZ/go-yogan-singleton/lifecycle"
	"github.com/KOMKZ/go-yogan-singleton/testutil"
)

type probeHandle struct{ err error }

func (p probeHandle) Check(context.Context) error { return p.err }

func newManager(t *testing.T, probes map[string]error) *lifecycle.Manager {
	t.Helper()
	app := testutil.NewApp(t, "shop",
		testutil.ModuleFixture{Path: "billing.jar", Components: []string{"Ledger", "Plain"}},
		testutil.ModuleFixture{Path: "orders.jar", Components: []string{"Orders"}},
	)
	m := component.MaterializerFuncs{
		InstantiateFunc: func(_ context.Context, s component.Singleton) (component.Handle, error) {
			if err, ok := probes[s.Descriptor.Name]; ok {
				return probeHandle{err: err}, nil
			}
			return "plain", nil
		},
	}
	mgr := lifecycle.New(app, m)
	ctx := context.Background()
	for _, desc := range []struct {
		module string
		desc   component.Descriptor
	}{
		{"billing.jar", component.Descriptor{Name: "Ledger", Eager: true}},
		{"billing.jar", component.Descriptor{Name: "Plain", Eager: true}},
		{"orders.jar", component.Descriptor{Name: "Orders", Eager: true, DependsOn: []string{"billing/Ledger"}}},
	} {
		_, err := mgr.AddSingletonComponent(ctx, testutil.MustModule(t, app, desc.module), desc.desc)
		require.NoError(t, err)
	}
	return mgr
}

func TestForManager_BeforeAndAfterStartup(t *testing.T) {
	ctx := context.Background()
	mgr := newManager(t, map[string]error{"Ledger": nil})
	agg := ForManager(mgr, DefaultConfig())

	resp := agg.Check(ctx)
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Equal(t, StatusUnhealthy, resp.Checks["module:billing.jar"].Status)
	assert.Equal(t, StatusHealthy, resp.Checks["components"].Status)
	assert.Equal(t, "shop", resp.Metadata["application"])
	assert.Equal(t, mgr.RunID(), resp.Metadata["run_id"])

	require.NoError(t, mgr.DoStartup(ctx, "billing.jar"))
	resp = agg.Check(ctx)
	assert.Equal(t, StatusHealthy, resp.Checks["module:billing.jar"].Status)
	assert.Equal(t, StatusUnhealthy, resp.Checks["module:orders.jar"].Status)

	require.NoError(t, mgr.DoStartup(ctx, "orders.jar"))
	assert.True(t, agg.Check(ctx).IsHealthy())

	require.NoError(t, mgr.DoShutdown(ctx))
	assert.Equal(t, StatusUnhealthy, agg.Check(ctx).Status)
}

func TestComponentChecker_FailingProbeDegrades(t *testing.T) {
	ctx := context.Background()
	mgr := newManager(t, map[string]error{"Ledger": errors.New("ledger offline")})
	require.NoError(t, mgr.DoStartup(ctx, "billing.jar"))
	require.NoError(t, mgr.DoStartup(ctx, "orders.jar"))

	resp := ForManager(mgr, DefaultConfig()).Check(ctx)
	assert.True(t, resp.IsDegraded())
	res := resp.Checks["components"]
	assert.Equal(t, StatusDegraded, res.Status)
	assert.Contains(t, res.Error, "billing.jar#Ledger: ledger offline")
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
