package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOMKZ/go-yogan-singleton/component"
)

type startedSet map[string]bool

func (s startedSet) ModuleStarted(p string) bool { return s[p] }

func TestModuleOrder_Check(t *testing.T) {
	policy := ModuleOrder{Started: startedSet{billing: true}}
	chain := []component.ID{id(orders, "A")}

	assert.NoError(t, policy.Check(chain, id(billing, "Ledger"), billing))

	err := policy.Check(chain, id("x.jar", "Y"), "x.jar")
	var violation *OrderingViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, []component.ID{id(orders, "A"), id("x.jar", "Y")}, violation.Chain)
	assert.Equal(t, "x.jar", violation.Module)
	assert.ErrorIs(t, err, ErrOrderingViolation)
	assert.Len(t, chain, 1)
}

func TestModuleOrder_NilTrackerRejects(t *testing.T) {
	assert.Error(t, ModuleOrder{}.Check(nil, id(billing, "Ledger"), billing))
}

func TestNoOrdering(t *testing.T) {
	assert.NoError(t, NoOrdering{}.Check(nil, id(billing, "Ledger"), billing))
}

func TestManager_OrderingDisabledTreatsModulesAsStarted(t *testing.T) {
	m, _ := newShop(t)
	assert.True(t, m.ModuleStarted(billing))
	assert.False(t, m.ModuleStarted("absent.jar"))

	register(t, m, billing, component.Descriptor{Name: "Ledger"})
	register(t, m, orders, component.Descriptor{Name: "A", Eager: true, DependsOn: []string{"billing/Ledger"}})
	assert.NoError(t, m.DoStartup(context.Background(), orders))
}

func TestManager_InitializeInOrderViolation(t *testing.T) {
	ctx := context.Background()
	m, tc := newShop(t, WithInitializeInOrder(true))
	register(t, m, billing, component.Descriptor{Name: "Ledger"})
	register(t, m, orders, component.Descriptor{Name: "B", DependsOn: []string{"billing/Ledger"}})
	register(t, m, orders, component.Descriptor{Name: "A", Eager: true, DependsOn: []string{"B"}})

	assert.False(t, m.ModuleStarted(billing))
	err := m.DoStartup(ctx, orders)

	var violation *OrderingViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, []component.ID{id(orders, "A"), id(billing, "Ledger")}, violation.Chain)
	assert.Equal(t, billing, violation.Module)
	assert.Empty(t, tc.Recorder.Instantiated())
	assert.False(t, m.ModuleStarted(orders))
}

func TestManager_InitializeInOrderSatisfied(t *testing.T) {
	ctx := context.Background()
	m, tc := newShop(t, WithInitializeInOrder(true))
	register(t, m, billing, component.Descriptor{Name: "Ledger", Eager: true})
	register(t, m, orders, component.Descriptor{Name: "A", Eager: true, DependsOn: []string{"billing/Ledger"}})

	require.NoError(t, m.DoStartup(ctx, billing))
	require.NoError(t, m.DoStartup(ctx, orders))

	assert.Equal(t, []component.ID{id(billing, "Ledger"), id(orders, "A")}, tc.Recorder.Instantiated())
	assert.True(t, m.ModuleStarted(billing))
	assert.True(t, m.ModuleStarted(orders))

	require.NoError(t, m.DoShutdownModule(ctx, billing))
	assert.False(t, m.ModuleStarted(billing))
}

func TestManager_CustomPolicyWins(t *testing.T) {
	calls := 0
	policy := OrderingPolicyFunc(func(chain []component.ID, dep component.ID, depModule string) error {
		calls++
		return nil
	})
	m, _ := newShop(t, WithOrderingPolicy(policy), WithInitializeInOrder(true))
	register(t, m, billing, component.Descriptor{Name: "Ledger"})
	register(t, m, orders, component.Descriptor{Name: "A", DependsOn: []string{"billing/Ledger", "D"}})
	register(t, m, orders, component.Descriptor{Name: "D"})

	require.NoError(t, m.InitializeSingleton(context.Background(), id(orders, "A")))
	assert.Equal(t, 1, calls, "same-module dependencies are not checked")
}
