package health

import (
	"context"
	"fmt"
	"strings"

	"github.com/KOMKZ/go-yogan-singleton/component"
	"github.com/KOMKZ/go-yogan-singleton/lifecycle"
)

// ModuleChecker unhealthy until the module finished startup
type ModuleChecker struct {
	mgr  *lifecycle.Manager
	path string
}

// NewModuleChecker checker for one module of mgr's application
func NewModuleChecker(mgr *lifecycle.Manager, modulePath string) *ModuleChecker {
	return &ModuleChecker{mgr: mgr, path: modulePath}
}

// Name check item name
func (c *ModuleChecker) Name() string {
	return "module:" + c.path
}

// Check implements Checker
func (c *ModuleChecker) Check(context.Context) error {
	if !c.mgr.StartupCompleted(c.path) {
		return fmt.Errorf("module %s has not completed startup", c.path)
	}
	return nil
}

// ComponentChecker probes every materialized handle implementing Probe.
// Failing probes make the application degraded.
type ComponentChecker struct {
	mgr *lifecycle.Manager
}

// NewComponentChecker checker over mgr's materialized components
func NewComponentChecker(mgr *lifecycle.Manager) *ComponentChecker {
	return &ComponentChecker{mgr: mgr}
}

// Name check item name
func (c *ComponentChecker) Name() string {
	return "components"
}

// Check implements Checker
func (c *ComponentChecker) Check(ctx context.Context) error {
	var failed []string
	for _, id := range c.mgr.Materialized() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := probe(ctx, c.mgr, id); err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", id, err))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%w: %s", ErrDegraded, strings.Join(failed, "; "))
	}
	return nil
}

func probe(ctx context.Context, mgr *lifecycle.Manager, id component.ID) error {
	h, ok := mgr.Handle(id)
	if !ok {
		return nil
	}
	p, ok := h.(Probe)
	if !ok {
		return nil
	}
	return p.Check(ctx)
}

// ForManager aggregator with one checker per application module plus the component probes
func ForManager(mgr *lifecycle.Manager, cfg Config) *Aggregator {
	agg := NewAggregator(cfg.Timeout)
	app := mgr.Application()
	for _, m := range app.Modules() {
		agg.Register(NewModuleChecker(mgr, m.Path()))
	}
	agg.Register(NewComponentChecker(mgr))
	agg.SetMetadata("application", app.Name())
	agg.SetMetadata("run_id", mgr.RunID())
	return agg
}
