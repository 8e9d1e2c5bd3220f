package descriptor

import (
	"context"

	"go.uber.org/multierr"

	"github.com/KOMKZ/go-yogan-singleton/component"
	"github.com/KOMKZ/go-yogan-singleton/lifecycle"
)

// Register registers every component with mgr, module by module in document order
func (d *Document) Register(ctx context.Context, mgr *lifecycle.Manager) error {
	app := mgr.Application()
	for _, m := range d.Modules {
		mod, ok := app.Module(m.Path)
		if !ok {
			return lifecycle.ErrUnknownModule.WithMsgf("module %q does not belong to application %q", m.Path, app.Name())
		}
		for _, desc := range m.Components {
			if _, err := mgr.AddSingletonComponent(ctx, mod, desc); err != nil {
				return err
			}
		}
	}
	return nil
}

// Startup starts the modules in document order
func (d *Document) Startup(ctx context.Context, mgr *lifecycle.Manager) error {
	for _, m := range d.Modules {
		if err := mgr.DoStartup(ctx, m.Path); err != nil {
			return err
		}
	}
	return nil
}

// Deploy registers and starts the document on an existing manager.
// A failed startup aborts the manager before returning.
func (d *Document) Deploy(ctx context.Context, mgr *lifecycle.Manager) error {
	if err := d.Register(ctx, mgr); err != nil {
		return ErrDeployFailed.Wrap(err)
	}
	if err := d.Startup(ctx, mgr); err != nil {
		return ErrDeployFailed.Wrap(multierr.Append(err, mgr.Abort(ctx)))
	}
	return nil
}

// Deploy builds the application, registers every component and starts every module.
// The document's initialize_in_order applies first so opts can override it.
// On failure whatever was materialized is torn down and the manager is still returned for diagnostics.
func Deploy(ctx context.Context, doc *Document, m component.Materializer, opts ...lifecycle.Option) (*lifecycle.Manager, error) {
	app, err := doc.Application()
	if err != nil {
		return nil, ErrDeployFailed.Wrap(err)
	}

	all := append([]lifecycle.Option{lifecycle.WithInitializeInOrder(doc.InitializeInOrder)}, opts...)
	mgr := lifecycle.New(app, m, all...)

	return mgr, doc.Deploy(ctx, mgr)
}
