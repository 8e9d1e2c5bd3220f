package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/KOMKZ/go-yogan-singleton/component"
	"github.com/KOMKZ/go-yogan-singleton/descriptor"
	"github.com/KOMKZ/go-yogan-singleton/event"
	"github.com/KOMKZ/go-yogan-singleton/flagx"
	"github.com/KOMKZ/go-yogan-singleton/health"
	"github.com/KOMKZ/go-yogan-singleton/lifecycle"
)

type simulateOptions struct {
	Ordered         bool          `flag:"ordered" usage:"enforce module startup order" config:"lifecycle.initialize_in_order"`
	ShutdownTimeout time.Duration `flag:"shutdown-timeout" usage:"teardown deadline, 0 waits forever" config:"lifecycle.shutdown_timeout"`
	Fail            []string      `flag:"fail,f" usage:"component ids whose instantiation fails"`
	KeepRunning     bool          `flag:"no-shutdown" usage:"stop after startup without tearing down"`
	Health          bool          `flag:"health" usage:"print the readiness report after startup"`
	Events          bool          `flag:"events" usage:"print lifecycle events as they are published"`
}

func newSimulateCmd(e *env) *cobra.Command {
	opts := &simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate <descriptor>",
		Short: "Deploy a descriptor with stub components and print every lifecycle step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flagx.ParseFlags(cmd, opts); err != nil {
				return err
			}
			return runSimulate(cmd, e, opts, args[0])
		},
	}
	cobra.CheckErr(e.bind(cmd, opts))
	return cmd
}

func runSimulate(cmd *cobra.Command, e *env, opts *simulateOptions, path string) error {
	doc, err := descriptor.Load(path)
	if err != nil {
		return err
	}
	cfg, err := e.lifecycleConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	stub := newPrinter(out, opts.Fail)

	// --ordered and --shutdown-timeout reach cfg through the flag config source
	options := []lifecycle.Option{
		lifecycle.WithLogger(e.log),
		lifecycle.WithSealOnStartup(cfg.SealOnStartup),
		lifecycle.WithShutdownTimeout(cfg.ShutdownTimeout),
	}
	if e.loader.IsSet(lifecycle.ConfigKey + ".initialize_in_order") {
		options = append(options, lifecycle.WithInitializeInOrder(cfg.InitializeInOrder))
	}
	if opts.Events {
		bus := event.NewDispatcher(event.WithLogger(e.log), event.WithSetAllSync(true))
		defer bus.Close()
		printEvents(bus, out)
		options = append(options, lifecycle.WithEvents(bus))
	}

	ctx := cmd.Context()
	mgr, err := descriptor.Deploy(ctx, doc, stub, options...)
	if err != nil {
		fmt.Fprintf(out, "startup failed: %v\n", err)
		return err
	}
	fmt.Fprintf(out, "started %d modules, %d components materialized\n", len(doc.Modules), len(mgr.Materialized()))

	if opts.Health {
		printHealth(out, health.ForManager(mgr, health.DefaultConfig()).Check(ctx))
	}

	if opts.KeepRunning {
		return nil
	}
	return mgr.DoShutdown(ctx)
}

func printEvents(bus *event.Dispatcher, out io.Writer) {
	listener := event.ListenerFunc(func(_ context.Context, ev event.Event) error {
		switch ev := ev.(type) {
		case *lifecycle.SingletonEvent:
			fmt.Fprintf(out, "event %s %s\n", ev.Name(), ev.ID)
		case *lifecycle.ModuleEvent:
			fmt.Fprintf(out, "event %s %s\n", ev.Name(), ev.ModulePath)
		}
		return nil
	})
	for _, name := range []string{
		lifecycle.EventSingletonInitialized, lifecycle.EventSingletonFailed, lifecycle.EventSingletonTornDown,
		lifecycle.EventModuleStarted, lifecycle.EventModuleStopped,
	} {
		bus.Subscribe(name, listener)
	}
}

func printHealth(out io.Writer, report *health.Response) {
	names := make([]string, 0, len(report.Checks))
	for name := range report.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(out, "health: %s\n", report.Status)
	for _, name := range names {
		fmt.Fprintf(out, "  %-40s %s\n", name, report.Checks[name].Status)
	}
}

var errSimulated = errors.New("simulated failure")

// printer stub Materializer writing one line per callback
type printer struct {
	mu   sync.Mutex
	out  io.Writer
	fail map[component.ID]bool
}

func newPrinter(out io.Writer, fail []string) *printer {
	p := &printer{out: out, fail: make(map[component.ID]bool)}
	for _, id := range fail {
		p.fail[component.ID(id)] = true
	}
	return p
}

func (p *printer) Instantiate(_ context.Context, s component.Singleton) (component.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail[s.ID] {
		fmt.Fprintf(p.out, "instantiate %s FAILED\n", s.ID)
		return nil, errSimulated
	}
	fmt.Fprintf(p.out, "instantiate %s\n", s.ID)
	return s.ID, nil
}

func (p *printer) Destroy(_ context.Context, s component.Singleton, _ component.Handle) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "destroy %s\n", s.ID)
	return nil
}
