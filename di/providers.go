package di

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/KOMKZ/go-yogan-singleton/component"
	"github.com/KOMKZ/go-yogan-singleton/config"
	"github.com/KOMKZ/go-yogan-singleton/descriptor"
	"github.com/KOMKZ/go-yogan-singleton/event"
	"github.com/KOMKZ/go-yogan-singleton/health"
	"github.com/KOMKZ/go-yogan-singleton/lifecycle"
	"github.com/KOMKZ/go-yogan-singleton/logger"
	"github.com/KOMKZ/go-yogan-singleton/retry"
	"github.com/KOMKZ/go-yogan-singleton/telemetry"
)

// RegisterCoreProviders registers every core provider, by dependency layer, all lazy.
// The caller provides *config.Loader (config.ProvideLoader) and *descriptor.Document.
func RegisterCoreProviders(injector do.Injector) {
	// ═══════════════════════════════════════════════════════════
	// Layer 1: Logger (depends on Config)
	// ═══════════════════════════════════════════════════════════
	do.Provide(injector, ProvideLoggerManager)
	do.Provide(injector, ProvideCtxLogger(component.LoggerLifecycle))

	// ═══════════════════════════════════════════════════════════
	// Layer 2: Telemetry, lifecycle configuration
	// ═══════════════════════════════════════════════════════════
	do.Provide(injector, ProvideTelemetryManager)
	do.Provide(injector, ProvideLifecycleConfig)
	do.Provide(injector, ProvideEventDispatcher)

	// ═══════════════════════════════════════════════════════════
	// Layer 3: Materializer, Manager
	// ═══════════════════════════════════════════════════════════
	do.Provide(injector, ProvideMaterializer)
	do.Provide(injector, ProvideComponentMaterializer)
	do.Provide(injector, ProvideManager)

	// ═══════════════════════════════════════════════════════════
	// Layer 4: Health
	// ═══════════════════════════════════════════════════════════
	do.Provide(injector, ProvideHealthAggregator)
}

// ProvideLoggerManager logger manager from the "logger" section, defaults when absent or unparsable
func ProvideLoggerManager(i do.Injector) (*logger.Manager, error) {
	loader, err := do.Invoke[*config.Loader](i)
	if err != nil || !loader.IsSet("logger") {
		return logger.NewManager(logger.DefaultManagerConfig()), nil
	}

	loggerCfg := logger.DefaultManagerConfig()
	if err := loader.UnmarshalKey("logger", &loggerCfg); err != nil {
		return logger.NewManager(logger.DefaultManagerConfig()), nil
	}
	loggerCfg.ApplyDefaults()
	if err := loggerCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}
	return logger.NewManager(loggerCfg), nil
}

// ProvideCtxLogger provider of a module logger
func ProvideCtxLogger(moduleName string) func(do.Injector) (*logger.CtxZapLogger, error) {
	return func(i do.Injector) (*logger.CtxZapLogger, error) {
		mgr, err := do.Invoke[*logger.Manager](i)
		if err != nil {
			// global logger fallback
			return logger.GetLogger(moduleName), nil
		}
		return mgr.GetLogger(moduleName), nil
	}
}

// ProvideTelemetryManager started telemetry manager; disabled unless configured
func ProvideTelemetryManager(i do.Injector) (*telemetry.Manager, error) {
	var loader component.ConfigLoader
	if l, err := do.Invoke[*config.Loader](i); err == nil {
		loader = l
	}
	cfg, err := telemetry.LoadConfig(loader)
	if err != nil {
		return nil, err
	}

	log, _ := do.Invoke[*logger.CtxZapLogger](i)
	var opts []telemetry.ManagerOption
	if doc, err := do.Invoke[*descriptor.Document](i); err == nil {
		opts = append(opts, telemetry.WithApplication(doc.ApplicationName))
	}
	m := telemetry.NewManager(cfg, log, opts...)
	if err := m.Start(context.Background()); err != nil {
		return nil, fmt.Errorf("start telemetry failed: %w", err)
	}
	return m, nil
}

// ProvideLifecycleConfig lifecycle section of the configuration
func ProvideLifecycleConfig(i do.Injector) (lifecycle.Config, error) {
	loader, err := do.Invoke[*config.Loader](i)
	if err != nil {
		return lifecycle.Config{}, nil
	}
	return lifecycle.LoadConfig(loader)
}

// ProvideEventDispatcher lifecycle event bus; nil when the "event" section disables it
func ProvideEventDispatcher(i do.Injector) (*event.Dispatcher, error) {
	var loader component.ConfigLoader
	if l, err := do.Invoke[*config.Loader](i); err == nil {
		loader = l
	}
	cfg, err := event.LoadConfig(loader)
	if err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return nil, nil
	}
	log, _ := do.Invoke[*logger.CtxZapLogger](i)
	opts := append(cfg.Options(), event.WithLogger(log))
	return event.NewDispatcher(opts...), nil
}

// ProvideMaterializer provider-backed materializer
func ProvideMaterializer(i do.Injector) (*Materializer, error) {
	return NewMaterializer(i), nil
}

// ProvideComponentMaterializer materializer handed to the manager:
// the provider-backed one, retried when "retry" is configured, traced when telemetry is on
func ProvideComponentMaterializer(i do.Injector) (component.Materializer, error) {
	base, err := do.Invoke[*Materializer](i)
	if err != nil {
		return nil, err
	}
	var m component.Materializer = base

	var loader component.ConfigLoader
	if l, err := do.Invoke[*config.Loader](i); err == nil {
		loader = l
	}
	retryCfg, err := retry.LoadConfig(loader)
	if err != nil {
		return nil, err
	}
	if retryCfg.Enabled() {
		log, _ := do.Invoke[*logger.CtxZapLogger](i)
		m = retry.NewMaterializer(m, log, retryCfg.Options()...)
	}

	tm, err := do.Invoke[*telemetry.Manager](i)
	if err != nil || !tm.IsEnabled() {
		return m, nil
	}
	traced, err := telemetry.NewMaterializer(m, tm.TracerProvider(), tm.MeterProvider())
	if err != nil {
		return nil, err
	}
	return traced, nil
}

// ProvideManager lifecycle manager for the provided descriptor document.
// The document's initialize_in_order applies unless the configuration sets lifecycle.initialize_in_order.
func ProvideManager(i do.Injector) (*lifecycle.Manager, error) {
	doc, err := do.Invoke[*descriptor.Document](i)
	if err != nil {
		return nil, err
	}
	app, err := doc.Application()
	if err != nil {
		return nil, err
	}
	m, err := do.Invoke[component.Materializer](i)
	if err != nil {
		return nil, err
	}
	cfg, err := do.Invoke[lifecycle.Config](i)
	if err != nil {
		return nil, err
	}
	log, _ := do.Invoke[*logger.CtxZapLogger](i)

	opts := []lifecycle.Option{
		lifecycle.WithLogger(log),
		lifecycle.WithInitializeInOrder(doc.InitializeInOrder),
	}
	if loader, err := do.Invoke[*config.Loader](i); err == nil && loader.IsSet("lifecycle.initialize_in_order") {
		opts = append(opts, lifecycle.WithInitializeInOrder(cfg.InitializeInOrder))
	}
	opts = append(opts,
		lifecycle.WithSealOnStartup(cfg.SealOnStartup),
		lifecycle.WithShutdownTimeout(cfg.ShutdownTimeout),
	)
	if d, err := do.Invoke[*event.Dispatcher](i); err == nil && d != nil {
		opts = append(opts, lifecycle.WithEvents(d))
	}
	return lifecycle.New(app, m, opts...), nil
}

// ProvideHealthAggregator readiness report over the manager's modules and components
func ProvideHealthAggregator(i do.Injector) (*health.Aggregator, error) {
	mgr, err := do.Invoke[*lifecycle.Manager](i)
	if err != nil {
		return nil, err
	}
	var loader component.ConfigLoader
	if l, err := do.Invoke[*config.Loader](i); err == nil {
		loader = l
	}
	cfg, err := health.LoadConfig(loader)
	if err != nil {
		return nil, err
	}
	return health.ForManager(mgr, cfg), nil
}
