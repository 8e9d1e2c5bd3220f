package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/KOMKZ/go-yogan-singleton/logger"
)

// Manager owns the tracer and meter providers
type Manager struct {
	config         Config
	logger         *logger.CtxZapLogger
	out            io.Writer
	application    string
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	mu             sync.RWMutex
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithOutput destination of the stdout exporters
func WithOutput(w io.Writer) ManagerOption {
	return func(m *Manager) {
		m.out = w
	}
}

// WithApplication tags the resource with the application being deployed
func WithApplication(name string) ManagerOption {
	return func(m *Manager) {
		m.application = name
	}
}

// NewManager creates a telemetry manager; nothing is started until Start
func NewManager(config Config, log *logger.CtxZapLogger, opts ...ManagerOption) *Manager {
	if log == nil {
		log = logger.GetLogger("singleton")
	}
	m := &Manager{
		config: config,
		logger: log,
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start builds the providers and installs them globally
func (m *Manager) Start(ctx context.Context) error {
	if !m.config.Enabled {
		m.logger.InfoCtx(ctx, "Telemetry disabled, skipping initialization")
		return nil
	}

	res, err := m.createResource(ctx)
	if err != nil {
		return fmt.Errorf("create resource failed: %w", err)
	}

	exporter, err := m.createSpanExporter(ctx)
	if err != nil {
		return fmt.Errorf("create exporter failed: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(m.createSampler()),
		sdktrace.WithBatcher(exporter),
	)

	var mp *sdkmetric.MeterProvider
	if m.config.Metrics.Enabled {
		metricExporter, err := m.createMetricExporter(ctx)
		if err != nil {
			_ = tp.Shutdown(ctx)
			return fmt.Errorf("create metrics exporter failed: %w", err)
		}
		opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
		if metricExporter != nil {
			opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
				sdkmetric.WithInterval(m.config.Metrics.ExportInterval),
				sdkmetric.WithTimeout(m.config.Metrics.ExportTimeout),
			)))
		}
		mp = sdkmetric.NewMeterProvider(opts...)
		otel.SetMeterProvider(mp)
	}

	m.mu.Lock()
	m.tracerProvider = tp
	m.meterProvider = mp
	m.mu.Unlock()

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	m.logger.InfoCtx(ctx, "✅ Telemetry started",
		zap.String("service_name", m.config.ServiceName),
		zap.String("exporter", m.config.Exporter.Type),
		zap.String("sampler", m.config.Sampler.Type),
		zap.Bool("metrics", mp != nil),
	)
	return nil
}

// Shutdown flushes and stops both providers
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	tp, mp := m.tracerProvider, m.meterProvider
	m.tracerProvider, m.meterProvider = nil, nil
	m.mu.Unlock()

	var err error
	if mp != nil {
		err = multierr.Append(err, mp.Shutdown(ctx))
	}
	if tp != nil {
		err = multierr.Append(err, tp.Shutdown(ctx))
	}
	if err != nil {
		m.logger.ErrorCtx(ctx, "❌ Telemetry shutdown failed", zap.Error(err))
		return err
	}
	m.logger.InfoCtx(ctx, "✅ Telemetry stopped")
	return nil
}

// TracerProvider the SDK provider once started, a no-op provider otherwise
func (m *Manager) TracerProvider() trace.TracerProvider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.tracerProvider == nil {
		return tracenoop.NewTracerProvider()
	}
	return m.tracerProvider
}

// MeterProvider the SDK provider when metrics run, a no-op provider otherwise
func (m *Manager) MeterProvider() metric.MeterProvider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.meterProvider == nil {
		return metricnoop.NewMeterProvider()
	}
	return m.meterProvider
}

// IsEnabled whether telemetry is configured on
func (m *Manager) IsEnabled() bool {
	return m.config.Enabled
}

// Config active configuration
func (m *Manager) Config() Config {
	return m.config
}
