package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/KOMKZ/go-yogan-singleton/component"
)

// InstrumentationName tracer and meter name
const InstrumentationName = "github.com/KOMKZ/go-yogan-singleton"

// Attribute keys
const (
	AttrComponentID = attribute.Key("singleton.id")
	AttrModulePath  = attribute.Key("singleton.module")
	AttrEager       = attribute.Key("singleton.eager")
	AttrOutcome     = attribute.Key("outcome")
)

// Materializer wraps another Materializer with one span per callback,
// an outcome counter per callback kind and an instantiate latency histogram.
type Materializer struct {
	next         component.Materializer
	tracer       trace.Tracer
	instantiated metric.Int64Counter
	destroyed    metric.Int64Counter
	duration     metric.Float64Histogram
}

// NewMaterializer decorates next
func NewMaterializer(next component.Materializer, tp trace.TracerProvider, mp metric.MeterProvider) (*Materializer, error) {
	meter := mp.Meter(InstrumentationName)

	instantiated, err := meter.Int64Counter("singleton.instantiations",
		metric.WithDescription("Instantiate callbacks by outcome"))
	if err != nil {
		return nil, err
	}
	destroyed, err := meter.Int64Counter("singleton.teardowns",
		metric.WithDescription("Destroy callbacks by outcome"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("singleton.instantiate.duration",
		metric.WithDescription("Instantiate callback latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &Materializer{
		next:         next,
		tracer:       tp.Tracer(InstrumentationName),
		instantiated: instantiated,
		destroyed:    destroyed,
		duration:     duration,
	}, nil
}

// Instantiate implements component.Materializer
func (m *Materializer) Instantiate(ctx context.Context, s component.Singleton) (component.Handle, error) {
	attrs := singletonAttrs(s)
	ctx, span := m.tracer.Start(ctx, "singleton.instantiate", trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	h, err := m.next.Instantiate(ctx, s)
	m.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(AttrModulePath.String(s.ModulePath)))

	m.instantiated.Add(ctx, 1, metric.WithAttributes(AttrModulePath.String(s.ModulePath), outcome(err)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	return h, nil
}

// Destroy implements component.Materializer
func (m *Materializer) Destroy(ctx context.Context, s component.Singleton, h component.Handle) error {
	ctx, span := m.tracer.Start(ctx, "singleton.destroy", trace.WithAttributes(singletonAttrs(s)...))
	defer span.End()

	err := m.next.Destroy(ctx, s, h)
	m.destroyed.Add(ctx, 1, metric.WithAttributes(AttrModulePath.String(s.ModulePath), outcome(err)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func singletonAttrs(s component.Singleton) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrComponentID.String(string(s.ID)),
		AttrModulePath.String(s.ModulePath),
		AttrEager.Bool(s.Descriptor.Eager),
	}
}

func outcome(err error) attribute.KeyValue {
	if err != nil {
		return AttrOutcome.String("error")
	}
	return AttrOutcome.String("ok")
}
