package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/KOMKZ/go-yogan-singleton/component"
	"github.com/KOMKZ/go-yogan-singleton/testutil"
)

func newInstrumented(t *testing.T) (*Materializer, *testutil.Recorder, *tracetest.SpanRecorder, *sdkmetric.ManualReader) {
	t.Helper()
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})

	rec := testutil.NewRecorder()
	m, err := NewMaterializer(rec, tp, mp)
	require.NoError(t, err)
	return m, rec, spans, reader
}

func singleton(name string, eager bool) component.Singleton {
	return component.Singleton{
		ID:         component.NewID("shop.ear/orders.jar", name),
		ModulePath: "shop.ear/orders.jar",
		Descriptor: component.Descriptor{Name: name, Eager: eager},
	}
}

func attrValue(attrs []attribute.KeyValue, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range attrs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestMaterializer_InstantiateSpan(t *testing.T) {
	m, rec, spans, reader := newInstrumented(t)
	s := singleton("A", true)

	h, err := m.Instantiate(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "handle:shop.ear/orders.jar#A", h)
	assert.Equal(t, []component.ID{s.ID}, rec.Instantiated())

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "singleton.instantiate", ended[0].Name())
	assert.Equal(t, codes.Ok, ended[0].Status().Code)
	v, ok := attrValue(ended[0].Attributes(), AttrComponentID)
	require.True(t, ok)
	assert.Equal(t, string(s.ID), v.AsString())
	v, ok = attrValue(ended[0].Attributes(), AttrEager)
	require.True(t, ok)
	assert.True(t, v.AsBool())

	assert.Equal(t, int64(1), counterTotal(t, reader, "singleton.instantiations"))
}

func TestMaterializer_InstantiateError(t *testing.T) {
	m, rec, spans, _ := newInstrumented(t)
	s := singleton("B", false)
	boom := errors.New("boom")
	rec.FailInstantiate(s.ID, boom)

	_, err := m.Instantiate(context.Background(), s)
	assert.ErrorIs(t, err, boom)

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "boom", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "exception", ended[0].Events()[0].Name)
}

func TestMaterializer_DestroySpan(t *testing.T) {
	m, rec, spans, reader := newInstrumented(t)
	s := singleton("C", false)
	boom := errors.New("close failed")
	rec.FailDestroy(s.ID, boom)

	assert.ErrorIs(t, m.Destroy(context.Background(), s, nil), boom)
	assert.Equal(t, []component.ID{s.ID}, rec.Destroyed())

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "singleton.destroy", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, int64(1), counterTotal(t, reader, "singleton.teardowns"))
}
