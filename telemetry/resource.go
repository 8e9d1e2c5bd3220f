package telemetry

import (
	"context"
	"fmt"
	"os"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// AttrApplication resource attribute naming the deployed application
const AttrApplication = "singleton.application"

// createResource service identity plus application and configured attributes
func (m *Manager) createResource(ctx context.Context) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(m.resourceAttrs()...),
		resource.WithHost(),
		resource.WithTelemetrySDK(),
	)
}

func (m *Manager) resourceAttrs() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(m.config.ServiceName),
		semconv.ServiceVersion(m.config.ServiceVersion),
	}
	if m.application != "" {
		attrs = append(attrs, attribute.String(AttrApplication, m.application))
	}

	// configured values support ${ENV} expansion
	custom := make(map[string]string)
	flattenAttrs(m.config.ResourceAttrs, "", custom)
	keys := make([]string, 0, len(custom))
	for k := range custom {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, attribute.String(k, os.ExpandEnv(custom[k])))
	}
	return attrs
}

// flattenAttrs {"deployment": {"environment": "test"}} => {"deployment.environment": "test"}
func flattenAttrs(in map[string]interface{}, prefix string, out map[string]string) {
	for key, value := range in {
		if prefix != "" {
			key = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			flattenAttrs(nested, key, out)
			continue
		}
		out[key] = fmt.Sprint(value)
	}
}
