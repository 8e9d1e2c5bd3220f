package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestManager_WritesModuleFiles(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	m := NewManager(ManagerConfig{
		BaseLogDir:            logDir,
		Level:                 "debug",
		EnableFile:            true,
		EnableLevelInFilename: true,
		AppName:               "shop",
	})
	log := m.GetLogger("singleton")
	assert.Same(t, log, m.GetLogger("singleton"))

	log.InfoCtx(WithTraceID(context.Background(), "trace-123"), "✅ singleton materialized", zap.String("component", "orders.jar#Cache"))
	log.Error("❌ teardown failed")
	m.CloseAll()

	info, err := os.ReadFile(filepath.Join(logDir, "singleton", "singleton-info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "singleton materialized")
	assert.Contains(t, string(info), "trace-123")
	assert.Contains(t, string(info), `"app_name":"shop"`)
	assert.NotContains(t, string(info), "teardown failed")

	errLog, err := os.ReadFile(filepath.Join(logDir, "singleton", "singleton-error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "teardown failed")
}

func TestManagerConfig_Validate(t *testing.T) {
	cfg := DefaultManagerConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = DefaultManagerConfig()
	cfg.Encoding = "xml"
	assert.Error(t, cfg.Validate())

	cfg = DefaultManagerConfig()
	cfg.EnableDateInFilename = true
	cfg.DateFormat = ""
	assert.Error(t, cfg.Validate())
}

func TestManagerConfig_ApplyDefaults(t *testing.T) {
	var cfg ManagerConfig
	cfg.ApplyDefaults()

	assert.Equal(t, "logs", cfg.BaseLogDir)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Encoding)
	assert.Equal(t, "trace_id", cfg.TraceIDFieldName)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
}

func TestCtxZapLogger_TraceIDFromSpan(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewWithCore(core, "singleton")

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "startup")
	defer span.End()

	log.With(zap.String("application", "shop")).DebugCtx(ctx, "resolving")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, "shop", fields["application"])
	assert.Equal(t, "singleton", fields["module"])
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	assert.NotPanics(t, func() {
		log.Info("ignored")
		log.WarnCtx(context.Background(), "ignored")
	})
}
