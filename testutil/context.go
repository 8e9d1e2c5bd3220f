// Package testutil shares fixtures between package tests: an observed logger,
// an application builder and a recording Materializer.
package testutil

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KOMKZ/go-yogan-singleton/logger"
	"github.com/KOMKZ/go-yogan-singleton/naming"
)

// TestContext components required by lifecycle tests
type TestContext struct {
	Logger   *logger.CtxZapLogger
	Logs     *observer.ObservedLogs
	Recorder *Recorder
}

// NewTestContext one-stop initialization: debug-level observed logger plus a fresh Recorder
//
// Usage:
//
//	tc := testutil.NewTestContext(t)
//	mgr := lifecycle.New(app, tc.Recorder, lifecycle.WithLogger(tc.Logger))
//	...
//	assert.Equal(t, 1, tc.Logs.FilterMessage("❌ Component teardown failed").Len())
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	return &TestContext{
		Logger:   logger.NewWithCore(core, "test"),
		Logs:     logs,
		Recorder: NewRecorder(),
	}
}

// ModuleFixture module fixture: path plus component names
type ModuleFixture struct {
	Path       string
	Components []string
}

// NewApp builds an application, failing the test on error
func NewApp(t *testing.T, name string, modules ...ModuleFixture) *naming.Application {
	t.Helper()
	mods := make([]*naming.Module, 0, len(modules))
	for _, f := range modules {
		mods = append(mods, naming.NewModule(f.Path, "", f.Components...))
	}
	app, err := naming.NewApplication(name, mods...)
	if err != nil {
		t.Fatalf("create application failed: %v", err)
	}
	return app
}

// MustModule module lookup, failing the test when absent
func MustModule(t *testing.T, app *naming.Application, path string) *naming.Module {
	t.Helper()
	m, ok := app.Module(path)
	if !ok {
		t.Fatalf("module %q not found in %s", path, app.Name())
	}
	return m
}
