package di

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/samber/do/v2"
	"go.uber.org/zap"

	"github.com/KOMKZ/go-yogan-singleton/component"
	"github.com/KOMKZ/go-yogan-singleton/config"
	"github.com/KOMKZ/go-yogan-singleton/descriptor"
	"github.com/KOMKZ/go-yogan-singleton/errcode"
	"github.com/KOMKZ/go-yogan-singleton/event"
	"github.com/KOMKZ/go-yogan-singleton/health"
	"github.com/KOMKZ/go-yogan-singleton/lifecycle"
	"github.com/KOMKZ/go-yogan-singleton/logger"
)

// RuntimeState 运行时状态
type RuntimeState int

const (
	StateInit RuntimeState = iota
	StateSetup
	StateRunning
	StateStopping
	StateStopped
)

// String 状态字符串表示
func (s RuntimeState) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateSetup:
		return "Setup"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Runtime 基于 samber/do 的部署运行时
// 加载配置与描述文件，注册组件 Provider，启动所有模块，退出时按逆序销毁
type Runtime struct {
	injector *do.RootScope

	// 配置管理
	configFile string
	envPrefix  string
	document   *descriptor.Document

	logger  *logger.CtxZapLogger
	manager *lifecycle.Manager

	state RuntimeState
	mu    sync.RWMutex

	shutdownTimeout time.Duration

	// 回调函数
	onSetup func(*Runtime) error
	onReady func(*Runtime) error
}

// RuntimeOption 运行时选项函数
type RuntimeOption func(*Runtime)

// WithConfigFile 设置配置文件
func WithConfigFile(path string) RuntimeOption {
	return func(r *Runtime) {
		r.configFile = path
	}
}

// WithEnvPrefix 设置环境变量前缀
func WithEnvPrefix(prefix string) RuntimeOption {
	return func(r *Runtime) {
		r.envPrefix = prefix
	}
}

// WithShutdownTimeout 设置优雅关闭超时
func WithShutdownTimeout(d time.Duration) RuntimeOption {
	return func(r *Runtime) {
		r.shutdownTimeout = d
	}
}

// WithOnSetup 设置 Setup 回调（注册组件 Provider 的位置）
func WithOnSetup(fn func(*Runtime) error) RuntimeOption {
	return func(r *Runtime) {
		r.onSetup = fn
	}
}

// WithOnReady 设置 Ready 回调
func WithOnReady(fn func(*Runtime) error) RuntimeOption {
	return func(r *Runtime) {
		r.onReady = fn
	}
}

// NewRuntime 创建运行时
func NewRuntime(doc *descriptor.Document, opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		injector:        do.New(),
		document:        doc,
		envPrefix:       "SINGLETON",
		state:           StateInit,
		shutdownTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Injector 获取 do.Injector
func (r *Runtime) Injector() *do.RootScope {
	return r.injector
}

// Logger 获取日志实例（Setup 之后可用）
func (r *Runtime) Logger() *logger.CtxZapLogger {
	return r.logger
}

// Manager 获取生命周期管理器（Start 之后可用）
func (r *Runtime) Manager() *lifecycle.Manager {
	return r.manager
}

// State 获取当前状态
func (r *Runtime) State() RuntimeState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Runtime) setState(state RuntimeState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
}

// Setup 初始化阶段
// 1. 加载配置
// 2. 注册核心 Provider
// 3. 调用 Setup 回调（注册组件 Provider）
func (r *Runtime) Setup() error {
	r.setState(StateSetup)

	builder := config.NewLoaderBuilder().WithEnvPrefix(r.envPrefix)
	if r.configFile != "" {
		builder = builder.WithConfigFile(r.configFile)
	}
	do.Provide(r.injector, config.ProvideLoader(builder))
	do.ProvideValue(r.injector, r.document)
	RegisterCoreProviders(r.injector)

	if _, err := do.Invoke[*config.Loader](r.injector); err != nil {
		return ErrSetupFailed.Wrapf(err, "load configuration failed")
	}
	log, err := do.Invoke[*logger.CtxZapLogger](r.injector)
	if err != nil {
		return ErrSetupFailed.Wrapf(err, "create logger failed")
	}
	r.logger = log

	r.logger.Info("🔧 Runtime setting up...",
		zap.String("application", r.document.ApplicationName),
		zap.Int("modules", len(r.document.Modules)),
		zap.Int("components", r.document.ComponentCount()),
	)

	if r.onSetup != nil {
		if err := r.onSetup(r); err != nil {
			return ErrSetupFailed.Wrapf(err, "setup callback failed")
		}
	}
	return nil
}

// Start 注册并启动所有模块；失败时已实例化的组件会被销毁
func (r *Runtime) Start(ctx context.Context) error {
	mgr, err := do.Invoke[*lifecycle.Manager](r.injector)
	if err != nil {
		return ErrSetupFailed.Wrapf(err, "create lifecycle manager failed")
	}
	r.manager = mgr

	if err := r.document.Deploy(ctx, mgr); err != nil {
		r.logger.ErrorCtx(ctx, "❌ Deployment failed", errcode.LogFields(err)...)
		return err
	}
	r.setState(StateRunning)

	r.logger.InfoCtx(ctx, "✅ Runtime started",
		zap.String("application", r.document.ApplicationName),
		zap.Int("materialized", len(mgr.Materialized())),
	)

	if r.onReady != nil {
		if err := r.onReady(r); err != nil {
			return ErrSetupFailed.Wrapf(err, "ready callback failed")
		}
	}
	return nil
}

// Run 运行（阻塞等待信号）
func (r *Runtime) Run() error {
	if err := r.Setup(); err != nil {
		return err
	}
	if err := r.Start(context.Background()); err != nil {
		_ = r.Shutdown(context.Background())
		return err
	}
	r.waitForSignal()
	return nil
}

func (r *Runtime) waitForSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	r.logger.Info("📥 Received exit signal", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), r.shutdownTimeout)
	defer cancel()
	if err := r.Shutdown(ctx); err != nil {
		r.logger.Error("Shutdown failed", zap.Error(err))
	}
}

// Shutdown 优雅关闭
// 先按实例化逆序销毁组件，再关闭 samber/do 容器
func (r *Runtime) Shutdown(ctx context.Context) error {
	r.setState(StateStopping)
	if r.logger != nil {
		r.logger.InfoCtx(ctx, "🔄 Graceful shutdown...")
	}

	var err error
	if r.manager != nil {
		err = r.manager.DoShutdown(ctx)
	}

	// 容器关闭时 Manager 再次 Shutdown 为空操作
	if shutdownErr := r.injector.Shutdown(); shutdownErr != nil && r.logger != nil {
		r.logger.WarnCtx(ctx, "injector shutdown failed", zap.Error(shutdownErr))
	}

	r.setState(StateStopped)
	return err
}

// Subscribe 订阅生命周期事件（Setup 之后可用）；事件总线被禁用时返回错误
func (r *Runtime) Subscribe(eventName string, listener event.Listener, opts ...event.SubscribeOption) (event.UnsubscribeFunc, error) {
	d, err := do.Invoke[*event.Dispatcher](r.injector)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrEventsDisabled
	}
	return d.Subscribe(eventName, listener, opts...), nil
}

// Health 就绪检查：各模块是否完成启动、已实例化组件的探针结果
func (r *Runtime) Health(ctx context.Context) (*health.Response, error) {
	agg, err := do.Invoke[*health.Aggregator](r.injector)
	if err != nil {
		return nil, err
	}
	return agg.Check(ctx), nil
}

// Provide 注册组件 Provider 的便捷方法
func (r *Runtime) Provide(id component.ID, provider func(do.Injector) (any, error)) {
	ProvideSingleton(r.injector, id, provider)
}
