// Package commands implements singletonctl, a tool to inspect and dry-run
// application descriptors.
package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/KOMKZ/go-yogan-singleton/component"
	"github.com/KOMKZ/go-yogan-singleton/config"
	"github.com/KOMKZ/go-yogan-singleton/descriptor"
	"github.com/KOMKZ/go-yogan-singleton/flagx"
	"github.com/KOMKZ/go-yogan-singleton/lifecycle"
	"github.com/KOMKZ/go-yogan-singleton/logger"
)

const (
	Version   = "0.1.0"
	EnvPrefix = "SINGLETONCTL"
)

// globalOptions persistent flags shared by every subcommand
type globalOptions struct {
	ConfigFile string `flag:"config,c" usage:"configuration file (yaml, json or toml)"`
	LogLevel   string `flag:"log-level" usage:"debug, info, warn or error" default:"warn" config:"logger.level"`
}

// env runtime state assembled before a subcommand runs
type env struct {
	global globalOptions
	keys   map[string]string // flag name -> config key, across all subcommands
	loader *config.Loader
	log    *logger.CtxZapLogger
}

// NewRootCmd builds a fresh command tree
func NewRootCmd() *cobra.Command {
	e := &env{keys: make(map[string]string)}
	root := &cobra.Command{
		Use:   "singletonctl",
		Short: "Inspect and dry-run singleton application descriptors",
		Long: `singletonctl loads application descriptors, resolves every dependency token
and reports initialization order, cycles and ordering violations without
running any component code.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd)
		},
	}

	cobra.CheckErr(e.bindPersistent(root))

	root.AddCommand(newOrderCmd(e))
	root.AddCommand(newCheckCmd(e))
	root.AddCommand(newSimulateCmd(e))
	root.AddCommand(newCodesCmd(e))
	return root
}

// Execute runs the command tree with os.Args
func Execute() error {
	return NewRootCmd().Execute()
}

func (e *env) bindPersistent(root *cobra.Command) error {
	// flagx binds on Flags(); persistent flags are re-homed afterwards
	tmp := &cobra.Command{}
	if err := flagx.BindFlags(tmp, &e.global); err != nil {
		return err
	}
	root.PersistentFlags().AddFlagSet(tmp.Flags())
	return e.trackKeys(&e.global)
}

// bind registers a subcommand's option flags and remembers their config keys
func (e *env) bind(cmd *cobra.Command, opts interface{}) error {
	if err := flagx.BindFlags(cmd, opts); err != nil {
		return err
	}
	return e.trackKeys(opts)
}

func (e *env) trackKeys(opts interface{}) error {
	keys, err := flagx.ConfigKeys(opts)
	if err != nil {
		return err
	}
	for flag, key := range keys {
		e.keys[flag] = key
	}
	return nil
}

// setup loads configuration (file < env < flags) and builds the CLI logger
func (e *env) setup(cmd *cobra.Command) error {
	if err := flagx.ParseFlags(cmd, &e.global); err != nil {
		return err
	}

	loader, err := config.NewLoaderBuilder().
		WithConfigFile(e.global.ConfigFile).
		WithEnvPrefix(EnvPrefix).
		WithFlags(cmd.Flags(), e.keys).
		Build()
	if err != nil {
		return err
	}
	e.loader = loader

	level := e.global.LogLevel
	if loader.IsSet("logger.level") {
		level = loader.GetString("logger.level")
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(cmd.ErrOrStderr()), logger.ParseLevel(level))
	e.log = logger.NewWithCore(core, component.LoggerCLI)
	return nil
}

// lifecycleConfig lifecycle section merged from every configuration source
func (e *env) lifecycleConfig() (lifecycle.Config, error) {
	var loader component.ConfigLoader
	if e.loader != nil {
		loader = e.loader
	}
	return lifecycle.LoadConfig(loader)
}

// register builds a manager for doc and registers every component without starting anything
func (e *env) register(ctx context.Context, doc *descriptor.Document, m component.Materializer, opts ...lifecycle.Option) (*lifecycle.Manager, error) {
	app, err := doc.Application()
	if err != nil {
		return nil, err
	}
	all := append([]lifecycle.Option{
		lifecycle.WithInitializeInOrder(doc.InitializeInOrder),
		lifecycle.WithLogger(e.log),
	}, opts...)
	mgr := lifecycle.New(app, m, all...)
	if err := doc.Register(ctx, mgr); err != nil {
		return mgr, err
	}
	return mgr, nil
}

var noopMaterializer = component.MaterializerFuncs{
	InstantiateFunc: func(context.Context, component.Singleton) (component.Handle, error) {
		return struct{}{}, nil
	},
}
