package config

import (
	"fmt"

	"github.com/samber/do/v2"
)

// ProvideLoader creates a Loader provider. Config has no dependencies.
//
//	do.Provide(injector, config.ProvideLoader(config.NewLoaderBuilder().
//	    WithConfigFile("configs/singleton.yaml").
//	    WithEnvPrefix("SINGLETON")))
//	loader := do.MustInvoke[*config.Loader](injector)
func ProvideLoader(b *LoaderBuilder) func(do.Injector) (*Loader, error) {
	return func(i do.Injector) (*Loader, error) {
		loader, err := b.Build()
		if err != nil {
			return nil, fmt.Errorf("config loader build failed: %w", err)
		}
		return loader, nil
	}
}
