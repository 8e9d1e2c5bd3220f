package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KOMKZ/go-yogan-singleton/component"
	"github.com/KOMKZ/go-yogan-singleton/descriptor"
	"github.com/KOMKZ/go-yogan-singleton/flagx"
	"github.com/KOMKZ/go-yogan-singleton/lifecycle"
)

type orderOptions struct {
	Eager bool `flag:"eager" usage:"only list eager components"`
}

func newOrderCmd(e *env) *cobra.Command {
	opts := &orderOptions{}
	cmd := &cobra.Command{
		Use:   "order <descriptor> [component-id...]",
		Short: "Print the initialization order of components",
		Long: `Print, for each component, its transitive dependencies in the order they
are initialized, followed by the component itself. Without ids every
registered component is listed in registration order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flagx.ParseFlags(cmd, opts); err != nil {
				return err
			}
			return runOrder(cmd, e, opts, args[0], args[1:])
		},
	}
	cobra.CheckErr(e.bind(cmd, opts))
	return cmd
}

func runOrder(cmd *cobra.Command, e *env, opts *orderOptions, path string, ids []string) error {
	doc, err := descriptor.Load(path)
	if err != nil {
		return err
	}
	mgr, err := e.register(cmd.Context(), doc, noopMaterializer)
	if err != nil {
		return err
	}

	targets := make([]component.ID, 0, len(ids))
	for _, id := range ids {
		targets = append(targets, component.ID(id))
	}
	if len(targets) == 0 {
		targets = mgr.Registered()
	}

	eager := eagerSet(doc)
	out := cmd.OutOrStdout()
	for _, id := range targets {
		if opts.Eager && !eager[id] {
			continue
		}
		if mgr.State(id) == lifecycle.StateUnregistered {
			return lifecycle.ErrUnregisteredComponent.WithMsgf("component %s is not declared in %s", id, path)
		}
		deps, err := mgr.Dependencies(id)
		if err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		chain := make([]string, 0, len(deps)+1)
		for _, d := range deps {
			chain = append(chain, d.String())
		}
		chain = append(chain, id.String())
		fmt.Fprintf(out, "%s: %s\n", id, strings.Join(chain, " -> "))
	}
	return nil
}

func eagerSet(doc *descriptor.Document) map[component.ID]bool {
	set := make(map[component.ID]bool)
	for _, m := range doc.Modules {
		for _, d := range m.Components {
			if d.Eager {
				set[component.NewID(m.Path, d.Name)] = true
			}
		}
	}
	return set
}
