package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KOMKZ/go-yogan-singleton/descriptor"
	"github.com/KOMKZ/go-yogan-singleton/flagx"
)

type checkOptions struct {
	Parallel int `flag:"parallel,p" usage:"descriptors checked concurrently" default:"4"`
}

// checkResult outcome for one descriptor
type checkResult struct {
	path       string
	components int
	err        error
}

func newCheckCmd(e *env) *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check <descriptor>...",
		Short: "Validate descriptors: tokens, cycles and module references",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flagx.ParseFlags(cmd, opts); err != nil {
				return err
			}
			return runCheck(cmd, e, opts, args)
		},
	}
	cobra.CheckErr(e.bind(cmd, opts))
	return cmd
}

func runCheck(cmd *cobra.Command, e *env, opts *checkOptions, paths []string) error {
	results := make([]checkResult, len(paths))

	g, ctx := errgroup.WithContext(cmd.Context())
	if opts.Parallel > 0 {
		g.SetLimit(opts.Parallel)
	}
	for i, path := range paths {
		g.Go(func() error {
			n, err := e.checkOne(ctx, path)
			results[i] = checkResult{path: path, components: n, err: err}
			// one broken descriptor never cancels the others
			return nil
		})
	}
	_ = g.Wait()

	out := cmd.OutOrStdout()
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", r.path, r.err)
			e.log.Debug("descriptor check failed", zap.String("path", r.path), zap.Error(r.err))
			continue
		}
		fmt.Fprintf(out, "ok   %s (%d components)\n", r.path, r.components)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d descriptors failed", failed, len(paths))
	}
	return nil
}

// checkOne registers every component and walks every dependency closure
func (e *env) checkOne(ctx context.Context, path string) (int, error) {
	doc, err := descriptor.Load(path)
	if err != nil {
		return 0, err
	}
	mgr, err := e.register(ctx, doc, noopMaterializer)
	if err != nil {
		return 0, err
	}
	for _, id := range mgr.Registered() {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if _, err := mgr.Dependencies(id); err != nil {
			return 0, err
		}
	}
	return doc.ComponentCount(), nil
}
