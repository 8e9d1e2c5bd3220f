package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KOMKZ/go-yogan-singleton/errcode"
	"github.com/KOMKZ/go-yogan-singleton/flagx"

	// catalogue runtime error codes alongside the ones linked through descriptor
	_ "github.com/KOMKZ/go-yogan-singleton/di"
)

type codesOptions struct {
	Module string `flag:"module,m" usage:"only list codes of this module (naming, depgraph, lifecycle, descriptor, di)"`
}

func newCodesCmd(e *env) *cobra.Command {
	opts := &codesOptions{}
	cmd := &cobra.Command{
		Use:   "codes",
		Short: "List the error codes singleton managers can report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := flagx.ParseFlags(cmd, opts); err != nil {
				return err
			}
			return runCodes(cmd, opts)
		},
	}
	cobra.CheckErr(e.bind(cmd, opts))
	return cmd
}

func runCodes(cmd *cobra.Command, opts *codesOptions) error {
	out := cmd.OutOrStdout()
	n := 0
	for _, entry := range errcode.Entries() {
		if opts.Module != "" && entry.Module != opts.Module {
			continue
		}
		fmt.Fprintf(out, "%d  %-10s  %-45s  %s\n", entry.Code, entry.Module, entry.MsgKey, entry.Message)
		n++
	}
	if n == 0 {
		return fmt.Errorf("no error codes for module %q", opts.Module)
	}
	return nil
}
