package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/leftmike/ncpost"
	"github.com/leftmike/ncpost/dialect"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the post processors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := processor()
		if err != nil {
			return err
		}
		return listPostProcessors(cmd.OutOrStdout(), p.List())
	},
}

func listPostProcessors(w io.Writer, pps []ncpost.PostProcessor) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, pp := range pps {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", pp.Name, pp.ID, pp.Description)
	}
	return tw.Flush()
}

var allOps bool

var opsCmd = &cobra.Command{
	Use:   "ops <post>",
	Short: "List the operations a post processor supports",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := processor()
		if err != nil {
			return err
		}
		d, err := p.New(args[0], io.Discard)
		if err != nil {
			return err
		}
		return listOps(cmd.OutOrStdout(), d, allOps)
	},
}

func init() {
	opsCmd.Flags().BoolVarP(&allOps, "all", "a", false, "include unsupported operations")
}

func listOps(w io.Writer, d *dialect.Dialect, all bool) error {
	for _, op := range dialect.Ops() {
		switch {
		case d.Supports(op):
			fmt.Fprintln(w, op)
		case all:
			fmt.Fprintf(w, "%s (unsupported)\n", op)
		}
	}
	return nil
}
