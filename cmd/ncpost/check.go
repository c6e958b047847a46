package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/leftmike/ncpost/errors"
	"github.com/leftmike/ncpost/gcode"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Replay a G-code program and summarize it",
	Long: `Replay the G-code program in file, or stdin, and report its moves,
bounds and an estimate of the cutting time. Blocks the replay can not follow,
such as probe moves or blocks using parameters, are listed as skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, name, err := openInput(args)
		if err != nil {
			return err
		}
		defer in.Close()

		tr, err := gcode.Replay(cmd.Context(), in)
		if err != nil {
			return errors.Wrapf(err, "%s", name)
		}
		summarize(cmd.OutOrStdout(), tr)
		return nil
	},
}

func summarize(w io.Writer, tr *gcode.Trace) {
	rapid, feed := tr.Distance()
	min, max := tr.Bounds()

	fmt.Fprintf(w, "moves: %d\n", len(tr.Moves))
	fmt.Fprintf(w, "distance: %.3f mm rapid, %.3f mm feed\n", rapid, feed)
	fmt.Fprintf(w, "bounds: X %.3f..%.3f Y %.3f..%.3f Z %.3f..%.3f\n", min.X, max.X, min.Y,
		max.Y, min.Z, max.Z)
	fmt.Fprintf(w, "cut time: %s\n", tr.CutTime().Round(time.Second))
	if len(tr.Tools) > 0 {
		fmt.Fprintf(w, "tools: %v\n", tr.Tools)
	}
	for _, s := range tr.Skipped {
		fmt.Fprintf(w, "skipped: %s\n", s)
	}
}
