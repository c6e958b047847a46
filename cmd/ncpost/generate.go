package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leftmike/ncpost"
	"github.com/leftmike/ncpost/logger"
	"github.com/leftmike/ncpost/plugin"
	"github.com/leftmike/ncpost/sink"
	"github.com/leftmike/ncpost/toolpath"
)

var (
	settings    map[string]string
	postProcess bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <generator> [action]",
	Short: "Run a tool path generator",
	Long: `Run an action of a tool path generator, "default" unless given, and
write the tool path it produces. With --run, post process the tool path
instead.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		action := "default"
		if len(args) > 1 {
			action = args[1]
		}

		reg, err := plugin.Builtin(ncpost.Version)
		if err != nil {
			return err
		}

		var tp ncpost.Toolpath
		notify := func(s plugin.State, percent int) {
			logger.Logger.Infow("generator", "name", args[0], "state", s.String(),
				"percent", percent)
		}
		err = reg.Run(cmd.Context(), args[0], action, plugin.Settings(settings), &tp, notify)
		if err != nil {
			return err
		}

		out, err := createOutput(cfg.Output)
		if err != nil {
			return err
		}
		defer out.Close()

		w := sink.NewWriter(out)
		if postProcess {
			p, err := processor()
			if err != nil {
				return err
			}
			cmds, err := toolpath.ParseString(tp.String())
			if err != nil {
				return err
			}
			err = p.Run(cmd.Context(), cfg.PostProcessor, cmds, w)
			if ferr := w.Flush(); err == nil {
				err = ferr
			}
			return err
		}

		for _, c := range tp.Commands() {
			fmt.Fprintln(w, c)
		}
		return w.Flush()
	},
}

var generatorsCmd = &cobra.Command{
	Use:   "generators",
	Short: "List the tool path generators and their actions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := plugin.Builtin(ncpost.Version)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for _, md := range reg.List() {
			fmt.Fprintf(w, "%s %s (%s): %s\n", md.Name, md.Version, md.ID, md.Description)
			g, _ := reg.Lookup(md.Name)
			for _, a := range g.Actions() {
				fmt.Fprintf(w, "  %s\n", a.Name)
				for _, s := range a.Settings {
					fmt.Fprintf(w, "    %s = %q %s\t%s\n", s.Name, s.Default, s.Units, s.Help)
				}
			}
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringToStringVar(&settings, "set", nil, "setting as name=value")
	generateCmd.Flags().BoolVar(&postProcess, "run", false,
		"post process the tool path with the configured post processor")
	generateCmd.AddCommand(generatorsCmd)
}
