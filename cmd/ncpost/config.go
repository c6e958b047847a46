package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leftmike/ncpost"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Work with the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration in effect",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if f := v.ConfigFileUsed(); f != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", f)
		}
		return cfg.Show(cmd.OutOrStdout())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "ncpost", ncpost.Version)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
