package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leftmike/ncpost"
	"github.com/leftmike/ncpost/config"
	"github.com/leftmike/ncpost/errors"
	"github.com/leftmike/ncpost/logger"
	"github.com/leftmike/ncpost/profile"
	"github.com/leftmike/ncpost/toolpath"
)

var (
	configPath string
	v          *viper.Viper
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ncpost",
	Short: "Post process tool paths into machine programs",
	Long: `ncpost turns tool path commands, such as rapid(0, 0, 1) or drill(z=0,
depth=5, standoff=2), into the G-code of a machine controller.

Configuration comes from ncpost.toml in the current directory or the user
config directory, NCPOST_* environment variables and flags, in increasing
order of precedence.

Examples:
  ncpost post part.tp --post mach3 -o part.nc
  ncpost list
  ncpost generate example | ncpost post
  ncpost check part.nc`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		v, err = config.New(configPath)
		if err != nil {
			return err
		}
		for key, name := range map[string]string{
			"post_processor": "post",
			"profiles":       "profiles",
			"output":         "output",
			"log.json":       "log-json",
			"log.level":      "log-level",
		} {
			if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(name)); err != nil {
				return err
			}
		}
		if f := cmd.Flags().Lookup("frame"); f != nil {
			if err := v.BindPFlag("program.frame", f); err != nil {
				return err
			}
		}

		cfg, err = config.Load(v)
		if err != nil {
			return err
		}
		return logger.Initialize(cfg.Log.JSON, cfg.Log.Level)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default ./ncpost.toml)")
	flags.StringP("post", "p", "", "post processor name or id")
	flags.StringSlice("profiles", nil, "directories of .hcl machine profiles")
	flags.StringP("output", "o", "", "output file; - for stdout")
	flags.Bool("log-json", false, "log as JSON")
	flags.String("log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(postCmd, listCmd, opsCmd, generateCmd, checkCmd, viewCmd, configCmd,
		versionCmd)
}

// processor returns a post processor set up from the configuration.
func processor() (*ncpost.Processor, error) {
	set := profile.NewSet()
	if err := set.LoadDirs(cfg.Profiles...); err != nil {
		return nil, err
	}

	p := ncpost.Processor{Profiles: set, Options: cfg.Options()}
	if cfg.Program.Frame {
		p.Frame = &ncpost.Frame{ID: cfg.Program.ID, Comment: cfg.Program.Comment}
	}
	return &p, nil
}

// openInput opens the file of args or returns stdin.
func openInput(args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(os.Stdin), "-", nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", err
	}
	return f, args[0], nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

func createOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// readToolpath parses YAML documents by extension and everything else as
// tool path commands.
func readToolpath(r io.Reader, name string) ([]toolpath.Command, error) {
	var cmds []toolpath.Command
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		cmds, err = toolpath.LoadYAML(r)
	default:
		cmds, err = toolpath.Parse(r)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s", name)
	}
	return cmds, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ncpost:", err)
		os.Exit(1)
	}
}
