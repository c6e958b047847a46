package main

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/leftmike/ncpost/errors"
	"github.com/leftmike/ncpost/logger"
	"github.com/leftmike/ncpost/sink"
)

var watch bool

var postCmd = &cobra.Command{
	Use:   "post [file]",
	Short: "Post process a tool path",
	Long: `Post process the tool path in file, or stdin, with the configured post
processor. Files ending in .yaml or .yml are read as YAML documents.

With --watch, post process again whenever file changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if watch {
			if len(args) == 0 {
				return errors.New("--watch needs a file")
			}
			return watchPost(cmd.Context(), args[0])
		}
		return post(cmd.Context(), args)
	},
}

func init() {
	postCmd.Flags().Bool("frame", false, "wrap the tool path in program_begin and program_end")
	postCmd.Flags().BoolVar(&watch, "watch", false, "post process again when the file changes")
}

func post(ctx context.Context, args []string) error {
	in, name, err := openInput(args)
	if err != nil {
		return err
	}
	defer in.Close()

	cmds, err := readToolpath(in, name)
	if err != nil {
		return err
	}
	p, err := processor()
	if err != nil {
		return err
	}

	out, err := createOutput(cfg.Output)
	if err != nil {
		return err
	}
	defer out.Close()

	w := sink.NewWriter(out)
	err = p.Run(ctx, cfg.PostProcessor, cmds, w)
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	logger.Logger.Infow("post processed", "input", name, "post", cfg.PostProcessor,
		"commands", len(cmds), "lines", w.Lines())
	return err
}

const debouncePeriod = 200 * time.Millisecond

func watchPost(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "watch")
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return errors.Wrapf(err, "watch %s", path)
	}

	rerun := func() {
		if err := post(ctx, []string{path}); err != nil {
			logger.Logger.Errorw("post processing failed", "input", path, "error", err)
		}
	}
	rerun()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// coalesce bursts of writes
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debouncePeriod)
			fire = timer.C
		case <-fire:
			fire = nil
			logger.Logger.Infow("input changed", "input", path)
			rerun()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Logger.Warnw("watch error", "input", path, "error", err)
		}
	}
}
