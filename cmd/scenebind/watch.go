package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"scenebind/internal/scenefile"
	"scenebind/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <scene>...",
		Short: "Resolve scene documents every time they are saved",
		Long: `Watch resolves each scene once, then again after every change to its file,
writing results back like resolve --write. Writes that change nothing do not
touch the file, so a resolved scene does not trigger itself.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				format, err := scenefile.FormatOf(path)
				if err != nil {
					return err
				}
				if format != scenefile.FormatYAML {
					return fmt.Errorf("watch writes scenes back and needs YAML, got %s", path)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.watch(ctx, cmd.OutOrStdout(), args)
		},
	}

	return cmd
}

// watch runs one watcher per scene until ctx ends.
func (a *app) watch(ctx context.Context, w io.Writer, paths []string) error {
	opts := resolveOptions{write: true}

	// Watchers share the output.
	var mu sync.Mutex
	run := func(path string) error {
		res, err := a.resolveFile(path, opts)

		mu.Lock()
		defer mu.Unlock()

		if err != nil {
			return err
		}

		renderResult(w, res)

		return nil
	}

	g, ctx := errgroup.WithContext(ctx)

	for _, path := range paths {
		if err := run(path); err != nil {
			a.logger.Error("resolve failed", slog.String("scene", path), slog.Any("error", err))
		}

		watcher, err := watch.New(watch.Config{
			BaseDir:  filepath.Dir(path),
			Patterns: []string{filepath.Base(path)},
			Ignore:   a.cfg.Watch.Ignore,
			Debounce: a.cfg.Watch.Debounce,
			Logger:   a.logger.With(slog.String("scene", path)),
			OnChange: func(context.Context, []string) error {
				return run(path)
			},
		})
		if err != nil {
			return err
		}

		g.Go(func() error { return watcher.Run(ctx) })
	}

	a.logger.Info("watching scenes", slog.Any("paths", paths))

	return g.Wait()
}
