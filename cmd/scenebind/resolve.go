package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"scenebind/internal/diagnostic"
	"scenebind/internal/resolve"
	"scenebind/internal/scenefile"
)

type resolveOptions struct {
	write       bool
	out         string
	failOnError bool
}

// resolveResult is what one resolution of one scene file produced.
type resolveResult struct {
	path    string
	diags   diagnostic.Diagnostics
	stats   resolve.Stats
	written string
}

func newResolveCmd(a *app) *cobra.Command {
	var opts resolveOptions

	cmd := &cobra.Command{
		Use:   "resolve <scene>...",
		Short: "Bind fields in scene documents and write them back",
		Long: `Resolve runs one resolution pass per scene document, prints every binding
event, and writes the scene back when a node was modified. HCL scenes are
only read; use --out to save the result as YAML. --out is written even when
nothing changed or --write=false.`,
		Args: cobra.MinimumNArgs(1),
		PreRun: func(cmd *cobra.Command, _ []string) {
			if !cmd.Flags().Changed("write") {
				opts.write = a.cfg.Resolve.Write
			}
			if !cmd.Flags().Changed("fail-on-error") {
				opts.failOnError = a.cfg.Resolve.FailOnError
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.out != "" && len(args) > 1 {
				return errors.New("--out needs exactly one scene")
			}

			results, err := a.resolveAll(cmd.Context(), args, opts)
			if err != nil {
				return err
			}

			return a.report(cmd.OutOrStdout(), results, opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.write, "write", true, "write the scene back when it changed")
	flags.StringVarP(&opts.out, "out", "o", "", "write the resolved scene to this YAML file instead (always written)")
	flags.BoolVar(&opts.failOnError, "fail-on-error", false, "exit with code 2 when a field could not be bound")

	return cmd
}

// resolveAll resolves independent scene files in parallel. Results keep the
// order of paths.
func (a *app) resolveAll(ctx context.Context, paths []string, opts resolveOptions) ([]*resolveResult, error) {
	results := make([]*resolveResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res, err := a.resolveFile(path, opts)
			if err != nil {
				return err
			}

			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// resolveFile loads, resolves and saves one scene.
func (a *app) resolveFile(path string, opts resolveOptions) (*resolveResult, error) {
	logger := a.logger.With(slog.String("scene", path))

	doc, err := scenefile.Load(path)
	if err != nil {
		return nil, err
	}

	sc, err := scenefile.Build(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build scene %s: %w", path, err)
	}

	res := &resolveResult{path: path}

	r := resolve.New(sc.Schema, sc.Tree,
		resolve.WithReporter(&res.diags),
		resolve.WithLogger(logger))
	r.Resolve()

	res.stats = r.LastPass()

	// An explicit --out is always written; the scene itself only when
	// writing is enabled and a node changed.
	target := opts.out
	if target == "" {
		if !opts.write || len(sc.Tree.Modified()) == 0 {
			return res, nil
		}

		if format, _ := scenefile.FormatOf(path); format != scenefile.FormatYAML {
			logger.Warn("scene format is read-only, not writing; use --out to save as YAML", slog.String("format", string(format)))
			return res, nil
		}

		target = path
	}

	changed, err := scenefile.Save(sc.Document(), target)
	if err != nil {
		return nil, err
	}

	if changed {
		res.written = target
		logger.Info("scene written", slog.String("path", target))
	}

	return res, nil
}

func (a *app) report(w io.Writer, results []*resolveResult, opts resolveOptions) error {
	failed := 0

	for _, res := range results {
		renderResult(w, res)

		if res.diags.HasErrors() {
			failed++
		}
	}

	if opts.failOnError && failed > 0 {
		return fmt.Errorf("%w: %d of %d scenes", errUnresolved, failed, len(results))
	}

	return nil
}
