package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"scenebind/internal/analyze"
)

func newFieldsCmd(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "fields <package>...",
		Short: "List bind-tagged fields in Go packages",
		Long: `Fields loads Go packages and lists every struct field carrying a bind tag,
followed by problems with the declarations.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, err := a.analyze(dir, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			renderFields(out, analyzer.Fields())

			diags := analyzer.Diagnostics()
			renderDiagnostics(out, diags)

			if diags.HasErrors() {
				return fmt.Errorf("%w: invalid bind declarations", errUnresolved)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory to resolve package patterns in")

	return cmd
}

func (a *app) analyze(dir string, patterns []string) (*analyze.Analyzer, error) {
	analyzer := analyze.NewAnalyzer()
	analyzer.Dir = dir

	if _, err := analyzer.LoadPackages(patterns...); err != nil {
		return nil, err
	}

	a.logger.Debug("loaded packages",
		slog.Any("patterns", patterns),
		slog.Int("fields", len(analyzer.Fields())))

	return analyzer, nil
}
