package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"scenebind/internal/scenefile"
)

func newSchemaCmd(a *app) *cobra.Command {
	var (
		dir string
		out string
	)

	cmd := &cobra.Command{
		Use:   "schema <package>...",
		Short: "Print the scene type schema of Go components",
		Long: `Schema loads Go packages and prints a scene document holding the type schema
of their bind-tagged fields, ready to receive nodes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, err := a.analyze(dir, args)
			if err != nil {
				return err
			}

			diags := analyzer.Diagnostics()
			for _, d := range diags.All() {
				a.logger.Warn(d.String())
			}

			doc := &scenefile.Document{
				Version: scenefile.Version,
				Types:   scenefile.SchemaFromFields(analyzer.Fields(), analyzer.Is()),
			}

			data, err := scenefile.Marshal(doc)
			if err != nil {
				return fmt.Errorf("failed to marshal schema: %w", err)
			}

			if out == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}

			changed, err := scenefile.WriteIfChanged(out, data)
			if err != nil {
				return err
			}

			a.logger.Info("schema written", slog.String("path", out), slog.Bool("changed", changed))

			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory to resolve package patterns in")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the schema to this file")

	return cmd
}
