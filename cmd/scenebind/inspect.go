package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scenebind/internal/diagnostic"
	"scenebind/internal/resolve"
	"scenebind/internal/scenefile"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <scene>",
		Short: "Show every bound field and its current value",
		Long:  `Inspect prints the bound fields of every component without resolving or writing anything.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := scenefile.Load(args[0])
			if err != nil {
				return err
			}

			sc, err := scenefile.Build(doc)
			if err != nil {
				return fmt.Errorf("failed to build scene %s: %w", args[0], err)
			}

			r := resolve.New(sc.Schema, sc.Tree,
				resolve.WithReporter(diagnostic.Discard),
				resolve.WithLogger(a.logger))

			renderBindings(cmd.OutOrStdout(), r.Bindings())

			return nil
		},
	}
}
