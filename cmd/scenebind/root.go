package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"scenebind/internal/config"
	"scenebind/internal/logging"
)

// Exit codes.
const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
	// ExitCodeUnresolved means resolution reported errors and
	// --fail-on-error was set.
	ExitCodeUnresolved = 2
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// errUnresolved is returned when error diagnostics fail the command.
var errUnresolved = errors.New("scene has unresolved fields")

func exitCode(err error) int {
	if errors.Is(err, errUnresolved) {
		return ExitCodeUnresolved
	}

	return ExitCodeError
}

// app is the state shared by all commands.
type app struct {
	cfgFile   string
	logLevel  string
	logFormat string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "scenebind",
		Short: "Bind component references in scene documents",
		Long: `scenebind fills the bound fields of scene components: for every field it
collects the candidate components of the field type from the component's own
node, its descendants or its ancestors, and binds, creates or reports.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.SetVersionTemplate(`{{printf "scenebind version %s\n" .Version}}`)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./"+config.FileName+".yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text, json, logfmt")

	root.AddCommand(
		newResolveCmd(a),
		newInspectCmd(a),
		newFieldsCmd(a),
		newSchemaCmd(a),
		newWatchCmd(a),
		newVersionCmd(),
	)

	return root
}

// setup loads the config and the logger. Flags override config values.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, used, err := config.Load(config.LoadOptions{Path: a.cfgFile})
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.Init(cmd.ErrOrStderr(), logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger

	if used != "" {
		logger.Debug("loaded config", slog.String("path", used))
	}

	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of scenebind",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scenebind version %s\n", version)
		},
	}
}
