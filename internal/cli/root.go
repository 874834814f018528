// Package cli provides the command-line interface for pfadmin.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pfadmin/pfadmin/internal/config"
	"github.com/pfadmin/pfadmin/internal/gql"
	"github.com/pfadmin/pfadmin/internal/graphql"
	"github.com/pfadmin/pfadmin/internal/history"
	"github.com/pfadmin/pfadmin/internal/history/sqlite"
	"github.com/pfadmin/pfadmin/internal/logging"
	"github.com/pfadmin/pfadmin/internal/prefect"
	"github.com/pfadmin/pfadmin/pkg/types"
)

const longHelp = `pfadmin administers a Prefect backend through its GraphQL API.

It lists and queries flows, flow runs, agents, projects and secrets, and
performs a few mutations: enable or disable a flow schedule, set flow group
default parameters and set secrets. Any registered GraphQL operation can be
run with the api command.

Examples:
  pfadmin flow -l                                   # List flows
  pfadmin -L D flow -p A=1 -g <flow-group-id>       # Set parameter A=1, debug logging
  pfadmin flow -q DUMMY_FLOW                        # Flow details
  pfadmin agent -l                                  # List agents
  pfadmin flow_run -l DUMMY_FLOW                    # Runs of DUMMY_FLOW
  pfadmin api -e log.list -p /tmp/gql_log.json      # Run an operation with variables from a file
  pfadmin -f json secret -l                         # Secret names as JSON`

// UsageError reports an invalid combination of command-line arguments.
type UsageError struct {
	Cmd string
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

// Hint tells the user where to find the command usage.
func (e *UsageError) Hint() string {
	return fmt.Sprintf("Run '%s --help' for usage.", e.Cmd)
}

func usageError(cmd *cobra.Command, format string, args ...any) error {
	return &UsageError{Cmd: cmd.CommandPath(), Msg: fmt.Sprintf(format, args...)}
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	var usage *UsageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &usage):
		return 2
	default:
		return 1
	}
}

// app carries the state shared by every command of one invocation.
type app struct {
	// global flags
	cfgFile     string
	format      string
	logConfig   string
	logLevel    string
	showVersion bool

	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	newClient   func(cfg *config.Config) gql.Client
	openHistory func(ctx context.Context, cfg *config.Config) (history.Store, error)

	cfg      *config.Config
	out      types.Format
	registry *gql.Registry
	client   gql.Client
	store    history.Store
	closeLog func() error
	log      zerolog.Logger
}

func newApp() *app {
	return &app{
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		newClient:   newGraphQLClient,
		openHistory: initHistory,
		out:         types.FormatText,
		log:         zerolog.Nop(),
	}
}

// errVersionShown stops the command chain once -v has printed the version.
var errVersionShown = errors.New("version shown")

// Execute runs the root command.
func Execute() error {
	a := newApp()
	defer a.close()
	return a.execute(newRootCmd(a))
}

func (a *app) execute(cmd *cobra.Command) error {
	if err := cmd.Execute(); !errors.Is(err, errVersionShown) {
		return err
	}
	return nil
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "pfadmin",
		Short:             "pfadmin - Prefect GraphQL administration",
		Long:              longHelp,
		Args:              noArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup(cmd) },
		RunE: func(cmd *cobra.Command, args []string) error {
			return usageError(cmd, "missing arguments")
		},
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError(c, "%v", err)
	})

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.config/pfadmin/config.yaml)")
	cmd.PersistentFlags().StringVarP(&a.format, "format", "f", "text", "output format: text, json or yaml")
	cmd.PersistentFlags().StringVar(&a.logConfig, "log", "", "logging configuration file (JSON or YAML)")
	cmd.PersistentFlags().StringVarP(&a.logLevel, "log_level", "L", "W", "log level: I(info), D(debug), W(warning), E(error)")
	cmd.PersistentFlags().BoolVarP(&a.showVersion, "version", "v", false, "show version and exit")

	// Add subcommands
	cmd.AddCommand(newSecretCmd(a))
	cmd.AddCommand(newFlowCmd(a))
	cmd.AddCommand(newFlowRunCmd(a))
	cmd.AddCommand(newAgentCmd(a))
	cmd.AddCommand(newProjectCmd(a))
	cmd.AddCommand(newAPICmd(a))
	cmd.AddCommand(newHistoryCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newVersionCmd(a))

	return cmd
}

// setup loads the configuration, initializes logging and builds the
// operation registry and API client. No network traffic happens here.
func (a *app) setup(cmd *cobra.Command) error {
	if a.showVersion {
		printVersion(a.stdout, nil)
		return errVersionShown
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	formatName := cfg.Output.Format
	if cmd.Flags().Changed("format") {
		formatName = a.format
	}
	if a.out, err = types.ParseFormat(formatName); err != nil {
		return usageError(cmd, "%v", err)
	}

	if err := a.initLogging(cmd); err != nil {
		return err
	}

	a.log.Info().Msg(versionLine())
	a.log.Info().Msg(runtimeLine())
	a.log.Info().Int("pid", os.Getpid()).Strs("args", os.Args[1:]).Str("endpoint", cfg.API.URL).Msg("starting")

	a.registry = gql.NewRegistry()
	if err := prefect.Register(a.registry); err != nil {
		return err
	}
	descs, err := gql.LoadDir(cfg.Queries.Dir)
	for _, fileErr := range unjoin(err) {
		a.log.Warn().Err(fileErr).Str("dir", cfg.Queries.Dir).Msg("skipping query descriptor file")
	}
	for _, d := range descs {
		if err := a.registry.Register(d, nil); err != nil {
			a.log.Warn().Err(err).Str("operation", d.Name).Msg("skipping query descriptor")
		}
	}

	a.client = a.newClient(cfg)
	return nil
}

func (a *app) initLogging(cmd *cobra.Command) error {
	opts := logging.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		Output: a.cfg.Logging.Output,
	}

	logFile := a.cfg.Logging.Config
	if a.logConfig != "" {
		logFile = a.logConfig
	}
	if logFile != "" {
		fileOpts, err := logging.LoadOptions(logFile)
		if err != nil {
			return err
		}
		opts = mergeLogOptions(opts, fileOpts)
	}

	if cmd.Flags().Changed("log_level") {
		if _, err := logging.ParseLevel(a.logLevel); err != nil {
			return usageError(cmd, "%v", err)
		}
		opts.Level = a.logLevel
	}

	closeLog, err := logging.Init(opts)
	if err != nil {
		return err
	}
	a.closeLog = closeLog
	a.log = logging.For("cli")
	return nil
}

func mergeLogOptions(base, file logging.Options) logging.Options {
	if file.Level != "" {
		base.Level = file.Level
	}
	if file.Format != "" {
		base.Format = file.Format
	}
	if file.Output != "" {
		base.Output = file.Output
	}
	if file.TimeFormat != "" {
		base.TimeFormat = file.TimeFormat
	}
	return base
}

// close releases the history store and log file.
func (a *app) close() {
	if a.cfg != nil {
		a.log.Info().Int("pid", os.Getpid()).Msg("application end")
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close history")
		}
		a.store = nil
	}
	if a.closeLog != nil {
		a.closeLog()
		a.closeLog = nil
	}
}

// unjoin splits an errors.Join result into its parts.
func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

func newGraphQLClient(cfg *config.Config) gql.Client {
	return graphql.New(graphql.Options{
		URL:      cfg.API.URL,
		APIKey:   cfg.API.APIKey,
		TenantID: cfg.API.TenantID,
		Headers:  cfg.API.Headers,
	})
}

// initHistory opens the SQLite history store from config.
func initHistory(ctx context.Context, cfg *config.Config) (history.Store, error) {
	if err := config.EnsureHistoryDir(cfg.History.Path); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	store, err := sqlite.New(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	if err := store.Init(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize history: %w", err)
	}

	return store, nil
}

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageError(cmd, "unexpected arguments: %v", args)
	}
	return nil
}
