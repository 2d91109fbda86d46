package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/randalmurphal/unformat/pkg/unformat"
	"github.com/randalmurphal/unformat/pkg/unformat/config"
	"github.com/randalmurphal/unformat/pkg/unformat/observability"
	"github.com/randalmurphal/unformat/pkg/unformat/store"
)

// app carries state shared by all subcommands of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	settings   config.Settings
	logger     *slog.Logger
	catalog    *config.Catalog
	telemetry  *telemetry
}

// flagKeys maps flag names to settings keys.
var flagKeys = map[string]string{
	"output":     "output",
	"log-level":  "log_level",
	"log-format": "log_format",
	"color":      "color",
	"catalog":    "catalog",
	"store":      "store",
	"metrics":    "metrics",
	"tracing":    "tracing",
	"typed":      "typed",
}

// Execute runs the CLI with signal handling.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}
	d := config.DefaultSettings()

	root := &cobra.Command{
		Use:   "unformat",
		Short: "Extract values from strings using format templates",
		Long: `unformat inverts string formatting. Given a template such as
"{month}_{day}" and a string such as "Jan_1", it recovers the values that
were substituted into the placeholders.

Patterns may be given literally or as @name to use an entry from the
catalog file. Candidates are read from the arguments, or one per line from
stdin when none are given.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Path to settings file")
	pf.StringP("output", "o", d.Output, "Output format (text|json|yaml)")
	pf.String("log-level", d.LogLevel, "Log level (debug|info|warn|error)")
	pf.String("log-format", d.LogFormat, "Log format (text|json)")
	pf.Bool("color", d.Color, "Colorize text output")
	pf.String("catalog", d.Catalog, "Pattern catalog file for @name references")
	pf.String("store", d.Store, "SQLite file recording extraction runs")
	pf.Bool("metrics", d.Metrics, "Collect metrics and log a summary at info level")
	pf.Bool("tracing", d.Tracing, "Trace batch operations and log spans at info level")

	root.AddCommand(
		a.newMatchCmd(),
		a.newExtractCmd(),
		a.newColumnsCmd(),
		a.newInspectCmd(),
		a.newFillCmd(),
		a.newHistoryCmd(),
		newVersionCmd(),
	)
	return root
}

// setup loads settings, logging, telemetry and the catalog before any
// subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = a.v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return fmt.Errorf("bind flags: %w", bindErr)
	}

	s, err := config.LoadSettings(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.settings = s
	a.logger = newLogger(cmd.ErrOrStderr(), s)

	a.telemetry = startTelemetry(a.logger, s.Metrics, s.Tracing)

	if s.Catalog != "" {
		if a.catalog, err = config.FromFile(s.Catalog); err != nil {
			return err
		}
		a.logger.Debug("catalog loaded",
			slog.String("path", s.Catalog),
			slog.Int("patterns", len(a.catalog.Patterns)))
	}
	return nil
}

// teardown flushes telemetry.
func (a *app) teardown(cmd *cobra.Command, _ []string) error {
	if a.telemetry == nil {
		return nil
	}
	return a.telemetry.shutdown(cmd.Context())
}

func newLogger(w io.Writer, s config.Settings) *slog.Logger {
	opts := &slog.HandlerOptions{Level: s.SlogLevel()}
	if s.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (a *app) printer(cmd *cobra.Command) *printer {
	return &printer{w: cmd.OutOrStdout(), format: a.settings.Output, color: a.settings.Color}
}

// compile resolves a pattern argument. "@name" refers to the catalog and
// "@@..." stands for a literal template starting with "@".
func (a *app) compile(ref string) (unformat.Unformatter, error) {
	var (
		p   unformat.Unformatter
		err error
	)
	switch {
	case strings.HasPrefix(ref, "@@"):
		p, err = unformat.Compile(ref[1:])
	case strings.HasPrefix(ref, "@"):
		if a.catalog == nil {
			return nil, fmt.Errorf("pattern %s: no catalog configured (use --catalog)", ref)
		}
		p, err = a.catalog.Compile(ref[1:])
	default:
		p, err = unformat.Compile(ref)
	}
	if err != nil {
		observability.LogCompileError(a.logger, ref, err)
		return nil, err
	}
	observability.LogCompile(a.logger, p.Template(), p.Discipline().String(), p.NumPlaceholders())
	return p, nil
}

// instrument wraps p with the configured logging, metrics and tracing.
func (a *app) instrument(p unformat.Unformatter) *observability.Instrumented {
	return observability.Instrument(p,
		observability.WithLogger(a.logger),
		observability.WithMetrics(a.settings.Metrics),
		observability.WithTracing(a.settings.Tracing),
	)
}

// openStore opens the configured run store, or returns nil when none is set.
func (a *app) openStore() (store.Store, error) {
	if a.settings.Store == "" {
		return nil, nil
	}
	s, err := store.NewSQLiteStore(a.settings.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

// candidates returns args, or the lines of stdin when args is empty.
func candidates(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	var lines []string
	sc := bufio.NewScanner(cmd.InOrStdin())
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return lines, nil
}
