package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/amirbrooks/weekly-todo/internal/config"
	"github.com/amirbrooks/weekly-todo/internal/logging"
	"github.com/amirbrooks/weekly-todo/internal/store"
	"github.com/amirbrooks/weekly-todo/internal/weekly"
)

// Exit codes
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitInternal = 10
	ExitEditor   = 11
)

// annotationRewritesConfig marks commands that run even when the config file
// cannot be read.
const annotationRewritesConfig = "weekly/rewrites-config"

// Version is set via ldflags at build time.
var Version = "dev"

type GlobalFlags struct {
	ConfigPath string
	Date       string
	Verbose    bool
	DryRun     bool
	NoEdit     bool
}

// exitError carries the process exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageErr(err error) error    { return &exitError{code: ExitUsage, err: err} }
func internalErr(err error) error { return &exitError{code: ExitInternal, err: err} }

// launcher opens path in editor at line and blocks until the editor exits.
type launcher func(ctx context.Context, editor string, line int, path string) error

type app struct {
	gf         GlobalFlags
	cfg        *config.Config
	configPath string
	logger     *slog.Logger
	closer     io.Closer
	now        time.Time

	stdout     io.Writer
	stderr     io.Writer
	clock      func() time.Time
	launch     launcher
	isTerminal func() bool
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		clock:  time.Now,
		launch: launchEditor,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
		logger: slog.Default(),
	}
}

// Run executes the weekly CLI and returns the process exit code.
func Run(args []string) int {
	return newApp(os.Stdout, os.Stderr).run(context.Background(), args)
}

func (a *app) run(ctx context.Context, args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	err := root.ExecuteContext(ctx)
	if a.closer != nil {
		_ = a.closer.Close()
	}
	if err == nil {
		return ExitOK
	}
	fmt.Fprintln(a.stderr, "weekly:", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitUsage
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Roll a weekly to-do file forward and open it at today",
		Long: `weekly keeps one Markdown to-do file organised by week.

On every run it prepends a new week when the calendar week changed, collects
unchecked items of finished weeks under "## Unresolved Items:", moves unchecked
items of earlier days this week to today, and opens the file in your editor at
today's entry.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runOpen,
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&a.gf.ConfigPath, "config", "", "Config file (default $XDG_CONFIG_HOME/weekly/config.yaml)")
	pf.String("file", "", "To-do file (default ~/TODO.md or TODO_FILEPATH)")
	pf.String("editor", "", "Editor command (default nvim or EDITOR)")
	pf.Bool("backup", false, "Snapshot the file before rewriting it")
	pf.String("log-level", "", "Log level (debug|info|warn|error)")
	pf.String("log-format", "", "Log format (text|json)")
	pf.StringVar(&a.gf.Date, "date", "", `Run as of another day ("2024-01-03", "yesterday", "last friday")`)
	pf.BoolVarP(&a.gf.Verbose, "verbose", "v", false, "Also log to stderr")
	pf.BoolVar(&a.gf.DryRun, "dry-run", false, "Print the resulting file instead of writing it")
	cmd.Flags().BoolVar(&a.gf.NoEdit, "no-edit", false, "Do not open the editor; print file:line instead")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErr(err)
	})
	cmd.AddCommand(
		a.rollCmd(),
		a.statusCmd(),
		a.whereCmd(),
		a.configCmd(),
		a.versionCmd(),
	)
	return cmd
}

// setup resolves configuration, logging and the effective date.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.configPath = a.gf.ConfigPath
	if a.configPath == "" {
		a.configPath = config.DefaultPath()
	}
	cfg, loadErr := config.Load(a.configPath, cmd.Flags())
	if loadErr != nil {
		// config init must still be able to replace a broken file.
		if cmd.Annotations[annotationRewritesConfig] != "true" {
			return usageErr(loadErr)
		}
		cfg = config.DefaultConfig()
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		return usageErr(errors.Join(errs...))
	}
	a.cfg = cfg

	logger, closer, _ := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		File:    cfg.Log.File,
		Verbose: a.gf.Verbose,
		Stderr:  a.stderr,
	})
	a.logger = logger
	a.closer = closer
	if loadErr != nil {
		a.logger.Warn("config.unreadable", "config", a.configPath, "error", loadErr)
	}

	now, err := parseDate(a.gf.Date, a.clock())
	if err != nil {
		return usageErr(err)
	}
	a.now = now
	a.logger.Debug("config.loaded", "config", a.configPath, "file", cfg.File, "date", weekly.FormatDate(now))
	return nil
}

func (a *app) openStore() (*store.File, error) {
	f, err := store.Open(a.cfg.File, store.Options{
		Backup:    a.cfg.Backup.Enabled,
		BackupDir: a.cfg.Backup.Dir,
		Keep:      a.cfg.Backup.Keep,
		Logger:    a.logger,
	})
	if err != nil {
		return nil, usageErr(err)
	}
	return f, nil
}

func (a *app) roll(ctx context.Context) (*weekly.Result, *store.File, error) {
	f, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}
	r := &weekly.Roller{Store: f, Logger: a.logger, DryRun: a.gf.DryRun}
	res, err := r.Roll(ctx, a.now)
	if err != nil {
		return nil, nil, internalErr(err)
	}
	a.logger.Info("roll.done",
		"new_week", res.NewWeek,
		"unresolved", res.Unresolved,
		"carried", res.Carried,
		"line", res.OpeningLine,
		"saves", res.Saves,
	)
	return res, f, nil
}

// runOpen rolls the file forward and opens the editor at today.
func (a *app) runOpen(cmd *cobra.Command, _ []string) error {
	res, f, err := a.roll(cmd.Context())
	if err != nil {
		return err
	}
	if a.gf.DryRun {
		fmt.Fprint(a.stdout, res.Content)
		return nil
	}
	if a.gf.NoEdit || !a.isTerminal() {
		if !a.gf.NoEdit {
			a.logger.Warn("no terminal attached, not opening editor", "editor", a.cfg.Editor)
		}
		fmt.Fprintf(a.stdout, "%s:%d\n", f.Path, res.OpeningLine)
		return nil
	}
	if err := a.launch(cmd.Context(), a.cfg.Editor, res.OpeningLine, f.Path); err != nil {
		return &exitError{code: ExitEditor, err: fmt.Errorf("editor %q: %w", a.cfg.Editor, err)}
	}
	return nil
}
