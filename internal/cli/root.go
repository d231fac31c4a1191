// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// root.go - Command tree and bootstrap for onexport.
//
// Running onexport without a subcommand starts the interactive export
// session. Every command except version and config init/path loads the
// configuration and builds the logger first.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/onexport/internal/backup"
	"github.com/jeranaias/onexport/internal/config"
	"github.com/jeranaias/onexport/internal/export"
	"github.com/jeranaias/onexport/internal/history"
	"github.com/jeranaias/onexport/internal/logging"
)

// Version information (set at build time from main)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// APPLICATION STATE
// =============================================================================

// rootFlags holds the persistent flags.
type rootFlags struct {
	configPath string
	root       string
	verbose    bool
	noColor    bool
}

// app carries what bootstrap builds to the command handlers.
type app struct {
	flags  rootFlags
	cfg    *config.Config
	logger *zap.Logger

	// newReader opens the prompt input for the interactive session.
	newReader func() LineReader

	closers []func() error
}

func newApp() *app {
	return &app{
		logger:    zap.NewNop(),
		newReader: func() LineReader { return NewLinerReader() },
	}
}

// bootstrap loads the configuration, applies flag overrides and builds the
// logger.
func (a *app) bootstrap(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if a.flags.configPath != "" {
		cfg, err = config.LoadFromPath(a.flags.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if a.flags.root != "" {
		root, err := filepath.Abs(a.flags.root)
		if err != nil {
			return NewUsageError("invalid --root %q: %v", a.flags.root, err)
		}
		cfg.Backup.Root = root
	}
	if a.flags.noColor || cfg.UI.NoColor {
		ForceColorsEnabled(false)
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    logPath,
		Verbose: a.flags.verbose,
		Stderr:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.closers = append(a.closers, closeLog)
	a.logger.Debug("bootstrap complete",
		zap.String("command", cmd.CommandPath()),
		zap.String("log", logPath))
	return nil
}

// scanner builds a scanner on the effective backup root.
func (a *app) scanner() (*backup.Scanner, error) {
	root, err := a.cfg.BackupRoot()
	if err != nil {
		return nil, err
	}
	s := backup.NewScanner(root, backup.NewParser(a.cfg.Backup.Markers...), a.logger.Named("scan"))
	s.Strict = a.cfg.Backup.Strict
	return s, nil
}

// openHistory opens the run log, or returns nil when it is disabled.
func (a *app) openHistory() (*history.Store, error) {
	if !a.cfg.History.Enabled {
		return nil, nil
	}
	path, err := a.cfg.HistoryPath()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.Close)
	return store, nil
}

// close releases everything bootstrap and the handlers opened, newest first.
func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// =============================================================================
// COMMANDS
// =============================================================================

// usageArgs turns argument validation failures into usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &UsageError{Reason: err.Error()}
		}
		return nil
	}
}

// skipBootstrap replaces the root pre-run for commands that must work
// without a valid configuration.
func skipBootstrap(*cobra.Command, []string) error { return nil }

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "onexport",
		Short: "Export Microsoft OneNote built-in backups as plain .one files",
		Long: `onexport copies the sections of one OneNote backup version out of the
application's backup directory into a destination folder, restoring the
original section file names and the section group hierarchy.

Run without a subcommand to start the interactive export.`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.bootstrap(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSession(cmd)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Reason: err.Error()}
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default ~/.onexport/config.toml)")
	pf.StringVar(&a.flags.root, "root", "", "OneNote backup directory (overrides backup.root)")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug output to stderr")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newListCommand(a),
		newHistoryCommand(a),
		newConfigCommand(a),
		newVersionCommand(),
	)
	return cmd
}

// runSession runs the interactive export.
func (a *app) runSession(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	scanner, err := a.scanner()
	if err != nil {
		return err
	}

	store, err := a.openHistory()
	if err != nil {
		// History is a convenience; an export must not depend on it.
		a.logger.Warn("history disabled for this run", zap.Error(err))
		store = nil
	}

	reader := a.newReader()
	defer reader.Close()

	executor := export.New(scanner.Root(), export.Options{
		Concurrency: a.cfg.Export.Concurrency,
	}, a.logger.Named("export"))

	session := NewSession(SessionOptions{
		Scanner:            scanner,
		Executor:           executor,
		History:            store,
		DefaultDestination: a.cfg.Export.DefaultDestination,
		Logger:             a.logger.Named("session"),
	}, reader, out)

	err = session.Run(cmd.Context())
	if errors.Is(err, ErrCancelled) {
		fmt.Fprintln(out)
		fmt.Fprintln(out, DimStyle.Render("Cancelled."))
		a.logger.Info("session cancelled")
		return nil
	}
	return err
}

// =============================================================================
// ENTRY POINT
// =============================================================================

// Execute runs the command line and returns the process exit code.
func Execute() int {
	return execute(context.Background(), newApp(), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, a *app, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		a.logger.Error("command failed", zap.Error(err))
	}
	if closeErr := a.close(); closeErr != nil {
		fmt.Fprintln(stderr, WarningStyle.Render(fmt.Sprintf("cleanup: %v", closeErr)))
	}
	if err != nil {
		fmt.Fprintln(stderr, TagSystemError.Render(err.Error()))
		var usageErr *UsageError
		if errors.As(err, &usageErr) {
			fmt.Fprintln(stderr, DimStyle.Render("Run 'onexport --help' for usage."))
		}
	}
	return GetExitCode(err)
}
