package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/classbell/classbell/internal/auth"
	"github.com/classbell/classbell/internal/config"
	"github.com/classbell/classbell/internal/dateutil"
	"github.com/classbell/classbell/internal/db"
	"github.com/classbell/classbell/internal/logging"
	"github.com/classbell/classbell/internal/scheduler"
	"github.com/classbell/classbell/internal/slot"
	"github.com/classbell/classbell/internal/timetable"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo   slot.Repository
	svc    *timetable.Service
	loader *timetable.Loader
	config *config.Config
	logger *zap.Logger
	root   *cobra.Command

	class   string // class instance the commands act on
	debug   bool
	noColor bool
	now     func() time.Time
}

// NewApp creates a new CLI application. A nil repo is opened lazily from the
// configured database path by the first command that needs it.
func NewApp(repo slot.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg, now: time.Now}

	a.root = &cobra.Command{
		Use:   "classbell",
		Short: "A CLI tool for class timetables",
		Long: `Classbell keeps a class's day of periods and breaks in order.

It parses loose times like "9" or "2:30pm", detects overlapping slots,
and resolves conflicts by aborting, replacing the clashing slot, or
shifting the rest of the day forward.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if a.noColor {
				DisableColor()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runShow(cmd, "", false)
		},
	}

	a.root.PersistentFlags().StringVar(&a.class, "class", "default", "Class instance the timetable belongs to")
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.browseCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.editCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.cancelCmd())
	a.root.AddCommand(a.doneCmd())
	a.root.AddCommand(a.generateCmd())
	a.root.AddCommand(a.parseCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "classbell %s (commit: %s)\n", Version, Commit)
		},
	}
}

// ensureService builds the logger, opens the repository and wires the
// timetable service on first use.
func (a *App) ensureService() error {
	if a.svc != nil {
		return nil
	}

	logCfg := a.config.Log
	if a.debug {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	a.logger = logger

	if a.repo == nil {
		path := a.config.Storage.DBPath
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
		repo, err := db.New(path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		a.repo = repo
	}

	sched := scheduler.New(a.config.SchedulerOptions())
	a.svc = timetable.NewService(a.repo, sched, logger)
	a.loader = timetable.NewLoader(a.repo)
	logger.Debug("service ready",
		zap.String("db", a.config.Storage.DBPath),
		zap.String("school", a.config.School.Code),
		zap.String("actor", a.config.School.Actor))
	return nil
}

// actorContext returns a context carrying the configured actor.
func (a *App) actorContext() context.Context {
	return auth.WithActor(context.Background(), auth.Actor{
		ID:         a.config.School.Actor,
		SchoolCode: a.config.School.Code,
	})
}

// resolveDate turns a --date flag value into a class date.
func (a *App) resolveDate(input string) (string, error) {
	return dateutil.ResolveClassDate(input, a.now())
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close flushes the logger and closes the repository.
func (a *App) Close() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.repo != nil {
		return a.repo.Close()
	}
	return nil
}
