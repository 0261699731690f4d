package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/studioops/reelflow/internal/commands"
	"github.com/studioops/reelflow/internal/core/config"
	"github.com/studioops/reelflow/internal/core/eventbus"
	"github.com/studioops/reelflow/internal/core/logging"
	"github.com/studioops/reelflow/internal/data/db"
	"github.com/studioops/reelflow/internal/data/stores"
	"github.com/studioops/reelflow/internal/engine"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		logCloser func()
		database  *db.DB
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "reelflow",
		Usage:     "Track production tasks through the approval pipeline",
		UsageText: "reelflow [global options] command [command options]",
		Description: `Reelflow filters a department's production tasks, validates status
transitions, and aggregates filtered sets into dashboard and report feeds.

Run 'reelflow tasks ls' to list the visible task set.
Run 'reelflow serve' to expose the view and report API over HTTP.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("REELFLOW_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (stderr when unset)",
				Sources:     cli.EnvVars("REELFLOW_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("REELFLOW_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "data directory for the task store",
				Sources:     cli.EnvVars("REELFLOW_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logging.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			logCloser = closer
			log.Logger = logger

			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				return ctx, err
			}
			cfg.DataDir = flags.DataDir
			flags.Config = cfg

			if err := os.MkdirAll(flags.DataDir, 0o755); err != nil {
				return ctx, fmt.Errorf("create data dir %s: %w", flags.DataDir, err)
			}

			database, err = db.Open(flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			bus := eventbus.New(128)
			eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))
			go bus.Start(ctx)

			flags.App = engine.NewApp(
				cfg,
				bus,
				database,
				stores.NewTaskStore(database),
				stores.NewClientStore(database),
				stores.NewEmployeeStore(database),
			)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if database != nil {
				_ = database.Close()
			}
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewTasksCmd(flags).Register(app)
	app = commands.NewReportCmd(flags).Register(app)
	app = commands.NewServeCmd(flags).Register(app)
	app = commands.NewImportCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
