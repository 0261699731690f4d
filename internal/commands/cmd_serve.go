package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/studioops/reelflow/internal/server"
)

type ServeCmd struct {
	flags *Flags

	listen string
}

// NewServeCmd creates a new serve command.
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application.
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Run the HTTP view and report API",
		UsageText: "reelflow serve [--listen ADDR]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "listen",
				Usage:       "bind address (overrides config)",
				Destination: &cmd.listen,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.listen != "" {
		cmd.flags.Config.Listen = cmd.listen
	}

	if err := cmd.flags.App.Snapshots.Reload(ctx); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	return server.New(cmd.flags.App).Run(ctx)
}
