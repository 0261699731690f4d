package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/studioops/reelflow/internal/core/task"
	"github.com/studioops/reelflow/pkg/iojson"
)

type ImportCmd struct {
	flags *Flags

	file string
}

// NewImportCmd creates a new import command.
func NewImportCmd(flags *Flags) *ImportCmd {
	return &ImportCmd{flags: flags}
}

// Register adds the import command to the application.
func (cmd *ImportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "import",
		Usage:     "Import a keyed JSON snapshot of tasks, clients, and employees",
		UsageText: "reelflow import [-f FILE]",
		Description: `Reads a snapshot in the store wire shape (keyed maps of id to record)
and upserts every record. Reads from stdin when no file is given.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "path to JSON snapshot (stdin if not provided)",
				Destination: &cmd.file,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ImportCmd) run(ctx context.Context, c *cli.Command) error {
	ks, err := iojson.ReadFile[task.KeyedSnapshot](cmd.file)
	if err != nil {
		return err
	}

	if err := cmd.flags.App.Snapshots.Import(ctx, ks); err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "imported %d tasks, %d clients, %d employees\n",
		len(ks.Tasks), len(ks.Clients), len(ks.Employees))
	return nil
}
