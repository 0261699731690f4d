package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/studioops/reelflow/internal/core/task"
	"github.com/studioops/reelflow/internal/core/workflow"
	"github.com/studioops/reelflow/pkg/iojson"
)

type TasksCmd struct {
	flags *Flags

	// ls flags
	view       string
	month      string
	card       string
	status     string
	search     string
	member     string
	assignment string
	jsonOutput bool

	// mutation flags
	worker   string
	actor    string
	employee string
	message  string

	// add flags
	name     string
	client   string
	project  string
	deadline string
	postDate string
}

// NewTasksCmd creates a new tasks command.
func NewTasksCmd(flags *Flags) *TasksCmd {
	return &TasksCmd{flags: flags}
}

// Register adds the tasks command and its subcommands to the application.
func (cmd *TasksCmd) Register(app *cli.Command) *cli.Command {
	viewFlags := []cli.Flag{
		&cli.StringFlag{Name: "view", Usage: "view mode (default, mine, others, all, extra)", Destination: &cmd.view},
		&cli.StringFlag{Name: "month", Usage: "month scope (YYYY-MM)", Destination: &cmd.month},
		&cli.StringFlag{Name: "card", Usage: "card filter bucket or 'all'", Destination: &cmd.card},
		&cli.StringFlag{Name: "status", Usage: "dropdown status filter", Destination: &cmd.status},
		&cli.StringFlag{Name: "search", Usage: "search term", Destination: &cmd.search},
		&cli.StringFlag{Name: "member", Usage: "restrict to a single employee", Destination: &cmd.member},
		&cli.StringFlag{Name: "assignment", Usage: "assignment filter under --view all (all, self, others)", Destination: &cmd.assignment},
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "tasks",
		Usage: "List and operate on production tasks",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List visible tasks",
				UsageText: "reelflow tasks ls [filter options] [--json]",
				Flags: append(viewFlags,
					&cli.BoolFlag{Name: "json", Usage: "output as JSON lines", Destination: &cmd.jsonOutput},
				),
				Action: cmd.runLs,
			},
			{
				Name:      "add",
				Usage:     "Create a new task",
				UsageText: "reelflow tasks add --name NAME --client CLIENT [options]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "task name", Destination: &cmd.name},
					&cli.StringFlag{Name: "client", Usage: "client name", Destination: &cmd.client},
					&cli.StringFlag{Name: "project", Usage: "project name", Destination: &cmd.project},
					&cli.StringFlag{Name: "deadline", Usage: "deadline (YYYY-MM-DD)", Destination: &cmd.deadline},
					&cli.StringFlag{Name: "post-date", Usage: "post date (YYYY-MM-DD)", Destination: &cmd.postDate},
				},
				Action: cmd.runAdd,
			},
			{
				Name:      "assign",
				Usage:     "Assign a task to a worker",
				UsageText: "reelflow tasks assign TASK_ID --worker NAME",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "worker", Usage: "worker name", Destination: &cmd.worker},
				},
				Action: cmd.runAssign,
			},
			{
				Name:      "status",
				Usage:     "Change a task's status",
				UsageText: "reelflow tasks status TASK_ID NEW_STATUS",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "actor", Usage: "acting identity", Destination: &cmd.actor},
				},
				Action: cmd.runStatus,
			},
			{
				Name:      "approve",
				Usage:     "Route a task to client approval",
				UsageText: "reelflow tasks approve TASK_ID --employee NAME",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "employee", Usage: "approval department employee", Destination: &cmd.employee},
				},
				Action: cmd.runApprove,
			},
			{
				Name:      "revise",
				Usage:     "Request a revision on a task",
				UsageText: "reelflow tasks revise TASK_ID --message TEXT",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "message", Usage: "revision message", Destination: &cmd.message},
				},
				Action: cmd.runRevise,
			},
		},
	})

	return app
}

func (cmd *TasksCmd) viewContext() (workflow.ViewContext, error) {
	mode, err := workflow.ParseViewMode(cmd.view)
	if err != nil {
		return workflow.ViewContext{}, err
	}
	return workflow.ViewContext{
		Mode:             mode,
		MonthKey:         cmd.month,
		CardFilter:       cmd.card,
		StatusFilter:     cmd.status,
		Search:           cmd.search,
		MemberScope:      cmd.member,
		AssignmentFilter: workflow.AssignmentFilter(cmd.assignment),
	}.Normalized(), nil
}

func (cmd *TasksCmd) runLs(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.App.Snapshots.Reload(ctx); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	vc, err := cmd.viewContext()
	if err != nil {
		return err
	}

	visible := cmd.flags.App.Snapshots.Visible(vc)
	if len(visible) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No tasks match\n")
		}
		return nil
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, t := range visible {
			if err := iojson.WriteLine(out, t); err != nil {
				return fmt.Errorf("encode task: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTASK\tCLIENT\tASSIGNEE\tSTATUS\tDEADLINE")
	for _, t := range visible {
		assignee := t.AssignedTo
		if assignee == "" {
			assignee = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.TaskName, t.ClientName, assignee, t.Status, t.Deadline)
	}
	return w.Flush()
}

func (cmd *TasksCmd) runAdd(ctx context.Context, c *cli.Command) error {
	created, err := cmd.flags.App.Tasks.Create(ctx, task.Task{
		TaskName:    cmd.name,
		ClientName:  cmd.client,
		ProjectName: cmd.project,
		Deadline:    cmd.deadline,
		PostDate:    cmd.postDate,
		AssignedBy:  cmd.flags.Config.Operator,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "created task %s\n", created.ID)
	return nil
}

func (cmd *TasksCmd) taskArg(ctx context.Context, c *cli.Command) (task.Task, error) {
	id := c.Args().First()
	if id == "" {
		return task.Task{}, fmt.Errorf("a task id is required")
	}
	return cmd.flags.App.Tasks.Get(ctx, id)
}

func (cmd *TasksCmd) runAssign(ctx context.Context, c *cli.Command) error {
	t, err := cmd.taskArg(ctx, c)
	if err != nil {
		return err
	}

	updated, err := cmd.flags.App.Tasks.AssignToWorker(ctx, t, cmd.worker)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "task %s assigned to %s\n", updated.ID, updated.AssignedTo)
	return nil
}

func (cmd *TasksCmd) runStatus(ctx context.Context, c *cli.Command) error {
	t, err := cmd.taskArg(ctx, c)
	if err != nil {
		return err
	}

	newStatus := c.Args().Get(1)
	if newStatus == "" {
		return fmt.Errorf("a new status is required")
	}

	actor := cmd.actor
	if actor == "" {
		actor = cmd.flags.Config.Operator
	}

	updated, err := cmd.flags.App.Tasks.Transition(ctx, t, task.Status(newStatus), actor)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "task %s is now %s\n", updated.ID, updated.Status)
	return nil
}

func (cmd *TasksCmd) runApprove(ctx context.Context, c *cli.Command) error {
	t, err := cmd.taskArg(ctx, c)
	if err != nil {
		return err
	}

	updated, err := cmd.flags.App.Tasks.RouteToApproval(ctx, t, cmd.employee)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "task %s routed to %s for approval\n", updated.ID, updated.SocialMediaAssignedTo)
	return nil
}

func (cmd *TasksCmd) runRevise(ctx context.Context, c *cli.Command) error {
	t, err := cmd.taskArg(ctx, c)
	if err != nil {
		return err
	}

	updated, err := cmd.flags.App.Tasks.RequestRevision(ctx, t, cmd.message)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "task %s revision %d requested\n", updated.ID, updated.RevisionCount)
	return nil
}
