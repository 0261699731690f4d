package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/studioops/reelflow/internal/core/report"
	"github.com/studioops/reelflow/internal/core/styles"
	"github.com/studioops/reelflow/internal/core/workflow"
)

type ReportCmd struct {
	flags *Flags

	dimension string
	month     string
	csvOutput bool
	trend     bool
}

// NewReportCmd creates a new report command.
func NewReportCmd(flags *Flags) *ReportCmd {
	return &ReportCmd{flags: flags}
}

// Register adds the report command to the application.
func (cmd *ReportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "report",
		Usage:     "Aggregate visible tasks for dashboards and exports",
		UsageText: "reelflow report [--by client|employee|day] [--month YYYY-MM] [--csv|--trend]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "by",
				Usage:       "aggregation dimension (client, employee, day)",
				Value:       string(report.ByClient),
				Destination: &cmd.dimension,
			},
			&cli.StringFlag{Name: "month", Usage: "month scope (YYYY-MM)", Destination: &cmd.month},
			&cli.BoolFlag{Name: "csv", Usage: "emit the spreadsheet feed as CSV", Destination: &cmd.csvOutput},
			&cli.BoolFlag{Name: "trend", Usage: "show the 7-day trend instead of buckets", Destination: &cmd.trend},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReportCmd) run(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.App.Snapshots.Reload(ctx); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	out := c.Root().Writer

	if cmd.trend {
		days := report.DailyTrend(cmd.flags.App.Snapshots.Eligible(), time.Now())
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "DATE\tPOSTED\tCOMPLETED")
		for _, d := range days {
			_, _ = fmt.Fprintf(w, "%s\t%d\t%d\n", d.Date, d.Total, d.Completed)
		}
		return w.Flush()
	}

	dim, err := report.ParseDimension(cmd.dimension)
	if err != nil {
		return err
	}

	visible := cmd.flags.App.Snapshots.Visible(workflow.ViewContext{MonthKey: cmd.month}.Normalized())
	buckets := report.GroupBy(visible, dim)
	summary := report.Summary(buckets)

	if cmd.csvOutput {
		return writeCSV(c, buckets)
	}

	header := fmt.Sprintf("%s  %s",
		styles.Title.Render(fmt.Sprintf("%d tasks", summary.Tasks)),
		styles.Muted.Render(fmt.Sprintf("by %s", dim)))
	body := fmt.Sprintf("%s completed  %s awaiting approval  %d in progress  %d%% done",
		styles.Success.Render(strconv.Itoa(summary.Completed)),
		styles.Warning.Render(strconv.Itoa(summary.Pending)),
		summary.InProgress,
		summary.CompletionRate)
	fmt.Fprintln(out, styles.Card.Render(header+"\n"+body))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "GROUP\tTOTAL\tCOMPLETED\tPENDING\tIN PROGRESS\tRATE")
	for _, b := range buckets {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d%%\n",
			b.Key, b.Total, b.Completed, b.Pending, b.InProgress, b.CompletionRate())
	}
	return w.Flush()
}

// writeCSV emits the bucket rows as the spreadsheet-report feed.
func writeCSV(c *cli.Command, buckets []report.Bucket) error {
	w := csv.NewWriter(c.Root().Writer)
	if err := w.Write([]string{"group", "total", "completed", "pending", "in_progress", "completion_rate"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, b := range buckets {
		row := []string{
			b.Key,
			strconv.Itoa(b.Total),
			strconv.Itoa(b.Completed),
			strconv.Itoa(b.Pending),
			strconv.Itoa(b.InProgress),
			strconv.Itoa(b.CompletionRate()),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
