package pool

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/julianstephens/pdcaflow/internal/cli"
	"github.com/julianstephens/pdcaflow/internal/models"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

type PoolAddCmd struct {
	Title string `arg:"" help:"What needs doing."`
}

func (c *PoolAddCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Planner.AddTask(c.Title, models.TaskSourceManual)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Added %s %s\n", shortID(task.ID), task.Title)
	return nil
}

type PoolListCmd struct {
	All bool `short:"a" help:"Include finished tasks."`
}

func (c *PoolListCmd) Run(ctx *cli.Context) error {
	tasks, err := ctx.Planner.Tasks(c.All)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("Task pool is empty.")
		return nil
	}
	fmt.Fprintln(color.Output, FormatTasks(tasks))
	return nil
}

var statusColors = map[models.TaskStatus]*color.Color{
	models.TaskStatusPending:   color.New(color.FgHiYellow),
	models.TaskStatusScheduled: color.New(color.FgCyan),
	models.TaskStatusDone:      color.New(color.Faint),
}

// FormatTasks lays the pool out as a table of id, status, source, created date and title.
func FormatTasks(tasks []models.TaskItem) string {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("STATUS"), bold.Sprint("SOURCE"), bold.Sprint("CREATED"), bold.Sprint("TITLE"))
	for _, t := range tasks {
		status := string(t.Status)
		if c, ok := statusColors[t.Status]; ok {
			status = c.Sprint(status)
		}
		tbl.AddRow(shortID(t.ID), status, string(t.Source), t.CreatedDate, t.Title)
	}
	return tbl.String()
}

type PoolDoneCmd struct {
	ID   string `arg:"" help:"Task id or unique id prefix."`
	Undo bool   `help:"Move the task back to pending."`
}

func (c *PoolDoneCmd) Run(ctx *cli.Context) error {
	status := models.TaskStatusDone
	if c.Undo {
		status = models.TaskStatusPending
	}
	task, err := ctx.Planner.SetTaskStatus(c.ID, status)
	if err != nil {
		return err
	}
	fmt.Printf("✓ %s %s is %s\n", shortID(task.ID), task.Title, task.Status)
	return nil
}

type PoolRemoveCmd struct {
	ID  string `arg:"" help:"Task id or unique id prefix."`
	Yes bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *PoolRemoveCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Planner.FindTask(c.ID)
	if err != nil {
		return err
	}
	if !c.Yes && !cli.Confirm(os.Stdin, os.Stdout, fmt.Sprintf("Remove %q from the pool?", task.Title)) {
		fmt.Println("Cancelled.")
		return nil
	}
	if _, err := ctx.Planner.RemoveTask(task.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Removed %s %s\n", shortID(task.ID), task.Title)
	return nil
}
