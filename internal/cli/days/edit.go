package days

import (
	"fmt"
	"strings"

	"github.com/julianstephens/pdcaflow/internal/cli"
	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/planner"
)

// Unset flags leave the field alone; an empty value clears it.

type EditPlanCmd struct {
	DateFlag
	Block      string  `arg:"" help:"Block to edit: HH:MM, 'wake' or a block id."`
	Content    *string `short:"c" help:"Planned content. Use [HH:MM] tags to anchor text inside merged cells."`
	Start      *string `help:"Planned start time (HH:MM)."`
	End        *string `help:"Planned end time (HH:MM)."`
	Primary    bool    `help:"Mark the block as working on a primary task." xor:"primary"`
	NotPrimary bool    `help:"Clear the primary task mark." xor:"primary"`
}

func (c *EditPlanCmd) Run(ctx *cli.Context) error {
	date, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	edit := planner.PlanEdit{Content: c.Content, StartTime: c.Start, EndTime: c.End}
	if c.Primary || c.NotPrimary {
		primary := c.Primary
		edit.IsPrimary = &primary
	}
	record, err := ctx.Planner.EditPlan(date, c.Block, edit)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Updated plan at %s (rev %d)\n", blockLine(record, c.Block), record.Revision)
	return nil
}

type EditDoCmd struct {
	DateFlag
	Block   string  `arg:"" help:"Block to edit: HH:MM, 'wake' or a block id."`
	Status  *string `short:"s" help:"Execution status: completed, partial, changed, skipped or none."`
	Content *string `short:"c" help:"What actually happened."`
	Start   *string `help:"Actual start time (HH:MM)."`
	End     *string `help:"Actual end time (HH:MM)."`
}

func (c *EditDoCmd) Run(ctx *cli.Context) error {
	date, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	edit := planner.DoEdit{ActualContent: c.Content, StartTime: c.Start, EndTime: c.End}
	if c.Status != nil {
		status := models.ExecutionStatus(strings.ToLower(strings.TrimSpace(*c.Status)))
		edit.Status = &status
	}
	record, err := ctx.Planner.EditDo(date, c.Block, edit)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Updated do at %s (rev %d)\n", blockLine(record, c.Block), record.Revision)
	return nil
}

type EditCheckCmd struct {
	DateFlag
	Block      string   `arg:"" help:"Block to edit: HH:MM, 'wake' or a block id."`
	Efficiency *string  `short:"e" help:"Efficiency rating: high, normal, low, or none to clear."`
	Tags       []string `short:"t" sep:"," xor:"tags" help:"Comma-separated tags, replacing the current ones."`
	ClearTags  bool     `help:"Remove all tags." xor:"tags"`
	Comment    *string  `help:"Free-form comment."`
}

func (c *EditCheckCmd) Run(ctx *cli.Context) error {
	date, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	edit := planner.CheckEdit{Tags: c.Tags, Comment: c.Comment}
	if c.ClearTags {
		edit.Tags = []string{}
	}
	if c.Efficiency != nil {
		rating := models.Efficiency(strings.ToLower(strings.TrimSpace(*c.Efficiency)))
		if rating == "none" {
			rating = models.EfficiencyUnset
		}
		edit.Efficiency = &rating
	}
	record, err := ctx.Planner.EditCheck(date, c.Block, edit)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Updated check at %s (rev %d)\n", blockLine(record, c.Block), record.Revision)
	return nil
}

type PrimaryCmd struct {
	DateFlag
	First  string `arg:"" optional:"" help:"First primary task."`
	Second string `arg:"" optional:"" help:"Second primary task."`
}

func (c *PrimaryCmd) Run(ctx *cli.Context) error {
	date, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	record, err := ctx.Planner.SetPrimaryTasks(date, [2]string{c.First, c.Second})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Primary tasks for %s: %s\n", record.Date, formatPrimary(record.PrimaryTasks))
	return nil
}

type ActCmd struct {
	DateFlag
	Summary string   `short:"m" help:"Summary of the day."`
	Next    []string `short:"n" sep:"none" help:"Tomorrow's primary tasks, as pool task ids or free text (at most two)."`
}

func (c *ActCmd) Run(ctx *cli.Context) error {
	if len(c.Next) > 2 {
		return fmt.Errorf("at most two primary tasks can be set, got %d", len(c.Next))
	}
	date, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	var next [2]string
	copy(next[:], c.Next)

	result, err := ctx.Planner.Act(date, c.Summary, next)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Closed %s\n", result.Today.Date)
	for _, task := range result.Scheduled {
		fmt.Printf("  scheduled %.8s %s\n", task.ID, task.Title)
	}
	fmt.Printf("  %s primary tasks: %s\n", result.Tomorrow.Date, formatPrimary(result.Tomorrow.PrimaryTasks))
	return nil
}

func formatPrimary(tasks [2]string) string {
	var parts []string
	for _, t := range tasks {
		if t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, ", ")
}
