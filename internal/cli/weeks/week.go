package weeks

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/julianstephens/pdcaflow/internal/cli"
	"github.com/julianstephens/pdcaflow/internal/constants"
	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/utils"
	"github.com/julianstephens/pdcaflow/internal/weekfile"
)

const weekHelp = "Week to use: this, next, last, a date or an ISO week such as 2024-W02."

type WeekShowCmd struct {
	Week string `arg:"" optional:"" help:"${week_help}"`
}

func (c *WeekShowCmd) Run(ctx *cli.Context) error {
	weekID, err := ctx.Planner.ResolveWeek(c.Week)
	if err != nil {
		return err
	}
	plan, err := ctx.Planner.WeeklyPlan(weekID)
	if err != nil {
		return err
	}
	fmt.Fprintln(color.Output, FormatWeek(plan))
	return nil
}

// FormatWeek renders the theme, summary and per-day presets of a weekly plan.
func FormatWeek(plan models.WeeklyPlan) string {
	bold := color.New(color.Bold, color.Underline)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 40

	theme := plan.Theme
	if theme == "" {
		theme = faint.Sprint("(no theme)")
	}
	tbl.AddRow(bold.Sprint(plan.WeekID), theme)
	if plan.WeeklySummary != "" {
		tbl.AddRow("Summary", plan.WeeklySummary)
	}
	tbl.AddRow("")

	dates, err := utils.WeekDates(plan.WeekID)
	if err != nil {
		return tbl.String()
	}
	for _, date := range dates {
		day := date
		if t, err := time.Parse(constants.DateFormat, date); err == nil {
			day = t.Format("Mon 01-02")
		}
		preset, ok := plan.Preset(date)
		if !ok {
			tbl.AddRow(day, faint.Sprint("-"), "")
			continue
		}
		tbl.AddRow(day, preset[0], preset[1])
	}
	return tbl.String()
}

type WeekSetCmd struct {
	Week    string  `short:"w" help:"${week_help}"`
	Theme   *string `short:"t" help:"Theme of the week."`
	Summary *string `short:"m" help:"Review of the week."`
}

func (c *WeekSetCmd) Run(ctx *cli.Context) error {
	if c.Theme == nil && c.Summary == nil {
		return fmt.Errorf("nothing to set, pass --theme and/or --summary")
	}
	weekID, err := ctx.Planner.ResolveWeek(c.Week)
	if err != nil {
		return err
	}
	plan, err := ctx.Planner.DescribeWeek(weekID, c.Theme, c.Summary)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Updated %s\n", plan.WeekID)
	return nil
}

type WeekPresetCmd struct {
	Date   string `arg:"" help:"Day the preset applies to (YYYY-MM-DD, today, tomorrow...)."`
	First  string `arg:"" optional:"" help:"First primary task."`
	Second string `arg:"" optional:"" help:"Second primary task."`
}

func (c *WeekPresetCmd) Run(ctx *cli.Context) error {
	date, err := ctx.Planner.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	plan, err := ctx.Planner.SetPreset(date, [2]string{c.First, c.Second})
	if err != nil {
		return err
	}
	if c.First == "" && c.Second == "" {
		fmt.Printf("✓ Cleared preset for %s in %s\n", date, plan.WeekID)
		return nil
	}
	fmt.Printf("✓ Preset for %s in %s set (applies when the day is first opened)\n", date, plan.WeekID)
	return nil
}

type WeekImportCmd struct {
	File string `arg:"" type:"existingfile" help:"YAML week file to import."`
}

func (c *WeekImportCmd) Run(ctx *cli.Context) error {
	plan, err := weekfile.Read(c.File)
	if err != nil {
		return err
	}
	saved, err := ctx.Planner.SaveWeeklyPlan(plan)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Imported %s with %d preset day(s)\n", saved.WeekID, len(saved.DailyPresets))
	return nil
}

type WeekExportCmd struct {
	Week   string `arg:"" optional:"" help:"${week_help}"`
	Output string `short:"o" type:"path" help:"File to write. Prints to stdout when empty."`
}

func (c *WeekExportCmd) Run(ctx *cli.Context) error {
	weekID, err := ctx.Planner.ResolveWeek(c.Week)
	if err != nil {
		return err
	}
	plan, err := ctx.Planner.WeeklyPlan(weekID)
	if err != nil {
		return err
	}
	if c.Output == "" {
		data, err := weekfile.Encode(plan)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := weekfile.Write(c.Output, plan); err != nil {
		return err
	}
	fmt.Printf("✓ Exported %s to %s\n", weekID, c.Output)
	return nil
}

// Vars are the interpolation variables used in week help strings.
var Vars = map[string]string{"week_help": weekHelp}
