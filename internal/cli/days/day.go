package days

import (
	"fmt"
	"os"

	"github.com/julianstephens/pdcaflow/internal/cli"
	"github.com/julianstephens/pdcaflow/internal/engine"
	"github.com/julianstephens/pdcaflow/internal/models"
)

type DayCmd struct {
	Date     string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD, today, yesterday or tomorrow)."`
	Segments bool   `help:"List inline time tags found in merged cells."`
	NoFold   bool   `help:"Show every sleep block instead of folding them."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	date, err := ctx.Planner.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	record, err := ctx.Planner.GetDailyRecord(date)
	if err != nil {
		return err
	}
	fmt.Println(RenderDay(record, RenderOptions{Segments: c.Segments, Fold: !c.NoFold}))
	return nil
}

// DateFlag is embedded by commands that act on one day.
type DateFlag struct {
	Date string `short:"d" help:"Day to change (YYYY-MM-DD, today, yesterday or tomorrow)." default:"today"`
}

func (f DateFlag) resolve(ctx *cli.Context) (string, error) {
	return ctx.Planner.ResolveDate(f.Date)
}

// blockLine describes the block ref points at after an operation.
func blockLine(record models.DailyRecord, ref string) string {
	id, err := engine.FindBlock(record, ref)
	if err != nil {
		return ref
	}
	b := record.TimeBlocks[record.BlockIndex(id)]
	return fmt.Sprintf("%s (plan span %d, do span %d)", b.Time, b.Plan.Span, b.Do.Span)
}

type SplitCmd struct {
	DateFlag
	Block string `arg:"" help:"Block to split: HH:MM, 'wake' or a block id."`
	Time  string `arg:"" help:"Time of the new block, strictly after the block and before the next one."`
}

func (c *SplitCmd) Run(ctx *cli.Context) error {
	date, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	record, err := ctx.Planner.Split(date, c.Block, c.Time)
	if err != nil {
		return fmt.Errorf("failed to split %s: %w", c.Block, err)
	}
	fmt.Printf("✓ Split %s at %s\n", c.Block, blockLine(record, c.Time))
	return nil
}

type SpanArgs struct {
	DateFlag
	Column string `arg:"" enum:"plan,do,check" help:"Column to change (check follows do)."`
	Block  string `arg:"" help:"First block of the run: HH:MM, 'wake' or a block id."`
}

func (c *SpanArgs) run(ctx *cli.Context, action engine.SpanAction) error {
	date, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	column, err := engine.ParseColumn(c.Column)
	if err != nil {
		return err
	}
	record, err := ctx.Planner.SetSpan(date, c.Block, column, action)
	if err != nil {
		return fmt.Errorf("failed to %s %s: %w", action, c.Block, err)
	}
	fmt.Printf("✓ %s %s\n", column, blockLine(record, c.Block))
	return nil
}

type MergeCmd struct{ SpanArgs }

func (c *MergeCmd) Run(ctx *cli.Context) error {
	return c.run(ctx, engine.SpanMerge)
}

type UnmergeCmd struct{ SpanArgs }

func (c *UnmergeCmd) Run(ctx *cli.Context) error {
	return c.run(ctx, engine.SpanSplit)
}

type ResetCmd struct {
	DateFlag
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	date, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	if !c.Yes && !cli.Confirm(os.Stdin, os.Stdout, fmt.Sprintf("Discard everything recorded for %s?", date)) {
		fmt.Println("Reset cancelled.")
		return nil
	}
	record, err := ctx.Planner.Reset(date)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Reset %s (%d blocks)\n", record.Date, len(record.TimeBlocks))
	return nil
}

type ValidateCmd struct {
	DateFlag
}

// Run checks one stored day against the grid invariants without reconciling it first.
func (c *ValidateCmd) Run(ctx *cli.Context) error {
	date, err := c.resolve(ctx)
	if err != nil {
		return err
	}
	record, err := ctx.Store.GetRecord(date)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", date, err)
	}
	errs := engine.Validate(record)
	if len(errs) == 0 {
		fmt.Printf("✓ %s is consistent\n", date)
		return nil
	}
	for _, e := range errs {
		fmt.Printf("❌ %v\n", e)
	}
	return fmt.Errorf("%s has %d problem(s)", date, len(errs))
}
