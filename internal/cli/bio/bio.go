package bio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/julianstephens/pdcaflow/internal/cli"
	"github.com/julianstephens/pdcaflow/internal/constants"
	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/planner"
	"github.com/julianstephens/pdcaflow/internal/utils"
)

// ParseMeal reads "Name@HH:MM" or "Name@HH:MM/minutes".
func ParseMeal(s string) (models.Meal, error) {
	name, rest, ok := strings.Cut(strings.TrimSpace(s), "@")
	if !ok {
		return models.Meal{}, fmt.Errorf("meal %q: expected Name@HH:MM[/minutes]", s)
	}
	at, dur, hasDur := strings.Cut(rest, "/")
	t, err := utils.NormalizeTime(at)
	if err != nil {
		return models.Meal{}, fmt.Errorf("meal %q: %w", s, err)
	}
	meal := models.Meal{Name: strings.TrimSpace(name), Time: t, DurationMin: constants.DefaultMealDurationMin}
	if hasDur {
		n, err := strconv.Atoi(strings.TrimSpace(dur))
		if err != nil {
			return models.Meal{}, fmt.Errorf("meal %q: invalid duration: %w", s, err)
		}
		meal.DurationMin = n
	}
	return meal, nil
}

func FormatMeal(m models.Meal) string {
	return fmt.Sprintf("%s@%s/%d", m.Name, m.Time, m.DurationMin)
}

// ParseMeals reads a comma-separated list of meals. An empty string means no meals.
func ParseMeals(s string) ([]models.Meal, error) {
	meals := []models.Meal{}
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		m, err := ParseMeal(part)
		if err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	return meals, nil
}

func formatMeals(meals []models.Meal) string {
	parts := make([]string, len(meals))
	for i, m := range meals {
		parts[i] = FormatMeal(m)
	}
	return strings.Join(parts, ", ")
}

// ParseWindow reads a sleep window written as "23:00-07:00".
func ParseWindow(s string) ([2]string, error) {
	start, end, ok := strings.Cut(s, "-")
	if !ok {
		return [2]string{}, fmt.Errorf("sleep window %q: expected HH:MM-HH:MM", s)
	}
	a, err := utils.NormalizeTime(strings.TrimSpace(start))
	if err != nil {
		return [2]string{}, fmt.Errorf("sleep window %q: %w", s, err)
	}
	b, err := utils.NormalizeTime(strings.TrimSpace(end))
	if err != nil {
		return [2]string{}, fmt.Errorf("sleep window %q: %w", s, err)
	}
	return [2]string{a, b}, nil
}

// apply stores cfg and re-pins today and later days, stopping early on Ctrl-C.
func apply(ctx *cli.Context, cfg models.BioClockConfig) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	changed, err := ctx.Planner.UpdateBioClock(sigCtx, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Bio clock saved, %d day(s) re-pinned\n", changed)
	return nil
}

type BioShowCmd struct{}

func (c *BioShowCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Planner.Settings()
	if err != nil {
		return err
	}
	fmt.Fprintln(color.Output, FormatSettings(settings))
	return nil
}

func FormatSettings(s models.Settings) string {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	cfg := s.BioClock
	tbl.AddRow(bold.Sprint("Sleep"), fmt.Sprintf("%s-%s", cfg.SleepStart(), cfg.WakeTime()))
	for _, m := range cfg.Meals {
		tbl.AddRow(bold.Sprint(m.Name), fmt.Sprintf("%s for %d min", m.Time, m.DurationMin))
	}
	tbl.AddRow(bold.Sprint("Fold sleep"), strconv.FormatBool(cfg.EnableSleepFold))
	tbl.AddRow(bold.Sprint("Timezone"), s.Timezone)
	return tbl.String()
}

type BioSetCmd struct {
	Sleep    string   `help:"Sleep window, e.g. 23:00-07:00."`
	Meal     []string `sep:"none" xor:"meals" help:"Meal as Name@HH:MM[/minutes]; repeat for each meal. Replaces all meals."`
	NoMeals  bool     `help:"Remove every meal." xor:"meals"`
	Fold     string   `enum:",on,off" default:"" help:"Fold sleep blocks in day views (on or off)."`
	Timezone string   `help:"IANA timezone, or Local."`
}

func (c *BioSetCmd) Run(ctx *cli.Context) error {
	if c.Timezone != "" {
		if err := ctx.Planner.SetTimezone(c.Timezone); err != nil {
			return err
		}
		fmt.Printf("✓ Timezone set to %s\n", c.Timezone)
	}
	if c.Sleep == "" && len(c.Meal) == 0 && !c.NoMeals && c.Fold == "" {
		return nil
	}

	settings, err := ctx.Planner.Settings()
	if err != nil {
		return err
	}
	cfg := settings.BioClock.Clone()
	if c.Sleep != "" {
		if cfg.SleepWindow, err = ParseWindow(c.Sleep); err != nil {
			return err
		}
	}
	if c.NoMeals {
		cfg.Meals = []models.Meal{}
	} else if len(c.Meal) > 0 {
		cfg.Meals = cfg.Meals[:0:0]
		for _, s := range c.Meal {
			m, err := ParseMeal(s)
			if err != nil {
				return err
			}
			cfg.Meals = append(cfg.Meals, m)
		}
	}
	if c.Fold != "" {
		cfg.EnableSleepFold = c.Fold == "on"
	}
	return apply(ctx, cfg)
}

// FormModel is what the bio clock form edits.
type FormModel struct {
	SleepStart string
	SleepEnd   string
	Meals      string
	Fold       bool
}

func NewFormModel(cfg models.BioClockConfig) *FormModel {
	return &FormModel{
		SleepStart: cfg.SleepStart(),
		SleepEnd:   cfg.WakeTime(),
		Meals:      formatMeals(cfg.Meals),
		Fold:       cfg.EnableSleepFold,
	}
}

// Config turns the form back into a bio clock and validates it.
func (fm *FormModel) Config() (models.BioClockConfig, error) {
	window, err := ParseWindow(fm.SleepStart + "-" + fm.SleepEnd)
	if err != nil {
		return models.BioClockConfig{}, err
	}
	meals, err := ParseMeals(fm.Meals)
	if err != nil {
		return models.BioClockConfig{}, err
	}
	cfg := models.BioClockConfig{SleepWindow: window, Meals: meals, EnableSleepFold: fm.Fold}
	return cfg, planner.ValidateBioClock(cfg)
}

func validateClock(s string) error {
	if !utils.ValidateTimeFormat(s) {
		return fmt.Errorf("invalid time format, use HH:MM")
	}
	return nil
}

func NewForm(fm *FormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Sleep starts (HH:MM)").
				Value(&fm.SleepStart).
				Validate(validateClock),
			huh.NewInput().
				Title("Wake up (HH:MM)").
				Value(&fm.SleepEnd).
				Validate(validateClock),
			huh.NewInput().
				Title("Meals").
				Description("Comma-separated Name@HH:MM/minutes").
				Value(&fm.Meals).
				Validate(func(s string) error {
					_, err := ParseMeals(s)
					return err
				}),
			huh.NewConfirm().
				Title("Fold sleep blocks").
				Value(&fm.Fold),
		),
	).WithTheme(huh.ThemeDracula())
}

type BioFormCmd struct{}

func (c *BioFormCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Planner.Settings()
	if err != nil {
		return err
	}
	fm := NewFormModel(settings.BioClock)
	if err := NewForm(fm).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("Cancelled.")
			return nil
		}
		return err
	}
	cfg, err := fm.Config()
	if err != nil {
		return err
	}
	return apply(ctx, cfg)
}
