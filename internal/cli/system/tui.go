package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/pdcaflow/internal/cli"
	"github.com/julianstephens/pdcaflow/internal/logger"
	"github.com/julianstephens/pdcaflow/internal/tui"
)

type TuiCmd struct {
	Date string `arg:"" optional:"" help:"Day to open (YYYY-MM-DD, today, yesterday or tomorrow)."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	date, err := ctx.Planner.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	var opts []tui.Option
	w, err := tui.Watch(ctx.Store)
	if err != nil {
		logger.Warn("live reload disabled", "error", err)
	} else if w != nil {
		defer w.Close()
		opts = append(opts, tui.WithWatcher(w))
	}

	p := tea.NewProgram(tui.NewModel(ctx.Planner, date, opts...), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
