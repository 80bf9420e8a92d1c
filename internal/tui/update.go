package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/pdcaflow/internal/engine"
	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/planner"
	"github.com/julianstephens/pdcaflow/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 3)
		m.refresh()
		return m, nil

	case storeChangedMsg:
		m.load(m.date)
		m.refresh()
		return m, waitForChange(m.watcher)

	case watchErrMsg:
		m.err = fmt.Errorf("watching store: %w", msg.err)
		return m, waitForChange(m.watcher)
	}

	switch m.state {
	case StateEditing:
		return m.updateForm(msg)
	case StateConfirmReset:
		return m.updateConfirmReset(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.record.TimeBlocks)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.PrevDay):
		m.shiftDay(-1)
	case key.Matches(keyMsg, m.keys.NextDay):
		m.shiftDay(1)
	case key.Matches(keyMsg, m.keys.Today):
		if today, err := m.planner.Today(); err == nil {
			m.load(today)
		} else {
			m.err = err
		}
	case key.Matches(keyMsg, m.keys.Column):
		if m.column == engine.ColumnPlan {
			m.column = engine.ColumnDo
		} else {
			m.column = engine.ColumnPlan
		}
	case key.Matches(keyMsg, m.keys.Merge):
		m.setSpan(engine.SpanMerge)
	case key.Matches(keyMsg, m.keys.Unmerge):
		m.setSpan(engine.SpanSplit)
	case key.Matches(keyMsg, m.keys.Split):
		return m.openForm(formSplit)
	case key.Matches(keyMsg, m.keys.Edit):
		if m.column == engine.ColumnDo {
			return m.openForm(formDo)
		}
		return m.openForm(formPlan)
	case key.Matches(keyMsg, m.keys.Reset):
		m.state = StateConfirmReset
	}
	m.refresh()
	return m, nil
}

func (m *Model) shiftDay(n int) {
	date, err := utils.AddDays(m.date, n)
	if err != nil {
		m.err = err
		return
	}
	m.status = ""
	m.load(date)
}

func (m *Model) setSpan(action engine.SpanAction) {
	b, ok := m.selected()
	if !ok {
		return
	}
	record, err := m.planner.SetSpan(m.date, b.ID, m.column, action)
	m.apply(record, err, fmt.Sprintf("%s %s at %s", action, m.column, b.Time))
}

func (m Model) openForm(kind formKind) (tea.Model, tea.Cmd) {
	b, ok := m.selected()
	if !ok {
		return m, nil
	}
	fm := &EditFormModel{Status: b.Do.Status}
	var form *huh.Form
	switch kind {
	case formPlan:
		if b.Plan.IsBioLocked {
			m.err = fmt.Errorf("%w: %s is %q", engine.ErrPlanLocked, b.Time, b.Plan.Content)
			return m, nil
		}
		fm.Content = b.Plan.Content
		form = NewPlanForm(fm)
	case formDo:
		fm.Content = b.Do.ActualContent
		form = NewDoForm(fm)
	case formSplit:
		form = NewSplitForm(fm)
	}
	m.form = form
	m.formKind = kind
	m.editForm = fm
	m.state = StateEditing
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.state = StateGrid
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.submitForm()
		m.state = StateGrid
		m.form = nil
		m.refresh()
		return m, nil
	case huh.StateAborted:
		m.state = StateGrid
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (m *Model) submitForm() {
	b, ok := m.selected()
	if !ok {
		return
	}
	fm := m.editForm
	switch m.formKind {
	case formPlan:
		record, err := m.planner.EditPlan(m.date, b.ID, planner.PlanEdit{Content: &fm.Content})
		m.apply(record, err, "updated plan at "+b.Time)
	case formDo:
		status := fm.Status
		record, err := m.planner.EditDo(m.date, b.ID, planner.DoEdit{Status: &status, ActualContent: &fm.Content})
		m.apply(record, err, "updated do at "+b.Time)
	case formSplit:
		record, err := m.planner.Split(m.date, b.ID, fm.Time)
		m.apply(record, err, fmt.Sprintf("split %s at %s", b.Time, fm.Time))
	}
}

func (m Model) updateConfirmReset(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		record, err := m.planner.Reset(m.date)
		m.apply(record, err, "reset "+m.date)
		m.state = StateGrid
	case "n", "N", "esc", "q":
		m.state = StateGrid
	}
	m.refresh()
	return m, nil
}

var statusOptions = []huh.Option[models.ExecutionStatus]{
	huh.NewOption("None", models.StatusNone),
	huh.NewOption("Completed", models.StatusCompleted),
	huh.NewOption("Partial", models.StatusPartial),
	huh.NewOption("Changed", models.StatusChanged),
	huh.NewOption("Skipped", models.StatusSkipped),
}

func NewPlanForm(fm *EditFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Plan").
				Description("Use [HH:MM] tags to anchor text inside merged cells").
				Value(&fm.Content),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewDoForm(fm *EditFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.ExecutionStatus]().
				Title("Status").
				Options(statusOptions...).
				Value(&fm.Status),
			huh.NewText().
				Title("What happened").
				Value(&fm.Content),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewSplitForm(fm *EditFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("New block time (HH:MM)").
				Value(&fm.Time).
				Validate(func(s string) error {
					if !utils.ValidateTimeFormat(s) {
						return fmt.Errorf("invalid time format, use HH:MM")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
