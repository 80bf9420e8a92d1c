package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/pdcaflow/internal/engine"
	"github.com/julianstephens/pdcaflow/internal/models"
)

const (
	headerHeight = 5
	footerHeight = 3
	timeWidth    = 7
	cellWidth    = 30
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateEditing:
		content = docStyle.Render(m.form.View())
	case StateConfirmReset:
		content = m.viewConfirmReset()
	default:
		content = m.viewport.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		m.viewStatus(),
		m.help.View(m.keys),
	)
}

func (m Model) viewHeader() string {
	title := fmt.Sprintf("%s  %s", titleStyle.Render(m.date), faintStyle.Render(fmt.Sprintf("rev %d", m.record.Revision)))

	var tabs []string
	for _, c := range []engine.Column{engine.ColumnPlan, engine.ColumnDo} {
		if m.column == c {
			tabs = append(tabs, activeTabStyle.Render(strings.ToUpper(string(c))))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(strings.ToUpper(string(c))))
		}
	}

	var primary []string
	for _, t := range m.record.PrimaryTasks {
		if t != "" {
			primary = append(primary, primaryStyle.Render(t))
		}
	}
	tasks := faintStyle.Render("no primary tasks")
	if len(primary) > 0 {
		tasks = "★ " + strings.Join(primary, faintStyle.Render(" · "))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		tasks,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
	)
}

func (m Model) viewStatus() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("Error: " + m.err.Error())
	case m.status != "":
		return statusStyle.Render("✓ " + m.status)
	}
	return ""
}

func (m Model) viewConfirmReset() string {
	return lipgloss.Place(m.width, max(m.height-headerHeight-footerHeight, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Discard everything recorded for %s?", m.date)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

// refresh re-renders the grid into the viewport and scrolls the cursor into view.
func (m *Model) refresh() {
	lines := make([]string, 0, len(m.record.TimeBlocks))
	for i, b := range m.record.TimeBlocks {
		lines = append(lines, m.renderRow(i, b))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))

	switch {
	case m.cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(m.cursor)
	case m.cursor >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m Model) renderRow(i int, b models.TimeBlock) string {
	cell := lipgloss.NewStyle().Width(cellWidth).MaxWidth(cellWidth).PaddingRight(1)

	timeText := lipgloss.NewStyle().Width(timeWidth).Render(b.Time)
	if b.IsWakeUp() {
		timeText = wakeStyle.Width(timeWidth).Render(b.Time)
	}

	plan := continuation(b.Plan.Span)
	if b.Plan.Span > 0 {
		plan = spanned(b.Plan.Content, b.Plan.Span)
		switch {
		case b.Plan.IsBioLocked:
			plan = lockedStyle.Render(plan)
		case b.Plan.IsPrimary:
			plan = primaryStyle.Render("★ " + plan)
		}
	}

	do := continuation(b.Do.Span)
	if b.Do.Span > 0 {
		do = spanned(b.Do.ActualContent, b.Do.Span)
		if b.Do.Status != models.StatusNone {
			do = strings.TrimSpace(fmt.Sprintf("[%s] %s", b.Do.Status, do))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, timeText, cell.Render(plan), cell.Render(do), cell.Render(checkText(b)))
	if i == m.cursor {
		return cursorStyle.Render("▸ " + row)
	}
	return "  " + row
}

func continuation(span int) string {
	if span == 0 {
		return faintStyle.Render("┊")
	}
	return ""
}

func spanned(content string, span int) string {
	text := strings.ReplaceAll(strings.TrimSpace(content), "\n", " / ")
	if span > 1 {
		text = fmt.Sprintf("%s ↓%d", text, span)
	}
	return text
}

func checkText(b models.TimeBlock) string {
	if b.CheckSpan() == 0 {
		return faintStyle.Render("┊")
	}
	parts := []string{}
	if b.Check.Efficiency != models.EfficiencyUnset {
		parts = append(parts, string(b.Check.Efficiency))
	}
	for _, t := range b.Check.Tags {
		parts = append(parts, "#"+t)
	}
	return strings.Join(parts, " ")
}
