package days

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/pdcaflow/internal/constants"
	"github.com/julianstephens/pdcaflow/internal/engine"
	"github.com/julianstephens/pdcaflow/internal/models"
)

const (
	timeWidth  = 7
	cellWidth  = 28
	continued  = "┊"
	foldMarker = "⋯"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	primaryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	lockedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	wakeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	timeStyle    = lipgloss.NewStyle().Width(timeWidth).Foreground(lipgloss.Color("244"))
	cellStyle    = lipgloss.NewStyle().Width(cellWidth).MaxWidth(cellWidth).PaddingRight(1)
	segmentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("109")).PaddingLeft(timeWidth)
)

var statusGlyphs = map[models.ExecutionStatus]string{
	models.StatusCompleted: "✓",
	models.StatusPartial:   "◐",
	models.StatusChanged:   "↺",
	models.StatusSkipped:   "✗",
}

type RenderOptions struct {
	// Segments lists the inline time tags found in merged cells under their row.
	Segments bool
	// Fold collapses untouched runs of sleep blocks into one row when the record's
	// bio clock asks for it.
	Fold bool
}

// RenderDay draws the Plan/Do/Check grid of a record.
func RenderDay(record models.DailyRecord, opts RenderOptions) string {
	var b strings.Builder

	title := record.Date
	if t, err := time.Parse(constants.DateFormat, record.Date); err == nil {
		title = t.Format("Mon 2006-01-02")
	}
	fmt.Fprintf(&b, "%s  %s\n", titleStyle.Render(title), labelStyle.Render(fmt.Sprintf("rev %d", record.Revision)))

	for i, task := range record.PrimaryTasks {
		if task == "" {
			task = labelStyle.Render("(not set)")
		} else {
			task = primaryStyle.Render(task)
		}
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("Primary %d:", i+1)), task)
	}
	if record.DaySummary != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Summary:"), record.DaySummary)
	}
	b.WriteString("\n")

	b.WriteString(row(headerStyle.Width(timeWidth).Render("Time"), headerStyle.Render("Plan"), headerStyle.Render("Do"), headerStyle.Render("Check")))
	b.WriteString("\n")

	fold := opts.Fold && record.BioConfig != nil && record.BioConfig.EnableSleepFold
	blocks := record.TimeBlocks
	for i := 0; i < len(blocks); i++ {
		if fold {
			if n := sleepRun(blocks[i:]); n > 1 {
				last := blocks[i+n-1]
				label := fmt.Sprintf("%s (%d blocks, %s%s)", constants.SleepLabel, n, foldMarker, last.Time)
				b.WriteString(row(timeStyle.Render(blocks[i].Time), lockedStyle.Render(label), "", ""))
				b.WriteString("\n")
				i += n - 1
				continue
			}
		}

		blk := blocks[i]
		b.WriteString(row(timeCell(blk), planCell(blk), doCell(blk), checkCell(blk)))
		b.WriteString("\n")

		if opts.Segments {
			writeSegments(&b, "plan", blk.Plan.Span, blk.Plan.Content)
			writeSegments(&b, "do", blk.Do.Span, blk.Do.ActualContent)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func row(cells ...string) string {
	for i := 1; i < len(cells); i++ {
		cells[i] = cellStyle.Render(cells[i])
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// sleepRun counts the leading blocks that are sleep-locked and hold nothing the user wrote.
func sleepRun(blocks []models.TimeBlock) int {
	n := 0
	for _, b := range blocks {
		if b.IsWakeUp() || !b.Plan.IsBioLocked || b.Plan.Content != constants.SleepLabel {
			break
		}
		if b.Plan.Span != 1 || b.Do.Span != 1 || b.Do.Status != models.StatusNone || b.Do.ActualContent != "" {
			break
		}
		if b.Check.Efficiency != models.EfficiencyUnset || len(b.Check.Tags) > 0 || b.Check.Comment != "" {
			break
		}
		n++
	}
	return n
}

func oneLine(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", " / ")
}

func withSpan(text string, span int) string {
	if span > 1 {
		return fmt.Sprintf("%s ↓%d", text, span)
	}
	return text
}

func timeCell(b models.TimeBlock) string {
	if b.IsWakeUp() {
		return wakeStyle.Width(timeWidth).Render(b.Time)
	}
	return timeStyle.Render(b.Time)
}

func planCell(b models.TimeBlock) string {
	if b.Plan.Span == 0 {
		return labelStyle.Render(continued)
	}
	text := oneLine(b.Plan.Content)
	if b.Plan.StartTime != "" || b.Plan.EndTime != "" {
		text = fmt.Sprintf("%s [%s-%s]", text, b.Plan.StartTime, b.Plan.EndTime)
	}
	text = withSpan(text, b.Plan.Span)
	switch {
	case b.Plan.IsBioLocked:
		return lockedStyle.Render(text)
	case b.IsWakeUp():
		return wakeStyle.Render(text)
	case b.Plan.IsPrimary:
		return primaryStyle.Render("★ " + text)
	}
	return text
}

func doCell(b models.TimeBlock) string {
	if b.Do.Span == 0 {
		return labelStyle.Render(continued)
	}
	text := oneLine(b.Do.ActualContent)
	if glyph, ok := statusGlyphs[b.Do.Status]; ok {
		text = strings.TrimSpace(glyph + " " + text)
	}
	return withSpan(text, b.Do.Span)
}

func checkCell(b models.TimeBlock) string {
	if b.CheckSpan() == 0 {
		return labelStyle.Render(continued)
	}
	var parts []string
	if b.Check.Efficiency != models.EfficiencyUnset {
		parts = append(parts, string(b.Check.Efficiency))
	}
	for _, tag := range b.Check.Tags {
		parts = append(parts, "#"+tag)
	}
	if b.Check.Comment != "" {
		parts = append(parts, oneLine(b.Check.Comment))
	}
	return strings.Join(parts, " ")
}

// writeSegments lists the time-tagged pieces of a merged cell.
func writeSegments(b *strings.Builder, column string, span int, content string) {
	if span < 2 {
		return
	}
	for _, seg := range engine.ParseSegments(content) {
		if seg.Time == "" {
			continue
		}
		b.WriteString(segmentStyle.Render(fmt.Sprintf("↳ %s %s %s", column, seg.Time, oneLine(seg.Text))))
		b.WriteString("\n")
	}
}
