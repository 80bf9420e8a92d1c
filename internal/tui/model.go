// Package tui is the interactive day view: a cursor over the Plan/Do/Check grid
// with merge, split and edit bound to keys, reloading when the store changes on disk.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/pdcaflow/internal/constants"
	"github.com/julianstephens/pdcaflow/internal/engine"
	"github.com/julianstephens/pdcaflow/internal/models"
	"github.com/julianstephens/pdcaflow/internal/planner"
)

type SessionState int

const (
	StateGrid SessionState = iota
	StateEditing
	StateConfirmReset
)

type formKind int

const (
	formPlan formKind = iota
	formDo
	formSplit
)

// EditFormModel holds the values bound to the edit form.
type EditFormModel struct {
	Content string
	Status  models.ExecutionStatus
	Time    string
}

type Model struct {
	planner  *planner.Planner
	watcher  *fsnotify.Watcher
	state    SessionState
	keys     KeyMap
	help     help.Model
	viewport viewport.Model

	date   string
	record models.DailyRecord
	cursor int
	column engine.Column

	form     *huh.Form
	formKind formKind
	editForm *EditFormModel

	status   string
	err      error
	quitting bool
	width    int
	height   int
}

type Option func(*Model)

// WithWatcher makes the model reload whenever w reports a change.
func WithWatcher(w *fsnotify.Watcher) Option {
	return func(m *Model) { m.watcher = w }
}

// NewModel opens date, placing the cursor on the block covering now when date is today.
func NewModel(p *planner.Planner, date string, opts ...Option) Model {
	m := Model{
		planner:  p,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		viewport: viewport.New(80, 20),
		column:   engine.ColumnPlan,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.load(date)
	if today, err := p.Today(); err == nil && today == date {
		m.cursor = cursorAt(m.record, time.Now().Format(constants.TimeFormat))
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return waitForChange(m.watcher)
	}
	return nil
}

// Date is the day currently shown.
func (m Model) Date() string {
	return m.date
}

func (m Model) Record() models.DailyRecord {
	return m.record
}

func (m Model) Cursor() int {
	return m.cursor
}

func (m Model) Column() engine.Column {
	return m.column
}

func (m Model) Err() error {
	return m.err
}

// load fetches (and if needed creates) the record for date, keeping the cursor in range.
func (m *Model) load(date string) {
	record, err := m.planner.GetDailyRecord(date)
	if err != nil {
		m.err = err
		return
	}
	m.date = date
	m.setRecord(record)
}

func (m *Model) setRecord(record models.DailyRecord) {
	m.record = record
	if m.cursor >= len(record.TimeBlocks) {
		m.cursor = len(record.TimeBlocks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// apply stores the outcome of a planner call, reporting msg on success.
func (m *Model) apply(record models.DailyRecord, err error, msg string) {
	if err != nil {
		m.err = err
		m.status = ""
		return
	}
	m.err = nil
	m.status = msg
	m.setRecord(record)
}

func (m Model) selected() (models.TimeBlock, bool) {
	if m.cursor < 0 || m.cursor >= len(m.record.TimeBlocks) {
		return models.TimeBlock{}, false
	}
	return m.record.TimeBlocks[m.cursor], true
}

// cursorAt returns the index of the last block starting at or before timeOfDay.
func cursorAt(record models.DailyRecord, timeOfDay string) int {
	idx := 0
	for i, b := range record.TimeBlocks {
		if b.Time <= timeOfDay {
			idx = i
		}
	}
	return idx
}
