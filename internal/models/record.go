package models

import (
	"encoding/json"
	"strings"

	"github.com/julianstephens/pdcaflow/internal/constants"
)

// ExecutionStatus records how a planned block was actually carried out.
type ExecutionStatus string

// Efficiency is the self-assessed quality of an execution span. The empty value means unrated.
type Efficiency string

// BlockKind distinguishes the synthetic wake-up block from ordinary grid blocks.
type BlockKind string

const (
	StatusCompleted ExecutionStatus = "completed"
	StatusPartial   ExecutionStatus = "partial"
	StatusChanged   ExecutionStatus = "changed"
	StatusSkipped   ExecutionStatus = "skipped"
	StatusNone      ExecutionStatus = "none"

	EfficiencyHigh   Efficiency = "high"
	EfficiencyNormal Efficiency = "normal"
	EfficiencyLow    Efficiency = "low"
	EfficiencyUnset  Efficiency = ""

	BlockKindGrid   BlockKind = "grid"
	BlockKindWakeUp BlockKind = "wakeup"
)

// Valid reports whether s is a known execution status.
func (s ExecutionStatus) Valid() bool {
	switch s {
	case StatusCompleted, StatusPartial, StatusChanged, StatusSkipped, StatusNone:
		return true
	}
	return false
}

// Valid reports whether e is a known rating or unset.
func (e Efficiency) Valid() bool {
	switch e {
	case EfficiencyHigh, EfficiencyNormal, EfficiencyLow, EfficiencyUnset:
		return true
	}
	return false
}

type PlanTrack struct {
	Content     string `json:"content"`
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	IsPrimary   bool   `json:"isPrimary"`
	IsBioLocked bool   `json:"isBioLocked"`
	Span        int    `json:"span"`
}

type DoTrack struct {
	Status        ExecutionStatus `json:"status"`
	ActualContent string          `json:"actualContent"`
	StartTime     string          `json:"startTime,omitempty"`
	EndTime       string          `json:"endTime,omitempty"`
	Span          int             `json:"span"`
}

// CheckTrack has no span of its own; it follows the Do column's grouping.
type CheckTrack struct {
	Efficiency Efficiency `json:"efficiency"`
	Tags       []string   `json:"tags"`
	Comment    string     `json:"comment"`
}

// UnmarshalJSON defaults a missing span to 1 for records written before spans existed.
func (p *PlanTrack) UnmarshalJSON(data []byte) error {
	type alias PlanTrack
	aux := struct {
		*alias
		Span *int `json:"span"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Span = 1
	if aux.Span != nil {
		p.Span = *aux.Span
	}
	return nil
}

// UnmarshalJSON defaults a missing span to 1 and a missing status to none.
func (d *DoTrack) UnmarshalJSON(data []byte) error {
	type alias DoTrack
	aux := struct {
		*alias
		Span *int `json:"span"`
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.Span = 1
	if aux.Span != nil {
		d.Span = *aux.Span
	}
	if d.Status == "" {
		d.Status = StatusNone
	}
	return nil
}

// TimeBlock is one time-anchored row of a day holding Plan, Do and Check state.
type TimeBlock struct {
	ID    string     `json:"id"`
	Time  string     `json:"time"` // HH:MM anchor and sort key
	Plan  PlanTrack  `json:"plan"`
	Do    DoTrack    `json:"do"`
	Check CheckTrack `json:"check"`
}

// Kind derives the block kind from its identity suffix.
func (b TimeBlock) Kind() BlockKind {
	if b.IsWakeUp() {
		return BlockKindWakeUp
	}
	return BlockKindGrid
}

func (b TimeBlock) IsWakeUp() bool {
	return strings.HasSuffix(b.ID, constants.WakeUpIDSuffix)
}

// CheckSpan mirrors the Do span.
func (b TimeBlock) CheckSpan() int {
	return b.Do.Span
}

// Clone returns a copy that shares no slices with b.
func (b TimeBlock) Clone() TimeBlock {
	out := b
	if b.Check.Tags != nil {
		out.Check.Tags = make([]string, len(b.Check.Tags))
		copy(out.Check.Tags, b.Check.Tags)
	}
	return out
}

// DailyRecord is everything recorded for one calendar day.
type DailyRecord struct {
	Date         string          `json:"date"`
	PrimaryTasks [2]string       `json:"primaryTasks"`
	DaySummary   string          `json:"daySummary"`
	TimeBlocks   []TimeBlock     `json:"timeBlocks"`
	BioConfig    *BioClockConfig `json:"bioConfig,omitempty"` // pinned at creation; nil for legacy records
	Revision     int             `json:"revision,omitempty" hash:"ignore"`
	UpdatedAt    string          `json:"updatedAt,omitempty" hash:"ignore"`
}

// Clone returns a deep copy of the record.
func (r DailyRecord) Clone() DailyRecord {
	out := r
	if r.TimeBlocks != nil {
		out.TimeBlocks = make([]TimeBlock, len(r.TimeBlocks))
		for i, b := range r.TimeBlocks {
			out.TimeBlocks[i] = b.Clone()
		}
	}
	if r.BioConfig != nil {
		cfg := r.BioConfig.Clone()
		out.BioConfig = &cfg
	}
	return out
}

// BlockIndex returns the position of the block with the given id, or -1.
func (r DailyRecord) BlockIndex(id string) int {
	for i, b := range r.TimeBlocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// WakeUpBlock returns the record's wake-up block, if any.
func (r DailyRecord) WakeUpBlock() (TimeBlock, bool) {
	for _, b := range r.TimeBlocks {
		if b.IsWakeUp() {
			return b, true
		}
	}
	return TimeBlock{}, false
}
