package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSegment(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		time     string
		wantText string
		wantRest string
		wantOK   bool
	}{
		{
			name:     "tag on its own line",
			content:  "[09:15] Write report\nOther stuff",
			time:     "09:15",
			wantText: "Write report",
			wantRest: "Other stuff",
			wantOK:   true,
		},
		{
			name:     "tag after text on same line",
			content:  "Emails [09:30] Review PR",
			time:     "09:30",
			wantText: "Review PR",
			wantRest: "Emails",
			wantOK:   true,
		},
		{
			name:     "segment stops at next tag",
			content:  "[09:15] a [09:30] b",
			time:     "09:15",
			wantText: "a",
			wantRest: "[09:30] b",
			wantOK:   true,
		},
		{
			name:     "text on both sides",
			content:  "Start [09:15] middle\nEnd",
			time:     "09:15",
			wantText: "middle",
			wantRest: "Start\nEnd",
			wantOK:   true,
		},
		{
			name:     "unpadded tag",
			content:  "[9:15] Standup",
			time:     "09:15",
			wantText: "Standup",
			wantRest: "",
			wantOK:   true,
		},
		{
			name:     "no matching tag",
			content:  "[09:30] Later",
			time:     "09:15",
			wantRest: "[09:30] Later",
		},
		{
			name:     "malformed tag stays literal",
			content:  "[25:00] nope",
			time:     "01:00",
			wantRest: "[25:00] nope",
		},
		{
			name:     "bad time",
			content:  "[09:15] x",
			time:     "later",
			wantRest: "[09:15] x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, rest, ok := ExtractSegment(tt.content, tt.time)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestParseSegments(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Segment
	}{
		{name: "empty", content: "  ", want: nil},
		{name: "untagged", content: "Deep work", want: []Segment{{Text: "Deep work"}}},
		{
			name:    "mixed",
			content: "Plan day\n[09:15] Standup\n[9:30] Review\nWrap up",
			want: []Segment{
				{Text: "Plan day\nWrap up"},
				{Time: "09:15", Text: "Standup"},
				{Time: "09:30", Text: "Review"},
			},
		},
		{
			name:    "only tags",
			content: "[10:00] a [10:30] b",
			want: []Segment{
				{Time: "10:00", Text: "a"},
				{Time: "10:30", Text: "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSegments(tt.content))
		})
	}
}
