package engine

import (
	"regexp"
	"strings"

	"github.com/julianstephens/pdcaflow/internal/utils"
)

// tagPattern matches inline time tags such as "[09:15]". Tags whose time does not
// parse are left as literal text.
var tagPattern = regexp.MustCompile(`\[(\d{1,2}:\d{2})\]`)

// Segment is a piece of free text, optionally anchored to a time by an inline tag.
type Segment struct {
	Time string // normalized HH:MM; empty for untagged text
	Text string
}

type timeTag struct {
	start, end int // byte offsets of "[" and just past "]"
	minute     int
}

func findTags(content string) []timeTag {
	var tags []timeTag
	for _, loc := range tagPattern.FindAllStringSubmatchIndex(content, -1) {
		m, err := utils.ParseTimeToMinutes(content[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		tags = append(tags, timeTag{start: loc[0], end: loc[1], minute: m})
	}
	return tags
}

// segmentEnd returns where the text after tags[i] stops: the next tag or the end of
// the line, whichever comes first.
func segmentEnd(content string, tags []timeTag, i int) int {
	end := len(content)
	if nl := strings.IndexByte(content[tags[i].end:], '\n'); nl >= 0 {
		end = tags[i].end + nl
	}
	if i+1 < len(tags) && tags[i+1].start < end {
		end = tags[i+1].start
	}
	return end
}

// ExtractSegment removes the segment tagged with timeOfDay from content. When the
// same time is tagged more than once the last tag wins and earlier ones stay as text.
func ExtractSegment(content, timeOfDay string) (text, rest string, ok bool) {
	m, err := utils.ParseTimeToMinutes(timeOfDay)
	if err != nil {
		return "", content, false
	}

	tags := findTags(content)
	idx := -1
	for i, t := range tags {
		if t.minute == m {
			idx = i
		}
	}
	if idx < 0 {
		return "", content, false
	}

	end := segmentEnd(content, tags, idx)
	text = strings.TrimSpace(content[tags[idx].end:end])

	before := strings.TrimRight(content[:tags[idx].start], " \t")
	after := content[end:]
	switch {
	case strings.HasPrefix(after, "\n"):
		if before == "" || strings.HasSuffix(before, "\n") {
			after = after[1:]
		}
	case before != "" && after != "" && !strings.HasSuffix(before, "\n"):
		before += " "
	}

	return text, strings.TrimSpace(before + after), true
}

// ParseSegments splits content into its untagged text followed by each tagged segment
// in order of appearance. Untagged pieces are joined by newlines into the first segment.
func ParseSegments(content string) []Segment {
	tags := findTags(content)
	if len(tags) == 0 {
		if text := strings.TrimSpace(content); text != "" {
			return []Segment{{Text: text}}
		}
		return nil
	}

	var untagged []string
	keep := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			untagged = append(untagged, s)
		}
	}

	timed := make([]Segment, 0, len(tags))
	pos := 0
	for i, t := range tags {
		keep(content[pos:t.start])
		end := segmentEnd(content, tags, i)
		timed = append(timed, Segment{
			Time: utils.FormatMinutes(t.minute),
			Text: strings.TrimSpace(content[t.end:end]),
		})
		pos = end
	}
	keep(content[pos:])

	if len(untagged) == 0 {
		return timed
	}
	return append([]Segment{{Text: strings.Join(untagged, "\n")}}, timed...)
}
