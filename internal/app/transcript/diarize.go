// Package transcript turns diarized word lists into speaker-labelled text.
package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"mom-generator/internal/app/api/provider"
)

const lineSeparator = "\n\n"

// Line is one speaker turn
type Line struct {
	Speaker int
	Text    string
}

// Label returns the "SPEAKER n" prefix used in formatted transcripts
func (l Line) Label() string {
	return fmt.Sprintf("SPEAKER %d", l.Speaker)
}

func (l Line) String() string {
	return l.Label() + ": " + l.Text
}

// Group folds consecutive words of the same speaker into lines
func Group(words []provider.TranscriptionWord) []Line {
	var lines []Line
	var current []string

	for i, w := range words {
		text := strings.TrimSpace(w.Display())
		if text == "" {
			continue
		}
		if len(lines) == 0 || (i > 0 && w.Speaker != lines[len(lines)-1].Speaker) {
			if len(lines) > 0 {
				lines[len(lines)-1].Text = strings.Join(current, " ")
			}
			lines = append(lines, Line{Speaker: w.Speaker})
			current = current[:0]
		}
		current = append(current, text)
	}
	if len(lines) > 0 {
		lines[len(lines)-1].Text = strings.Join(current, " ")
	}
	return lines
}

// Format renders words as "SPEAKER n: ..." lines separated by a blank line.
// The first line carries the first word's speaker.
func Format(words []provider.TranscriptionWord) string {
	lines := Group(words)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, lineSeparator)
}

// Speakers returns distinct speaker ids in order of first appearance
func Speakers(words []provider.TranscriptionWord) []int {
	seen := make(map[int]bool)
	var speakers []int
	for _, w := range words {
		if !seen[w.Speaker] {
			seen[w.Speaker] = true
			speakers = append(speakers, w.Speaker)
		}
	}
	return speakers
}

var linePattern = regexp.MustCompile(`^SPEAKER (\d+):\s?(.*)$`)

// Parse splits a formatted transcript back into lines. Text without a
// speaker prefix, such as a translated transcript with names substituted,
// is kept as a line with Speaker -1.
func Parse(text string) []Line {
	var lines []Line
	for _, block := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if m := linePattern.FindStringSubmatch(block); m != nil {
			speaker, _ := strconv.Atoi(m[1])
			lines = append(lines, Line{Speaker: speaker, Text: m[2]})
			continue
		}
		lines = append(lines, Line{Speaker: -1, Text: block})
	}
	return lines
}
