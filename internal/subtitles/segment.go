package subtitles

import (
	"fmt"
	"strings"
)

// MinCueSeconds is the default minimum elapsed time between committed cues.
const MinCueSeconds = 1.5

// Alignment carries the character-level timing arrays returned by speech
// synthesis: parallel slices of character, start time, and end time, all in
// seconds.
type Alignment struct {
	Characters []string
	Starts     []float64
	Ends       []float64
}

// Cue is one subtitle entry. Start and End are in seconds.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Segment accumulates aligned characters into cues. A boundary is proposed at
// each word-breaking character (whitespace or sentence/clause punctuation)
// and at end of input. A proposed boundary commits only once the elapsed time
// since the end of the previously committed cue reaches minCue; otherwise the
// buffer keeps accumulating across the boundary with a separating space. The
// final character always forces a commit so no buffered text is dropped.
func Segment(a Alignment, minCue float64) ([]Cue, error) {
	if len(a.Characters) != len(a.Starts) || len(a.Characters) != len(a.Ends) {
		return nil, fmt.Errorf("subtitles: alignment arrays differ in length (%d chars, %d starts, %d ends)",
			len(a.Characters), len(a.Starts), len(a.Ends))
	}
	if minCue <= 0 {
		minCue = MinCueSeconds
	}

	var (
		cues      []Cue
		buf       strings.Builder
		haveStart bool
		start     float64
		lastEnd   float64
		index     = 1
	)
	for i, ch := range a.Characters {
		if !haveStart {
			start = a.Starts[i]
			haveStart = true
		}
		buf.WriteString(ch)

		final := i+1 == len(a.Characters)
		if !final && !isBoundary(ch) {
			continue
		}

		end := a.Ends[i]
		if end-lastEnd >= minCue || final {
			text := strings.TrimSpace(buf.String())
			if text != "" {
				cues = append(cues, Cue{Index: index, Start: start, End: end, Text: text})
				index++
			}
			buf.Reset()
			haveStart = false
			lastEnd = end
		} else {
			// Too soon since the last cue: keep accumulating across the
			// boundary, separated by a space.
			buf.WriteString(" ")
		}
	}
	return cues, nil
}

func isBoundary(ch string) bool {
	if strings.TrimSpace(ch) == "" {
		return true
	}
	switch ch {
	case ".", ",", "!", "?":
		return true
	}
	return false
}
