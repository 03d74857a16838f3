package subtitles

import (
	"fmt"
	"strings"
)

// RenderSRT serializes cues into SRT text: numbered blocks separated by blank
// lines, timestamps in HH:MM:SS,mmm format.
func RenderSRT(cues []Cue) string {
	var b strings.Builder
	for _, cue := range cues {
		b.WriteString(fmt.Sprintf("%d\n", cue.Index))
		b.WriteString(fmt.Sprintf("%s --> %s\n", FormatTimestamp(cue.Start*1000), FormatTimestamp(cue.End*1000)))
		b.WriteString(cue.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}

// FormatTimestamp converts milliseconds to the SRT timestamp format
// HH:MM:SS,mmm with zero padding.
func FormatTimestamp(milliseconds float64) string {
	total := int64(milliseconds)
	if total < 0 {
		total = 0
	}
	millis := total % 1000
	seconds := total / 1000
	minutes := seconds / 60
	seconds %= 60
	hours := minutes / 60
	minutes %= 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}
