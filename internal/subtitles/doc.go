// Package subtitles converts character-level speech timing alignment into
// time-balanced subtitle cues and renders them as SRT. Cues are committed at
// word boundaries only after a minimum duration has elapsed since the previous
// cue, trading granularity for display stability.
package subtitles
