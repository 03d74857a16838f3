// Package elevenlabs synthesizes narration audio with per-character timing
// alignment through the ElevenLabs with-timestamps endpoint.
package elevenlabs
