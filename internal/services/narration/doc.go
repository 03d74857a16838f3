// Package narration rewrites summaries into speech-ready prose through an
// OpenAI-compatible chat completion endpoint.
package narration
