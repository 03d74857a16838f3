// Package pipeline orchestrates the fetch, enrich, and cache flow for a
// single document URL: parse, cache lookup, metadata and text retrieval,
// summarization, narration synthesis, artifact upload, and cache write.
package pipeline
