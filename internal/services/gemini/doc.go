// Package gemini wraps the Google Generative Language API for plain-language
// summarization of legislative documents.
package gemini
