// Package daemon exposes the document pipeline over HTTP. The server accepts
// a document URL embedded in the request path, runs it through the pipeline,
// and responds with the finished record.
package daemon
