// Package mediastore uploads narration artifacts to an S3-compatible object
// store through the Supabase storage API.
package mediastore
