// Package services holds the shared error taxonomy for the upstream service
// clients, plus helpers to classify failures. Each upstream (document API,
// generative models, speech synthesis, object storage, key-value cache) lives
// in its own subpackage and wraps failures with the markers defined here.
package services
