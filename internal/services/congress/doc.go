// Package congress implements the Document Fetcher variant backed by the
// congress.gov v3 API. Unlike the GovInfo variant, bill records here can be
// promoted to laws when the upstream payload lists an enacting law.
package congress
