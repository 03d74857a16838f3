// Package govinfo implements the Document Fetcher variant backed by the
// GovInfo packages API. The upstream returns structurally different payloads
// for bills and enacted laws, so metadata parsing dispatches on document
// type. Missing optional substructures (no sponsor list, no policy area)
// produce absent fields, never a failed record.
package govinfo
