// Package identity turns incoming document URLs into canonical upstream
// references and content-derived cache keys. Parsing happens before any
// network call so unsupported input fails without spending upstream quota.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"billboard/internal/record"
	"billboard/internal/services"
)

// System identifies which upstream document API a URL addresses.
type System string

const (
	// SystemGovInfo is the GovInfo packages API (api.govinfo.gov).
	SystemGovInfo System = "govinfo"
	// SystemCongress is the congress.gov v3 API.
	SystemCongress System = "congress"
)

// Ref is the minimal addressable reference into an upstream document API.
// It is derived from the source URL but distinct from the UID: the UID
// addresses the request, the ref addresses the upstream resource.
type Ref struct {
	System  System
	DocType record.Type

	// GovInfo package identifier, e.g. BILLS-118hr5376enr.
	PackageID string

	// congress.gov coordinates.
	Congress string
	BillType string
	Number   string
}

var (
	govinfoPattern = regexp.MustCompile(`^https?://api\.govinfo\.gov/packages/((BILLS|PLAW)-\S+)/summary$`)

	congressSitePattern = regexp.MustCompile(`^https?://(?:www\.)?congress\.gov/bill/(\d+)(?:th|rd|nd|st)-congress/(senate|house)-bill/(\d+)$`)
	congressAPIPattern  = regexp.MustCompile(`^https?://api\.congress\.gov/v3/bill/(\d+)/(hr|s)/(\d+)$`)
)

// Parse validates a raw URL against the known upstream shapes and returns the
// canonical reference. Unrecognized shapes fail with ErrInvalidInput.
func Parse(raw string) (Ref, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Ref{}, services.Wrap(services.ErrInvalidInput, "identity", "parse", "empty URL", nil)
	}

	if m := govinfoPattern.FindStringSubmatch(trimmed); m != nil {
		docType := record.TypeBill
		if m[2] == "PLAW" {
			docType = record.TypeLaw
		}
		return Ref{
			System:    SystemGovInfo,
			DocType:   docType,
			PackageID: m[1],
		}, nil
	}

	if m := congressSitePattern.FindStringSubmatch(trimmed); m != nil {
		billType := "hr"
		if m[2] == "senate" {
			billType = "s"
		}
		return Ref{
			System:   SystemCongress,
			DocType:  record.TypeBill,
			Congress: m[1],
			BillType: billType,
			Number:   m[3],
		}, nil
	}

	if m := congressAPIPattern.FindStringSubmatch(trimmed); m != nil {
		return Ref{
			System:   SystemCongress,
			DocType:  record.TypeBill,
			Congress: m[1],
			BillType: m[2],
			Number:   m[3],
		}, nil
	}

	return Ref{}, services.Wrap(services.ErrInvalidInput, "identity", "parse",
		"invalid URL format, must be a GovInfo or Congress.gov URL", nil)
}

// UID derives the deterministic content address for a source URL: the
// lowercase hex SHA-256 digest of the exact URL string encoded as UTF-8.
// The same URL always maps to the same cache key and storage object names.
func UID(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
