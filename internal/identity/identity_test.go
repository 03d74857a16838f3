package identity

import (
	"errors"
	"testing"

	"billboard/internal/record"
	"billboard/internal/services"
)

func TestParseGovInfoBill(t *testing.T) {
	ref, err := Parse("https://api.govinfo.gov/packages/BILLS-118hr5376enr/summary")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if ref.System != SystemGovInfo {
		t.Fatalf("expected govinfo system, got %q", ref.System)
	}
	if ref.DocType != record.TypeBill {
		t.Fatalf("expected bill, got %q", ref.DocType)
	}
	if ref.PackageID != "BILLS-118hr5376enr" {
		t.Fatalf("unexpected package id %q", ref.PackageID)
	}
}

func TestParseGovInfoLaw(t *testing.T) {
	ref, err := Parse("https://api.govinfo.gov/packages/PLAW-117publ58/summary")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if ref.DocType != record.TypeLaw {
		t.Fatalf("expected law, got %q", ref.DocType)
	}
}

func TestParseCongressSiteURL(t *testing.T) {
	ref, err := Parse("https://www.congress.gov/bill/117th-congress/senate-bill/1260")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if ref.System != SystemCongress {
		t.Fatalf("expected congress system, got %q", ref.System)
	}
	if ref.Congress != "117" || ref.BillType != "s" || ref.Number != "1260" {
		t.Fatalf("unexpected ref %+v", ref)
	}
}

func TestParseCongressAPIURL(t *testing.T) {
	ref, err := Parse("https://api.congress.gov/v3/bill/117/hr/3076")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if ref.Congress != "117" || ref.BillType != "hr" || ref.Number != "3076" {
		t.Fatalf("unexpected ref %+v", ref)
	}
}

func TestParseRejectsUnknownShapes(t *testing.T) {
	for _, raw := range []string{
		"",
		"not a url",
		"https://example.com/packages/BILLS-118hr1/summary",
		"https://api.govinfo.gov/packages/BILLS-118hr1/htm",
		"https://api.congress.gov/v3/bill/117/hr",
	} {
		if _, err := Parse(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		} else if !errors.Is(err, services.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %q, got %v", raw, err)
		}
	}
}

func TestUIDStableAndWellKnown(t *testing.T) {
	url := "https://api.govinfo.gov/packages/BILLS-118hr5376enr/summary"
	want := "085cdbaf30d2a9b895746ce0c24eddd2d920a55b503eeecf48502cdf66bd4bb4"
	if got := UID(url); got != want {
		t.Fatalf("UID(%q) = %q, want %q", url, got, want)
	}
	if UID(url) != UID(url) {
		t.Fatal("UID is not deterministic")
	}
	if UID(url) == UID(url+"x") {
		t.Fatal("distinct URLs produced the same UID")
	}
}
