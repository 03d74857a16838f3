package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"billboard/internal/record"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestUIDCommand(t *testing.T) {
	out, err := runCommand(t, "uid", "https://api.govinfo.gov/packages/BILLS-118hr5376enr/summary")
	if err != nil {
		t.Fatalf("uid command failed: %v", err)
	}
	if strings.TrimSpace(out) != "085cdbaf30d2a9b895746ce0c24eddd2d920a55b503eeecf48502cdf66bd4bb4" {
		t.Fatalf("unexpected uid output %q", out)
	}
}

func TestUIDCommandRejectsUnknownURL(t *testing.T) {
	_, err := runCommand(t, "uid", "https://example.com/whatever")
	if err == nil {
		t.Fatal("expected error for unsupported URL")
	}
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("output does not mention target path: %q", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("sample config not written: %v", err)
	}
	if !strings.Contains(string(data), "[server]") {
		t.Fatalf("sample config missing server section: %q", string(data))
	}
}

func TestRenderRecordSkipsEmptyFields(t *testing.T) {
	rendered := renderRecord(record.Record{
		ID:      "abc",
		Type:    record.TypeBill,
		Summary: "1. Plain summary.",
	})
	if !strings.Contains(rendered, "abc") || !strings.Contains(rendered, "Plain summary") {
		t.Fatalf("render missing content: %s", rendered)
	}
	if strings.Contains(rendered, "Sponsor") {
		t.Fatalf("empty fields must be omitted: %s", rendered)
	}
}
