package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"billboard/internal/config"
	"billboard/internal/logging"
	"billboard/internal/record"
)

type stubProcessor struct {
	lastURL string
	rec     record.Record
	err     error
}

func (p *stubProcessor) Process(_ context.Context, rawURL string) (record.Record, error) {
	p.lastURL = rawURL
	return p.rec, p.err
}

func newTestServer(t *testing.T, processor Processor) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Bind = "127.0.0.1:0"
	srv, err := NewServer(&cfg, processor, logging.NewNop())
	if err != nil {
		t.Fatalf("NewServer returned error: %v", err)
	}
	return srv
}

func TestHandleInfoReturnsRecord(t *testing.T) {
	audio := "abc_en.mp3"
	proc := &stubProcessor{rec: record.Record{
		SchemaVersion: record.SchemaVersion,
		ID:            "abc",
		JSONType:      "bill",
		Type:          record.TypeBill,
		Summary:       "1. Plain summary.",
		AudioPath:     &audio,
	}}
	srv := newTestServer(t, proc)

	req := httptest.NewRequest(http.MethodGet, "/info/https%3A%2F%2Fapi.govinfo.gov%2Fpackages%2FBILLS-118hr5376enr%2Fsummary", nil)
	w := httptest.NewRecorder()
	srv.handleInfo(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if proc.lastURL != "https://api.govinfo.gov/packages/BILLS-118hr5376enr/summary" {
		t.Fatalf("encoded slashes not preserved: %q", proc.lastURL)
	}
	var rec record.Record
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("response is not a record: %v", err)
	}
	if rec.ID != "abc" || rec.AudioPath == nil {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestHandleInfoFailureCollapsesTo500(t *testing.T) {
	proc := &stubProcessor{err: errors.New("invalid URL format")}
	srv := newTestServer(t, proc)

	req := httptest.NewRequest(http.MethodGet, "/info/not-a-url", nil)
	w := httptest.NewRecorder()
	srv.handleInfo(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var payload record.ErrorRecord
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	if payload.Error == "" {
		t.Fatal("expected error message in body")
	}
}

func TestHandleInfoRejectsNonGET(t *testing.T) {
	srv := newTestServer(t, &stubProcessor{})
	req := httptest.NewRequest(http.MethodPost, "/info/whatever", nil)
	w := httptest.NewRecorder()
	srv.handleInfo(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &stubProcessor{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.handleHealthz(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestStartServesAndShutsDownOnCancel(t *testing.T) {
	srv := newTestServer(t, &stubProcessor{rec: record.Record{ID: "abc", SchemaVersion: record.SchemaVersion}})
	ctx, cancel := context.WithCancel(context.Background())
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer srv.Stop()

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	if err != nil {
		t.Fatalf("healthz request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := http.Get("http://" + srv.Addr() + "/healthz"); err != nil {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("server did not shut down after context cancel")
}
