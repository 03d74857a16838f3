package workerskv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"billboard/internal/record"
	"billboard/internal/services"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(Config{
		AccountID:   "acct",
		NamespaceID: "ns",
		APIToken:    "token",
		BaseURL:     server.URL,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client, server
}

func TestGetHit(t *testing.T) {
	stored := record.Record{SchemaVersion: record.SchemaVersion, ID: "abc", Title: "Test Act"}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		want := "/client/v4/accounts/acct/storage/kv/namespaces/ns/values/abc"
		if r.URL.Path != want {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer token" {
			t.Fatalf("missing bearer token")
		}
		json.NewEncoder(w).Encode(stored)
	})

	rec, ok, err := client.Get(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if rec.Title != "Test Act" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestGetMissOn404(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, ok, err := client.Get(context.Background(), "abc")
	if err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestGetMissOnSchemaMismatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"schema_version": %d, "id": "abc"}`, record.SchemaVersion+1)
	})
	_, ok, err := client.Get(context.Background(), "abc")
	if err != nil || ok {
		t.Fatalf("stale schema must read as a miss, got ok=%v err=%v", ok, err)
	}
}

func TestGetMissOnCorruptValue(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"schema_version": `))
	})
	_, ok, err := client.Get(context.Background(), "abc")
	if err != nil || ok {
		t.Fatalf("corrupt value must read as a miss, got ok=%v err=%v", ok, err)
	}
}

func TestGetErrorOnHTTPFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, _, err := client.Get(context.Background(), "abc")
	if !errors.Is(err, services.ErrCache) {
		t.Fatalf("expected ErrCache, got %v", err)
	}
}

func TestPut(t *testing.T) {
	var received record.Record
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Fatalf("expected PUT, got %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Fatalf("stored value is not JSON: %v", err)
		}
		w.Write([]byte(`{"success": true}`))
	})

	rec := record.Record{SchemaVersion: record.SchemaVersion, ID: "abc"}
	if err := client.Put(context.Background(), "abc", rec); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if received.ID != "abc" || received.SchemaVersion != record.SchemaVersion {
		t.Fatalf("unexpected stored record %+v", received)
	}
}

func TestPutHTTPFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	err := client.Put(context.Background(), "abc", record.Record{})
	if !errors.Is(err, services.ErrCache) {
		t.Fatalf("expected ErrCache, got %v", err)
	}
}
