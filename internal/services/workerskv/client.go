package workerskv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"billboard/internal/record"
	"billboard/internal/services"
)

const (
	defaultBaseURL     = "https://api.cloudflare.com"
	defaultHTTPTimeout = 15 * time.Second
)

// Config describes the Workers KV client configuration.
type Config struct {
	AccountID   string
	NamespaceID string
	APIToken    string
	BaseURL     string
	HTTPClient  *http.Client
}

// Client reads and writes records in a KV namespace.
type Client struct {
	accountID   string
	namespaceID string
	apiToken    string
	baseURL     string
	http        *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	accountID := strings.TrimSpace(cfg.AccountID)
	namespaceID := strings.TrimSpace(cfg.NamespaceID)
	apiToken := strings.TrimSpace(cfg.APIToken)
	if accountID == "" || namespaceID == "" || apiToken == "" {
		return nil, errors.New("workerskv: account id, namespace id, and api token are required")
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		accountID:   accountID,
		namespaceID: namespaceID,
		apiToken:    apiToken,
		baseURL:     strings.TrimRight(base, "/"),
		http:        client,
	}, nil
}

// Get looks up the record stored under uid. A missing key, an undecodable
// value, or a value written under a different schema version all report a
// miss so the document gets rebuilt.
func (c *Client) Get(ctx context.Context, uid string) (record.Record, bool, error) {
	var empty record.Record
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.valueURL(uid), nil)
	if err != nil {
		return empty, false, services.Wrap(services.ErrCache, "workerskv", "get", "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return empty, false, services.Wrap(services.ErrCache, "workerskv", "get", "request failed", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, false, services.Wrap(services.ErrCache, "workerskv", "get", "read body", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return empty, false, nil
	case resp.StatusCode != http.StatusOK:
		return empty, false, services.Wrap(services.ErrCache, "workerskv", "get",
			fmt.Sprintf("http %d", resp.StatusCode), nil)
	}

	var rec record.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return empty, false, nil
	}
	if rec.SchemaVersion != record.SchemaVersion {
		return empty, false, nil
	}
	return rec, true, nil
}

// Put stores rec under uid, replacing any existing value.
func (c *Client) Put(ctx context.Context, uid string, rec record.Record) error {
	encoded, err := json.Marshal(rec)
	if err != nil {
		return services.Wrap(services.ErrCache, "workerskv", "put", "encode record", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.valueURL(uid), bytes.NewReader(encoded))
	if err != nil {
		return services.Wrap(services.ErrCache, "workerskv", "put", "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return services.Wrap(services.ErrCache, "workerskv", "put", "request failed", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return services.Wrap(services.ErrCache, "workerskv", "put",
			fmt.Sprintf("http %d", resp.StatusCode), nil)
	}
	return nil
}

func (c *Client) valueURL(uid string) string {
	return fmt.Sprintf("%s/client/v4/accounts/%s/storage/kv/namespaces/%s/values/%s",
		c.baseURL, c.accountID, c.namespaceID, uid)
}
