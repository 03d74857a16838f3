package govinfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"billboard/internal/identity"
	"billboard/internal/record"
	"billboard/internal/services"
)

const (
	defaultBaseURL     = "https://api.govinfo.gov"
	defaultHTTPTimeout = 30 * time.Second
)

// Config describes the GovInfo client configuration.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Client wraps the GovInfo packages REST API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("govinfo: api key is required")
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
		apiKey:  apiKey,
		baseURL: strings.TrimRight(base, "/"),
		http:    client,
	}, nil
}

// FetchMetadata retrieves the package summary for ref and parses it with the
// shape matching ref's document type.
func (c *Client) FetchMetadata(ctx context.Context, ref identity.Ref) (record.Metadata, error) {
	var empty record.Metadata
	endpoint := fmt.Sprintf("%s/packages/%s/summary?api_key=%s", c.baseURL, ref.PackageID, c.apiKey)
	body, err := c.get(ctx, endpoint, "fetch metadata")
	if err != nil {
		return empty, err
	}
	switch ref.DocType {
	case record.TypeLaw:
		return parseLaw(body)
	default:
		return parseBill(body)
	}
}

// FetchText retrieves the HTML rendition of the document. A package with no
// published text is a valid outcome and returns empty text without error.
func (c *Client) FetchText(ctx context.Context, ref identity.Ref) (string, error) {
	htm, _ := c.DocumentLinks(ref)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, htm, nil)
	if err != nil {
		return "", services.Wrap(services.ErrUpstreamUnavailable, "govinfo", "fetch text", "build request", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrUpstreamUnavailable, "govinfo", "fetch text", "request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrUpstreamUnavailable, "govinfo", "fetch text",
			fmt.Sprintf("http %d", resp.StatusCode), nil)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrUpstreamUnavailable, "govinfo", "fetch text", "read body", err)
	}
	return string(data), nil
}

// DocumentLinks derives the htm and pdf rendition URLs for ref. The API key
// rides along as a query parameter, matching how the links are stored on the
// record.
func (c *Client) DocumentLinks(ref identity.Ref) (string, string) {
	base := fmt.Sprintf("%s/packages/%s", c.baseURL, ref.PackageID)
	return base + "/htm?api_key=" + c.apiKey, base + "/pdf?api_key=" + c.apiKey
}

func (c *Client) get(ctx context.Context, endpoint, op string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstreamUnavailable, "govinfo", op, "build request", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstreamUnavailable, "govinfo", op, "request failed", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstreamUnavailable, "govinfo", op, "read body", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrUpstreamUnavailable, "govinfo", op,
			fmt.Sprintf("http %d: %s", resp.StatusCode, summarizeBody(body)), nil)
	}
	return body, nil
}

func summarizeBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	const limit = 160
	if len(trimmed) > limit {
		trimmed = trimmed[:limit] + "..."
	}
	return trimmed
}

type billPayload struct {
	DateIssued     string      `json:"dateIssued"`
	OriginChamber  string      `json:"originChamber"`
	CurrentChamber string      `json:"currentCHamber"`
	Session        json.Number `json:"session"`
	Branch         string      `json:"branch"`
	Members        []struct {
		MemberName string `json:"memberName"`
		State      string `json:"state"`
		Party      string `json:"party"`
		BioGuideID string `json:"bioGuideId"`
	} `json:"members"`
}

func parseBill(body []byte) (record.Metadata, error) {
	var payload billPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return record.Metadata{}, services.Wrap(services.ErrUpstreamSchema, "govinfo", "parse bill", "decode response", err)
	}
	meta := record.Metadata{
		Type:           record.TypeBill,
		IntroducedDate: payload.DateIssued,
		OriginChamber:  payload.OriginChamber,
		CurrentChamber: payload.CurrentChamber,
		Session:        payload.Session.String(),
		PolicyArea:     payload.Branch,
	}
	if len(payload.Members) > 0 {
		sponsor := payload.Members[0]
		meta.Sponsor = sponsor.MemberName
		meta.SponsorState = sponsor.State
		meta.SponsorParty = sponsor.Party
		meta.SponsorID = sponsor.BioGuideID
	}
	return meta, nil
}

type lawPayload struct {
	DocumentType string `json:"documentType"`
	DateIssued   string `json:"dateIssued"`
	Branch       string `json:"branch"`
}

func parseLaw(body []byte) (record.Metadata, error) {
	var payload lawPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return record.Metadata{}, services.Wrap(services.ErrUpstreamSchema, "govinfo", "parse law", "decode response", err)
	}
	return record.Metadata{
		Type:           record.TypeLaw,
		LawType:        payload.DocumentType,
		IntroducedDate: payload.DateIssued,
		PolicyArea:     payload.Branch,
	}, nil
}
