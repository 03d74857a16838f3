package congress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"billboard/internal/identity"
	"billboard/internal/record"
	"billboard/internal/services"
)

const (
	defaultBaseURL     = "https://api.congress.gov/v3"
	defaultHTTPTimeout = 30 * time.Second
)

// htmLinkPattern finds HTML text renditions inside the /text payload. The
// upstream nests them several levels deep with unstable intermediate shapes,
// so the scan runs over the raw document rather than a typed decode.
var htmLinkPattern = regexp.MustCompile(`https://www\.congress\.gov/\S+\.htm`)

// Config describes the congress.gov client configuration.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Client wraps the congress.gov v3 REST API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("congress: api key is required")
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

// FetchMetadata retrieves and parses bill information for ref.
func (c *Client) FetchMetadata(ctx context.Context, ref identity.Ref) (record.Metadata, error) {
	var empty record.Metadata
	endpoint := fmt.Sprintf("%s/bill/%s/%s/%s?format=json&api_key=%s",
		c.baseURL, ref.Congress, ref.BillType, ref.Number, c.apiKey)
	body, err := c.get(ctx, endpoint, "fetch metadata")
	if err != nil {
		return empty, err
	}

	var payload struct {
		Bill billPayload `json:"bill"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return empty, services.Wrap(services.ErrUpstreamSchema, "congress", "fetch metadata", "decode response", err)
	}
	return parseBill(payload.Bill), nil
}

// FetchText locates the HTML renditions of the bill text and returns their
// combined content. A bill with no published text renditions returns empty
// text without error. A rendition that fails to load is skipped so one bad
// link does not discard the rest; the failure only surfaces when no
// rendition loaded at all.
func (c *Client) FetchText(ctx context.Context, ref identity.Ref) (string, error) {
	endpoint := fmt.Sprintf("%s/bill/%s/%s/%s/text?format=json&api_key=%s",
		c.baseURL, ref.Congress, ref.BillType, ref.Number, c.apiKey)
	body, err := c.get(ctx, endpoint, "fetch text links")
	if err != nil {
		return "", err
	}

	links := htmLinkPattern.FindAllString(string(body), -1)
	if len(links) == 0 {
		return "", nil
	}

	var combined strings.Builder
	var lastErr error
	loaded := 0
	for _, link := range links {
		content, err := c.get(ctx, link, "fetch text")
		if err != nil {
			lastErr = err
			continue
		}
		combined.Write(content)
		combined.WriteString("\n\n")
		loaded++
	}
	if loaded == 0 {
		return "", lastErr
	}
	return combined.String(), nil
}

// DocumentLinks returns empty links: congress.gov text renditions are
// discovered per request through the /text endpoint, not derivable from the
// reference alone.
func (c *Client) DocumentLinks(identity.Ref) (string, string) {
	return "", ""
}

func (c *Client) get(ctx context.Context, endpoint, op string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstreamUnavailable, "congress", op, "build request", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstreamUnavailable, "congress", op, "request failed", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstreamUnavailable, "congress", op, "read body", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrUpstreamUnavailable, "congress", op,
			fmt.Sprintf("http %d", resp.StatusCode), nil)
	}
	return body, nil
}

type billPayload struct {
	Title          string `json:"title"`
	Number         string `json:"number"`
	IntroducedDate string `json:"introducedDate"`
	OriginChamber  string `json:"originChamber"`
	LatestAction   struct {
		Text       string `json:"text"`
		ActionDate string `json:"actionDate"`
	} `json:"latestAction"`
	PolicyArea struct {
		Name string `json:"name"`
	} `json:"policyArea"`
	Sponsors []struct {
		FullName   string `json:"fullName"`
		BioguideID string `json:"bioguideId"`
		State      string `json:"state"`
		Party      string `json:"party"`
	} `json:"sponsors"`
	Laws []struct {
		Number string `json:"number"`
		Type   string `json:"type"`
	} `json:"laws"`
}

func parseBill(bill billPayload) record.Metadata {
	meta := record.Metadata{
		Type:             record.TypeBill,
		Title:            bill.Title,
		Number:           bill.Number,
		IntroducedDate:   bill.IntroducedDate,
		OriginChamber:    bill.OriginChamber,
		LatestAction:     bill.LatestAction.Text,
		LatestActionDate: bill.LatestAction.ActionDate,
		PolicyArea:       bill.PolicyArea.Name,
	}
	if len(bill.Sponsors) > 0 {
		sponsor := bill.Sponsors[0]
		meta.Sponsor = sponsor.FullName
		meta.SponsorID = sponsor.BioguideID
		meta.SponsorState = sponsor.State
		meta.SponsorParty = sponsor.Party
	}
	// A bill that has been enacted carries its law coordinates and is
	// reported as a law.
	if len(bill.Laws) > 0 {
		meta.Type = record.TypeLaw
		meta.LawNumber = bill.Laws[0].Number
		meta.LawType = bill.Laws[0].Type
	}
	return meta
}
