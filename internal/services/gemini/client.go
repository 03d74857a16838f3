package gemini

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
	defaultBaseURL     = "https://generativelanguage.googleapis.com"
	defaultModel       = "gemini-1.5-flash-exp-0827"
	defaultMaxTokens   = 1000
	defaultHTTPTimeout = 60 * time.Second
)

// Config describes the Gemini client configuration.
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	MaxOutputTokens int
	HTTPClient      *http.Client
}

// Client calls the Gemini generateContent endpoint.
type Client struct {
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
	http      *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(base, "/"),
		model:     model,
		maxTokens: maxTokens,
		http:      client,
	}, nil
}

// Summarize produces a plain-language summary of content. Empty content short
// circuits to the no-content placeholder without spending an API call.
func (c *Client) Summarize(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return record.NoContentSummary, nil
	}

	body := generateRequest{
		SystemInstruction: &contentBlock{Parts: []part{{Text: SummaryInstruction}}},
		Contents: []contentBlock{
			{Role: "user", Parts: []part{{Text: content}}},
		},
		GenerationConfig: generationConfig{
			Temperature:      0.7,
			TopP:             0.95,
			TopK:             64,
			MaxOutputTokens:  c.maxTokens,
			ResponseMimeType: "text/plain",
		},
		SafetySettings: relaxedSafetySettings(),
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return "", services.Wrap(services.ErrSynthesis, "gemini", "summarize", "encode request", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", services.Wrap(services.ErrSynthesis, "gemini", "summarize", "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrSynthesis, "gemini", "summarize", "request failed", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrSynthesis, "gemini", "summarize", "read body", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrSynthesis, "gemini", "summarize",
			fmt.Sprintf("http %d: %s", resp.StatusCode, summarizeBody(raw)), nil)
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", services.Wrap(services.ErrSynthesis, "gemini", "summarize", "decode response", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", services.Wrap(services.ErrSynthesis, "gemini", "summarize", "empty candidates", nil)
	}
	var text strings.Builder
	for _, p := range decoded.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	summary := strings.TrimSpace(text.String())
	if summary == "" {
		return "", services.Wrap(services.ErrSynthesis, "gemini", "summarize", "empty summary text", nil)
	}
	return summary, nil
}

func relaxedSafetySettings() []safetySetting {
	categories := []string{
		"HARM_CATEGORY_SEXUALLY_EXPLICIT",
		"HARM_CATEGORY_DANGEROUS_CONTENT",
		"HARM_CATEGORY_HATE_SPEECH",
		"HARM_CATEGORY_HARASSMENT",
	}
	settings := make([]safetySetting, 0, len(categories))
	for _, category := range categories {
		settings = append(settings, safetySetting{Category: category, Threshold: "BLOCK_NONE"})
	}
	return settings
}

func summarizeBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	const limit = 160
	if len(trimmed) > limit {
		trimmed = trimmed[:limit] + "..."
	}
	return trimmed
}

type generateRequest struct {
	SystemInstruction *contentBlock    `json:"system_instruction,omitempty"`
	Contents          []contentBlock   `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
	SafetySettings    []safetySetting  `json:"safetySettings,omitempty"`
}

type contentBlock struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"topP"`
	TopK             int     `json:"topK"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}
