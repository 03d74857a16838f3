package narration

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

	"billboard/internal/services"
)

const (
	defaultBaseURL     = "https://api.sambanova.ai/v1"
	defaultModel       = "Meta-Llama-3.1-405B-Instruct"
	defaultHTTPTimeout = 60 * time.Second
)

// Config describes the narration client configuration.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// Client calls an OpenAI-compatible chat completion API.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("narration: api key is required")
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(base, "/"),
		model:   model,
		http:    client,
	}, nil
}

// Rewrite converts summary into narration-ready prose.
func (c *Client) Rewrite(ctx context.Context, summary string) (string, error) {
	if strings.TrimSpace(summary) == "" {
		return "", services.Wrap(services.ErrInvalidInput, "narration", "rewrite", "empty summary", nil)
	}

	body := chatRequest{
		Model:       c.model,
		Temperature: 0.7,
		Stream:      false,
		Messages: []chatMessage{
			{Role: "system", Content: RewriteInstruction},
			{Role: "user", Content: summary},
		},
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return "", services.Wrap(services.ErrSynthesis, "narration", "rewrite", "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(encoded))
	if err != nil {
		return "", services.Wrap(services.ErrSynthesis, "narration", "rewrite", "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrSynthesis, "narration", "rewrite", "request failed", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrSynthesis, "narration", "rewrite", "read body", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrSynthesis, "narration", "rewrite",
			fmt.Sprintf("http %d", resp.StatusCode), nil)
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", services.Wrap(services.ErrSynthesis, "narration", "rewrite", "decode response", err)
	}
	if len(decoded.Choices) == 0 {
		return "", services.Wrap(services.ErrSynthesis, "narration", "rewrite", "empty choices", nil)
	}
	content := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if content == "" {
		return "", services.Wrap(services.ErrSynthesis, "narration", "rewrite", "empty content", nil)
	}
	return content, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
