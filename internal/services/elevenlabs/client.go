package elevenlabs

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"billboard/internal/services"
	"billboard/internal/subtitles"
)

const (
	defaultBaseURL         = "https://api.elevenlabs.io"
	defaultVoiceID         = "XrExE9yKIg1WjnnlVkGX"
	defaultModelID         = "eleven_multilingual_v2"
	defaultStability       = 0.7
	defaultSimilarityBoost = 0.75
	defaultHTTPTimeout     = 120 * time.Second
)

// Config describes the ElevenLabs client configuration.
type Config struct {
	APIKey          string
	BaseURL         string
	VoiceID         string
	ModelID         string
	Stability       float64
	SimilarityBoost float64
	HTTPClient      *http.Client
}

// Client wraps the ElevenLabs text-to-speech API.
type Client struct {
	apiKey          string
	baseURL         string
	voiceID         string
	modelID         string
	stability       float64
	similarityBoost float64
	http            *http.Client
}

// Synthesis carries the decoded audio and its character-level timing.
type Synthesis struct {
	Audio     []byte
	Alignment subtitles.Alignment
}

// StatusError reports a non-200 response from the synthesis endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Code, e.Body)
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("elevenlabs: api key is required")
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	voice := strings.TrimSpace(cfg.VoiceID)
	if voice == "" {
		voice = defaultVoiceID
	}
	model := strings.TrimSpace(cfg.ModelID)
	if model == "" {
		model = defaultModelID
	}
	stability := cfg.Stability
	if stability <= 0 {
		stability = defaultStability
	}
	similarity := cfg.SimilarityBoost
	if similarity <= 0 {
		similarity = defaultSimilarityBoost
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		apiKey:          apiKey,
		baseURL:         strings.TrimRight(base, "/"),
		voiceID:         voice,
		modelID:         model,
		stability:       stability,
		similarityBoost: similarity,
		http:            client,
	}, nil
}

// Synthesize converts text into audio with character timing.
func (c *Client) Synthesize(ctx context.Context, text string) (Synthesis, error) {
	var empty Synthesis
	if strings.TrimSpace(text) == "" {
		return empty, services.Wrap(services.ErrInvalidInput, "elevenlabs", "synthesize", "empty text", nil)
	}

	body := synthesisRequest{
		Text:    text,
		ModelID: c.modelID,
		VoiceSettings: voiceSettings{
			Stability:       c.stability,
			SimilarityBoost: c.similarityBoost,
		},
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return empty, services.Wrap(services.ErrSynthesis, "elevenlabs", "synthesize", "encode request", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s/with-timestamps", c.baseURL, c.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return empty, services.Wrap(services.ErrSynthesis, "elevenlabs", "synthesize", "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return empty, services.Wrap(services.ErrSynthesis, "elevenlabs", "synthesize", "request failed", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, services.Wrap(services.ErrSynthesis, "elevenlabs", "synthesize", "read body", err)
	}
	if resp.StatusCode != http.StatusOK {
		statusErr := &StatusError{Code: resp.StatusCode, Body: summarizeBody(raw)}
		return empty, services.Wrap(services.ErrSynthesis, "elevenlabs", "synthesize", "synthesis failed", statusErr)
	}

	var decoded synthesisResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return empty, services.Wrap(services.ErrSynthesis, "elevenlabs", "synthesize", "decode response", err)
	}
	if decoded.AudioBase64 == "" {
		return empty, services.Wrap(services.ErrSynthesis, "elevenlabs", "synthesize", "response missing audio", nil)
	}
	audio, err := base64.StdEncoding.DecodeString(decoded.AudioBase64)
	if err != nil {
		return empty, services.Wrap(services.ErrSynthesis, "elevenlabs", "synthesize", "decode audio", err)
	}

	alignment := subtitles.Alignment{
		Characters: decoded.Alignment.Characters,
		Starts:     decoded.Alignment.Starts,
		Ends:       decoded.Alignment.Ends,
	}
	if len(alignment.Characters) != len(alignment.Starts) || len(alignment.Characters) != len(alignment.Ends) {
		return empty, services.Wrap(services.ErrSynthesis, "elevenlabs", "synthesize", "misaligned timing arrays", nil)
	}
	return Synthesis{Audio: audio, Alignment: alignment}, nil
}

func summarizeBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	const limit = 160
	if len(trimmed) > limit {
		trimmed = trimmed[:limit] + "..."
	}
	return trimmed
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type synthesisResponse struct {
	AudioBase64 string `json:"audio_base64"`
	Alignment   struct {
		Characters []string  `json:"characters"`
		Starts     []float64 `json:"character_start_times_seconds"`
		Ends       []float64 `json:"character_end_times_seconds"`
	} `json:"alignment"`
}
