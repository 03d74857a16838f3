package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains the HTTP API and daemon settings.
type Server struct {
	Bind string `toml:"bind"`
	// RequestTimeout bounds one full pipeline run in seconds. The language
	// model and speech synthesis calls dominate it.
	RequestTimeout int    `toml:"request_timeout"`
	LockFile       string `toml:"lock_file"`
}

// GovInfo contains configuration for the GovInfo packages API.
type GovInfo struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Congress contains configuration for the congress.gov v3 API.
type Congress struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Gemini contains configuration for the generative summarizer.
type Gemini struct {
	APIKey          string `toml:"api_key"`
	BaseURL         string `toml:"base_url"`
	Model           string `toml:"model"`
	MaxOutputTokens int    `toml:"max_output_tokens"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// Narration contains configuration for the chat-completion service that
// rewrites summaries into narration prose.
type Narration struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ElevenLabs contains configuration for speech synthesis.
type ElevenLabs struct {
	APIKey          string  `toml:"api_key"`
	BaseURL         string  `toml:"base_url"`
	VoiceID         string  `toml:"voice_id"`
	ModelID         string  `toml:"model_id"`
	Stability       float64 `toml:"stability"`
	SimilarityBoost float64 `toml:"similarity_boost"`
	TimeoutSeconds  int     `toml:"timeout_seconds"`
}

// KV contains configuration for the Cloudflare Workers KV record cache.
type KV struct {
	AccountID   string `toml:"account_id"`
	NamespaceID string `toml:"namespace_id"`
	APIToken    string `toml:"api_token"`
	BaseURL     string `toml:"base_url"`
}

// Storage contains configuration for the narration artifact object store.
type Storage struct {
	URL        string `toml:"url"`
	ServiceKey string `toml:"service_key"`
	Bucket     string `toml:"bucket"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for billboard.
type Config struct {
	Server     Server     `toml:"server"`
	GovInfo    GovInfo    `toml:"govinfo"`
	Congress   Congress   `toml:"congress"`
	Gemini     Gemini     `toml:"gemini"`
	Narration  Narration  `toml:"narration"`
	ElevenLabs ElevenLabs `toml:"elevenlabs"`
	KV         KV         `toml:"kv"`
	Storage    Storage    `toml:"storage"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/billboard/config.toml")
}

// Load locates and parses a configuration file, then layers environment
// overrides on top. Pass an empty path to use the default location; a missing
// file is not an error, defaults plus environment apply. Validation is the
// caller's decision so commands like "config show" work on incomplete files.
func Load(path string) (*Config, string, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", err
	}
	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", fmt.Errorf("open config: %w", err)
		}
		defer file.Close()
		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, "", fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.normalize(); err != nil {
		return nil, "", err
	}
	return &cfg, resolvedPath, nil
}

// WriteSample writes the embedded sample configuration to path, creating
// parent directories. Refuses to overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o600)
}

// applyEnvOverrides layers secret-bearing environment variables over the file
// values. Every component reads exclusively from the resulting Config; no
// component touches the environment on its own.
func (c *Config) applyEnvOverrides() {
	overlay := func(dst *string, key string) {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			*dst = value
		}
	}
	overlay(&c.GovInfo.APIKey, "GOVINFO_API_KEY")
	overlay(&c.Congress.APIKey, "CONGRESS_API_KEY")
	overlay(&c.Gemini.APIKey, "GEMINI_API_KEY")
	overlay(&c.Narration.APIKey, "NARRATION_API_KEY")
	overlay(&c.ElevenLabs.APIKey, "ELEVENLABS_API_KEY")
	overlay(&c.KV.APIToken, "CLOUDFLARE_API_TOKEN")
	overlay(&c.KV.AccountID, "CLOUDFLARE_ACCOUNT_ID")
	overlay(&c.KV.NamespaceID, "CLOUDFLARE_KV_NAMESPACE_ID")
	overlay(&c.Storage.URL, "STORAGE_URL")
	overlay(&c.Storage.ServiceKey, "STORAGE_SERVICE_KEY")
	overlay(&c.Storage.Bucket, "STORAGE_BUCKET")
}

func (c *Config) normalize() error {
	expanded, err := expandPath(c.Server.LockFile)
	if err != nil {
		return err
	}
	c.Server.LockFile = expanded

	trim := func(values ...*string) {
		for _, v := range values {
			*v = strings.TrimSpace(*v)
		}
	}
	trim(&c.Server.Bind,
		&c.GovInfo.APIKey, &c.GovInfo.BaseURL,
		&c.Congress.APIKey, &c.Congress.BaseURL,
		&c.Gemini.APIKey, &c.Gemini.BaseURL, &c.Gemini.Model,
		&c.Narration.APIKey, &c.Narration.BaseURL, &c.Narration.Model,
		&c.ElevenLabs.APIKey, &c.ElevenLabs.BaseURL, &c.ElevenLabs.VoiceID, &c.ElevenLabs.ModelID,
		&c.KV.AccountID, &c.KV.NamespaceID, &c.KV.APIToken, &c.KV.BaseURL,
		&c.Storage.URL, &c.Storage.ServiceKey, &c.Storage.Bucket,
		&c.Logging.Format, &c.Logging.Level)
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	candidate := strings.TrimSpace(path)
	if candidate == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		candidate = defaultPath
	} else {
		expanded, err := expandPath(candidate)
		if err != nil {
			return "", false, err
		}
		candidate = expanded
	}

	info, err := os.Stat(candidate)
	switch {
	case err == nil:
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", candidate)
		}
		return candidate, true, nil
	case errors.Is(err, fs.ErrNotExist):
		return candidate, false, nil
	default:
		return "", false, fmt.Errorf("stat config: %w", err)
	}
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Abs(trimmed)
}
