// Package testsupport provides helpers shared by package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"billboard/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a fully valid config with placeholder credentials and a
// per-test lock file. Tests override individual fields through options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Bind = "127.0.0.1:0"
	cfg.Server.LockFile = filepath.Join(t.TempDir(), "billboardd.lock")
	cfg.GovInfo.APIKey = "test-govinfo-key"
	cfg.Congress.APIKey = "test-congress-key"
	cfg.Gemini.APIKey = "test-gemini-key"
	cfg.Narration.APIKey = "test-narration-key"
	cfg.ElevenLabs.APIKey = "test-elevenlabs-key"
	cfg.KV.AccountID = "test-account"
	cfg.KV.NamespaceID = "test-namespace"
	cfg.KV.APIToken = "test-token"
	cfg.Storage.URL = "https://storage.test.invalid"
	cfg.Storage.ServiceKey = "test-service-key"
	cfg.Storage.Bucket = "artifacts"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithoutGovInfo clears the GovInfo credentials.
func WithoutGovInfo() ConfigOption {
	return func(cfg *config.Config) {
		cfg.GovInfo.APIKey = ""
	}
}

// WithoutCongress clears the congress.gov credentials.
func WithoutCongress() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Congress.APIKey = ""
	}
}
