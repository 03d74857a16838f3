package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Default()
	cfg.GovInfo.APIKey = "govinfo-key"
	cfg.Congress.APIKey = "congress-key"
	cfg.Gemini.APIKey = "gemini-key"
	cfg.Narration.APIKey = "narration-key"
	cfg.ElevenLabs.APIKey = "eleven-key"
	cfg.KV.AccountID = "acct"
	cfg.KV.NamespaceID = "ns"
	cfg.KV.APIToken = "token"
	cfg.Storage.URL = "https://storage.example/storage/v1"
	cfg.Storage.ServiceKey = "service-key"
	cfg.Storage.Bucket = "narration"
	return cfg
}

func TestDefaultValidatesOnceKeysSupplied(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRequiresDocumentAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.GovInfo.APIKey = ""
	cfg.Congress.APIKey = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure without document API keys")
	}
	if !strings.Contains(err.Error(), "GOVINFO_API_KEY") {
		t.Fatalf("error should name the env var, got %v", err)
	}
}

func TestValidateRejectsOutOfRangeVoiceSettings(t *testing.T) {
	cfg := validConfig()
	cfg.ElevenLabs.Stability = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation failure for stability > 1")
	}
}

func TestLoadAppliesFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[gemini]\napi_key = \"from-file\"\nmodel = \"demo-model\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, resolved, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != path {
		t.Fatalf("expected resolved path %s, got %s", path, resolved)
	}
	if cfg.Gemini.Model != "demo-model" {
		t.Fatalf("file value not applied, model = %q", cfg.Gemini.Model)
	}
	if cfg.Gemini.APIKey != "from-env" {
		t.Fatalf("env override not applied, key = %q", cfg.Gemini.APIKey)
	}
	if cfg.Server.Bind != defaultBind {
		t.Fatalf("defaults lost, bind = %q", cfg.Server.Bind)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Gemini.Model != defaultGeminiModel {
		t.Fatalf("expected default model, got %q", cfg.Gemini.Model)
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[elevenlabs]") {
		t.Fatal("sample config missing expected section")
	}
	if err := WriteSample(path); err == nil {
		t.Fatal("expected error when sample already exists")
	}
}
