package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable for serving requests.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateUpstreams(); err != nil {
		return err
	}
	if err := c.validateGemini(); err != nil {
		return err
	}
	if err := c.validateNarration(); err != nil {
		return err
	}
	if err := c.validateElevenLabs(); err != nil {
		return err
	}
	if err := c.validateKV(); err != nil {
		return err
	}
	return c.validateStorage()
}

func (c *Config) validateServer() error {
	if c.Server.Bind == "" {
		return errors.New("server.bind must be set")
	}
	if c.Server.RequestTimeout <= 0 {
		return errors.New("server.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateUpstreams() error {
	if c.GovInfo.APIKey == "" && c.Congress.APIKey == "" {
		return fmt.Errorf("at least one document API key is required. Set GOVINFO_API_KEY or CONGRESS_API_KEY, or edit the config file (create with 'billboard config init')")
	}
	if c.GovInfo.BaseURL == "" {
		return errors.New("govinfo.base_url must be set")
	}
	if c.Congress.BaseURL == "" {
		return errors.New("congress.base_url must be set")
	}
	return nil
}

func (c *Config) validateGemini() error {
	if c.Gemini.APIKey == "" {
		return errors.New("gemini.api_key is required. Set GEMINI_API_KEY or edit the config file")
	}
	if c.Gemini.Model == "" {
		return errors.New("gemini.model must be set")
	}
	if c.Gemini.MaxOutputTokens <= 0 {
		return errors.New("gemini.max_output_tokens must be positive")
	}
	return nil
}

func (c *Config) validateNarration() error {
	if c.Narration.APIKey == "" {
		return errors.New("narration.api_key is required. Set NARRATION_API_KEY or edit the config file")
	}
	if c.Narration.Model == "" {
		return errors.New("narration.model must be set")
	}
	return nil
}

func (c *Config) validateElevenLabs() error {
	if c.ElevenLabs.APIKey == "" {
		return errors.New("elevenlabs.api_key is required. Set ELEVENLABS_API_KEY or edit the config file")
	}
	if c.ElevenLabs.VoiceID == "" {
		return errors.New("elevenlabs.voice_id must be set")
	}
	if c.ElevenLabs.Stability < 0 || c.ElevenLabs.Stability > 1 {
		return errors.New("elevenlabs.stability must be between 0 and 1")
	}
	if c.ElevenLabs.SimilarityBoost < 0 || c.ElevenLabs.SimilarityBoost > 1 {
		return errors.New("elevenlabs.similarity_boost must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateKV() error {
	if c.KV.AccountID == "" {
		return errors.New("kv.account_id is required. Set CLOUDFLARE_ACCOUNT_ID or edit the config file")
	}
	if c.KV.NamespaceID == "" {
		return errors.New("kv.namespace_id is required. Set CLOUDFLARE_KV_NAMESPACE_ID or edit the config file")
	}
	if c.KV.APIToken == "" {
		return errors.New("kv.api_token is required. Set CLOUDFLARE_API_TOKEN or edit the config file")
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.URL == "" {
		return errors.New("storage.url is required. Set STORAGE_URL or edit the config file")
	}
	if c.Storage.ServiceKey == "" {
		return errors.New("storage.service_key is required. Set STORAGE_SERVICE_KEY or edit the config file")
	}
	if c.Storage.Bucket == "" {
		return errors.New("storage.bucket is required. Set STORAGE_BUCKET or edit the config file")
	}
	return nil
}
