package config

const (
	defaultBind             = "127.0.0.1:8690"
	defaultRequestTimeout   = 180
	defaultLockFile         = "~/.local/state/billboard/billboardd.lock"
	defaultGovInfoBaseURL   = "https://api.govinfo.gov"
	defaultCongressBaseURL  = "https://api.congress.gov/v3"
	defaultGeminiBaseURL    = "https://generativelanguage.googleapis.com"
	defaultGeminiModel      = "gemini-1.5-flash-exp-0827"
	defaultGeminiMaxTokens  = 1000
	defaultGeminiTimeout    = 60
	defaultNarrationBaseURL = "https://api.sambanova.ai/v1"
	defaultNarrationModel   = "Meta-Llama-3.1-405B-Instruct"
	defaultNarrationTimeout = 60
	defaultTTSBaseURL       = "https://api.elevenlabs.io"
	defaultTTSVoiceID       = "XrExE9yKIg1WjnnlVkGX"
	defaultTTSModelID       = "eleven_multilingual_v2"
	defaultTTSStability     = 0.7
	defaultTTSSimilarity    = 0.75
	defaultTTSTimeout       = 120
	defaultKVBaseURL        = "https://api.cloudflare.com"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Bind:           defaultBind,
			RequestTimeout: defaultRequestTimeout,
			LockFile:       defaultLockFile,
		},
		GovInfo: GovInfo{
			BaseURL: defaultGovInfoBaseURL,
		},
		Congress: Congress{
			BaseURL: defaultCongressBaseURL,
		},
		Gemini: Gemini{
			BaseURL:         defaultGeminiBaseURL,
			Model:           defaultGeminiModel,
			MaxOutputTokens: defaultGeminiMaxTokens,
			TimeoutSeconds:  defaultGeminiTimeout,
		},
		Narration: Narration{
			BaseURL:        defaultNarrationBaseURL,
			Model:          defaultNarrationModel,
			TimeoutSeconds: defaultNarrationTimeout,
		},
		ElevenLabs: ElevenLabs{
			BaseURL:         defaultTTSBaseURL,
			VoiceID:         defaultTTSVoiceID,
			ModelID:         defaultTTSModelID,
			Stability:       defaultTTSStability,
			SimilarityBoost: defaultTTSSimilarity,
			TimeoutSeconds:  defaultTTSTimeout,
		},
		KV: KV{
			BaseURL: defaultKVBaseURL,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
