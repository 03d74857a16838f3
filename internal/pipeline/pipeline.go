package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"billboard/internal/config"
	"billboard/internal/identity"
	"billboard/internal/record"
	"billboard/internal/services"
	"billboard/internal/services/congress"
	"billboard/internal/services/elevenlabs"
	"billboard/internal/services/gemini"
	"billboard/internal/services/govinfo"
	"billboard/internal/services/mediastore"
	"billboard/internal/services/narration"
	"billboard/internal/services/workerskv"
	"billboard/internal/subtitles"
)

// Fetcher retrieves document metadata and text from one upstream system.
type Fetcher interface {
	FetchMetadata(ctx context.Context, ref identity.Ref) (record.Metadata, error)
	FetchText(ctx context.Context, ref identity.Ref) (string, error)
	DocumentLinks(ref identity.Ref) (htm, pdf string)
}

// Summarizer produces a plain-language summary from document text.
type Summarizer interface {
	Summarize(ctx context.Context, content string) (string, error)
}

// NarrationWriter rewrites a summary into speech-ready prose.
type NarrationWriter interface {
	Rewrite(ctx context.Context, summary string) (string, error)
}

// SpeechSynthesizer converts narration text into timed audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) (elevenlabs.Synthesis, error)
}

// Cache stores finished records keyed by UID.
type Cache interface {
	Get(ctx context.Context, uid string) (record.Record, bool, error)
	Put(ctx context.Context, uid string, rec record.Record) error
}

// ArtifactStore persists narration artifacts and returns their object keys.
type ArtifactStore interface {
	UploadNarration(uid string, audio []byte, srt string) (audioKey, srtKey string, err error)
}

// Pipeline runs the document enrichment flow.
type Pipeline struct {
	logger     *slog.Logger
	cache      Cache
	store      ArtifactStore
	summarizer Summarizer
	narrator   NarrationWriter
	speech     SpeechSynthesizer
	fetchers   map[identity.System]Fetcher

	// group collapses concurrent requests for the same UID into one
	// execution so a paid enrichment never runs twice for one document.
	group singleflight.Group
}

// Options wires the pipeline's collaborators.
type Options struct {
	Logger     *slog.Logger
	Cache      Cache
	Store      ArtifactStore
	Summarizer Summarizer
	Narrator   NarrationWriter
	Speech     SpeechSynthesizer
	Fetchers   map[identity.System]Fetcher
}

// New assembles a Pipeline from pre-built collaborators.
func New(opts Options) (*Pipeline, error) {
	if opts.Cache == nil {
		return nil, errors.New("pipeline: cache is required")
	}
	if opts.Summarizer == nil {
		return nil, errors.New("pipeline: summarizer is required")
	}
	if len(opts.Fetchers) == 0 {
		return nil, errors.New("pipeline: at least one fetcher is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		logger:     logger,
		cache:      opts.Cache,
		store:      opts.Store,
		summarizer: opts.Summarizer,
		narrator:   opts.Narrator,
		speech:     opts.Speech,
		fetchers:   opts.Fetchers,
	}, nil
}

// FromConfig builds a Pipeline with concrete service clients.
func FromConfig(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	fetchers := make(map[identity.System]Fetcher)
	if cfg.GovInfo.APIKey != "" {
		client, err := govinfo.New(govinfo.Config{APIKey: cfg.GovInfo.APIKey, BaseURL: cfg.GovInfo.BaseURL})
		if err != nil {
			return nil, fmt.Errorf("pipeline: govinfo client: %w", err)
		}
		fetchers[identity.SystemGovInfo] = client
	}
	if cfg.Congress.APIKey != "" {
		client, err := congress.New(congress.Config{APIKey: cfg.Congress.APIKey, BaseURL: cfg.Congress.BaseURL})
		if err != nil {
			return nil, fmt.Errorf("pipeline: congress client: %w", err)
		}
		fetchers[identity.SystemCongress] = client
	}

	summarizer, err := gemini.New(gemini.Config{
		APIKey:          cfg.Gemini.APIKey,
		BaseURL:         cfg.Gemini.BaseURL,
		Model:           cfg.Gemini.Model,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
		HTTPClient:      timeoutClient(cfg.Gemini.TimeoutSeconds),
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: gemini client: %w", err)
	}
	narrator, err := narration.New(narration.Config{
		APIKey:     cfg.Narration.APIKey,
		BaseURL:    cfg.Narration.BaseURL,
		Model:      cfg.Narration.Model,
		HTTPClient: timeoutClient(cfg.Narration.TimeoutSeconds),
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: narration client: %w", err)
	}
	speech, err := elevenlabs.New(elevenlabs.Config{
		APIKey:          cfg.ElevenLabs.APIKey,
		BaseURL:         cfg.ElevenLabs.BaseURL,
		VoiceID:         cfg.ElevenLabs.VoiceID,
		ModelID:         cfg.ElevenLabs.ModelID,
		Stability:       cfg.ElevenLabs.Stability,
		SimilarityBoost: cfg.ElevenLabs.SimilarityBoost,
		HTTPClient:      timeoutClient(cfg.ElevenLabs.TimeoutSeconds),
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: elevenlabs client: %w", err)
	}
	cache, err := workerskv.New(workerskv.Config{
		AccountID:   cfg.KV.AccountID,
		NamespaceID: cfg.KV.NamespaceID,
		APIToken:    cfg.KV.APIToken,
		BaseURL:     cfg.KV.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: kv client: %w", err)
	}
	store, err := mediastore.New(mediastore.Config{
		URL:        cfg.Storage.URL,
		ServiceKey: cfg.Storage.ServiceKey,
		Bucket:     cfg.Storage.Bucket,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: media store: %w", err)
	}

	return New(Options{
		Logger:     logger,
		Cache:      cache,
		Store:      store,
		Summarizer: summarizer,
		Narrator:   narrator,
		Speech:     speech,
		Fetchers:   fetchers,
	})
}

// timeoutClient builds an HTTP client with a per-service timeout, or nil so
// the service keeps its own default.
func timeoutClient(seconds int) *http.Client {
	if seconds <= 0 {
		return nil
	}
	return &http.Client{Timeout: time.Duration(seconds) * time.Second}
}

// Process resolves rawURL into a finished record. Concurrent calls for the
// same URL share one execution; a cached record is returned verbatim.
func (p *Pipeline) Process(ctx context.Context, rawURL string) (record.Record, error) {
	ref, err := identity.Parse(rawURL)
	if err != nil {
		return record.Record{}, err
	}
	uid := identity.UID(rawURL)

	result, err, _ := p.group.Do(uid, func() (any, error) {
		return p.process(ctx, rawURL, uid, ref)
	})
	if err != nil {
		return record.Record{}, err
	}
	return result.(record.Record), nil
}

func (p *Pipeline) process(ctx context.Context, rawURL, uid string, ref identity.Ref) (record.Record, error) {
	logger := p.logger.With("uid", uid, "system", string(ref.System))

	cached, hit, err := p.cache.Get(ctx, uid)
	if err != nil {
		return record.Record{}, err
	}
	if hit {
		logger.Info("cache hit")
		return cached, nil
	}

	fetcher, ok := p.fetchers[ref.System]
	if !ok {
		return record.Record{}, services.Wrap(services.ErrInvalidInput, "pipeline", "process",
			fmt.Sprintf("no fetcher configured for %s URLs", ref.System), nil)
	}

	meta, err := fetcher.FetchMetadata(ctx, ref)
	if err != nil {
		return record.Record{}, err
	}

	text, textErr := fetcher.FetchText(ctx, ref)
	if textErr != nil {
		logger.Warn("text retrieval failed, continuing without text", "error", textErr)
		text = ""
	}

	summary, summarized, summaryErr := p.summarize(ctx, logger, text)

	rec := assemble(uid, meta, summary)
	htm, pdf := fetcher.DocumentLinks(ref)
	rec.HTMLink = htm
	rec.PDFLink = pdf

	// Narration only makes sense over a real summary. Placeholder
	// summaries and summarizer failures both skip it.
	if summarized {
		p.narrate(ctx, logger, uid, summary, &rec)
	}

	// The cache is write-once with no expiry, so a placeholder that exists
	// only because an upstream or the summarizer hiccuped must not be made
	// permanent. Those records are served but left uncached for retry.
	if textErr != nil || summaryErr != nil {
		logger.Warn("transient degradation, skipping cache write")
		return rec, nil
	}
	if err := p.cache.Put(ctx, uid, rec); err != nil {
		logger.Warn("cache write failed, returning uncached record", "error", err)
	}
	return rec, nil
}

// summarize returns the summary text, whether it came from the model, and
// the summarizer error if one occurred. A summarizer failure downgrades to a
// placeholder rather than failing the document.
func (p *Pipeline) summarize(ctx context.Context, logger *slog.Logger, text string) (string, bool, error) {
	summary, err := p.summarizer.Summarize(ctx, text)
	if err != nil {
		logger.Warn("summarization failed, storing placeholder", "error", err)
		return record.NoSummaryGenerated, false, err
	}
	if summary == record.NoContentSummary {
		return summary, false, nil
	}
	return summary, true, nil
}

// narrate produces and uploads the audio and subtitle artifacts. Any failure
// leaves the record's artifact paths null; the record itself still succeeds.
func (p *Pipeline) narrate(ctx context.Context, logger *slog.Logger, uid, summary string, rec *record.Record) {
	if p.narrator == nil || p.speech == nil || p.store == nil {
		return
	}
	speechText, err := p.narrator.Rewrite(ctx, summary)
	if err != nil {
		logger.Warn("narration rewrite failed, skipping audio", "error", err)
		return
	}
	synth, err := p.speech.Synthesize(ctx, speechText)
	if err != nil {
		logger.Warn("speech synthesis failed, skipping audio", "error", err)
		return
	}
	cues, err := subtitles.Segment(synth.Alignment, subtitles.MinCueSeconds)
	if err != nil {
		logger.Warn("subtitle segmentation failed, skipping audio", "error", err)
		return
	}
	audioKey, srtKey, err := p.store.UploadNarration(uid, synth.Audio, subtitles.RenderSRT(cues))
	if err != nil {
		logger.Warn("artifact upload failed, skipping audio", "error", err)
		return
	}
	rec.AudioPath = &audioKey
	rec.SRTPath = &srtKey
	logger.Info("narration artifacts stored", "audio", audioKey, "srt", srtKey)
}

func assemble(uid string, meta record.Metadata, summary string) record.Record {
	return record.Record{
		SchemaVersion:    record.SchemaVersion,
		ID:               uid,
		JSONType:         string(meta.Type),
		Type:             meta.Type,
		Title:            meta.Title,
		Number:           meta.Number,
		IntroducedDate:   meta.IntroducedDate,
		OriginChamber:    meta.OriginChamber,
		CurrentChamber:   meta.CurrentChamber,
		Session:          meta.Session,
		PolicyArea:       meta.PolicyArea,
		LatestAction:     meta.LatestAction,
		LatestActionDate: meta.LatestActionDate,
		Sponsor:          meta.Sponsor,
		SponsorState:     meta.SponsorState,
		SponsorParty:     meta.SponsorParty,
		SponsorID:        meta.SponsorID,
		LawType:          meta.LawType,
		LawNumber:        meta.LawNumber,
		Summary:          summary,
	}
}
