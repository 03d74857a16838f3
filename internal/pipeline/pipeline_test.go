package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"billboard/internal/identity"
	"billboard/internal/logging"
	"billboard/internal/record"
	"billboard/internal/services"
	"billboard/internal/services/elevenlabs"
	"billboard/internal/subtitles"
	"billboard/internal/testsupport"
)

const testURL = "https://api.govinfo.gov/packages/BILLS-118hr5376enr/summary"

type fakeCache struct {
	mu      sync.Mutex
	records map[string]record.Record
	getErr  error
	putErr  error
	gets    int
	puts    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{records: make(map[string]record.Record)}
}

func (c *fakeCache) Get(_ context.Context, uid string) (record.Record, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return record.Record{}, false, c.getErr
	}
	rec, ok := c.records[uid]
	return rec, ok, nil
}

func (c *fakeCache) Put(_ context.Context, uid string, rec record.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	if c.putErr != nil {
		return c.putErr
	}
	c.records[uid] = rec
	return nil
}

type fakeFetcher struct {
	mu       sync.Mutex
	meta     record.Metadata
	metaErr  error
	text     string
	textErr  error
	metaHits int
}

func (f *fakeFetcher) FetchMetadata(context.Context, identity.Ref) (record.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metaHits++
	return f.meta, f.metaErr
}

func (f *fakeFetcher) FetchText(context.Context, identity.Ref) (string, error) {
	return f.text, f.textErr
}

func (f *fakeFetcher) DocumentLinks(identity.Ref) (string, string) {
	return "https://example.org/htm", "https://example.org/pdf"
}

type fakeSummarizer struct {
	err error
}

func (s *fakeSummarizer) Summarize(_ context.Context, content string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if strings.TrimSpace(content) == "" {
		return record.NoContentSummary, nil
	}
	return "1. Plain summary.", nil
}

type fakeNarrator struct {
	err error
}

func (n *fakeNarrator) Rewrite(_ context.Context, summary string) (string, error) {
	if n.err != nil {
		return "", n.err
	}
	return "Spoken version of the summary.", nil
}

type fakeSpeech struct {
	err error
}

func (s *fakeSpeech) Synthesize(context.Context, string) (elevenlabs.Synthesis, error) {
	if s.err != nil {
		return elevenlabs.Synthesis{}, s.err
	}
	return elevenlabs.Synthesis{
		Audio: []byte{1, 2, 3},
		Alignment: subtitles.Alignment{
			Characters: []string{"H", "i"},
			Starts:     []float64{0.0, 0.1},
			Ends:       []float64{0.1, 0.2},
		},
	}, nil
}

type fakeStore struct {
	err     error
	uploads int
}

func (s *fakeStore) UploadNarration(uid string, _ []byte, _ string) (string, string, error) {
	s.uploads++
	if s.err != nil {
		return "", "", s.err
	}
	return uid + "_en.mp3", uid + "_en.srt", nil
}

type harness struct {
	pipeline *Pipeline
	cache    *fakeCache
	fetcher  *fakeFetcher
	store    *fakeStore
	summ     *fakeSummarizer
	narr     *fakeNarrator
	speech   *fakeSpeech
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		cache:   newFakeCache(),
		fetcher: &fakeFetcher{meta: record.Metadata{Type: record.TypeBill, Title: "Test Act"}, text: "SEC 1."},
		store:   &fakeStore{},
		summ:    &fakeSummarizer{},
		narr:    &fakeNarrator{},
		speech:  &fakeSpeech{},
	}
	p, err := New(Options{
		Logger:     logging.NewNop(),
		Cache:      h.cache,
		Store:      h.store,
		Summarizer: h.summ,
		Narrator:   h.narr,
		Speech:     h.speech,
		Fetchers:   map[identity.System]Fetcher{identity.SystemGovInfo: h.fetcher},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	h.pipeline = p
	return h
}

func TestProcessBuildsFullRecord(t *testing.T) {
	h := newHarness(t)
	rec, err := h.pipeline.Process(context.Background(), testURL)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if rec.ID != identity.UID(testURL) {
		t.Fatalf("record id is not the uid: %q", rec.ID)
	}
	if rec.SchemaVersion != record.SchemaVersion || rec.JSONType != "bill" {
		t.Fatalf("unexpected record envelope %+v", rec)
	}
	if rec.Summary != "1. Plain summary." {
		t.Fatalf("unexpected summary %q", rec.Summary)
	}
	if rec.HTMLink == "" || rec.PDFLink == "" {
		t.Fatal("document links missing from record")
	}
	if rec.AudioPath == nil || rec.SRTPath == nil {
		t.Fatal("expected narration artifact paths")
	}
	if *rec.AudioPath != rec.ID+"_en.mp3" || *rec.SRTPath != rec.ID+"_en.srt" {
		t.Fatalf("unexpected artifact keys %q %q", *rec.AudioPath, *rec.SRTPath)
	}
	if h.cache.puts != 1 {
		t.Fatalf("expected one cache write, got %d", h.cache.puts)
	}
}

func TestProcessReturnsCachedRecordWithoutFetching(t *testing.T) {
	h := newHarness(t)
	uid := identity.UID(testURL)
	h.cache.records[uid] = record.Record{SchemaVersion: record.SchemaVersion, ID: uid, Summary: "cached"}

	rec, err := h.pipeline.Process(context.Background(), testURL)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if rec.Summary != "cached" {
		t.Fatalf("expected cached record, got %+v", rec)
	}
	if h.fetcher.metaHits != 0 {
		t.Fatalf("cache hit must not fetch, got %d fetches", h.fetcher.metaHits)
	}
}

func TestProcessInvalidURLFailsBeforeAnyCall(t *testing.T) {
	h := newHarness(t)
	_, err := h.pipeline.Process(context.Background(), "https://example.com/not-a-bill")
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if h.cache.gets != 0 || h.fetcher.metaHits != 0 {
		t.Fatal("invalid URL must fail before touching cache or upstream")
	}
}

func TestProcessMetadataFailureAborts(t *testing.T) {
	h := newHarness(t)
	h.fetcher.metaErr = services.Wrap(services.ErrUpstreamUnavailable, "govinfo", "fetch metadata", "http 502", nil)
	_, err := h.pipeline.Process(context.Background(), testURL)
	if !errors.Is(err, services.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if h.cache.puts != 0 {
		t.Fatal("failed document must not be cached")
	}
}

func TestProcessCacheReadFailureAborts(t *testing.T) {
	h := newHarness(t)
	h.cache.getErr = services.Wrap(services.ErrCache, "workerskv", "get", "http 500", nil)
	_, err := h.pipeline.Process(context.Background(), testURL)
	if !errors.Is(err, services.ErrCache) {
		t.Fatalf("expected ErrCache, got %v", err)
	}
	if h.fetcher.metaHits != 0 {
		t.Fatal("cache read failure must abort before fetching")
	}
}

func TestProcessNoTextStoresPlaceholderAndSkipsNarration(t *testing.T) {
	h := newHarness(t)
	h.fetcher.text = ""
	rec, err := h.pipeline.Process(context.Background(), testURL)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if rec.Summary != record.NoContentSummary {
		t.Fatalf("expected no-content placeholder, got %q", rec.Summary)
	}
	if rec.AudioPath != nil || rec.SRTPath != nil {
		t.Fatal("placeholder summary must not be narrated")
	}
	if h.store.uploads != 0 {
		t.Fatalf("expected no uploads, got %d", h.store.uploads)
	}
	if h.cache.puts != 1 {
		t.Fatalf("a genuinely text-free document is a final outcome and must cache, got %d writes", h.cache.puts)
	}
}

func TestProcessTextFetchFailureIsNotCached(t *testing.T) {
	h := newHarness(t)
	h.fetcher.textErr = services.Wrap(services.ErrUpstreamUnavailable, "govinfo", "fetch text", "http 502", nil)
	rec, err := h.pipeline.Process(context.Background(), testURL)
	if err != nil {
		t.Fatalf("text failure must not fail the document: %v", err)
	}
	if rec.Summary != record.NoContentSummary {
		t.Fatalf("expected no-content placeholder, got %q", rec.Summary)
	}
	if h.cache.puts != 0 {
		t.Fatalf("transient placeholder must not be made permanent, got %d cache writes", h.cache.puts)
	}
}

func TestProcessSummarizerFailureDegrades(t *testing.T) {
	h := newHarness(t)
	h.summ.err = services.Wrap(services.ErrSynthesis, "gemini", "summarize", "http 429", nil)
	rec, err := h.pipeline.Process(context.Background(), testURL)
	if err != nil {
		t.Fatalf("summarizer failure must not fail the document: %v", err)
	}
	if rec.Summary != record.NoSummaryGenerated {
		t.Fatalf("expected no-summary placeholder, got %q", rec.Summary)
	}
	if rec.AudioPath != nil {
		t.Fatal("failed summary must not be narrated")
	}
	if h.cache.puts != 0 {
		t.Fatalf("transient placeholder must not be made permanent, got %d cache writes", h.cache.puts)
	}
}

func TestProcessSynthesisFailureLeavesPathsNull(t *testing.T) {
	h := newHarness(t)
	h.speech.err = services.Wrap(services.ErrSynthesis, "elevenlabs", "synthesize", "http 500", nil)
	rec, err := h.pipeline.Process(context.Background(), testURL)
	if err != nil {
		t.Fatalf("synthesis failure must not fail the document: %v", err)
	}
	if rec.Summary != "1. Plain summary." {
		t.Fatalf("summary must survive synthesis failure, got %q", rec.Summary)
	}
	if rec.AudioPath != nil || rec.SRTPath != nil {
		t.Fatal("expected null artifact paths after synthesis failure")
	}
	if h.cache.puts != 1 {
		t.Fatal("degraded record must still be cached")
	}
}

func TestProcessUploadFailureLeavesPathsNull(t *testing.T) {
	h := newHarness(t)
	h.store.err = errors.New("bucket unavailable")
	rec, err := h.pipeline.Process(context.Background(), testURL)
	if err != nil {
		t.Fatalf("upload failure must not fail the document: %v", err)
	}
	if rec.AudioPath != nil || rec.SRTPath != nil {
		t.Fatal("expected null artifact paths after upload failure")
	}
}

func TestProcessCacheWriteFailureStillSucceeds(t *testing.T) {
	h := newHarness(t)
	h.cache.putErr = services.Wrap(services.ErrCache, "workerskv", "put", "http 500", nil)
	rec, err := h.pipeline.Process(context.Background(), testURL)
	if err != nil {
		t.Fatalf("cache write failure must not fail the document: %v", err)
	}
	if rec.Summary == "" {
		t.Fatalf("expected full record, got %+v", rec)
	}
}

func TestProcessConcurrentRequestsShareOneExecution(t *testing.T) {
	h := newHarness(t)
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	slow := &slowSummarizer{inner: h.summ, started: started, release: release}
	h.pipeline.summarizer = slow

	var wg sync.WaitGroup
	results := make([]record.Record, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := h.pipeline.Process(context.Background(), testURL)
			if err != nil {
				t.Errorf("Process returned error: %v", err)
				return
			}
			results[i] = rec
		}(i)
	}
	<-started
	close(release)
	wg.Wait()

	if h.fetcher.metaHits != 1 {
		t.Fatalf("expected one upstream fetch for concurrent requests, got %d", h.fetcher.metaHits)
	}
	if results[0].ID != results[1].ID || results[0].Summary != results[1].Summary {
		t.Fatalf("concurrent requests diverged: %+v vs %+v", results[0], results[1])
	}
}

func TestFromConfigBuildsConfiguredFetchers(t *testing.T) {
	p, err := FromConfig(testsupport.NewConfig(t), logging.NewNop())
	if err != nil {
		t.Fatalf("FromConfig returned error: %v", err)
	}
	if _, ok := p.fetchers[identity.SystemGovInfo]; !ok {
		t.Fatal("govinfo fetcher missing")
	}
	if _, ok := p.fetchers[identity.SystemCongress]; !ok {
		t.Fatal("congress fetcher missing")
	}
}

func TestFromConfigRequiresAtLeastOneUpstream(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutGovInfo(), testsupport.WithoutCongress())
	if _, err := FromConfig(cfg, logging.NewNop()); err == nil {
		t.Fatal("expected error with no upstream credentials")
	}
}

type slowSummarizer struct {
	inner   Summarizer
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *slowSummarizer) Summarize(ctx context.Context, content string) (string, error) {
	s.once.Do(func() { s.started <- struct{}{} })
	<-s.release
	return s.inner.Summarize(ctx, content)
}
