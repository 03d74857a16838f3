package mediastore

import (
	"bytes"
	"errors"
	"strings"

	storage_go "github.com/supabase-community/storage-go"

	"billboard/internal/services"
)

const (
	audioSuffix = "_en.mp3"
	srtSuffix   = "_en.srt"

	audioContentType = "audio/mpeg"
	srtContentType   = "application/x-subrip"
)

// Config describes the object store configuration.
type Config struct {
	URL        string
	ServiceKey string
	Bucket     string
}

// Store writes narration artifacts into a storage bucket.
type Store struct {
	client *storage_go.Client
	bucket string
}

// New creates a Store from the supplied configuration.
func New(cfg Config) (*Store, error) {
	url := strings.TrimSpace(cfg.URL)
	key := strings.TrimSpace(cfg.ServiceKey)
	bucket := strings.TrimSpace(cfg.Bucket)
	if url == "" || key == "" || bucket == "" {
		return nil, errors.New("mediastore: url, service key, and bucket are required")
	}
	return &Store{
		client: storage_go.NewClient(url, key, nil),
		bucket: bucket,
	}, nil
}

// UploadNarration stores the audio and subtitle artifacts for uid and returns
// their object keys. Existing objects for the same uid are replaced.
func (s *Store) UploadNarration(uid string, audio []byte, srt string) (string, string, error) {
	audioKey := uid + audioSuffix
	srtKey := uid + srtSuffix

	if err := s.upload(audioKey, audio, audioContentType); err != nil {
		return "", "", services.Wrap(services.ErrSynthesis, "mediastore", "upload audio", audioKey, err)
	}
	if err := s.upload(srtKey, []byte(srt), srtContentType); err != nil {
		return "", "", services.Wrap(services.ErrSynthesis, "mediastore", "upload subtitles", srtKey, err)
	}
	return audioKey, srtKey, nil
}

func (s *Store) upload(key string, data []byte, contentType string) error {
	upsert := true
	_, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	return err
}
