package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/TrisanthBST/speech-to-text-backend/internal/common"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/audiostore"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/models"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/repositories/repomanager"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/transcriber"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// AudioUpload is one submitted audio file together with its request metadata.
type AudioUpload struct {
	Filename    string
	ContentType string
	Title       string
	Language    string
	Data        []byte
}

// TranscriptPage is one page of a user's transcript history.
type TranscriptPage struct {
	Items []*models.Transcript
	Total int
	Page  int
	Limit int
}

// TranscriptService runs the transcription workflow: store the audio, send it
// to the speech provider, and persist the resulting transcript.
type TranscriptService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       audiostore.Store
	provider    transcriber.Provider
}

func NewTranscriptService(db *sql.DB, m repomanager.RepositoryManager, store audiostore.Store, provider transcriber.Provider) *TranscriptService {
	return &TranscriptService{
		db:          db,
		repomanager: m,
		store:       store,
		provider:    provider,
	}
}

// NewStorageKey scopes object keys by owner so keys never collide across
// users.
func NewStorageKey(userID string) string {
	return fmt.Sprintf("audio/%s/%v", userID, uuid.New())
}

// Create stores the uploaded audio, transcribes it, and persists the result.
// The stored object is removed again when a later step fails.
func (s *TranscriptService) Create(ctx context.Context, userID string, up *AudioUpload) (*models.Transcript, error) {
	if len(up.Data) == 0 {
		return nil, fmt.Errorf("%w: audio file is empty", common.ErrValidation)
	}

	key := NewStorageKey(userID)
	if err := s.store.Put(ctx, key, up.ContentType, up.Data); err != nil {
		return nil, fmt.Errorf("error storing audio: %w", err)
	}

	res, err := s.provider.Transcribe(ctx, up.Data, up.ContentType, up.Language)
	if err != nil {
		_ = s.store.Delete(ctx, key)
		return nil, fmt.Errorf("error transcribing audio: %w", err)
	}

	title := strings.TrimSpace(up.Title)
	if title == "" {
		title = titleFromFilename(up.Filename)
	}

	tr := &models.Transcript{
		UserID:          userID,
		Title:           title,
		Text:            res.Text,
		Provider:        res.Provider,
		Language:        res.Language,
		DurationSeconds: res.DurationSeconds,
		AudioKey:        key,
		AudioMime:       up.ContentType,
		SizeBytes:       int64(len(up.Data)),
	}

	tr, err = s.repomanager.Transcripts(s.db).Create(ctx, tr)
	if err != nil {
		_ = s.store.Delete(ctx, key)
		return nil, fmt.Errorf("error creating transcript: %w", err)
	}
	return tr, nil
}

// List returns one page of the user's transcripts, newest first. Page and
// limit are clamped to sane bounds.
func (s *TranscriptService) List(ctx context.Context, userID string, page, limit int) (*TranscriptPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	items, total, err := s.repomanager.Transcripts(s.db).ListByUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("error listing transcripts: %w", err)
	}
	return &TranscriptPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// Get returns the transcript together with a short-lived download link for
// its source audio.
func (s *TranscriptService) Get(ctx context.Context, userID, id string) (*models.Transcript, string, error) {
	tr, err := s.repomanager.Transcripts(s.db).GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrNotFound
		}
		return nil, "", fmt.Errorf("error loading transcript: %w", err)
	}

	var audioURL string
	if tr.AudioKey != "" {
		audioURL, err = s.store.PresignGet(ctx, tr.AudioKey)
		if err != nil {
			return nil, "", fmt.Errorf("error signing audio link: %w", err)
		}
	}
	return tr, audioURL, nil
}

// Delete removes the transcript row and then its stored audio. The object
// delete is best-effort; an orphaned object is preferable to a transcript
// that cannot be deleted.
func (s *TranscriptService) Delete(ctx context.Context, userID, id string) error {
	tr, err := s.repomanager.Transcripts(s.db).GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("error loading transcript: %w", err)
	}

	if err := s.repomanager.Transcripts(s.db).Delete(ctx, id, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("error deleting transcript: %w", err)
	}

	if tr.AudioKey != "" {
		_ = s.store.Delete(ctx, tr.AudioKey)
	}
	return nil
}

func titleFromFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." {
		return "Untitled transcript"
	}
	return base
}
