// Package transcriber converts uploaded audio into text, either through an
// external speech API or a local mock for keyless development setups.
package transcriber

import (
	"context"

	"github.com/TrisanthBST/speech-to-text-backend/internal/server/config"
)

// Result is the outcome of one transcription call.
type Result struct {
	Text            string
	Language        string
	DurationSeconds float64
	Provider        string
}

// Provider turns raw audio bytes into a transcription Result.
type Provider interface {
	Transcribe(ctx context.Context, audio []byte, contentType, language string) (*Result, error)
}

// FromConfig selects the provider: the HTTP client when an API key is
// configured, the mock otherwise.
func FromConfig(cfg *config.Config) Provider {
	if cfg.TranscriberAPIKey == "" {
		return &MockProvider{}
	}
	return NewHTTPProvider(cfg.TranscriberBaseURL, cfg.TranscriberAPIKey)
}
