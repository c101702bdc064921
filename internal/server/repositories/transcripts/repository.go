// Package transcripts declares the server-side repository contract for
// persisted transcription results.
package transcripts

import (
	"context"

	"github.com/TrisanthBST/speech-to-text-backend/internal/server/models"
)

// Repository defines owner-scoped persistence operations over transcripts.
// Every read and delete is keyed by both transcript ID and owner, so a
// foreign record is indistinguishable from an absent one.
type Repository interface {
	// Create inserts a new transcript and returns it with the
	// store-assigned fields populated.
	Create(ctx context.Context, tr *models.Transcript) (*models.Transcript, error)

	// ListByUser returns one page of the user's transcripts, newest first,
	// together with the total number of the user's transcripts.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Transcript, int, error)

	// GetByID returns the transcript, or common.ErrNotFound when it is
	// absent or belongs to another user.
	GetByID(ctx context.Context, id, userID string) (*models.Transcript, error)

	// Delete removes the transcript, or returns common.ErrNotFound when it
	// is absent or belongs to another user.
	Delete(ctx context.Context, id, userID string) error
}
