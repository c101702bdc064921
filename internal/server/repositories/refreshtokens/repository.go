// Package refreshtokens declares the server-side repository contract for
// the per-user set of active refresh tokens.
package refreshtokens

import (
	"context"
	"time"

	"github.com/TrisanthBST/speech-to-text-backend/internal/server/models"
)

// MaxPerUser caps how many refresh tokens a user may hold at once. Inserting
// beyond the cap evicts the oldest tokens.
const MaxPerUser = 5

// Repository defines operations for issuing, retrieving, and revoking
// refresh tokens. Membership in this set is the revocation check: a token
// absent here is dead no matter how sound its signature is.
type Repository interface {
	// Create stores a new refresh token for userID with an expiry of
	// now+validity, then trims the user's set to the MaxPerUser newest rows.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find looks up a refresh token by its raw string and returns its
	// metadata, or common.ErrNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a refresh token by its raw string. Deleting a
	// non-existent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteAllForUser clears the user's entire set (logout-all,
	// password change).
	DeleteAllForUser(ctx context.Context, userID string) error
}
