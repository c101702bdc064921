// Package users declares the server-side repository contract for account
// records.
package users

import (
	"context"
	"time"

	"github.com/TrisanthBST/speech-to-text-backend/internal/server/models"
)

// Repository defines persistence operations over user accounts.
type Repository interface {
	// Create inserts a new user. The email must be unique; a duplicate
	// yields common.ErrEmailExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the user with the given normalized email, or
	// common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given ID, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// RecordLoginFailure stores the new attempt counter and lock deadline
	// produced by a failed login.
	RecordLoginFailure(ctx context.Context, id string, attempts int, lockUntil *time.Time) error

	// RecordLoginSuccess clears the lockout bookkeeping and stamps the
	// last-login time.
	RecordLoginSuccess(ctx context.Context, id string, at time.Time) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id string, passwordHash string) error

	// UpdateProfile stores the mutable profile fields (name, bio, avatar,
	// preferences) and returns the refreshed record.
	UpdateProfile(ctx context.Context, user *models.User) (*models.User, error)
}
