package services

import (
	"time"

	"github.com/TrisanthBST/speech-to-text-backend/internal/server/models"
)

const (
	// maxLoginAttempts is the number of consecutive password failures
	// that locks an account.
	maxLoginAttempts = 5
	// lockoutDuration is how long a locked account stays locked.
	lockoutDuration = 2 * time.Hour
)

// applyLoginFailure computes the counter state to persist after a failed
// password check. A failure observed after a lock has expired starts a new
// counting window at 1; otherwise the counter increments, and reaching
// maxLoginAttempts sets a lock expiring at now+lockoutDuration.
func applyLoginFailure(u *models.User, now time.Time) (attempts int, lockUntil *time.Time) {
	if u.LockUntil != nil && !now.Before(*u.LockUntil) {
		return 1, nil
	}
	attempts = u.LoginAttempts + 1
	if attempts >= maxLoginAttempts {
		t := now.Add(lockoutDuration)
		return attempts, &t
	}
	return attempts, nil
}
