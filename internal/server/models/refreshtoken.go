package models

import "time"

// RefreshToken is one stored refresh credential. A token is valid only
// while its row exists and ExpiresAt is in the future; deleting the row
// is how a token gets revoked.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at the given time.
func (t *RefreshToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
