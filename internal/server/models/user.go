// Package models defines server-side data models persisted in the database.
package models

import "time"

// Roles assignable to a user account.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the canonical account record. PasswordHash and the lockout
// bookkeeping never leave the server: they are excluded from JSON and from
// the principal payloads handed to handlers.
type User struct {
	ID            string      `json:"id"`
	Email         string      `json:"email"`
	Name          string      `json:"name"`
	PasswordHash  string      `json:"-"`
	Role          string      `json:"role"`
	LoginAttempts int         `json:"-"`
	LockUntil     *time.Time  `json:"-"`
	LastLogin     *time.Time  `json:"lastLogin,omitempty"`
	Bio           string      `json:"bio,omitempty"`
	AvatarURL     string      `json:"avatarUrl,omitempty"`
	Preferences   Preferences `json:"preferences"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// Preferences holds per-user presentation settings.
type Preferences struct {
	Theme         string `json:"theme"`
	Language      string `json:"language"`
	Notifications bool   `json:"notifications"`
}

// Locked reports whether the account lock is still in force at now.
// The lock state is always derived from LockUntil, never stored separately.
func (u *User) Locked(now time.Time) bool {
	return u.LockUntil != nil && now.Before(*u.LockUntil)
}
