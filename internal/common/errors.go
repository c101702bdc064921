// Package common defines shared constants and sentinel errors used across
// the server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Validation / account errors.
	ErrValidation  = errors.New("validation error")
	ErrEmailExists = errors.New("email already registered")

	// Authentication errors. ErrInvalidCredentials covers both "no such user"
	// and "wrong password" so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")

	// Token lifecycle errors. Verification failures collapse to these two;
	// expired is kept distinct so clients can attempt a silent refresh.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
