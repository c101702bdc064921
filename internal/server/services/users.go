// Package services contains server-side business logic. UserService owns the
// account lifecycle: registration, login with lockout tracking, token refresh
// with rotation, logout, and profile/password updates.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/TrisanthBST/speech-to-text-backend/internal/common"
	"github.com/TrisanthBST/speech-to-text-backend/internal/dbx"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/auth"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/config"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/models"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ProfileUpdate carries the mutable profile fields. Nil pointers leave the
// stored value unchanged; email is deliberately absent because it is
// immutable.
type ProfileUpdate struct {
	Name          *string
	Bio           *string
	AvatarURL     *string
	Theme         *string
	Language      *string
	Notifications *bool
}

// UserService provides authentication and account operations:
//   - Register: create users and issue a first token pair
//   - Login: verify credentials, track failures, and mint tokens
//   - RefreshToken: rotate refresh tokens and mint new access tokens
//   - Logout / LogoutAll: revoke stored refresh tokens
//   - ChangePassword / UpdateProfile: account maintenance
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	tokens                       *auth.TokenManager
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokens: auth.NewTokenManager(auth.TokenOptions{
			AccessSecret:  cfg.AccessTokenSecret,
			RefreshSecret: cfg.RefreshTokenSecret,
			AccessTTL:     cfg.AccessTokenValidityDuration,
			RefreshTTL:    cfg.RefreshTokenValidityDuration,
			Issuer:        cfg.TokenIssuer,
			Audience:      cfg.TokenAudience,
		}),
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
	}
}

// Register creates a user with the default role and preferences and returns
// the stored record together with a first token pair.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, *TokenPair, error) {
	email = NormalizeEmail(email)
	if err := validateName(name); err != nil {
		return nil, nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Preferences: models.Preferences{
			Theme:         "system",
			Language:      "en",
			Notifications: true,
		},
	}

	user, err = s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrEmailExists) {
			return nil, nil, common.ErrEmailExists
		}
		return nil, nil, fmt.Errorf("error creating user: %w", err)
	}

	pair, err := s.generateTokenPair(ctx, s.db, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login verifies the credentials for the given email. Lock state is checked
// before the password so a locked account answers the same regardless of the
// password supplied. Failed checks advance the lockout counter; a success
// resets it and stamps the last-login time.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	email = NormalizeEmail(email)
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("error loading user: %w", err)
	}

	now := s.now()
	if user.Locked(now) {
		return nil, nil, common.ErrAccountLocked
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		attempts, lockUntil := applyLoginFailure(user, now)
		if err := repo.RecordLoginFailure(ctx, user.ID, attempts, lockUntil); err != nil {
			return nil, nil, fmt.Errorf("error recording failed login: %w", err)
		}
		return nil, nil, common.ErrInvalidCredentials
	}

	if err := repo.RecordLoginSuccess(ctx, user.ID, now); err != nil {
		return nil, nil, fmt.Errorf("error recording login: %w", err)
	}
	user.LoginAttempts = 0
	user.LockUntil = nil
	user.LastLogin = &now

	pair, err := s.generateTokenPair(ctx, s.db, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. A token whose signature verifies but which is no
// longer in the stored set has been revoked or already rotated and is
// rejected as invalid.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	stored, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if stored.UserID != claims.Subject || stored.Expired(s.now()) {
		return nil, common.ErrInvalidToken
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, tx, user)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout removes one stored refresh token. Removing a token that is already
// gone is not an error, so repeated logouts stay silent.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

// LogoutAll revokes every stored refresh token for the user.
func (s *UserService) LogoutAll(ctx context.Context, userID string) error {
	if err := s.repomanager.RefreshTokens(s.db).DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("error deleting refresh tokens: %w", err)
	}
	return nil
}

// ChangePassword re-verifies the current password, stores a fresh hash of the
// new one, and revokes all refresh tokens so existing sessions must
// re-authenticate.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("error loading user: %w", err)
	}
	if !auth.CheckPassword(currentPassword, user.PasswordHash) {
		return fmt.Errorf("%w: current password is incorrect", common.ErrValidation)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePassword(ctx, userID, hash); err != nil {
			return fmt.Errorf("error updating password: %w", err)
		}
		if err := s.repomanager.RefreshTokens(tx).DeleteAllForUser(ctx, userID); err != nil {
			return fmt.Errorf("error revoking refresh tokens: %w", err)
		}
		return nil
	})
	return err
}

// UpdateProfile applies the provided fields to the user's profile and returns
// the refreshed record.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if upd.Name != nil {
		if err := validateName(*upd.Name); err != nil {
			return nil, err
		}
		user.Name = *upd.Name
	}
	if upd.Bio != nil {
		user.Bio = *upd.Bio
	}
	if upd.AvatarURL != nil {
		user.AvatarURL = *upd.AvatarURL
	}
	if upd.Theme != nil {
		switch *upd.Theme {
		case "light", "dark", "system":
			user.Preferences.Theme = *upd.Theme
		default:
			return nil, fmt.Errorf("%w: theme must be light, dark or system", common.ErrValidation)
		}
	}
	if upd.Language != nil {
		user.Preferences.Language = *upd.Language
	}
	if upd.Notifications != nil {
		user.Preferences.Notifications = *upd.Notifications
	}

	user, err = repo.UpdateProfile(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return user, nil
}

// Authenticate verifies an access token and loads the live account record, so
// revocation-relevant state (deletion, a fresh lock) is honored on every
// request rather than at token issue time.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if user.Locked(s.now()) {
		return nil, common.ErrAccountLocked
	}
	return user, nil
}

func (s *UserService) generateTokenPair(ctx context.Context, db dbx.DBTX, user *models.User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return nil, fmt.Errorf("error signing access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(user)
	if err != nil {
		return nil, fmt.Errorf("error signing refresh token: %w", err)
	}
	if err := s.repomanager.RefreshTokens(db).Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
