package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/TrisanthBST/speech-to-text-backend/internal/common"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/models"
)

// Claims carried by both token classes: the registered set plus the
// subject's email and role.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// TokenOptions configures a TokenManager.
type TokenOptions struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Audience      string
}

// TokenManager issues and verifies the two JWT classes. Access and refresh
// tokens are signed with separate HMAC secrets, so a token of one class
// never passes verification as the other.
type TokenManager struct {
	opts TokenOptions
}

func NewTokenManager(opts TokenOptions) *TokenManager {
	return &TokenManager{opts: opts}
}

// IssueAccess signs a short-lived access token for the user.
func (m *TokenManager) IssueAccess(user *models.User) (string, error) {
	return m.issue(user, []byte(m.opts.AccessSecret), m.opts.AccessTTL)
}

// IssueRefresh signs a long-lived refresh token for the user. The caller is
// responsible for recording the returned string in the user's active set;
// a valid signature alone never authorizes a refresh.
func (m *TokenManager) IssueRefresh(user *models.User) (string, error) {
	return m.issue(user, []byte(m.opts.RefreshSecret), m.opts.RefreshTTL)
}

// issue signs a token for the user. The jti makes every token unique even
// when two are minted within the same second; refresh tokens are stored by
// their raw string, which must not collide.
func (m *TokenManager) issue(user *models.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			Issuer:    m.opts.Issuer,
			Audience:  jwt.ClaimStrings{m.opts.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: user.Email,
		Role:  user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyAccess validates an access token and returns its claims.
func (m *TokenManager) VerifyAccess(tokenString string) (*Claims, error) {
	return m.verify(tokenString, []byte(m.opts.AccessSecret))
}

// VerifyRefresh validates a refresh token signature and returns its claims.
func (m *TokenManager) VerifyRefresh(tokenString string) (*Claims, error) {
	return m.verify(tokenString, []byte(m.opts.RefreshSecret))
}

// verify collapses every parser failure into one of two sentinels: a token
// that is sound except for its lifetime maps to common.ErrTokenExpired,
// everything else to common.ErrInvalidToken.
func (m *TokenManager) verify(tokenString string, secret []byte) (*Claims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if m.opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(m.opts.Issuer))
	}
	if m.opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(m.opts.Audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
