package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/TrisanthBST/speech-to-text-backend/internal/common"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/models"
)

func newTestManager() *TokenManager {
	return NewTokenManager(TokenOptions{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		Issuer:        "stt-test",
		Audience:      "stt-client",
	})
}

func testUser() *models.User {
	return &models.User{ID: "user-123", Email: "user@example.com", Role: models.RoleUser}
}

func TestIssueAndVerifyAccess_Success(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	u := testUser()

	tok, err := m.IssueAccess(u)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	claims, err := m.VerifyAccess(tok)
	if err != nil {
		t.Fatalf("VerifyAccess error: %v", err)
	}
	if claims.Subject != u.ID {
		t.Fatalf("subject mismatch: got %q want %q", claims.Subject, u.ID)
	}
	if claims.Email != u.Email {
		t.Fatalf("email mismatch: got %q want %q", claims.Email, u.Email)
	}
	if claims.Role != u.Role {
		t.Fatalf("role mismatch: got %q want %q", claims.Role, u.Role)
	}
	if claims.Issuer != "stt-test" {
		t.Fatalf("issuer mismatch: got %q", claims.Issuer)
	}
}

func TestIssueAndVerifyRefresh_Success(t *testing.T) {
	t.Parallel()

	m := newTestManager()

	tok, err := m.IssueRefresh(testUser())
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}

	claims, err := m.VerifyRefresh(tok)
	if err != nil {
		t.Fatalf("VerifyRefresh error: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Fatalf("subject mismatch: got %q", claims.Subject)
	}
}

func TestIssueRefresh_TokensAreUnique(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	u := testUser()

	a, err := m.IssueRefresh(u)
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}
	b, err := m.IssueRefresh(u)
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}
	if a == b {
		t.Fatal("two refresh tokens for the same user must not collide")
	}
}

func TestVerify_RejectsCrossClassTokens(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	u := testUser()

	access, err := m.IssueAccess(u)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	refresh, err := m.IssueRefresh(u)
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}

	if _, err := m.VerifyRefresh(access); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("access token presented as refresh: got %v, want ErrInvalidToken", err)
	}
	if _, err := m.VerifyAccess(refresh); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("refresh token presented as access: got %v, want ErrInvalidToken", err)
	}
}

func TestVerifyAccess_Expired(t *testing.T) {
	t.Parallel()

	m := NewTokenManager(TokenOptions{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     -time.Second,
		RefreshTTL:    24 * time.Hour,
		Issuer:        "stt-test",
		Audience:      "stt-client",
	})

	tok, err := m.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	_, err = m.VerifyAccess(tok)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyAccess_WrongSecret(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	other := NewTokenManager(TokenOptions{
		AccessSecret:  "a completely different secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		Issuer:        "stt-test",
		Audience:      "stt-client",
	})

	tok, err := other.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	_, err = m.VerifyAccess(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyAccess_WrongIssuerOrAudience(t *testing.T) {
	t.Parallel()

	m := newTestManager()

	foreign := NewTokenManager(TokenOptions{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		Issuer:        "someone-else",
		Audience:      "stt-client",
	})
	tok, err := foreign.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	if _, err := m.VerifyAccess(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("wrong issuer: expected ErrInvalidToken, got %v", err)
	}

	foreign = NewTokenManager(TokenOptions{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		Issuer:        "stt-test",
		Audience:      "other-client",
	})
	tok, err = foreign.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	if _, err := m.VerifyAccess(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("wrong audience: expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyAccess_Malformed(t *testing.T) {
	t.Parallel()

	m := newTestManager()

	for _, tok := range []string{"", "not.a.jwt", "a.b"} {
		if _, err := m.VerifyAccess(tok); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("malformed %q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}
