package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/TrisanthBST/speech-to-text-backend/internal/common"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/models"
)

type ctxKey string

const principalKey ctxKey = "principal"

// PrincipalFromContext returns the authenticated user stored by the auth
// middleware, or nil for anonymous requests.
func PrincipalFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(principalKey).(*models.User)
	return u
}

func withPrincipal(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, principalKey, u)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// RequireAuth authenticates the bearer token and stores the live user record
// in the request context. The account is re-read on every request, so a
// deleted user or a fresh lock takes effect immediately, not at token expiry.
func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "token required")
			return
		}

		user, err := s.users.Authenticate(r.Context(), token)
		if err != nil {
			s.writeAuthError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), user)))
	})
}

// OptionalAuth attaches a principal when a valid bearer token is present and
// lets every request through otherwise.
func (s *Server) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if user, err := s.users.Authenticate(r.Context(), token); err == nil {
				r = r.WithContext(withPrincipal(r.Context(), user))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole gates a route to principals holding one of the given roles.
// It answers 403 both for a missing principal and for an insufficient role,
// so it composes with RequireAuth but does not depend on it.
func (s *Server) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := PrincipalFromContext(r.Context())
			if u != nil {
				for _, role := range roles {
					if u.Role == role {
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			writeError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
		})
	}
}

func (s *Server) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "token expired")
	case errors.Is(err, common.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "invalid token")
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not found")
	case errors.Is(err, common.ErrAccountLocked):
		writeError(w, http.StatusLocked, "ACCOUNT_LOCKED", "account is temporarily locked")
	default:
		s.logger.Error(r.Context(), "authentication failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}
