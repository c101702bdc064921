package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/TrisanthBST/speech-to-text-backend/internal/common"
)

// apiError is the payload inside every error response body.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorBody struct {
	Error apiError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: apiError{Code: code, Message: message}})
}

// writeServiceError translates service-layer errors into one HTTP response.
// Unrecognized errors become a 500; detail is logged and, outside production,
// echoed to the client.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, common.ErrEmailExists):
		writeError(w, http.StatusConflict, "EMAIL_EXISTS", "email already registered")
	case errors.Is(err, common.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	case errors.Is(err, common.ErrAccountLocked):
		writeError(w, http.StatusLocked, "ACCOUNT_LOCKED", "account is temporarily locked")
	case errors.Is(err, common.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "token expired")
	case errors.Is(err, common.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "invalid token")
	case errors.Is(err, common.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "not found")
	default:
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		msg := "internal server error"
		if !s.config.IsProduction() {
			msg = err.Error()
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL", msg)
	}
}
