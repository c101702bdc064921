package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/TrisanthBST/speech-to-text-backend/internal/server/services"
)

type updateProfileRequest struct {
	// Email is decoded only so its presence can be rejected: the address is
	// immutable after registration.
	Email       *string `json:"email"`
	Name        *string `json:"name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatarUrl"`
	Preferences *struct {
		Theme         *string `json:"theme"`
		Language      *string `json:"language"`
		Notifications *bool   `json:"notifications"`
	} `json:"preferences"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, PrincipalFromContext(r.Context()))
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if req.Email != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "email cannot be changed")
		return
	}

	upd := services.ProfileUpdate{
		Name:      req.Name,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	}
	if req.Preferences != nil {
		upd.Theme = req.Preferences.Theme
		upd.Language = req.Preferences.Language
		upd.Notifications = req.Preferences.Notifications
	}

	user, err := s.users.UpdateProfile(r.Context(), principal.ID, upd)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}

	if err := s.users.ChangePassword(r.Context(), principal.ID, req.CurrentPassword, req.NewPassword); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}
