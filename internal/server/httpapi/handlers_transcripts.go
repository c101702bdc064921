package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/TrisanthBST/speech-to-text-backend/internal/server/models"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/services"
)

type transcriptResponse struct {
	*models.Transcript
	AudioURL string `json:"audioUrl,omitempty"`
}

type transcriptListResponse struct {
	Items []*models.Transcript `json:"items"`
	Total int                  `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

func (s *Server) handleCreateTranscript(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.config.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "VALIDATION", "audio file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "VALIDATION", "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "audio file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "error reading audio file")
		return
	}

	tr, err := s.transcripts.Create(r.Context(), principal.ID, &services.AudioUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Title:       r.FormValue("title"),
		Language:    r.FormValue("language"),
		Data:        data,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, transcriptResponse{Transcript: tr})
}

func (s *Server) handleListTranscripts(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := s.transcripts.List(r.Context(), principal.ID, page, limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	items := result.Items
	if items == nil {
		items = []*models.Transcript{}
	}
	writeJSON(w, http.StatusOK, transcriptListResponse{
		Items: items,
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
	})
}

func (s *Server) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	id := mux.Vars(r)["id"]

	tr, audioURL, err := s.transcripts.Get(r.Context(), principal.ID, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transcriptResponse{Transcript: tr, AudioURL: audioURL})
}

func (s *Server) handleDeleteTranscript(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	id := mux.Vars(r)["id"]

	if err := s.transcripts.Delete(r.Context(), principal.ID, id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
