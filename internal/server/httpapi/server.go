// Package httpapi exposes the public HTTP/JSON API: authentication and
// session lifecycle, profile management, and the transcript workflow.
package httpapi

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/TrisanthBST/speech-to-text-backend/internal/logging"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/config"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/models"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/services"
)

// UserAPI is the slice of the user service the HTTP layer consumes.
type UserAPI interface {
	Register(ctx context.Context, name, email, password string) (*models.User, *services.TokenPair, error)
	Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	UpdateProfile(ctx context.Context, userID string, upd services.ProfileUpdate) (*models.User, error)
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

// TranscriptAPI is the slice of the transcript service the HTTP layer consumes.
type TranscriptAPI interface {
	Create(ctx context.Context, userID string, up *services.AudioUpload) (*models.Transcript, error)
	List(ctx context.Context, userID string, page, limit int) (*services.TranscriptPage, error)
	Get(ctx context.Context, userID, id string) (*models.Transcript, string, error)
	Delete(ctx context.Context, userID, id string) error
}

// Server wires configuration, services, and middleware into an http.Handler
// and runs it with graceful shutdown.
type Server struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	users       UserAPI
	transcripts TranscriptAPI
	limiter     *RateLimiter
}

func NewServer(cfg *config.Config, l logging.Logger, db *sql.DB, users UserAPI, transcripts TranscriptAPI) *Server {
	return &Server{
		config:      cfg,
		logger:      l.With("module", "httpapi"),
		db:          db,
		users:       users,
		transcripts: transcripts,
		limiter:     NewRateLimiter(cfg.RateLimitAttempts, cfg.RateLimitWindow),
	}
}

// Router assembles all routes. Credential endpoints are throttled per client
// IP; everything under /api/users and /api/transcripts requires a bearer
// token.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	authr := api.PathPrefix("/auth").Subrouter()
	authr.Handle("/register", s.throttle(http.HandlerFunc(s.handleRegister))).Methods(http.MethodPost)
	authr.Handle("/login", s.throttle(http.HandlerFunc(s.handleLogin))).Methods(http.MethodPost)
	authr.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)
	authr.Handle("/logout", s.RequireAuth(http.HandlerFunc(s.handleLogout))).Methods(http.MethodPost)
	authr.Handle("/logout-all", s.RequireAuth(http.HandlerFunc(s.handleLogoutAll))).Methods(http.MethodPost)

	usersr := api.PathPrefix("/users").Subrouter()
	usersr.Use(s.RequireAuth)
	usersr.HandleFunc("/me", s.handleMe).Methods(http.MethodGet)
	usersr.HandleFunc("/me", s.handleUpdateMe).Methods(http.MethodPatch)
	usersr.HandleFunc("/me/password", s.handleChangePassword).Methods(http.MethodPost)

	tr := api.PathPrefix("/transcripts").Subrouter()
	tr.Use(s.RequireAuth)
	tr.HandleFunc("", s.handleCreateTranscript).Methods(http.MethodPost)
	tr.HandleFunc("", s.handleListTranscripts).Methods(http.MethodGet)
	tr.HandleFunc("/{id}", s.handleGetTranscript).Methods(http.MethodGet)
	tr.HandleFunc("/{id}", s.handleDeleteTranscript).Methods(http.MethodDelete)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "INTERNAL", "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Run serves the API until ctx is canceled, then shuts down gracefully.
// Write timeout leaves room for a synchronous transcription call.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.EndpointAddr,
		Handler:      s.Router(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.config.EndpointAddr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
