package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/TrisanthBST/speech-to-text-backend/internal/logging"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/config"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/models"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/services"
)

// --- fakes ---

type fakeUserAPI struct {
	user *models.User
	pair *services.TokenPair

	registerErr  error
	loginErr     error
	refreshErr   error
	logoutErr    error
	logoutAllErr error
	changeErr    error
	updateErr    error
	authErr      error

	gotName, gotEmail, gotPassword string
	gotRefreshToken                string
	gotLogoutToken                 string
	gotLogoutAllUser               string
	gotCurrent, gotNew             string
	gotUpdate                      services.ProfileUpdate
	updateCalls                    int
	gotAccessToken                 string
}

func (f *fakeUserAPI) Register(ctx context.Context, name, email, password string) (*models.User, *services.TokenPair, error) {
	f.gotName, f.gotEmail, f.gotPassword = name, email, password
	if f.registerErr != nil {
		return nil, nil, f.registerErr
	}
	return f.user, f.pair, nil
}

func (f *fakeUserAPI) Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error) {
	f.gotEmail, f.gotPassword = email, password
	if f.loginErr != nil {
		return nil, nil, f.loginErr
	}
	return f.user, f.pair, nil
}

func (f *fakeUserAPI) RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	f.gotRefreshToken = refreshToken
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.pair, nil
}

func (f *fakeUserAPI) Logout(ctx context.Context, refreshToken string) error {
	f.gotLogoutToken = refreshToken
	return f.logoutErr
}

func (f *fakeUserAPI) LogoutAll(ctx context.Context, userID string) error {
	f.gotLogoutAllUser = userID
	return f.logoutAllErr
}

func (f *fakeUserAPI) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	f.gotCurrent, f.gotNew = currentPassword, newPassword
	return f.changeErr
}

func (f *fakeUserAPI) UpdateProfile(ctx context.Context, userID string, upd services.ProfileUpdate) (*models.User, error) {
	f.updateCalls++
	f.gotUpdate = upd
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.user, nil
}

func (f *fakeUserAPI) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	f.gotAccessToken = accessToken
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.user, nil
}

type fakeTranscriptAPI struct {
	transcript *models.Transcript
	page       *services.TranscriptPage
	audioURL   string

	createErr error
	listErr   error
	getErr    error
	deleteErr error

	gotUpload        *services.AudioUpload
	gotPage, gotLim  int
	gotUserID, gotID string
}

func (f *fakeTranscriptAPI) Create(ctx context.Context, userID string, up *services.AudioUpload) (*models.Transcript, error) {
	f.gotUserID = userID
	f.gotUpload = up
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.transcript, nil
}

func (f *fakeTranscriptAPI) List(ctx context.Context, userID string, page, limit int) (*services.TranscriptPage, error) {
	f.gotUserID = userID
	f.gotPage, f.gotLim = page, limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.page, nil
}

func (f *fakeTranscriptAPI) Get(ctx context.Context, userID, id string) (*models.Transcript, string, error) {
	f.gotUserID, f.gotID = userID, id
	if f.getErr != nil {
		return nil, "", f.getErr
	}
	return f.transcript, f.audioURL, nil
}

func (f *fakeTranscriptAPI) Delete(ctx context.Context, userID, id string) error {
	f.gotUserID, f.gotID = userID, id
	return f.deleteErr
}

// --- helpers ---

func testLogger() logging.Logger {
	return logging.NewDiscardLogger()
}

func principal() *models.User {
	return &models.User{
		ID:    "u1",
		Email: "user@example.com",
		Name:  "User One",
		Role:  models.RoleUser,
		Preferences: models.Preferences{
			Theme:         "system",
			Language:      "en",
			Notifications: true,
		},
		CreatedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func testPair() *services.TokenPair {
	return &services.TokenPair{AccessToken: "access-jwt", RefreshToken: "refresh-jwt"}
}

func newTestServer(t *testing.T, users *fakeUserAPI, transcripts *fakeTranscriptAPI, opts ...any) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	// sqlmock's option type points at an unexported struct and cannot be named
	// outside that package, so the options travel as any and reach sqlmock.New
	// by reflection.
	args := make([]reflect.Value, len(opts))
	for i, o := range opts {
		args[i] = reflect.ValueOf(o)
	}
	out := reflect.ValueOf(sqlmock.New).Call(args)
	db, _ := out[0].Interface().(*sql.DB)
	mock, _ := out[1].Interface().(sqlmock.Sqlmock)
	var err error
	if !out[2].IsNil() {
		err = out[2].Interface().(error)
	}
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()

	if users == nil {
		users = &fakeUserAPI{}
	}
	if transcripts == nil {
		transcripts = &fakeTranscriptAPI{}
	}
	return NewServer(cfg, testLogger(), db, users, transcripts), mock
}

func doRequest(t *testing.T, h http.Handler, method, path string, body io.Reader, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	decodeBody(t, rec, &body)
	return body.Error.Code
}

func authHeader() map[string]string {
	return map[string]string{"Authorization": "Bearer access-jwt"}
}
