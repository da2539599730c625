package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avasilyev/notekeep/internal/common"
	"github.com/avasilyev/notekeep/internal/logging"
	"github.com/avasilyev/notekeep/internal/server/models"
	"github.com/avasilyev/notekeep/internal/server/services"
)

// --- fakes ---

type fakeUserService struct {
	signUpOut *models.User
	signUpErr error

	loginOut string
	loginErr error

	logoutErr error

	profileOut *models.User
	profileErr error

	updateErr     error
	deactivateErr error
}

func (f *fakeUserService) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.signUpOut, nil
}

func (f *fakeUserService) Login(ctx context.Context, email, password, key string) (string, error) {
	return f.loginOut, f.loginErr
}

func (f *fakeUserService) Logout(ctx context.Context, token, key string) error {
	return f.logoutErr
}

func (f *fakeUserService) Profile(ctx context.Context, subjectID string) (*models.User, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profileOut, nil
}

func (f *fakeUserService) UpdateProfile(ctx context.Context, subjectID, email, password string) error {
	return f.updateErr
}

func (f *fakeUserService) Deactivate(ctx context.Context, subjectID string) error {
	return f.deactivateErr
}

type fakeNoteService struct {
	note  *models.Note
	notes []*models.Note
	err   error

	gotSubject string
	gotNoteID  string
	gotTarget  string
	gotQuery   string
	gotDrafts  []services.NoteDraft
}

func (f *fakeNoteService) Create(ctx context.Context, ownerID string, d services.NoteDraft) (*models.Note, error) {
	f.gotSubject, f.gotDrafts = ownerID, []services.NoteDraft{d}
	if f.err != nil {
		return nil, f.err
	}
	return f.note, nil
}

func (f *fakeNoteService) CreateBatch(ctx context.Context, ownerID string, drafts []services.NoteDraft) ([]*models.Note, error) {
	f.gotSubject, f.gotDrafts = ownerID, drafts
	if f.err != nil {
		return nil, f.err
	}
	return f.notes, nil
}

func (f *fakeNoteService) Get(ctx context.Context, subjectID, noteID string) (*models.Note, error) {
	f.gotSubject, f.gotNoteID = subjectID, noteID
	if f.err != nil {
		return nil, f.err
	}
	return f.note, nil
}

func (f *fakeNoteService) List(ctx context.Context, subjectID string) ([]*models.Note, error) {
	f.gotSubject = subjectID
	return f.notes, f.err
}

func (f *fakeNoteService) Update(ctx context.Context, subjectID, noteID string, d services.NoteDraft) (*models.Note, error) {
	f.gotSubject, f.gotNoteID = subjectID, noteID
	if f.err != nil {
		return nil, f.err
	}
	return f.note, nil
}

func (f *fakeNoteService) Delete(ctx context.Context, subjectID, noteID string) error {
	f.gotSubject, f.gotNoteID = subjectID, noteID
	return f.err
}

func (f *fakeNoteService) Share(ctx context.Context, subjectID, noteID, targetID string) error {
	f.gotSubject, f.gotNoteID, f.gotTarget = subjectID, noteID, targetID
	return f.err
}

func (f *fakeNoteService) Unshare(ctx context.Context, subjectID, noteID, targetID string) error {
	f.gotSubject, f.gotNoteID, f.gotTarget = subjectID, noteID, targetID
	return f.err
}

func (f *fakeNoteService) Search(ctx context.Context, subjectID, query string) ([]*models.Note, error) {
	f.gotSubject, f.gotQuery = subjectID, query
	if f.err != nil {
		return nil, f.err
	}
	return f.notes, nil
}

type fakeAuthorizer struct {
	subject  string
	err      error
	gotToken string
	gotKey   string
}

func (f *fakeAuthorizer) Authorize(ctx context.Context, token, key string) (string, error) {
	f.gotToken, f.gotKey = token, key
	if f.err != nil {
		return "", f.err
	}
	return f.subject, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestRouter(u UserService, n NoteService, a Authorizer) http.Handler {
	if u == nil {
		u = &fakeUserService{}
	}
	if n == nil {
		n = &fakeNoteService{}
	}
	if a == nil {
		a = &fakeAuthorizer{subject: "u1"}
	}
	return NewRouter(u, n, a, testLogger(), time.Second).Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func authHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer tok", apiKeyHeader: "key"}
}

// --- auth endpoints ---

func TestSignUpEndpoint(t *testing.T) {
	u := &fakeUserService{signUpOut: &models.User{ID: "u1", Email: "a@b.com", APIKey: "the-key"}}
	h := newTestRouter(u, nil, nil)

	rec := doJSON(t, h, http.MethodPost, "/signup", `{"email":"a@b.com","password":"longenough"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp signUpResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "u1", resp.ID)
	assert.Equal(t, "the-key", resp.APIKey)
}

func TestSignUpEndpoint_Validation(t *testing.T) {
	h := newTestRouter(nil, nil, nil)

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"bad email", `{"email":"nope","password":"longenough"}`},
		{"short password", `{"email":"a@b.com","password":"short"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/signup", tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSignUpEndpoint_Duplicate(t *testing.T) {
	u := &fakeUserService{signUpErr: common.ErrDuplicateAccount}
	h := newTestRouter(u, nil, nil)

	rec := doJSON(t, h, http.MethodPost, "/signup", `{"email":"a@b.com","password":"longenough"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	u := &fakeUserService{loginOut: "signed-token"}
	h := newTestRouter(u, nil, nil)

	rec := doJSON(t, h, http.MethodPost, "/login",
		`{"email":"a@b.com","password":"pw","api_key":"k"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "signed-token", resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
}

func TestLoginEndpoint_Failures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"bad key", common.ErrUnauthorized, http.StatusUnauthorized},
		{"bad credentials", common.ErrInvalidCredentials, http.StatusUnauthorized},
		{"session busy", common.ErrAlreadyLoggedIn, http.StatusBadRequest},
		{"store down", common.ErrStoreUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestRouter(&fakeUserService{loginErr: tc.err}, nil, nil)
			rec := doJSON(t, h, http.MethodPost, "/login",
				`{"email":"a@b.com","password":"pw","api_key":"k"}`, nil)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestLogoutEndpoint(t *testing.T) {
	h := newTestRouter(&fakeUserService{}, nil, nil)
	rec := doJSON(t, h, http.MethodPost, "/logout", "", authHeaders())
	assert.Equal(t, http.StatusOK, rec.Code)

	h = newTestRouter(&fakeUserService{logoutErr: common.ErrTokenRevoked}, nil, nil)
	rec = doJSON(t, h, http.MethodPost, "/logout", "", authHeaders())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// --- authentication middleware ---

func TestAuthenticate_PassesCredentialsAndSubject(t *testing.T) {
	a := &fakeAuthorizer{subject: "u42"}
	n := &fakeNoteService{notes: []*models.Note{}}
	h := newTestRouter(nil, n, a)

	rec := doJSON(t, h, http.MethodGet, "/api/notes/", "", map[string]string{
		"Authorization": "Bearer my-token",
		apiKeyHeader:    "my-key",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "my-token", a.gotToken)
	assert.Equal(t, "my-key", a.gotKey)
	assert.Equal(t, "u42", n.gotSubject)
}

func TestAuthenticate_Rejections(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"revoked", common.ErrTokenRevoked},
		{"expired", common.ErrTokenExpired},
		{"malformed", common.ErrTokenMalformed},
		{"key mismatch", common.ErrKeyIdentityMismatch},
		{"unauthorized", common.ErrUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestRouter(nil, nil, &fakeAuthorizer{err: tc.err})
			rec := doJSON(t, h, http.MethodGet, "/api/notes/", "", authHeaders())
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", bearerToken(req))

	req.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", bearerToken(req))

	req.Header.Set("Authorization", "bearer abc")
	assert.Equal(t, "abc", bearerToken(req))

	req.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, "", bearerToken(req))
}

// --- note endpoints ---

func TestCreateNoteEndpoint(t *testing.T) {
	n := &fakeNoteService{note: &models.Note{ID: "n1", OwnerID: "u1", Title: "t", Content: "c"}}
	h := newTestRouter(nil, n, nil)

	rec := doJSON(t, h, http.MethodPost, "/api/notes/", `{"title":"t","content":"c"}`, authHeaders())
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp noteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "n1", resp.ID)
	assert.NotNil(t, resp.Shared)
}

func TestCreateNoteEndpoint_Validation(t *testing.T) {
	h := newTestRouter(nil, nil, nil)
	rec := doJSON(t, h, http.MethodPost, "/api/notes/", `{"title":"","content":"c"}`, authHeaders())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkNotesEndpoint(t *testing.T) {
	n := &fakeNoteService{notes: []*models.Note{{ID: "n1"}, {ID: "n2"}}}
	h := newTestRouter(nil, n, nil)

	rec := doJSON(t, h, http.MethodPost, "/api/notes/bulk",
		`{"notes":[{"title":"a","content":"1"},{"title":"b","content":"2"}]}`, authHeaders())
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, n.gotDrafts, 2)

	// empty batch is rejected before the service runs
	rec = doJSON(t, h, http.MethodPost, "/api/notes/bulk", `{"notes":[]}`, authHeaders())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetNoteEndpoint_NotFound(t *testing.T) {
	h := newTestRouter(nil, &fakeNoteService{err: common.ErrNotFound}, nil)
	rec := doJSON(t, h, http.MethodGet, "/api/notes/n9", "", authHeaders())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShareEndpoints(t *testing.T) {
	t.Run("share ok", func(t *testing.T) {
		n := &fakeNoteService{}
		h := newTestRouter(nil, n, nil)
		rec := doJSON(t, h, http.MethodPost, "/api/notes/share/n1/u2", "", authHeaders())
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "n1", n.gotNoteID)
		assert.Equal(t, "u2", n.gotTarget)
	})

	t.Run("already shared", func(t *testing.T) {
		h := newTestRouter(nil, &fakeNoteService{err: common.ErrAlreadyShared}, nil)
		rec := doJSON(t, h, http.MethodPost, "/api/notes/share/n1/u2", "", authHeaders())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("target missing", func(t *testing.T) {
		h := newTestRouter(nil, &fakeNoteService{err: common.ErrTargetNotFound}, nil)
		rec := doJSON(t, h, http.MethodPost, "/api/notes/share/n1/ghost", "", authHeaders())
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unshare without grant", func(t *testing.T) {
		h := newTestRouter(nil, &fakeNoteService{err: common.ErrNotSharedWithTarget}, nil)
		rec := doJSON(t, h, http.MethodPost, "/api/notes/unshare/n1/u2", "", authHeaders())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

// --- search ---

func TestSearchEndpoint(t *testing.T) {
	n := &fakeNoteService{notes: []*models.Note{{ID: "n1", Title: "groceries"}}}
	h := newTestRouter(nil, n, nil)

	rec := doJSON(t, h, http.MethodGet, "/api/search?q=groceries", "", authHeaders())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "groceries", resp.Query)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "groceries", n.gotQuery)
}

func TestSearchEndpoint_BlankQuery(t *testing.T) {
	n := &fakeNoteService{}
	h := newTestRouter(nil, n, nil)

	for _, path := range []string{"/api/search", "/api/search?q=", "/api/search?q=%20%20"} {
		rec := doJSON(t, h, http.MethodGet, path, "", authHeaders())
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
	assert.Empty(t, n.gotQuery)
}

// --- error mapping ---

func TestStatusFromError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{common.ErrInvalidCredentials, http.StatusUnauthorized},
		{common.ErrUnauthorized, http.StatusUnauthorized},
		{common.ErrKeyIdentityMismatch, http.StatusUnauthorized},
		{common.ErrTokenExpired, http.StatusUnauthorized},
		{common.ErrTokenRevoked, http.StatusUnauthorized},
		{common.ErrTokenMalformed, http.StatusUnauthorized},
		{common.ErrAlreadyLoggedIn, http.StatusBadRequest},
		{common.ErrAlreadyShared, http.StatusBadRequest},
		{common.ErrNotSharedWithTarget, http.StatusBadRequest},
		{errBadRequest, http.StatusBadRequest},
		{common.ErrDuplicateAccount, http.StatusConflict},
		{common.ErrNotFound, http.StatusNotFound},
		{common.ErrTargetNotFound, http.StatusNotFound},
		{common.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, statusFromError(tc.err), tc.err.Error())
	}
}

// An unclassified error must not leak its text to the client.
func TestInternalErrorBodyIsOpaque(t *testing.T) {
	h := newTestRouter(&fakeUserService{signUpErr: io.ErrUnexpectedEOF}, nil, nil)
	rec := doJSON(t, h, http.MethodPost, "/signup", `{"email":"a@b.com","password":"longenough"}`, nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "unexpected EOF")
	assert.Contains(t, rec.Body.String(), common.ErrInternal.Error())
}
