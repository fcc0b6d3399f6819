package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindgrid-app/mindgrid-api/internal/application"
	"github.com/mindgrid-app/mindgrid-api/internal/domain/entity"
	repo "github.com/mindgrid-app/mindgrid-api/internal/domain/repository"
	"github.com/mindgrid-app/mindgrid-api/pkg/helpers"
	"github.com/mindgrid-app/mindgrid-api/pkg/validation"
)

var initOnce sync.Once

// memRepo is the in-memory store used by the HTTP tests.
type memRepo struct {
	mu     sync.Mutex
	users  map[string]*entity.User
	nextID int
}

func newMemRepo() *memRepo { return &memRepo{users: map[string]*entity.User{}} }

func (m *memRepo) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.users {
		if ex.Username == u.Username {
			return repo.ErrUsernameTaken
		}
		if ex.Email == u.Email {
			return repo.ErrEmailTaken
		}
	}
	m.nextID++
	u.ID = "user-" + strconv.Itoa(m.nextID)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memRepo) UpdateOnboarding(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memRepo) UpdateImage(_ context.Context, id, imageURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Image = imageURL
	return nil
}

var _ repo.UserRepository = (*memRepo)(nil)

func newAuthEngine(t *testing.T) (*gin.Engine, *application.Service, *memRepo) {
	t.Helper()
	initOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		validation.Init()
	})

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := newMemRepo()
	sessions := &helpers.SessionManager{Secret: []byte("handler-secret"), TTL: time.Hour}
	svc := application.NewService(store, sessions, nil, "", nil, logger, false, "")
	h := NewAuthHandler(svc, logger, "", false)

	e := gin.New()
	api := e.Group("/api/auth")
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)
	api.GET("/session", h.Session)
	return e, svc, store
}

func postJSON(e *gin.Engine, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == helpers.SessionCookieName {
			return ck
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestRegisterEndpoint_Created(t *testing.T) {
	t.Parallel()

	e, _, _ := newAuthEngine(t)
	w := postJSON(e, "/api/auth/register", gin.H{
		"email": "you@example.com", "password": "password123", "username": "jhondoe",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Registration Successful! Account created.", body["message"])
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "you@example.com", user["email"])
	assert.Equal(t, "jhondoe", user["username"])
	assert.NotEmpty(t, user["id"])
}

func TestRegisterEndpoint_Validation(t *testing.T) {
	t.Parallel()

	e, _, _ := newAuthEngine(t)
	tests := []struct {
		name string
		body gin.H
	}{
		{"missing email", gin.H{"password": "password123", "username": "jhondoe"}},
		{"bad email", gin.H{"email": "not-an-email", "password": "password123", "username": "jhondoe"}},
		{"short password", gin.H{"email": "you@example.com", "password": "short", "username": "jhondoe"}},
		{"short username", gin.H{"email": "you@example.com", "password": "password123", "username": "j"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(e, "/api/auth/register", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, "Validation Error: Please ensure all fields are filled out correctly.", body["message"])
		})
	}
}

func TestRegisterEndpoint_Conflicts(t *testing.T) {
	t.Parallel()

	e, _, _ := newAuthEngine(t)
	w := postJSON(e, "/api/auth/register", gin.H{
		"email": "you@example.com", "password": "password123", "username": "jhondoe",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(e, "/api/auth/register", gin.H{
		"email": "other@example.com", "password": "password123", "username": "jhondoe",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t,
		"Registration Failed: This username is already taken. Please choose a different one.",
		decodeBody(t, w)["message"])

	// email uniqueness is checked on the normalized form
	w = postJSON(e, "/api/auth/register", gin.H{
		"email": "You@Example.COM", "password": "password123", "username": "otheruser",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t,
		"Registration Failed: An account with this email address already exists. Please sign in.",
		decodeBody(t, w)["message"])
}

func TestLoginEndpoint_SetsSessionCookie(t *testing.T) {
	t.Parallel()

	e, _, _ := newAuthEngine(t)
	w := postJSON(e, "/api/auth/register", gin.H{
		"email": "you@example.com", "password": "password123", "username": "jhondoe",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(e, "/api/auth/login", gin.H{"email": "you@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)

	ck := sessionCookie(t, w)
	assert.NotEmpty(t, ck.Value)
	assert.True(t, ck.HttpOnly)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "jhondoe", data["username"])
	assert.Equal(t, true, data["authenticated"])
}

func TestLoginEndpoint_GenericRejection(t *testing.T) {
	t.Parallel()

	e, _, _ := newAuthEngine(t)
	w := postJSON(e, "/api/auth/register", gin.H{
		"email": "you@example.com", "password": "password123", "username": "jhondoe",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// wrong password and unknown account answer identically
	for _, body := range []gin.H{
		{"email": "you@example.com", "password": "not-the-password"},
		{"email": "nobody@example.com", "password": "password123"},
	} {
		w = postJSON(e, "/api/auth/login", body)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid email or password", decodeBody(t, w)["message"])
	}
}

func TestSessionEndpoint_RefreshesFromStore(t *testing.T) {
	t.Parallel()

	e, _, store := newAuthEngine(t)
	w := postJSON(e, "/api/auth/register", gin.H{
		"email": "you@example.com", "password": "password123", "username": "jhondoe",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(e, "/api/auth/login", gin.H{"email": "you@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	ck := sessionCookie(t, w)

	// flip the store flag behind the token's back
	store.mu.Lock()
	for _, u := range store.users {
		u.CompletedOnboarding = true
	}
	store.mu.Unlock()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(ck)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	data, ok := decodeBody(t, rec)["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, data["completed_onboarding"], "stale token claims must lose to the store")
	assert.Equal(t, true, data["authenticated"])
}

func TestSessionEndpoint_NoCookie(t *testing.T) {
	t.Parallel()

	e, _, _ := newAuthEngine(t)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionEndpoint_DeletedUserClearsCookie(t *testing.T) {
	t.Parallel()

	e, svc, _ := newAuthEngine(t)
	tok, _, err := svc.IssueSession(&entity.User{ID: "user-gone", Username: "ghost", Email: "ghost@example.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: tok})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	ck := sessionCookie(t, rec)
	assert.Empty(t, ck.Value)
	assert.Less(t, ck.MaxAge, 0, "dangling session cookie gets discarded")
}

func TestLogoutEndpoint_ClearsCookie(t *testing.T) {
	t.Parallel()

	e, _, _ := newAuthEngine(t)
	w := postJSON(e, "/api/auth/logout", gin.H{})
	require.Equal(t, http.StatusOK, w.Code)
	ck := sessionCookie(t, w)
	assert.Empty(t, ck.Value)
}
