package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindgrid-app/mindgrid-api/pkg/helpers"
)

func claims(onboarded bool) *helpers.SessionClaims {
	return &helpers.SessionClaims{
		UserID:              "user-1",
		Username:            "jhondoe",
		Email:               "you@example.com",
		CompletedOnboarding: onboarded,
	}
}

func TestDecide(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sess     *helpers.SessionClaims
		path     string
		redirect bool
		target   string
	}{
		{"anonymous on sign-in passes through", nil, "/sign-in", false, ""},
		{"anonymous on sign-up passes through", nil, "/sign-up", false, ""},
		{"signed-in on sign-in goes to dashboard", claims(true), "/sign-in", true, "/dashboard"},
		{"signed-in on sign-up goes to dashboard", claims(false), "/sign-up", true, "/dashboard"},
		{"anonymous on dashboard goes to sign-in", nil, "/dashboard", true, "/sign-in"},
		{"anonymous on home goes to sign-in", nil, "/", true, "/sign-in"},
		{"not onboarded on dashboard goes to onboarding", claims(false), "/dashboard", true, "/onboarding"},
		{"not onboarded on onboarding passes through", claims(false), "/onboarding", false, ""},
		{"onboarded on onboarding goes to dashboard", claims(true), "/onboarding", true, "/dashboard"},
		{"onboarded on dashboard passes through", claims(true), "/dashboard", false, ""},
		{"nested onboarding path counts as onboarding", claims(false), "/onboarding/step-2", false, ""},
		{"sign-in prefix is not a public page", nil, "/sign-inbox", true, "/sign-in"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.sess, tt.path)
			assert.Equal(t, tt.redirect, d.Redirect)
			if tt.redirect {
				assert.Equal(t, tt.target, d.Target)
			}
		})
	}
}

func newGateEngine(t *testing.T) (*gin.Engine, *helpers.SessionManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	sessions := &helpers.SessionManager{Secret: []byte("gate-secret"), TTL: time.Hour}
	locales := []string{"en", "de"}

	e := gin.New()
	e.Use(Gate(sessions, locales))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	for _, l := range locales {
		g := e.Group("/" + l)
		g.GET("/sign-in", ok)
		g.GET("/dashboard", ok)
		g.GET("/onboarding", ok)
	}
	e.GET("/api/auth/session", ok)
	return e, sessions
}

func get(e *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestGate_RedirectKeepsLocalePrefix(t *testing.T) {
	t.Parallel()

	e, _ := newGateEngine(t)
	w := get(e, "/de/dashboard", "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/de/sign-in", w.Header().Get("Location"))
}

func TestGate_ValidSessionReachesPage(t *testing.T) {
	t.Parallel()

	e, sessions := newGateEngine(t)
	tok, _, err := sessions.Issue(claims(true))
	require.NoError(t, err)

	w := get(e, "/en/dashboard", tok)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGate_NotOnboardedIsForcedToOnboarding(t *testing.T) {
	t.Parallel()

	e, sessions := newGateEngine(t)
	tok, _, err := sessions.Issue(claims(false))
	require.NoError(t, err)

	w := get(e, "/en/dashboard", tok)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/en/onboarding", w.Header().Get("Location"))
}

func TestGate_GarbageTokenIsAnonymous(t *testing.T) {
	t.Parallel()

	e, _ := newGateEngine(t)
	w := get(e, "/en/dashboard", "garbage.token.value")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/en/sign-in", w.Header().Get("Location"))
}

func TestGate_APIRoutesAreNotGated(t *testing.T) {
	t.Parallel()

	e, _ := newGateEngine(t)
	w := get(e, "/api/auth/session", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
