package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mindgrid-app/mindgrid-api/pkg/helpers"
)

const (
	SignInPath     = "/sign-in"
	SignUpPath     = "/sign-up"
	DashboardPath  = "/dashboard"
	OnboardingPath = "/onboarding"
)

// publicPages are reachable without a session.
var publicPages = []string{SignInPath, SignUpPath}

// Decision is the outcome of gating one request: either redirect to Target or
// fall through to the locale-resolution continuation.
type Decision struct {
	Redirect bool
	Target   string
}

var passThrough = Decision{}

func redirectTo(target string) Decision {
	return Decision{Redirect: true, Target: target}
}

// Decide implements the per-request gate as a pure, total function of the
// session claims (nil when the request carries no valid token) and the request
// path with any locale prefix already stripped.
func Decide(sess *helpers.SessionClaims, path string) Decision {
	public := isPublicPage(path)

	if public {
		if sess != nil {
			return redirectTo(DashboardPath)
		}
		return passThrough
	}

	if sess == nil {
		return redirectTo(SignInPath)
	}

	onboarding := pathIs(path, OnboardingPath)
	if !sess.CompletedOnboarding && !onboarding {
		return redirectTo(OnboardingPath)
	}
	if sess.CompletedOnboarding && onboarding {
		return redirectTo(DashboardPath)
	}
	return passThrough
}

func isPublicPage(path string) bool {
	for _, p := range publicPages {
		if pathIs(path, p) {
			return true
		}
	}
	return false
}

// pathIs matches page as a whole leading segment of path.
func pathIs(path, page string) bool {
	return path == page || strings.HasPrefix(path, page+"/")
}

// Gate applies Decide to every page request. API routes, static assets and the
// favicon are not gated. The absence or invalidity of a token is a normal
// state, never an error; parse failures simply mean "no session".
func Gate(sessions *helpers.SessionManager, locales []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !isPageRequest(path) {
			c.Next()
			return
		}

		var sess *helpers.SessionClaims
		if token, err := c.Cookie(helpers.SessionCookieName); err == nil && token != "" {
			if claims, err := sessions.Parse(token); err == nil {
				sess = claims
			}
		}

		locale, rest := SplitLocale(path, locales)
		d := Decide(sess, rest)
		if d.Redirect {
			target := d.Target
			if locale != "" {
				target = "/" + locale + target
			}
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

func isPageRequest(path string) bool {
	if strings.HasPrefix(path, "/api/") || path == "/api" {
		return false
	}
	if strings.HasPrefix(path, "/static/") || path == "/favicon.ico" {
		return false
	}
	return true
}

// SplitLocale splits "/de/dashboard" into ("de", "/dashboard"). An unprefixed
// path comes back unchanged with an empty locale.
func SplitLocale(path string, locales []string) (locale, rest string) {
	trimmed := strings.TrimPrefix(path, "/")
	seg, tail, _ := strings.Cut(trimmed, "/")
	for _, l := range locales {
		if seg == l {
			return l, "/" + tail
		}
	}
	return "", path
}
