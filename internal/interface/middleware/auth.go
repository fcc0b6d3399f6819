package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindgrid-app/mindgrid-api/pkg/helpers"
	"github.com/mindgrid-app/mindgrid-api/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	CtxClaimsKey = "sessionClaims"
)

// Auth guards API endpoints that require a signed-in user. It validates the
// session cookie and injects the user id and raw claims into the context.
func Auth(sessions *helpers.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookieName)
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing session token", nil)
			c.Abort()
			return
		}
		claims, err := sessions.Parse(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid session token", nil)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}
