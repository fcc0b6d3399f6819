package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mindgrid-app/mindgrid-api/internal/application"
	repo "github.com/mindgrid-app/mindgrid-api/internal/domain/repository"
	"github.com/mindgrid-app/mindgrid-api/pkg/helpers"
	"github.com/mindgrid-app/mindgrid-api/pkg/response"
)

type AuthHandler struct {
	Svc     *application.Service
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewAuthHandler(svc *application.Service, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Username string `json:"username" binding:"required,min=2"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register. The response bodies here are part
// of the public API contract consumed by the sign-up form, so they use their
// own fixed shape instead of the shared envelope.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation Error: Please ensure all fields are filled out correctly.",
		})
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	})
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{
				"message": "Registration Failed: This username is already taken. Please choose a different one.",
			})
		case errors.Is(err, repo.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{
				"message": "Registration Failed: An account with this email address already exists. Please sign in.",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Server Error: Unable to complete registration due to an unexpected issue. Please try again later.",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration Successful! Account created.",
		"user": gin.H{
			"id":        u.ID,
			"email":     u.Email,
			"username":  u.Username,
			"createdAt": u.CreatedAt,
			"name":      u.Name,
		},
	})
}

// Login authenticates credentials and sets the session cookie. Every
// credential failure collapses into one generic message; the specific reason
// is only logged.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	u, err := h.Svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrAuthUnavailable) {
			response.Error[any](c, http.StatusServiceUnavailable, "sign-in is temporarily unavailable", nil)
			return
		}
		h.Logger.WithFields(logrus.Fields{
			"reason":     err.Error(),
			"request_id": c.GetString("request_id"),
		}).Info("sign-in rejected")
		response.Error[any](c, http.StatusUnauthorized, "invalid email or password", nil)
		return
	}

	token, exp, err := h.Svc.IssueSession(u)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", u.ID).Error("session issue failed")
		response.Error[any](c, http.StatusInternalServerError, "could not start session", nil)
		return
	}
	h.Cookies.SetSession(c, token, exp)

	response.Success(c, http.StatusOK, application.Session{
		UserID:              u.ID,
		Username:            u.Username,
		Email:               u.Email,
		Image:               u.Image,
		CompletedOnboarding: u.CompletedOnboarding,
		Authenticated:       true,
	}, "signed in")
}

// Logout clears the cookie; the token itself simply expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "signed out")
}

// Session returns the refreshed session for the current token.
func (h *AuthHandler) Session(c *gin.Context) {
	token, err := c.Cookie(helpers.SessionCookieName)
	if err != nil || token == "" {
		response.Error[any](c, http.StatusUnauthorized, "no session", nil)
		return
	}
	claims, err := h.Svc.Sessions.Parse(token)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "no session", nil)
		return
	}

	sess, err := h.Svc.RefreshSession(c.Request.Context(), claims)
	if err != nil {
		response.Error[any](c, http.StatusServiceUnavailable, "session refresh unavailable", nil)
		return
	}
	if !sess.Authenticated {
		h.Cookies.Clear(c)
		response.Error[any](c, http.StatusUnauthorized, "session expired", nil)
		return
	}
	response.Success(c, http.StatusOK, sess, "session")
}
