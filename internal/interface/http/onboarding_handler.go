package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mindgrid-app/mindgrid-api/internal/application"
	"github.com/mindgrid-app/mindgrid-api/internal/interface/middleware"
	"github.com/mindgrid-app/mindgrid-api/pkg/helpers"
	"github.com/mindgrid-app/mindgrid-api/pkg/response"
	"github.com/mindgrid-app/mindgrid-api/pkg/validation"
)

type OnboardingHandler struct {
	Svc     *application.Service
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewOnboardingHandler(svc *application.Service, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *OnboardingHandler {
	return &OnboardingHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

// onboardingRequest carries all three wizard steps in one submission.
type onboardingRequest struct {
	// Step 1: Personal information
	FirstName string `json:"first_name" binding:"required,max=50"`
	LastName  string `json:"last_name" binding:"required,max=50"`
	Company   string `json:"company" binding:"omitempty,max=100"`
	Role      string `json:"role" binding:"required,oneof=developer designer manager student entrepreneur other"`

	// Step 2: Preferences
	Interests          []string `json:"interests" binding:"required,min=1,dive,oneof=mind_mapping task_management team_collaboration time_tracking note_taking project_planning"`
	Experience         string   `json:"experience" binding:"required,oneof=beginner intermediate advanced"`
	EmailNotifications *bool    `json:"email_notifications" binding:"required"`
	PushNotifications  *bool    `json:"push_notifications" binding:"required"`
	WeeklyDigest       *bool    `json:"weekly_digest" binding:"required"`

	// Step 3: Complete setup
	Avatar   string `json:"avatar" binding:"omitempty,url"`
	Bio      string `json:"bio" binding:"omitempty,max=500"`
	Timezone string `json:"timezone" binding:"required,timezone"`
}

// Complete handles POST /api/onboarding. On success the session cookie is
// re-issued so the gate sees completed_onboarding=true on the very next
// request instead of after the old token expires.
func (h *OnboardingHandler) Complete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	var req onboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.CompleteOnboarding(c.Request.Context(), uid, application.OnboardingInput{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Company:            req.Company,
		Role:               req.Role,
		Interests:          req.Interests,
		Experience:         req.Experience,
		EmailNotifications: *req.EmailNotifications,
		PushNotifications:  *req.PushNotifications,
		WeeklyDigest:       *req.WeeklyDigest,
		Avatar:             req.Avatar,
		Bio:                req.Bio,
		Timezone:           req.Timezone,
	})
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusUnauthorized, "unknown user", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "could not save onboarding", nil)
		return
	}

	token, exp, err := h.Svc.IssueSession(u)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", u.ID).Error("session re-issue after onboarding failed")
	} else {
		h.Cookies.SetSession(c, token, exp)
	}

	response.Success(c, http.StatusOK, application.Session{
		UserID:              u.ID,
		Username:            u.Username,
		Email:               u.Email,
		Image:               u.Image,
		CompletedOnboarding: u.CompletedOnboarding,
		Authenticated:       true,
	}, "onboarding completed")
}
