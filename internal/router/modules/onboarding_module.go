package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/mindgrid-app/mindgrid-api/internal/container"
	handlers "github.com/mindgrid-app/mindgrid-api/internal/interface/http"
	"github.com/mindgrid-app/mindgrid-api/internal/interface/middleware"
)

// OnboardingModule wires the authenticated profile surface.
// Protected: POST /api/onboarding, GET /api/profile, POST /api/profile/avatar
type OnboardingModule struct {
	Onboarding *handlers.OnboardingHandler
	Users      *handlers.UserHandler
}

func NewOnboardingModule(o *handlers.OnboardingHandler, u *handlers.UserHandler) *OnboardingModule {
	return &OnboardingModule{Onboarding: o, Users: u}
}

func (m *OnboardingModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetSessions()))
	{
		auth.POST("/onboarding", m.Onboarding.Complete)
		auth.GET("/profile", m.Users.GetProfile)
		auth.POST("/profile/avatar", m.Users.UploadAvatar)
	}
}
