package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/mindgrid-app/mindgrid-api/internal/interface/http"
)

// PagesModule registers the gated page routes once per supported locale.
// Explicit per-locale routes avoid a root-level wildcard colliding with the
// /api tree in gin's router.
type PagesModule struct {
	Handler *handlers.PageHandler
	Locales []string
}

func NewPagesModule(h *handlers.PageHandler, locales []string) *PagesModule {
	return &PagesModule{Handler: h, Locales: locales}
}

func (m *PagesModule) RegisterPages(e *gin.Engine) {
	for _, l := range m.Locales {
		g := e.Group("/" + l)
		g.GET("", m.Handler.Home)
		g.GET("/sign-in", m.Handler.SignIn)
		g.GET("/sign-up", m.Handler.SignUp)
		g.GET("/dashboard", m.Handler.Dashboard)
		g.GET("/onboarding", m.Handler.Onboarding)
	}
}
