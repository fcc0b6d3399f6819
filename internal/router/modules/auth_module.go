package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mindgrid-app/mindgrid-api/internal/container"
	handlers "github.com/mindgrid-app/mindgrid-api/internal/interface/http"
	"github.com/mindgrid-app/mindgrid-api/internal/interface/middleware"
)

// AuthModule wires registration and credential sign-in.
// Public: POST /api/auth/register, POST /api/auth/login
// Session-carrying: POST /api/auth/logout, GET /api/auth/session
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/logout", m.Handler.Logout)
	rg.GET("/auth/session", m.Handler.Session)
}
