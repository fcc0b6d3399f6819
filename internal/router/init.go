package router

import (
	"github.com/mindgrid-app/mindgrid-api/internal/application"
	"github.com/mindgrid-app/mindgrid-api/internal/container"
	pginfra "github.com/mindgrid-app/mindgrid-api/internal/infrastructure/postgres"
	handlers "github.com/mindgrid-app/mindgrid-api/internal/interface/http"
	"github.com/mindgrid-app/mindgrid-api/internal/router/modules"
)

func buildService() *application.Service {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetPGPool())
	return application.NewService(
		repo,
		container.GetSessions(),
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetRabbitPub(),
		container.GetLogger(),
		cfg.MailSendEnabled,
		cfg.SignInURL,
	)
}

// InitModules initializes all application modules and registers them with the
// router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	svc := buildService()

	authHandler := handlers.NewAuthHandler(svc, logger, cfg.CookieDomain, cfg.CookieSecure)
	onboardingHandler := handlers.NewOnboardingHandler(svc, logger, cfg.CookieDomain, cfg.CookieSecure)
	userHandler := handlers.NewUserHandler(svc, logger)

	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewOnboardingModule(onboardingHandler, userHandler))

	pages := modules.NewPagesModule(handlers.NewPageHandler(), cfg.LocaleList())
	pages.RegisterPages(r.Engine)
}
