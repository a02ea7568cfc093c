package router

import (
	"github.com/adiprasetyo/evently-api/internal/application"
	"github.com/adiprasetyo/evently-api/internal/container"
	pginfra "github.com/adiprasetyo/evently-api/internal/infrastructure/postgres"
	handlers "github.com/adiprasetyo/evently-api/internal/interface/http"
	"github.com/adiprasetyo/evently-api/internal/router/modules"
	"github.com/adiprasetyo/evently-api/pkg/helpers"
)

// InitModules initializes all application modules and registers them with the
// router registry. Called once during startup after the container singletons
// are set.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	addressRepo := pginfra.NewAddressRepository(container.GetPGPool())

	authSvc := application.NewAuthService(
		userRepo,
		container.GetSessions(),
		container.GetGCS(),
		cfg.GCSBucket,
		logger,
		container.GetRabbitPub(),
		cfg.AppName,
		cfg.FrontendURL,
		cfg.MailSendEnabled,
	)
	userSvc := application.NewUserService(userRepo, container.GetSessions(), container.GetRedis(), container.GetGCS(), cfg.GCSBucket, logger)
	addressSvc := application.NewAddressService(addressRepo, container.GetES(), cfg.ESAddressesIndex, logger)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, container.GetOAuth(), logger, cookies, cfg.FrontendURL)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger)))
	r.Add(modules.NewAddressModule(handlers.NewAddressHandler(addressSvc, logger)))
}
