package main

import (
	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-taskboard/internal/app"
	"github.com/adanyl0v/go-taskboard/internal/assets"
	"github.com/adanyl0v/go-taskboard/internal/config"
	v1 "github.com/adanyl0v/go-taskboard/internal/delivery/http/v1"
	"github.com/adanyl0v/go-taskboard/internal/services"
)

func main() {
	logger := app.NewDefaultLogger()
	cfg := app.MustReadEnv(logger)
	logger = app.MustNewApplicationLogger(logger, cfg.Env)

	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	storage := app.MustOpenStorage(logger, cfg)
	defer storage.Close()

	repos := storage.Repositories
	assetStore := assets.NewStore(cfg.Assets.UploadDir, cfg.Assets.BaseURL)
	handler := v1.New(
		logger,
		services.NewAuthService(
			logger,
			repos.Users,
			repos.Roles,
			cfg.JWT.Issuer,
			[]byte(cfg.JWT.SigningKey),
			cfg.JWT.TokenTTL,
			cfg.Users.DefaultRoleID,
		),
		services.NewUserService(logger, repos.Users, repos.Roles),
		services.NewRoleService(logger, repos.Roles),
		services.NewStatusService(logger, repos.Statuses),
		services.NewTaskService(logger, repos.Tasks, repos.Statuses, repos.Users),
		assetStore,
	)

	router := app.NewRouter(logger, cfg.HTTP, assetStore.Dir(), storage, handler)
	app.MustListenAndServeHTTP(logger, cfg.HTTP, router)
}
