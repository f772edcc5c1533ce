package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/config"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/handler/ai_proxy"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/internal/ai"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/internal/ai/upstream"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/internal/logz"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/internal/tracing"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/middleware"
	"go.uber.org/zap"
)

func main() {
	versionDeploy := time.Now().Unix()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatal(errors.Wrap(err, "unable to initial config"))
	}

	logz.Init(cfg.LogConfig.Level, cfg.Server.Name)
	defer logz.Drop()

	logger := zap.L()
	logger.Info("version " + strconv.FormatInt(versionDeploy, 10))

	shutdown, err := tracing.Init(ctx, *cfg)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}
	defer func() { _ = shutdown(context.Background()) }()

	// built once; a failure here is served as a generic 500 on every chat request
	backend := upstream.New(ctx, *cfg, logger)

	app := initFiber(*cfg)
	registerRoutes(app, *cfg, backend, versionDeploy)

	logger.Info("listening",
		zap.String("port", cfg.Server.Port),
		zap.String("chat_path", cfg.Server.ChatPath))
	if err = app.Listen(fmt.Sprintf(":%v", cfg.Server.Port)); err != nil {
		logger.Fatal(err.Error())
	}
}

func initFiber(cfg config.Config) *fiber.App {
	app := fiber.New(
		fiber.Config{
			ReadTimeout:           cfg.Server.ReadTimeout,
			WriteTimeout:          cfg.Server.WriteTimeout,
			IdleTimeout:           cfg.Server.IdleTimeout,
			DisableStartupMessage: true,
			CaseSensitive:         true,
			StrictRouting:         true,
		},
	)
	app.Use(middleware.SetHeaderID())
	app.Use(middleware.OTelFiberMiddleware(cfg.Server.Name))
	app.Use(middleware.AuditLogger())
	return app
}

// registerRoutes mounts the chat proxy for every verb so it can answer 405
// itself.
func registerRoutes(app *fiber.App, cfg config.Config, backend ai.Backend, version int64) {
	app.All(cfg.Server.ChatPath, ai_proxy.NewChatProxyHandler(backend, upstream.Params(cfg)))

	group := app.Group(fmt.Sprintf("/%s/api/v1", cfg.Server.Name))
	group.Get("/health", ai_proxy.NewHealthHandler(version, backend))
}
