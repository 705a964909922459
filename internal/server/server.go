package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/carousell/ct-go/pkg/logger"
	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nguyentranbao-ct/voice-bot/internal/config"
	pkgmdw "github.com/nguyentranbao-ct/voice-bot/internal/server/middleware"
	"go.uber.org/fx"
)

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	handler Controller,
	relay RelayController,
) {
	e := echo.New()
	e.Validator = pkgmdw.NewValidator()

	httpLog := logger.MustNamed("http")
	e.HTTPErrorHandler = pkgmdw.ErrorHandler(httpLog)

	logConfig := pkgmdw.LogRequestConfig{
		Logger: httpLog,
		Enabled: func(c echo.Context) bool {
			uri := c.Request().RequestURI
			return uri != "/health" && uri != "/metrics"
		},
	}

	e.Use(pkgmdw.Metrics())
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.CORS())
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw(c.Request().Context(), "PANIC RECOVER", "error", err, "stack", string(stack))
			return nil
		},
	}))

	e.GET("/health", handler.Health)

	// shared-dashboard relay surface, route names preserved from the
	// original cloud functions
	e.POST("/saveSharedDashboardAnalyticsHttp", relay.SaveSharedDashboardAnalytics)
	e.GET("/getUserDataHttp", relay.GetUserData)
	e.POST("/saveModeDashboardAnalyticsHttp", relay.SaveModeDashboardAnalytics)
	e.GET("/getModeUserDataHttp", relay.GetModeUserData)

	api := e.Group("/api/v1")
	api.POST("/profile", handler.CreateProfile)
	api.GET("/profile/:userId", handler.GetProfile)
	api.PUT("/profile/:userId", handler.UpdateProfile)
	api.PUT("/profile/:userId/modes/:mode", handler.UpdateModeSettings)
	api.GET("/profile/:userId/analytics", handler.GetModeAnalytics)
	api.POST("/profile/:userId/modes/:mode/provision", handler.ProvisionAgent)
	api.POST("/profile/:userId/modes/:mode/reprovision", handler.ReprovisionAgent)
	api.POST("/calls", handler.StartCall)
	api.POST("/calls/:callId/end", handler.EndCall)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow(ctx, "starting HTTP server", "addr", conf.Server.Addr)
				if err := e.Start(conf.Server.Addr); !errors.Is(err, http.ErrServerClosed) {
					sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}
