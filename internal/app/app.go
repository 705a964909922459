package app

import (
	"context"

	"github.com/carousell/ct-go/pkg/logger"
	"github.com/nguyentranbao-ct/voice-bot/internal/config"
	"github.com/nguyentranbao-ct/voice-bot/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/voice-bot/internal/repo/retell"
	"github.com/nguyentranbao-ct/voice-bot/internal/server"
	"github.com/nguyentranbao-ct/voice-bot/internal/usecase"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	log.Debugw("config loaded", log.Reflect("config", conf))
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newMongoDB,

			server.NewController,
			server.NewRelayController,

			usecase.NewAgentProvisioner,
			usecase.NewCallAnalytics,
			usecase.NewCallSessions,

			mongodb.NewUserProfileRepository,

			retell.NewClient,
		),
		fx.Supply(conf),
		fx.Invoke(drainSessionsOnStop),
		fx.Invoke(funcs...),
	)
}

// drainSessionsOnStop waits for in-flight analytics retrievals before
// the process exits, so an ended call is not silently dropped.
func drainSessionsOnStop(lc fx.Lifecycle, sessions usecase.CallSessions) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sessions.Shutdown()
			return nil
		},
	})
}
