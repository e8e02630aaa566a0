package main

import (
	"github.com/smallbiznis/biztime/internal/clock"
	"github.com/smallbiznis/biztime/internal/config"
	"github.com/smallbiznis/biztime/internal/migration"
	"github.com/smallbiznis/biztime/internal/observability"
	"github.com/smallbiznis/biztime/internal/server"
	"github.com/smallbiznis/biztime/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		migration.Module,
		clock.Module,
		server.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
	)
	app.Run()
}
