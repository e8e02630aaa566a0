package db

import (
	"context"
	"fmt"

	"github.com/smallbiznis/biztime/internal/observability/logger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormprometheus "gorm.io/plugin/prometheus"
)

var Module = fx.Module("db",
	fx.Provide(NewConfig),
	fx.Provide(New),
)

type Params struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Config     Config
	GormLogger logger.GormLoggerConfig
	Log        *zap.Logger
	Tracer     *sdktrace.TracerProvider `optional:"true"`
}

// New opens the pool, attaches tracing and pool metrics, and closes it on shutdown.
func New(p Params) (*gorm.DB, error) {
	dialector, err := Dialect(p.Config)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.NewGormLogger(p.Log, p.GormLogger),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", p.Config.Type, err)
	}

	if err := Instrument(conn, p.Config, p.Tracer); err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(p.Config.MaxIdleConn)
	sqlDB.SetMaxOpenConns(p.Config.MaxOpenConn)
	sqlDB.SetConnMaxLifetime(p.Config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(p.Config.ConnMaxIdleTime)

	log := p.Log.Named("db")
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := sqlDB.PingContext(ctx); err != nil {
				return fmt.Errorf("ping database: %w", err)
			}
			log.Info("database connected", zap.String("type", p.Config.Type))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return sqlDB.Close()
		},
	})

	return conn, nil
}

// Instrument registers the otel span plugin and the prometheus pool stats plugin.
func Instrument(conn *gorm.DB, cfg Config, tp *sdktrace.TracerProvider) error {
	opts := []otelgorm.Option{
		otelgorm.WithDBName(databaseName(cfg)),
		otelgorm.WithoutQueryVariables(),
	}
	if tp != nil {
		opts = append(opts, otelgorm.WithTracerProvider(tp))
	}
	if err := conn.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("register tracing plugin: %w", err)
	}

	if err := conn.Use(gormprometheus.New(gormprometheus.Config{
		DBName:          databaseName(cfg),
		RefreshInterval: 15,
		StartServer:     false,
		Labels:          map[string]string{"dialect": cfg.Type},
	})); err != nil {
		return fmt.Errorf("register metrics plugin: %w", err)
	}
	return nil
}

func databaseName(cfg Config) string {
	if cfg.Type == DialectSQLite {
		return "sqlite"
	}
	if cfg.Name == "" {
		return "biztime"
	}
	return cfg.Name
}
