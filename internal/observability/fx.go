package observability

import (
	"github.com/smallbiznis/biztime/internal/observability/logger"
	"github.com/smallbiznis/biztime/internal/observability/metrics"
	"github.com/smallbiznis/biztime/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module wires the logger, the gorm query logger, tracing and the
// biztime business and HTTP metrics from a single Config.
var Module = fx.Module("observability",
	fx.Provide(LoadConfig),
	loggingModule,
	tracingModule,
	metricsModule,
	fx.Invoke(logSetup),
)

var loggingModule = fx.Options(
	fx.Provide(loggerConfig, logger.New),
	fx.Provide(gormLoggerConfig),
)

var tracingModule = fx.Options(
	fx.Provide(tracingConfig, tracing.NewProvider),
)

var metricsModule = fx.Options(
	fx.Provide(metricsConfig, metrics.NewProvider),
	fx.Provide(metrics.New, metrics.NewHTTPMetrics),
)

func loggerConfig(cfg Config) logger.Config {
	return logger.Config{
		ServiceName:         cfg.ServiceName,
		Environment:         cfg.Environment,
		Version:             cfg.Version,
		Level:               cfg.LogLevel,
		Format:              cfg.LogFormat,
		Debug:               cfg.Debug(),
		IncludeCaller:       true,
		IncludeStackOnError: cfg.Debug(),
	}
}

// gormLoggerConfig logs every statement in debug mode, otherwise only
// errors and statements slower than SlowQueryThreshold.
func gormLoggerConfig(cfg Config) logger.GormLoggerConfig {
	gormCfg := logger.DefaultGormLoggerConfig(cfg.Debug())
	if cfg.SlowQueryThreshold > 0 {
		gormCfg.SlowThreshold = cfg.SlowQueryThreshold
	}
	return gormCfg
}

func tracingConfig(cfg Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.OtelEnabled,
		ServiceName:      cfg.ServiceName,
		ServiceVersion:   cfg.Version,
		Environment:      cfg.Environment,
		ExporterEndpoint: cfg.OtelExporterEndpoint,
		ExporterProtocol: cfg.OtelExporterProtocol,
		SamplingRatio:    cfg.OtelSamplingRatio,
	}
}

func metricsConfig(cfg Config) metrics.Config {
	return metrics.Config{
		Enabled:          cfg.OtelEnabled,
		ExporterEndpoint: cfg.OtelExporterEndpoint,
		ExporterProtocol: cfg.OtelExporterProtocol,
		ServiceName:      cfg.ServiceName,
		Environment:      cfg.Environment,
	}
}

// logSetup forces the tracer provider to be built at startup and records
// which exporters are active.
func logSetup(cfg Config, log *zap.Logger, _ *sdktrace.TracerProvider) {
	fields := []zap.Field{
		zap.String("service", cfg.ServiceName),
		zap.String("env", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
		zap.Bool("otel_enabled", cfg.OtelEnabled),
	}
	if cfg.OtelEnabled {
		fields = append(fields,
			zap.String("otel_endpoint", cfg.OtelExporterEndpoint),
			zap.String("otel_protocol", cfg.OtelExporterProtocol),
			zap.Float64("otel_sampling_ratio", cfg.OtelSamplingRatio),
		)
	}
	log.Named("observability").Info("observability configured", fields...)
}
