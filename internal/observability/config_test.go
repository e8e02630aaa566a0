package observability

import (
	"testing"
	"time"

	"github.com/smallbiznis/biztime/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("OTEL_SAMPLING_RATIO", "7")
	t.Setenv("DEPLOYMENT_ENV", "")
	t.Setenv("DB_SLOW_QUERY_MS", "abc")

	cfg := LoadConfig(config.Config{AppName: "", Environment: "production", OTLPEndpoint: "collector:4317"})
	assert.Equal(t, "biztime", cfg.ServiceName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.OtelEnabled)
	assert.Equal(t, "collector:4317", cfg.OtelExporterEndpoint)
	assert.Equal(t, 1.0, cfg.OtelSamplingRatio)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThreshold)
	assert.False(t, cfg.Debug())
}

func TestDebug(t *testing.T) {
	assert.True(t, Config{LogLevel: "DEBUG", Environment: "production"}.Debug())
	assert.True(t, Config{LogLevel: "info", Environment: "test"}.Debug())
	assert.False(t, Config{LogLevel: "warn", Environment: "staging"}.Debug())
}
