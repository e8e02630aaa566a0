package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRateLimitConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RateLimitConfig
		wantErr bool
	}{
		{name: "disabled ignores values", cfg: RateLimitConfig{Enabled: false}},
		{name: "valid", cfg: RateLimitConfig{Enabled: true, Rate: 1, Burst: 1}},
		{name: "zero rate", cfg: RateLimitConfig{Enabled: true, Rate: 0, Burst: 1}, wantErr: true},
		{name: "zero burst", cfg: RateLimitConfig{Enabled: true, Rate: 1, Burst: 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRateLimitConfig(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestStaticRateLimitConfigHolder(t *testing.T) {
	holder := NewStaticRateLimitConfigHolder(RateLimitConfig{Enabled: true, Rate: 2, Burst: 4})
	got := holder.Get()
	assert.True(t, got.Enabled)
	assert.Equal(t, 2.0, got.Rate)
	assert.Equal(t, 4, got.Burst)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_TYPE", "SQLite")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("DATABASE_MAX_OPEN_CONN", "not-a-number")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 20, cfg.DBMaxOpenConn)
}
