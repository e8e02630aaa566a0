package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// RateLimitConfig is the token bucket policy applied to mutating routes.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Rate    float64 `mapstructure:"rate"`
	Burst   int     `mapstructure:"burst"`
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled: getenvBool("RATE_LIMIT_ENABLED", true),
		Rate:    5,
		Burst:   20,
	}
}

type RateLimitConfigHolder struct {
	current atomic.Value // holds RateLimitConfig
}

// NewStaticRateLimitConfigHolder returns a holder that never reloads.
func NewStaticRateLimitConfigHolder(cfg RateLimitConfig) *RateLimitConfigHolder {
	holder := &RateLimitConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

// NewRateLimitConfigHolder reads biztime.yml when present and watches it for changes.
func NewRateLimitConfigHolder(log *zap.Logger) (*RateLimitConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("biztime")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/biztime")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BIZTIME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultRateLimitConfig()
	v.SetDefault("ratelimit.enabled", defaults.Enabled)
	v.SetDefault("ratelimit.rate", defaults.Rate)
	v.SetDefault("ratelimit.burst", defaults.Burst)

	watch := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		watch = false
	}

	var cfg RateLimitConfig
	if err := v.UnmarshalKey("ratelimit", &cfg); err != nil {
		return nil, err
	}
	if err := validateRateLimitConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticRateLimitConfigHolder(cfg)
	if !watch {
		return holder, nil
	}

	log = log.Named("config")
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated RateLimitConfig
		if err := v.UnmarshalKey("ratelimit", &updated); err != nil {
			log.Warn("rate limit config reload failed", zap.Error(err))
			return
		}
		if err := validateRateLimitConfig(updated); err != nil {
			log.Warn("invalid rate limit config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("rate limit config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *RateLimitConfigHolder) Get() RateLimitConfig {
	return h.current.Load().(RateLimitConfig)
}

func validateRateLimitConfig(cfg RateLimitConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Rate <= 0 {
		return errors.New("ratelimit.rate must be positive")
	}
	if cfg.Burst <= 0 {
		return errors.New("ratelimit.burst must be positive")
	}
	return nil
}
