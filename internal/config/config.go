package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Config holds the runtime settings of the calculator service, read from
// the environment.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB"`
	SessionTTL    time.Duration `env:"SESSION_TTL"`
	SessionPrefix string        `env:"SESSION_PREFIX"`

	DisplayWidth int `env:"CALC_DISPLAY_WIDTH"`
	PreviewWidth int `env:"CALC_PREVIEW_WIDTH"`

	OTelLogsEnabled bool `env:"OTEL_LOGS_ENABLED"`
}

func Default() Config {
	return Config{
		HTTPAddr:        ":8080",
		ShutdownTimeout: 5 * time.Second,
		SessionTTL:      24 * time.Hour,
		SessionPrefix:   "calculator:session:",
		DisplayWidth:    16,
		PreviewWidth:    24,
	}
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return FromEnviron(os.Environ())
}

// FromEnviron decodes KEY=VALUE pairs over the defaults. Empty values keep
// the default.
func FromEnviron(environ []string) (Config, error) {
	values := make(map[string]string, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" {
			continue
		}
		values[key] = value
	}

	cfg := Default()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "env",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, fmt.Errorf("build config decoder: %w", err)
	}

	if err := decoder.Decode(values); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if c.DisplayWidth <= 0 {
		return fmt.Errorf("CALC_DISPLAY_WIDTH must be positive, got %d", c.DisplayWidth)
	}
	if c.PreviewWidth <= 0 {
		return fmt.Errorf("CALC_PREVIEW_WIDTH must be positive, got %d", c.PreviewWidth)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL must not be negative, got %s", c.SessionTTL)
	}
	return nil
}

// UseRedis reports whether sessions go to Redis rather than memory.
func (c Config) UseRedis() bool {
	return c.RedisAddr != ""
}
