package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment names recognised by the error formatter.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

var (
	ErrMissingDBPath    = errors.New("db.path (DB_PATH) is required")
	ErrMissingJWTSecret = errors.New("jwt.secret (JWT_SECRET) is required")
)

// Config is the process configuration, built once at startup and passed down explicitly.
type Config struct {
	Env      string
	LogLevel string
	HTTP     HTTP
	DB       DB
	JWT      JWT
	CORS     CORS
	Activity Activity
}

// HTTP holds the listener address and server timeouts.
type HTTP struct {
	Port              string
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

type DB struct {
	Path string
}

type JWT struct {
	Secret string
	TTL    time.Duration
}

type CORS struct {
	AllowedOrigin string
}

type Activity struct {
	Retention     time.Duration
	PruneSchedule string
}

// IsDevelopment reports whether detailed error messages may be returned to clients.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", EnvProduction)
	v.SetDefault("log.level", "info")
	v.SetDefault("port", "5000")
	v.SetDefault("http.read_header_timeout", "10s")
	v.SetDefault("http.write_timeout", "10s")
	v.SetDefault("http.idle_timeout", "60s")
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("cors.origin", "http://localhost:5000")
	v.SetDefault("activity.retention", "720h")
	v.SetDefault("activity.prune_schedule", "@hourly")
}

// bindEnv maps flat environment variable names onto the nested config keys.
func bindEnv(v *viper.Viper) error {
	for key, env := range map[string]string{
		"app.env":                 "APP_ENV",
		"log.level":               "LOG_LEVEL",
		"port":                    "PORT",
		"http.write_timeout":      "HTTP_WRITE_TIMEOUT",
		"db.path":                 "DB_PATH",
		"jwt.secret":              "JWT_SECRET",
		"jwt.ttl":                 "JWT_TTL",
		"cors.origin":             "CORS_ORIGIN",
		"activity.retention":      "ACTIVITY_RETENTION",
		"activity.prune_schedule": "ACTIVITY_PRUNE_SCHEDULE",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind env %s: %w", env, err)
		}
	}
	return nil
}

// Load reads configs/config.yml (optional) from the given search paths and overlays
// environment variables. Required settings missing from both sources are an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:      strings.ToLower(strings.TrimSpace(v.GetString("app.env"))),
		LogLevel: strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
		HTTP: HTTP{
			Port:              v.GetString("port"),
			ReadHeaderTimeout: v.GetDuration("http.read_header_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
		},
		DB: DB{Path: strings.TrimSpace(v.GetString("db.path"))},
		JWT: JWT{
			Secret: v.GetString("jwt.secret"),
			TTL:    v.GetDuration("jwt.ttl"),
		},
		CORS: CORS{AllowedOrigin: v.GetString("cors.origin")},
		Activity: Activity{
			Retention:     v.GetDuration("activity.retention"),
			PruneSchedule: v.GetString("activity.prune_schedule"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on settings the server cannot start without.
func (c *Config) Validate() error {
	if c.DB.Path == "" {
		return ErrMissingDBPath
	}
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return ErrMissingJWTSecret
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("jwt.ttl must be positive, got %s", c.JWT.TTL)
	}
	if c.Activity.Retention <= 0 {
		return fmt.Errorf("activity.retention must be positive, got %s", c.Activity.Retention)
	}
	return nil
}
