// Package config loads console settings from the environment and an optional .env file.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config interface {
	EnvConfig
	APIConfig
	SessionConfig
	CorsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	API
	Session
	Cors
}

// Settings mirrors the raw keys read by viper. Tests build configs from it directly.
type Settings struct {
	Port              string `mapstructure:"PORT"`
	AppName           string `mapstructure:"APP_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	APIURL            string `mapstructure:"NEXUS_API_URL"`
	APIKey            string `mapstructure:"NEXUS_API_KEY"`
	HTTPTimeout       string `mapstructure:"HTTP_TIMEOUT"`
	ProbeTimeout      string `mapstructure:"PROBE_TIMEOUT"`
	SessionDir        string `mapstructure:"SESSION_DIR"`
	SessionSecret     string `mapstructure:"SESSION_SECRET"`
	SessionDefaultTTL string `mapstructure:"SESSION_DEFAULT_TTL"`
	AllowedOrigins    string `mapstructure:"ALLOWED_ORIGINS"`
}

// Load reads .env (if present), then the environment, and validates the result.
// Env vars override .env.
func Load() (Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // a missing .env is fine

	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_NAME", "Nexus")
	v.SetDefault("ENV", "DEV")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("NEXUS_API_URL", "https://localhost/api")
	v.SetDefault("NEXUS_API_KEY", "")
	v.SetDefault("HTTP_TIMEOUT", "15s")
	v.SetDefault("PROBE_TIMEOUT", "5s")
	v.SetDefault("SESSION_DIR", "./data/sessions")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_DEFAULT_TTL", "8h")
	v.SetDefault("ALLOWED_ORIGINS", "")

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, err
	}
	return FromSettings(s)
}

func FromSettings(s Settings) (Config, error) {
	if strings.TrimSpace(s.APIURL) == "" {
		return nil, errors.New("config: NEXUS_API_URL must be set")
	}
	if !strings.HasPrefix(s.APIURL, "http://") && !strings.HasPrefix(s.APIURL, "https://") {
		return nil, errors.New("config: NEXUS_API_URL must use http or https")
	}

	return mainConfig{
		EnvVars: EnvVars{
			port:     s.Port,
			appName:  s.AppName,
			env:      s.Env,
			logLevel: s.LogLevel,
		},
		API: API{
			baseURL:      strings.TrimRight(s.APIURL, "/"),
			apiKey:       s.APIKey,
			httpTimeout:  parseDuration(s.HTTPTimeout, 15*time.Second),
			probeTimeout: parseDuration(s.ProbeTimeout, 5*time.Second),
		},
		Session: Session{
			dir:        s.SessionDir,
			secret:     s.SessionSecret,
			defaultTTL: parseDuration(s.SessionDefaultTTL, 8*time.Hour),
		},
		Cors: Cors{origins: parseOrigins(s.AllowedOrigins)},
	}, nil
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
