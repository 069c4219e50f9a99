package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultSecretKey = "your-secret-key"

// Config holds application configuration
type Config struct {
	Host        string
	Port        string
	DatabaseURI string
	Debug       bool

	SecretKey    string
	SessionTTL   time.Duration
	CookieSecure bool

	AdminUsername string
	AdminPassword string

	CacheSize int
	CacheTTL  time.Duration

	RateLimitPerMinute int
	AllowedOrigins     []string
}

var appConfig *Config

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "10000")
	v.SetDefault("database.uri", "sqlite:///quotedesk.db")
	v.SetDefault("debug", false)

	v.SetDefault("auth.secret_key", defaultSecretKey)
	v.SetDefault("auth.session_ttl", "168h")
	v.SetDefault("auth.cookie_secure", false)

	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "")

	v.SetDefault("cache.size", 128)
	v.SetDefault("cache.ttl", "1m")

	v.SetDefault("ratelimit.requests_per_minute", 30)
	v.SetDefault("cors.allowed_origins", "*")
}

// loadConfig reads .env, an optional config.toml in the working directory and
// the environment, in increasing order of precedence.
func loadConfig() (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	setConfigDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database.uri", "DATABASE_URI", "DATABASE_URL")
	_ = v.BindEnv("auth.secret_key", "SECRET_KEY")
	_ = v.BindEnv("server.port", "PORT")

	return configFromViper(v)
}

func configFromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Host:               v.GetString("server.host"),
		Port:               v.GetString("server.port"),
		DatabaseURI:        v.GetString("database.uri"),
		Debug:              v.GetBool("debug"),
		SecretKey:          v.GetString("auth.secret_key"),
		SessionTTL:         v.GetDuration("auth.session_ttl"),
		CookieSecure:       v.GetBool("auth.cookie_secure"),
		AdminUsername:      strings.TrimSpace(v.GetString("admin.username")),
		AdminPassword:      v.GetString("admin.password"),
		CacheSize:          v.GetInt("cache.size"),
		CacheTTL:           v.GetDuration("cache.ttl"),
		RateLimitPerMinute: v.GetInt("ratelimit.requests_per_minute"),
		AllowedOrigins:     splitOrigins(v.GetStringSlice("cors.allowed_origins")),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return errors.New("server.port must be set")
	}
	if c.DatabaseURI == "" {
		return errors.New("database.uri must be set")
	}
	if c.SecretKey == "" {
		return errors.New("auth.secret_key must be set")
	}
	if c.SessionTTL <= 0 {
		return errors.New("auth.session_ttl must be positive")
	}
	if c.AdminUsername == "" {
		return errors.New("admin.username must be set")
	}
	if c.CacheSize <= 0 || c.CacheTTL <= 0 {
		return errors.New("cache.size and cache.ttl must be positive")
	}
	if c.RateLimitPerMinute <= 0 {
		return errors.New("ratelimit.requests_per_minute must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func (c *Config) warnInsecureDefaults() {
	if c.SecretKey == defaultSecretKey {
		color.Yellow("WARN: auth.secret_key is the development default, set SECRET_KEY before deploying")
	}
	if c.AdminPassword == "" {
		color.Yellow("WARN: admin.password is empty, the %q account will not be seeded", c.AdminUsername)
	}
}

// splitOrigins accepts both a TOML array and a comma separated env value
func splitOrigins(raw []string) []string {
	var origins []string
	for _, entry := range raw {
		for _, p := range strings.Split(entry, ",") {
			p = strings.TrimRight(strings.TrimSpace(p), "/")
			if p != "" {
				origins = append(origins, p)
			}
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
