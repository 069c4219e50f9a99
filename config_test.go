package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	v := viper.New()
	setConfigDefaults(v)

	cfg, err := configFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:10000", cfg.Addr())
	assert.Equal(t, "sqlite:///quotedesk.db", cfg.DatabaseURI)
	assert.Equal(t, defaultSecretKey, cfg.SecretKey)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("SECRET_KEY", "from-env")
	t.Setenv("DATABASE_URI", "postgres://u:p@localhost/quotes")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example/")
	t.Setenv("CACHE_SIZE", "7")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.SecretKey)
	assert.Equal(t, "postgres://u:p@localhost/quotes", cfg.DatabaseURI)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 7, cfg.CacheSize)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"EmptySecret", "auth.secret_key", ""},
		{"ZeroTTL", "auth.session_ttl", "0s"},
		{"EmptyAdmin", "admin.username", "  "},
		{"ZeroCache", "cache.size", 0},
		{"ZeroRateLimit", "ratelimit.requests_per_minute", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			setConfigDefaults(v)
			v.Set(tt.key, tt.val)

			_, err := configFromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestDatabaseURIKinds(t *testing.T) {
	assert.True(t, isPostgresURI("postgres://localhost/db"))
	assert.True(t, isPostgresURI("postgresql://localhost/db"))
	assert.False(t, isPostgresURI("sqlite:///quotedesk.db"))
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "quotedesk.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", sqliteDSN("sqlite:///quotedesk.db"))
	assert.Equal(t, "/tmp/q.db?mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", sqliteDSN("sqlite:////tmp/q.db?mode=rwc"))
}
