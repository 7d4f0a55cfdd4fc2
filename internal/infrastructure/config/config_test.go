package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "tripled-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenExpiration)
	assert.Equal(t, 10, cfg.JWT.MaxRefreshCount)
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Auth.LockDuration)
	assert.Equal(t, 5*time.Minute, cfg.Cache.BalanceTTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 1<<20, cfg.HTTP.MaxHeaderBytes)
	assert.Equal(t, int64(1<<20), cfg.HTTP.MaxBodyBytes)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.App.Port = "9090"
	cfg.JWT.MaxRefreshCount = 3
	cfg.Auth.MaxLoginAttempts = 10

	applyDefaults(cfg)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 3, cfg.JWT.MaxRefreshCount)
	assert.Equal(t, 10, cfg.Auth.MaxLoginAttempts)
}

func TestValidate_ConnectionPool(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Database.MaxIdleConns = 50
	cfg.Database.MaxOpenConns = 25

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_idle_conns")
}

func TestValidate_Production(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.App.Env = "production"
		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		return cfg
	}

	require.NoError(t, base().validate())

	t.Run("short jwt secret", func(t *testing.T) {
		cfg := base()
		cfg.JWT.Secret = "short"
		require.Error(t, cfg.validate())
	})

	t.Run("missing database password", func(t *testing.T) {
		cfg := base()
		cfg.Database.Password = ""
		require.Error(t, cfg.validate())
	})

	t.Run("ssl disabled", func(t *testing.T) {
		cfg := base()
		cfg.Database.SSLMode = "disable"
		require.Error(t, cfg.validate())
	})

	t.Run("wildcard cors origin", func(t *testing.T) {
		cfg := base()
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		require.Error(t, cfg.validate())
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "tripled",
		Password: "p@ss:word/1",
		DBName:   "tripled",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password must be escaped.
	assert.NotContains(t, dsn, "p@ss:word/1")
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", r.Addr())
}
