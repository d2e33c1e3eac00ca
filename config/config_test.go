package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDevEnv(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("SECRET_KEY_ACCESS_TOKEN", "secret")
	t.Setenv("DEV_DB_HOST", "localhost")
	t.Setenv("DEV_DB_USER", "attendance")
	t.Setenv("DEV_DB_PASSWORD", "pw")
	t.Setenv("DEV_DB_NAME", "attendance")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setDevEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8083", cfg.Port)
	assert.Equal(t, 1440, cfg.AccessTokenMinutes)
	assert.Equal(t, "repeatable_read", cfg.DBIsolation)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "require", cfg.DB.SSLMode)
	assert.True(t, cfg.IsCronEnabled())
	assert.Equal(t, "host=localhost user=attendance password=pw dbname=attendance port=5432 sslmode=require TimeZone=UTC", cfg.DB.DSN())
}

func TestLoadReadsOverrides(t *testing.T) {
	setDevEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("ACCESS_TOKEN_MINUTES", "30")
	t.Setenv("CRON_ENABLED", "false")
	t.Setenv("DEV_DB_SSLMODE", "disable")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 30, cfg.AccessTokenMinutes)
	assert.False(t, cfg.IsCronEnabled())
	assert.Equal(t, "disable", cfg.DB.SSLMode)
}

func TestLoadRejectsBadInput(t *testing.T) {
	t.Run("unknown environment", func(t *testing.T) {
		setDevEnv(t)
		t.Setenv("ENV", "staging")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("missing secret", func(t *testing.T) {
		setDevEnv(t)
		t.Setenv("SECRET_KEY_ACCESS_TOKEN", "")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("bad number", func(t *testing.T) {
		setDevEnv(t)
		t.Setenv("ACCESS_TOKEN_MINUTES", "soon")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestConnectRedisWithoutAddress(t *testing.T) {
	rdb, err := ConnectRedis(context.Background(), Config{})
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}
