package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return LoadWith(context.Background(), envconfig.MapLookuper(env))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t, map[string]string{"JWT_SECRET": "s3cr3t"})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "s3cr3t", cfg.JWT.Secret)
	assert.Equal(t, time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "weather-auth", cfg.JWT.Issuer)
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "weather_auth", cfg.Mongo.Database)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 10, cfg.LoginRatePerMinute)
}

func TestLoad_RequiresSecret(t *testing.T) {
	_, err := load(t, map[string]string{})
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(t, map[string]string{
		"JWT_SECRET":       "k",
		"JWT_TTL":          "15m",
		"ENV":              "production",
		"STORE_DRIVER":     "postgres",
		"POSTGRES_URL":     "postgres://u:p@db:5432/weather",
		"TOKEN_REVOCATION": "false",
	})
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.JWT.TTL)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_PostgresNeedsURL(t *testing.T) {
	_, err := load(t, map[string]string{"JWT_SECRET": "k", "STORE_DRIVER": "postgres"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_URL")
}

func TestLoad_UnknownDriver(t *testing.T) {
	_, err := load(t, map[string]string{"JWT_SECRET": "k", "STORE_DRIVER": "sqlite"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
}
