package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_URL", "MONGO_URI", "DB_NAME", "DB_MAX_OPEN_CONNS",
		"DB_CONNECT_TIMEOUT", "CORS_ORIGINS", "ADMIN_JWT_SECRET", "LOG_FORMAT", "ENV",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/portfolio?sslmode=disable")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "portfolio", cfg.Database.Name)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Second, cfg.Database.ConnectTimeout)
	assert.True(t, cfg.CORS.AllowAll())
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestFromEnvMongoAlias(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URL)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "mongodb+srv://cluster.example.net")
	t.Setenv("PORT", "8081")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DB_CONNECT_TIMEOUT", "2s")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("ENV", "development")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.CORS.AllowAll())
	assert.Equal(t, 2*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, "pretty", cfg.Log.Format)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing connection string", env: map[string]string{}},
		{name: "unknown scheme", env: map[string]string{"DATABASE_URL": "mysql://localhost/db"}},
		{name: "non-numeric port", env: map[string]string{"DATABASE_URL": "postgres://localhost/db", "PORT": "http"}},
		{name: "origin without scheme", env: map[string]string{"DATABASE_URL": "postgres://localhost/db", "CORS_ORIGINS": "portfolio.example"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
