package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("ACCESS_TTL", "")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.StoreBackend)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.DisplayRefresh)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("ACCESS_TTL", "5m")
	t.Setenv("RATE_LIMIT_PER_MIN", "42")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, 5*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 42, cfg.RateLimitPerMin)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ACCESS_TTL", "soon")
	t.Setenv("RATE_LIMIT_PER_MIN", "many")

	cfg := Load()

	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMin)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*App)
		wantErr bool
	}{
		{name: "memory store", mutate: func(a *App) { a.StoreBackend = "memory" }},
		{name: "unknown store", mutate: func(a *App) { a.StoreBackend = "mongo" }, wantErr: true},
		{name: "unknown queue", mutate: func(a *App) { a.QueueBackend = "kafka" }, wantErr: true},
		{name: "prod with dev key", mutate: func(a *App) { a.Env = "production" }, wantErr: true},
		{name: "prod with real key", mutate: func(a *App) { a.Env = "prod"; a.JWTSigningKey = "s3cret" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := App{StoreBackend: "postgres", QueueBackend: "redis", JWTSigningKey: "dev-signing-secret-change"}
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
