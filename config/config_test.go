package config

import (
	"testing"
	"time"

	v "github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset(t *testing.T) {
	t.Helper()

	v.Reset()
	t.Cleanup(v.Reset)
	bind()
}

func TestLoadDefaults(t *testing.T) {
	reset(t)

	require.NoError(t, validate())

	cfg := Load()
	assert.Equal(t, "Pathfinder AI Guide - Backend", cfg.AppName)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "pathfinder.db", cfg.DatabaseURL)
	assert.Equal(t, "./uploads", cfg.Upload.Dir)
	assert.Equal(t, int64(16<<20), cfg.Upload.MaxSize)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 15*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Empty(t, cfg.AI.APIKey)
	assert.False(t, cfg.Admin.Enabled())
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8080"}, cfg.CORSOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	reset(t)

	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/guide")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("UPLOAD_FOLDER", "/srv/uploads")
	t.Setenv("PORT", "8081")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ADMIN_USERNAME", "root")
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("HOST_CORS", "https://a.example, https://b.example,")

	require.NoError(t, validate())

	cfg := Load()
	assert.Equal(t, "postgres://u:p@localhost:5432/guide", cfg.DatabaseURL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "/srv/uploads", cfg.Upload.Dir)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.True(t, cfg.Admin.Enabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad log level", map[string]string{"APP_LOG_LEVEL": "loud"}},
		{"bad port", map[string]string{"PORT": "0"}},
		{"bad storage", map[string]string{"STORAGE_TYPE": "ftp"}},
		{"s3 without bucket", map[string]string{"STORAGE_TYPE": "s3"}},
		{"zero upload size", map[string]string{"UPLOAD_MAX_SIZE": "0"}},
		{"mail without host", map[string]string{"MAIL_ENABLED": "true"}},
		{"negative rate limit", map[string]string{"SECURITY_RATE_LIMIT": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reset(t)
			for k, val := range tt.env {
				t.Setenv(k, val)
			}

			assert.Error(t, validate())
		})
	}
}
