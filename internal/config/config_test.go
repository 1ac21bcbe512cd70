package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"PORT", "DATABASE_TYPE", "DATABASE_URL", "ADMIN_PASSWORD", "MEDIA_DIR",
	"MEDIA_BASE_URL", "PUBLIC_BASE_URL", "MAX_UPLOAD_BYTES", "LOG_LEVEL",
	"COUPLE_NAMES", "AMQP_URL", "WHATSAPP_ENABLED", "DEFAULT_COUNTRY_CODE",
}

// clearEnv blanks every key; t.Setenv restores the old values afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func missingFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(missingFile(t))
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, "data/wedding.db", cfg.DatabaseURL)
	assert.Equal(t, "", cfg.AdminPassword)
	assert.Equal(t, "/media", cfg.MediaBaseURL)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.False(t, cfg.WhatsAppEnabled)
	assert.Equal(t, "wedding.submissions", cfg.AMQPExchange)
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_TYPE", "Postgres")
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("WHATSAPP_ENABLED", "true")

	cfg, err := LoadConfig(missingFile(t))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, "hunter2", cfg.AdminPassword)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.True(t, cfg.WhatsAppEnabled)
}

func TestLoadConfigDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("COUPLE_NAMES")
	os.Unsetenv("ADMIN_PASSWORD")
	t.Setenv("PORT", "9000")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("COUPLE_NAMES=Anat & David\nADMIN_PASSWORD=fromfile\nPORT=1111\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Anat & David", cfg.CoupleNames)
	assert.Equal(t, "fromfile", cfg.AdminPassword)
	assert.Equal(t, "9000", cfg.Port)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"DATABASE_TYPE":    "mysql",
		"MAX_UPLOAD_BYTES": "lots",
		"WHATSAPP_ENABLED": "sometimes",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := LoadConfig(missingFile(t))
			assert.Error(t, err)
		})
	}
}
