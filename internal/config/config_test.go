package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokarboss/manager-ya/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, config.SSLDisable, cfg.DB.SSLmode)
	assert.Equal(t, config.StoragePostgres, cfg.Storage)
	assert.Equal(t, config.SettingsPostgres, cfg.Settings)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, 100, cfg.DashboardLimit)
	assert.Empty(t, cfg.Telegram.Token)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("SETTINGS_BACKEND", "file")
	t.Setenv("SETTINGS_FILE", "/tmp/flags.yaml")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("DB_SSLMODE", "bogus")
	t.Setenv("TELEGRAM_BOT_TOKEN", "  123:abc  ")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StorageMemory, cfg.Storage)
	assert.Equal(t, config.SettingsFile, cfg.Settings)
	assert.Equal(t, "/tmp/flags.yaml", cfg.SettingsFile)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.Equal(t, config.SSLDisable, cfg.DB.SSLmode)
	assert.Equal(t, "123:abc", cfg.Telegram.Token)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad port":             {"DB_PORT": "abc"},
		"unknown driver":       {"STORAGE_DRIVER": "sqlite"},
		"redis without url":    {"SETTINGS_BACKEND": "redis"},
		"postgres flag memory": {"STORAGE_DRIVER": "memory"},
		"negative interval":    {"SWEEP_INTERVAL": "-1s"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
