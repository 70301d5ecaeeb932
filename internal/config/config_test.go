package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "league.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNew(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 8080

[league]
title = "Chess club"
initial_k = 40
strategy = "glicko2"

[storage]
driver = "postgres"
dsn = "postgres://file"

[tgbot]
admin_ids = [1, 2]
`)
	t.Setenv("LEAGUE_STORAGE_DSN", "postgres://env")
	t.Setenv("TELEGRAM_APITOKEN", "")

	cfg, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, "Chess club", cfg.League.Title)
	assert.Equal(t, 40.0, cfg.League.InitialK)
	assert.Equal(t, 16.0, cfg.League.StandardK)
	assert.Equal(t, 1600.0, cfg.League.DefaultRating)
	assert.Equal(t, "glicko2", cfg.League.Strategy)
	assert.Equal(t, "postgres://env", cfg.Storage.DSN)
	assert.Equal(t, []int64{1, 2}, cfg.TgBot.AdminIDs)
	assert.Equal(t, "bot.sqlite", cfg.TgBot.SQLiteFile)
}

func TestNewErrors(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = New(writeConfig(t, `[league`))
	assert.Error(t, err)

	_, err = New(writeConfig(t, "[league]\nsort_by = \"elo\"\n"))
	assert.ErrorContains(t, err, "league.sort_by")
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr string
	}{
		{
			name:   "defaults",
			modify: func(c *Config) {},
		},
		{
			name:    "unknown driver",
			modify:  func(c *Config) { c.Storage.Driver = "redis" },
			wantErr: "storage.driver",
		},
		{
			name:    "unknown replay order",
			modify:  func(c *Config) { c.League.ReplayOrder = "random" },
			wantErr: "league.replay_order",
		},
		{
			name:    "zero k",
			modify:  func(c *Config) { c.League.StandardK = 0 },
			wantErr: "positive",
		},
		{
			name:    "floor above initial",
			modify:  func(c *Config) { c.League.StandardK = 40 },
			wantErr: "standard_k",
		},
		{
			name: "nrating with glicko2",
			modify: func(c *Config) {
				c.League.SortBy = "nrating"
				c.League.Strategy = "glicko2"
			},
			wantErr: "nrating",
		},
		{
			name:    "postgres without dsn",
			modify:  func(c *Config) { c.Storage.Driver = "postgres" },
			wantErr: "storage.dsn",
		},
		{
			name:    "bot without token",
			modify:  func(c *Config) { c.TgBot.Enabled = true },
			wantErr: "tgbot.token",
		},
		{
			name: "bot without storage file",
			modify: func(c *Config) {
				c.TgBot.Enabled = true
				c.TgBot.TelegramApiToken = "token"
				c.TgBot.SQLiteFile = ""
			},
			wantErr: "tgbot.sqlite_file",
		},
		{
			name: "memory",
			modify: func(c *Config) {
				c.Storage.Driver = "memory"
				c.Storage.SQLiteFile = ""
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
