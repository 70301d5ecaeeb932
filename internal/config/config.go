package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Server struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Debug    bool   `toml:"debug"`
	LogLevel string `toml:"log_level"`
}

func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type League struct {
	Title          string  `toml:"title"`
	DefaultRating  float64 `toml:"default_rating"`
	InitialK       float64 `toml:"initial_k"`
	StandardK      float64 `toml:"standard_k"`
	SortBy         string  `toml:"sort_by"`
	TieBreak       string  `toml:"tie_break"`
	TeamScoring    bool    `toml:"team_scoring"`
	PlayerDeletion string  `toml:"player_deletion"`
	ReplayOrder    string  `toml:"replay_order"`
	Strategy       string  `toml:"strategy"`
}

type Storage struct {
	Driver     string `toml:"driver"`
	SQLiteFile string `toml:"sqlite_file"`
	DSN        string `toml:"dsn"`
	Database   string `toml:"database"`
}

type NATS struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Subject string `toml:"subject"`
}

type TgBot struct {
	Enabled          bool    `toml:"enabled"`
	TelegramApiToken string  `toml:"token"`
	AdminIDs         []int64 `toml:"admin_ids"`
	SQLiteFile       string  `toml:"sqlite_file"`
}

type Config struct {
	Server  Server  `toml:"server"`
	League  League  `toml:"league"`
	Storage Storage `toml:"storage"`
	NATS    NATS    `toml:"nats"`
	TgBot   TgBot   `toml:"tgbot"`
}

func Default() Config {
	return Config{
		Server: Server{
			Host:     "127.0.0.1",
			Port:     3000,
			LogLevel: "info",
		},
		League: League{
			Title:          "League",
			DefaultRating:  1600,
			InitialK:       30,
			StandardK:      16,
			SortBy:         "rating",
			TieBreak:       "insertion",
			PlayerDeletion: "deactivate",
			ReplayOrder:    "chronological",
			Strategy:       "elo",
		},
		Storage: Storage{
			Driver:     "sqlite",
			SQLiteFile: "league.sqlite",
			Database:   "league",
		},
		NATS: NATS{
			URL:     "nats://127.0.0.1:4222",
			Subject: "league",
		},
		TgBot: TgBot{
			SQLiteFile: "bot.sqlite",
		},
	}
}

// New reads the config file over the defaults. Variables from .env are
// loaded first and take precedence over the file.
func New(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if dsn := os.Getenv("LEAGUE_STORAGE_DSN"); dsn != "" {
		c.Storage.DSN = dsn
	}
	if token := os.Getenv("TELEGRAM_APITOKEN"); token != "" {
		c.TgBot.TelegramApiToken = token
	}
	if url := os.Getenv("LEAGUE_NATS_URL"); url != "" {
		c.NATS.URL = url
	}
}

func (c Config) Validate() error {
	var errs []error
	oneOf := func(field, value string, allowed ...string) {
		for _, a := range allowed {
			if value == a {
				return
			}
		}
		errs = append(errs, fmt.Errorf("%s: unknown value %q, want one of %v", field, value, allowed))
	}

	l := c.League
	oneOf("league.sort_by", l.SortBy, "rating", "nrating")
	oneOf("league.tie_break", l.TieBreak, "insertion", "name")
	oneOf("league.player_deletion", l.PlayerDeletion, "deactivate", "cascade")
	oneOf("league.replay_order", l.ReplayOrder, "chronological", "insertion")
	oneOf("league.strategy", l.Strategy, "elo", "glicko2")
	oneOf("storage.driver", c.Storage.Driver, "memory", "sqlite", "postgres", "mongo")

	if l.DefaultRating <= 0 {
		errs = append(errs, errors.New("league.default_rating must be positive"))
	}
	if l.InitialK <= 0 || l.StandardK <= 0 {
		errs = append(errs, errors.New("league k factors must be positive"))
	}
	if l.StandardK > l.InitialK {
		errs = append(errs, errors.New("league.standard_k must not exceed league.initial_k"))
	}
	if l.SortBy == "nrating" && l.Strategy == "glicko2" {
		errs = append(errs, errors.New("league.sort_by nrating is not tracked by glicko2"))
	}

	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.SQLiteFile == "" {
			errs = append(errs, errors.New("storage.sqlite_file is required for sqlite"))
		}
	case "postgres", "mongo":
		if c.Storage.DSN == "" {
			errs = append(errs, fmt.Errorf("storage.dsn is required for %s", c.Storage.Driver))
		}
	}
	if c.TgBot.Enabled && c.TgBot.TelegramApiToken == "" {
		errs = append(errs, errors.New("tgbot.token is required when the bot is enabled"))
	}
	if c.TgBot.Enabled && c.TgBot.SQLiteFile == "" {
		errs = append(errs, errors.New("tgbot.sqlite_file is required when the bot is enabled"))
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, errors.New("nats.url is required when nats is enabled"))
	}
	return errors.Join(errs...)
}
