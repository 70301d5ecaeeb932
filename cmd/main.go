package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	botsqlite "github.com/goserg/leaguerank/bot/botstorage/sqlite"
	"github.com/goserg/leaguerank/bot/tgbot"
	"github.com/goserg/leaguerank/internal/config"
	"github.com/goserg/leaguerank/internal/domain"
	"github.com/goserg/leaguerank/internal/events"
	"github.com/goserg/leaguerank/internal/ledger"
	"github.com/goserg/leaguerank/internal/logger"
	"github.com/goserg/leaguerank/internal/rating"
	"github.com/goserg/leaguerank/internal/registry"
	"github.com/goserg/leaguerank/internal/service"
	"github.com/goserg/leaguerank/internal/storage"
	"github.com/goserg/leaguerank/internal/storage/mem"
	"github.com/goserg/leaguerank/internal/storage/mongo"
	"github.com/goserg/leaguerank/internal/storage/postgres"
	"github.com/goserg/leaguerank/internal/storage/sqlite"
	"github.com/goserg/leaguerank/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "configs/league.toml", "league config file")
	flag.Parse()

	cfg, err := config.New(*configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := logger.New(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("storage %s: %w", cfg.Storage.Driver, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Error("storage close")
		}
	}()

	strategy, err := rating.New(rating.Kind(cfg.League.Strategy), cfg.League.InitialK, cfg.League.StandardK)
	if err != nil {
		return err
	}
	league := service.New(store, strategy, serviceConfig(cfg.League), log)

	if cfg.NATS.Enabled {
		feed, err := events.NewNATS(cfg.NATS.URL, cfg.NATS.Subject, log)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer feed.Close()
		league.Subscribe(feed)
	}

	if err := league.Load(ctx); err != nil {
		return fmt.Errorf("load league: %w", err)
	}

	if cfg.TgBot.Enabled {
		botStorage, err := botsqlite.New(log, cfg.TgBot)
		if err != nil {
			return fmt.Errorf("bot storage: %w", err)
		}
		defer botStorage.Close()
		bot, err := tgbot.New(league, botStorage, cfg.TgBot, cfg.Server.Debug, log)
		if err != nil {
			return err
		}
		league.Subscribe(bot)
		go bot.Run(ctx)
	}

	server := web.New(league, cfg.Server, log)
	go func() {
		<-ctx.Done()
		if err := server.Shutdown(); err != nil {
			log.WithError(err).Error("server shutdown")
		}
	}()
	log.WithField("addr", cfg.Server.Addr()).Info("league server started")
	return server.Serve()
}

func openStorage(ctx context.Context, cfg config.Storage, log *logrus.Logger) (storage.Storage, error) {
	switch cfg.Driver {
	case "memory":
		return mem.New(), nil
	case "postgres":
		return postgres.New(ctx, cfg.DSN, log)
	case "mongo":
		return mongo.New(ctx, cfg.DSN, cfg.Database, log)
	default:
		return sqlite.New(cfg.SQLiteFile, log)
	}
}

func serviceConfig(cfg config.League) service.Config {
	return service.Config{
		Title: cfg.Title,
		Registry: registry.Config{
			Defaults: domain.Defaults{
				Rating:     cfg.DefaultRating,
				Deviation:  rating.DefaultDeviation,
				Volatility: rating.DefaultVolatility,
			},
			SortBy:   registry.SortKey(cfg.SortBy),
			TieBreak: registry.TieBreak(cfg.TieBreak),
		},
		ReplayOrder:    ledger.Order(cfg.ReplayOrder),
		TeamScoring:    cfg.TeamScoring,
		DeletionPolicy: service.DeletionPolicy(cfg.PlayerDeletion),
	}
}
