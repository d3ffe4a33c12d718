package main

import (
	"context"

	"github.com/fitmatch/engine/internal/app"
	"github.com/fitmatch/engine/internal/cache"
	"github.com/fitmatch/engine/internal/config"
	"github.com/fitmatch/engine/internal/db"
	"github.com/fitmatch/engine/internal/logger"
	"github.com/fitmatch/engine/internal/notify"
	"github.com/fitmatch/engine/internal/repository"
	"github.com/fitmatch/engine/internal/server"
	"github.com/fitmatch/engine/internal/service/feed"
	"github.com/fitmatch/engine/internal/service/swipe"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	notifier := notify.NewRedisNotifier(redisCache, log)
	appCtx := app.New(database, redisCache, log, notifier, cfg)

	registrars := []server.Registrar{
		feed.NewRegistrar(appCtx),
		swipe.NewRegistrar(appCtx),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedDemoData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
		users := repository.NewUserRepository(database)
		if err := users.RefreshVerificationScores(context.Background()); err != nil {
			log.Error("failed to refresh verification scores", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting http server", "addr", addr)

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("http server stopped", "err", err)
	}
}
