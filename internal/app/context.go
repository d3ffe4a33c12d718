package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/fitmatch/engine/internal/cache"
	"github.com/fitmatch/engine/internal/config"
	"github.com/fitmatch/engine/internal/notify"
)

// AppContext holds shared dependencies (DB, Redis, Logger, Notifier, Config).
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	Notifier   notify.Notifier
	Config     *config.Config
}

// New creates a new AppContext.
func New(db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger, notifier notify.Notifier, cfg *config.Config) *AppContext {
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Notifier:   notifier,
		Config:     cfg,
	}
}
