package main

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/internal/kernel"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// bootDB opens the configured database.
func bootDB() (*gorm.DB, error) {
	db, err := database.Connect()
	if err != nil {
		return nil, err
	}
	logger.Debug("database connected", "driver", config.DatabaseDriver())
	return db, nil
}

const listenerWorkers = 4

// app is everything a long-running command needs.
type app struct {
	services *kernel.Services
	disks    *storage.Manager
	store    *repositories.Store
	redis    *cache.Redis
}

func (a *app) Close() {
	a.services.Events.Close()
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if sqlDB, err := a.store.DB().DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// bootApp connects the database, the optional Redis cache and the storage
// disks, then wires the services. A missing Redis is logged and the
// service runs uncached.
func bootApp(ctx context.Context) (*app, error) {
	db, err := bootDB()
	if err != nil {
		return nil, err
	}

	disks, err := storage.NewManager(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	a := &app{disks: disks, store: repositories.NewStore(db)}

	var c services.Cache
	if rc, err := cache.Connect(ctx); err != nil {
		logger.Warn("redis unavailable, running without cache", "error", err)
	} else {
		a.redis = rc
		c = rc
	}

	a.services = kernel.NewServices(kernel.Deps{
		Store:       a.store,
		Cache:       c,
		Disks:       disks,
		CacheTTL:    config.CacheTTL(),
		Placeholder: config.PlaceholderImage(),
		Events:      event.New(workerpool.New(listenerWorkers)),
	})
	return a, nil
}

func httpOptions() kernel.Options {
	return kernel.Options{
		ShopPageSize:       config.ShopPageSize(),
		CategoryPageSize:   config.CategoryPageSize(),
		DashboardPageSize:  config.DashboardPageSize(),
		RateLimitPerMinute: config.RateLimitPerMinute(),
		MediaPrefix:        config.StorageURL(),
	}
}
