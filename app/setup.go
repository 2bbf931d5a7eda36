package app

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/respir-app/respir-api/api"
	"github.com/respir-app/respir-api/config"
	"github.com/respir-app/respir-api/database"
	"github.com/respir-app/respir-api/router"
	"github.com/respir-app/respir-api/services/cron"
	"github.com/respir-app/respir-api/services/storage"
	"github.com/respir-app/respir-api/utils/cache"
	"gorm.io/gorm"
)

func SetupAndRunServer(ctx context.Context) error {
	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	env, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM(env)
	if err != nil {
		log.Errorw("Failed to connect to PostgreSQL; check DATABASE_URL or the DB_* variables", "error", err)
		return err
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Errorw("Failed to run migrations", "error", err)
		return err
	}

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return fmt.Errorf("unexpected database handle %T", store.GetDB())
	}

	if env.AUTO_SEED {
		if err := database.NewSeeder(db).SeedAll(); err != nil {
			return fmt.Errorf("seed demo catalog: %w", err)
		}
		log.Info("Demo catalog seeded")
	}

	// Initialize Cron Manager (only if enabled)
	if env.CRON_ENABLED {
		cronManager := cron.NewCronManager(db)
		if err := cronManager.Start(); err != nil {
			// Don't fail the app, just log the warning
			log.Warnw("Failed to start cron jobs", "error", err)
		} else {
			defer cronManager.Stop()
		}
	}

	opts := router.Options{Config: env}

	if env.REDIS_URL != "" {
		redisCache, err := cache.NewRedisCache(env.REDIS_URL)
		if err != nil {
			log.Warnw("Failed to connect to Redis; rate limit counters stay in memory", "error", err)
		} else {
			defer redisCache.Close()
			opts.LimiterStorage = redisCache.LimiterStorage("respir:limiter:")
		}
	}

	if env.AudioStorageConfigured() {
		audioStore, err := storage.NewAudioStore(storage.ConfigFromEnv(env))
		if err != nil {
			log.Warnw("Failed to configure audio storage", "error", err)
		} else {
			opts.AudioStore = audioStore
		}
	}

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", env.PORT), env.APP_NAME)
	if err := router.SetupRoutes(server.GetEngine(), store, opts); err != nil {
		return err
	}

	return server.Run(ctx)
}
