// Command migrate applies the schema and checks the database is reachable.
package main

import (
	"os"

	"github.com/gofiber/fiber/v2/log"
	"github.com/respir-app/respir-api/config"
	"github.com/respir-app/respir-api/database"
)

func main() {
	log.Info("=== GORM migration ===")

	if err := config.LoadENV(); err != nil {
		log.Errorw("Failed to load environment variables", "error", err)
		os.Exit(1)
	}
	env, err := config.Get()
	if err != nil {
		log.Errorw("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := database.StartGORM(env)
	if err != nil {
		log.Errorw("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Errorw("Failed to run migrations", "error", err)
		store.Close()
		os.Exit(1)
	}

	if err := store.HealthCheck(); err != nil {
		log.Errorw("Database health check failed", "error", err)
		store.Close()
		os.Exit(1)
	}

	log.Info("All migrations completed")
}
