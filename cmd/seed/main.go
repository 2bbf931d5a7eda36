package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/respir-app/respir-api/config"
	"github.com/respir-app/respir-api/database"
	"gorm.io/gorm"
)

func main() {
	if err := config.LoadENV(); err != nil {
		log.Warnw("Failed to load .env, using system environment variables", "error", err)
	}

	env, err := config.Get()
	if err != nil {
		log.Errorw("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize database connection using GORM
	store, err := database.StartGORM(env)
	if err != nil {
		log.Errorw("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Errorw("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	gormDB := store.GetDB().(*gorm.DB)

	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("Respir - Demo catalog seeding")
	fmt.Println(separator)

	if err := database.NewSeeder(gormDB).SeedAll(); err != nil {
		log.Errorw("Seeding failed", "error", err)
		store.Close()
		os.Exit(1)
	}

	fmt.Println("Seeding completed. Running it again is a no-op.")
}
