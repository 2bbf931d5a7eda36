package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/respir-app/respir-api/database"
)

// HealthStatus is the liveness report; it is not wrapped in the response envelope
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HandleCheckHealth always answers 200; database reachability is reported in the body.
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	status := HealthStatus{Status: "ok", Database: "ok"}
	if err := store.HealthCheck(); err != nil {
		log.Warnw("database health check failed", "error", err)
		status.Database = "unavailable"
	}
	return c.Status(fiber.StatusOK).JSON(status)
}
