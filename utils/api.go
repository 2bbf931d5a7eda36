package utils

import (
	fiber "github.com/gofiber/fiber/v2"
	"github.com/respir-app/respir-api/database"
	"github.com/respir-app/respir-api/utils/response"
)

// MakeHTTPHandleFunc adapts a handler that needs the store to a fiber.Handler.
// Errors it returns are rendered in the standard envelope.
func MakeHTTPHandleFunc(handler func(c *fiber.Ctx, store database.Storage) error, store database.Storage) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		if err := handler(c, store); err != nil {
			return response.FromError(c, err, "Internal server error")
		}
		return nil
	}
}
